package database

import (
	"fmt"
	"strings"

	"github.com/sangkips/salonpro-api/internal/config"
	"github.com/sangkips/salonpro-api/internal/domain/entity"
	"github.com/sangkips/salonpro-api/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)

	log.Info("Connected to PostgreSQL",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Name),
	)
	return db, nil
}

// Models lists every persisted entity in migration order
func Models() []interface{} {
	return []interface{}{
		&entity.User{},
		&entity.Role{},
		&entity.Permission{},

		&entity.InventoryCategory{},
		&entity.InventoryItem{},
		&entity.InventoryTransaction{},
		&entity.Sale{},
		&entity.SaleItem{},
		&entity.Alert{},

		&entity.Worker{},
		&entity.Customer{},
		&entity.Service{},

		&entity.IdempotencyKey{},
	}
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("Running database migrations")

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations completed")
	return nil
}

// Permissions granted by role
var (
	AllPermissions = []string{
		"view-dashboard",
		"manage-inventory",
		"manage-sales",
		"manage-workers",
		"manage-customers",
		"view-reports",
		"manage-users",
	}

	rolePermissions = map[string][]string{
		"super-admin": AllPermissions,
		"admin":       AllPermissions,
		"staff":       {"view-dashboard", "manage-inventory", "manage-sales", "manage-customers"},
		"user":        {"view-dashboard"},
	}

	roleOrder = []string{"super-admin", "admin", "staff", "user"}
)

// SeedDefaultData creates permissions, roles and, when configured, the
// first super-admin account. It is safe to run repeatedly.
func SeedDefaultData(db *gorm.DB, admin config.AdminConfig, log *zap.Logger) error {
	log.Info("Seeding default data")

	byName := make(map[string]entity.Permission, len(AllPermissions))
	for _, name := range AllPermissions {
		perm := entity.Permission{Name: name, GuardName: "web"}
		if err := db.Where(entity.Permission{Name: name}).FirstOrCreate(&perm).Error; err != nil {
			return fmt.Errorf("seed permission %s: %w", name, err)
		}
		byName[name] = perm
	}

	for _, roleName := range roleOrder {
		var perms []entity.Permission
		for _, name := range rolePermissions[roleName] {
			perms = append(perms, byName[name])
		}

		role := entity.Role{Name: roleName, GuardName: "web"}
		if err := db.Where(entity.Role{Name: roleName}).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", roleName, err)
		}
		if err := db.Model(&role).Association("Permissions").Replace(perms); err != nil {
			return fmt.Errorf("seed role %s permissions: %w", roleName, err)
		}
	}

	if admin.Email == "" || admin.Password == "" {
		log.Info("Default data seeding completed")
		return nil
	}

	var count int64
	if err := db.Model(&entity.User{}).Where("email = ?", admin.Email).Count(&count).Error; err != nil {
		return fmt.Errorf("check admin user: %w", err)
	}
	if count > 0 {
		log.Info("Super admin user already exists", zap.String("email", admin.Email))
		return nil
	}

	hashed, err := utils.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	var superAdmin entity.Role
	if err := db.Where("name = ?", "super-admin").First(&superAdmin).Error; err != nil {
		return fmt.Errorf("load super-admin role: %w", err)
	}

	name := admin.Name
	if name == "" {
		name = "Super Admin"
	}
	firstName, lastName, _ := strings.Cut(name, " ")

	user := entity.User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     admin.Email,
		Password:  hashed,
		IsActive:  true,
		Roles:     []entity.Role{superAdmin},
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("create super admin: %w", err)
	}

	log.Info("Super admin user created", zap.String("email", admin.Email))
	return nil
}
