package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/internal/app"
	"github.com/sangkips/salonpro-api/internal/application/service"
	"github.com/sangkips/salonpro-api/internal/domain/entity"
	"github.com/sangkips/salonpro-api/internal/domain/enum"
	"github.com/sangkips/salonpro-api/internal/domain/repository"
	"github.com/sangkips/salonpro-api/pkg/apperror"
	"github.com/sangkips/salonpro-api/pkg/pagination"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// SeedFile is the layout of a seed document.
//
//	categories: [Hair Care]
//	items:
//	  - {name: Shampoo, sku: SH-500, category: Hair Care, stock: 12, unit_price: 8.5}
//	workers:
//	  - {name: Amina, role: Stylist, commission_rate: 10}
//	customers:
//	  - {name: Grace, phone: "0700000001"}
type SeedFile struct {
	Categories []string       `yaml:"categories"`
	Items      []SeedItem     `yaml:"items"`
	Workers    []SeedWorker   `yaml:"workers"`
	Customers  []SeedCustomer `yaml:"customers"`
}

type SeedItem struct {
	Name       string  `yaml:"name"`
	SKU        string  `yaml:"sku"`
	Category   string  `yaml:"category"`
	Stock      int     `yaml:"stock"`
	MinStock   int     `yaml:"min_stock"`
	MaxStock   int     `yaml:"max_stock"`
	UnitPrice  float64 `yaml:"unit_price"`
	Supplier   string  `yaml:"supplier"`
	ExpiryDate string  `yaml:"expiry_date"` // YYYY-MM-DD
}

type SeedWorker struct {
	Name           string  `yaml:"name"`
	Role           string  `yaml:"role"`
	Phone          string  `yaml:"phone"`
	Email          string  `yaml:"email"`
	PaymentType    string  `yaml:"payment_type"`
	Salary         float64 `yaml:"salary"`
	CommissionRate float64 `yaml:"commission_rate"`
}

type SeedCustomer struct {
	Name  string `yaml:"name"`
	Phone string `yaml:"phone"`
	Email string `yaml:"email"`
	Notes string `yaml:"notes"`
}

// SeedResult counts what a seed run did per section
type SeedResult struct {
	Created map[string]int `json:"created"`
	Skipped map[string]int `json:"skipped"`
}

// ParseSeedFile decodes a seed document, rejecting unknown keys
func ParseSeedFile(r io.Reader) (*SeedFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f SeedFile
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return &f, nil
		}
		return nil, err
	}
	return &f, nil
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rt Runtime, opts *RootOptions) *cobra.Command {
	var (
		file  string
		actor string
	)

	cmd := &cobra.Command{
		Use:   "seed --file seed.yaml --as owner@salon.test",
		Short: "Load categories, items, workers and customers from YAML",
		Long: `Load reference data from a YAML file through the normal services, so
opening stock is written to the ledger. Records that already exist (same
category name, SKU, worker name or customer phone) are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fh, err := os.Open(file)
			if err != nil {
				return WrapExitError(ExitCommandError, "open seed file", err)
			}
			defer fh.Close()

			seed, err := ParseSeedFile(fh)
			if err != nil {
				return WrapExitError(ExitCommandError, "parse seed file", err)
			}

			a, closeFn, err := openApp(cmd.Context(), rt, opts)
			if err != nil {
				return err
			}
			defer closeFn()

			user, err := a.UserRepo.GetByEmail(cmd.Context(), strings.ToLower(actor))
			if err != nil {
				return WrapExitError(ExitCommandError, "look up user", err)
			}
			if user == nil {
				return errorf(ExitCommandError, "no user with email %q", actor)
			}

			result, err := Seed(cmd.Context(), a, user.ID, seed)
			if err != nil {
				return WrapExitError(ExitFailure, "seed", err)
			}

			return newPrinter(opts, cmd.OutOrStdout()).emit(result, func(w io.Writer) error {
				for _, section := range []string{"categories", "items", "workers", "customers"} {
					if _, err := fmt.Fprintf(w, "%-10s created %d, skipped %d\n",
						section, result.Created[section], result.Skipped[section]); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "seed YAML file")
	cmd.Flags().StringVar(&actor, "as", "", "email of the staff account recorded as creator")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("as")
	return cmd
}

func isConflict(err error) bool {
	return apperror.GetAppError(err).Code == 409
}

func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}

// Seed loads f through the application services as userID
func Seed(ctx context.Context, a *app.App, userID uuid.UUID, f *SeedFile) (*SeedResult, error) {
	res := &SeedResult{Created: map[string]int{}, Skipped: map[string]int{}}
	categories := map[string]uuid.UUID{}

	for _, name := range f.Categories {
		id, created, err := ensureCategory(ctx, a, name)
		if err != nil {
			return res, fmt.Errorf("category %q: %w", name, err)
		}
		categories[strings.ToLower(name)] = id
		if created {
			res.Created["categories"]++
		} else {
			res.Skipped["categories"]++
		}
	}

	for _, it := range f.Items {
		input := &service.CreateItemInput{
			UserID:       userID,
			Name:         it.Name,
			SKU:          it.SKU,
			CurrentStock: it.Stock,
			MinStock:     it.MinStock,
			MaxStock:     it.MaxStock,
			UnitPrice:    it.UnitPrice,
			Supplier:     it.Supplier,
		}
		if it.Category != "" {
			id, ok := categories[strings.ToLower(it.Category)]
			if !ok {
				var created bool
				var err error
				id, created, err = ensureCategory(ctx, a, it.Category)
				if err != nil {
					return res, fmt.Errorf("item %q category: %w", it.Name, err)
				}
				categories[strings.ToLower(it.Category)] = id
				if created {
					res.Created["categories"]++
				}
			}
			input.CategoryID = &id
		}
		if it.ExpiryDate != "" {
			expiry, err := time.Parse("2006-01-02", it.ExpiryDate)
			if err != nil {
				return res, fmt.Errorf("item %q expiry_date: %w", it.Name, err)
			}
			input.ExpiryDate = &expiry
		}

		if _, err := a.Inventory.CreateItem(ctx, input); err != nil {
			if isConflict(err) {
				res.Skipped["items"]++
				continue
			}
			return res, fmt.Errorf("item %q: %w", it.Name, err)
		}
		res.Created["items"]++
	}

	for _, w := range f.Workers {
		exists, err := workerExists(ctx, a, w.Name)
		if err != nil {
			return res, fmt.Errorf("worker %q: %w", w.Name, err)
		}
		if exists {
			res.Skipped["workers"]++
			continue
		}
		_, err = a.Payroll.CreateWorker(ctx, &service.CreateWorkerInput{
			Name:           w.Name,
			Role:           w.Role,
			Phone:          optional(w.Phone),
			Email:          optional(w.Email),
			PaymentType:    enum.PaymentType(w.PaymentType),
			Salary:         w.Salary,
			CommissionRate: w.CommissionRate,
		})
		if err != nil {
			return res, fmt.Errorf("worker %q: %w", w.Name, err)
		}
		res.Created["workers"]++
	}

	for _, c := range f.Customers {
		_, err := a.Customers.CreateCustomer(ctx, &service.CreateCustomerInput{
			UserID: userID,
			Name:   c.Name,
			Phone:  optional(c.Phone),
			Email:  optional(c.Email),
			Notes:  optional(c.Notes),
		})
		if err != nil {
			if isConflict(err) {
				res.Skipped["customers"]++
				continue
			}
			return res, fmt.Errorf("customer %q: %w", c.Name, err)
		}
		res.Created["customers"]++
	}

	return res, nil
}

func ensureCategory(ctx context.Context, a *app.App, name string) (uuid.UUID, bool, error) {
	category, err := a.Inventory.CreateCategory(ctx, name)
	if err == nil {
		return category.ID, true, nil
	}
	if !isConflict(err) {
		return uuid.Nil, false, err
	}

	page, err := a.Inventory.ListCategories(ctx, &pagination.PaginationParams{Page: 1, PerPage: 100}, strings.TrimSpace(name))
	if err != nil {
		return uuid.Nil, false, err
	}
	if found := findCategory(page.Items, name); found != nil {
		return found.ID, false, nil
	}
	return uuid.Nil, false, fmt.Errorf("category %q exists but could not be found", name)
}

func findCategory(categories []entity.InventoryCategory, name string) *entity.InventoryCategory {
	for i := range categories {
		if strings.EqualFold(categories[i].Name, strings.TrimSpace(name)) {
			return &categories[i]
		}
	}
	return nil
}

func workerExists(ctx context.Context, a *app.App, name string) (bool, error) {
	page, err := a.Payroll.ListWorkers(ctx, &repository.WorkerFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 100},
		Search:     strings.TrimSpace(name),
	})
	if err != nil {
		return false, err
	}
	for _, w := range page.Items {
		if strings.EqualFold(w.Name, strings.TrimSpace(name)) {
			return true, nil
		}
	}
	return false, nil
}
