package repository

import (
	"context"
	"errors"
	"strings"

	domainRepo "github.com/sangkips/salonpro-api/internal/domain/repository"
	"gorm.io/gorm"
)

type txKey struct{}

// conn returns the transaction carried by ctx, or db when there is none.
// Every repository method starts from here so it can join a transaction
// opened by the Transactor.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

type transactor struct {
	db *gorm.DB
}

// NewTransactor creates a gorm backed Transactor
func NewTransactor(db *gorm.DB) domainRepo.Transactor {
	return &transactor{db: db}
}

// WithinTransaction runs fn in a transaction. Nested calls reuse the
// outer transaction.
func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// firstOrNil loads the first row matching query, or nil when none does
func firstOrNil[T any](db *gorm.DB, query interface{}, args ...interface{}) (*T, error) {
	var out T
	err := db.First(&out, append([]interface{}{query}, args...)...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// contains builds a case-insensitive LIKE pattern
func contains(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}

// orderClause whitelists sortable columns so user input never reaches SQL
func orderClause(sortBy, sortOrder string, allowed map[string]bool, fallback string) string {
	column := fallback
	if allowed[sortBy] {
		column = sortBy
	}
	direction := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		direction = "ASC"
	}
	return column + " " + direction
}
