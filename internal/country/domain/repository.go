package domain

import (
	"context"

	"gorm.io/gorm"
)

// Repository owns row access to the countries and meta tables. Every method
// takes the gorm handle so the caller controls the transaction boundary: the
// refresh orchestrator passes one transaction for all of its writes, while
// reads and deletes run on short independent transactions.
type Repository interface {
	// FindByName matches case-insensitively; (nil, nil) when absent.
	FindByName(ctx context.Context, db *gorm.DB, name string) (*Country, error)
	// Upsert overwrites all fields of the row matching country.Name, or
	// inserts a new row. Reports whether an insert happened. Does not commit.
	Upsert(ctx context.Context, db *gorm.DB, country *Country) (bool, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, sort Sort) ([]Country, error)
	// Delete reports whether a row existed and was removed.
	Delete(ctx context.Context, db *gorm.DB, name string) (bool, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)

	SetLastRefresh(ctx context.Context, db *gorm.DB, isoTimestamp string) error
	// LastRefresh returns "" when no refresh has ever committed.
	LastRefresh(ctx context.Context, db *gorm.DB) (string, error)
}
