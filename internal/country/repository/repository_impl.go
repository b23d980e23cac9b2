package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/smallbiznis/atlas/internal/country/domain"
	pkgdb "github.com/smallbiznis/atlas/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByName(ctx context.Context, db *gorm.DB, name string) (*domain.Country, error) {
	var country domain.Country
	err := db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		First(&country).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &country, nil
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, country *domain.Country) (bool, error) {
	existing, err := r.FindByName(ctx, db, country.Name)
	if err != nil {
		return false, err
	}

	if existing == nil {
		err := db.WithContext(ctx).Create(country).Error
		if err == nil {
			return true, nil
		}
		if !pkgdb.IsDuplicateKeyErr(err) {
			return false, err
		}
		// Lost an insert race with a concurrent refresh; fall through and
		// overwrite whichever row won (last-commit-wins).
		existing, err = r.FindByName(ctx, db, country.Name)
		if err != nil {
			return false, err
		}
		if existing == nil {
			return false, gorm.ErrDuplicatedKey
		}
	}

	country.ID = existing.ID
	return false, db.WithContext(ctx).Save(country).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, sort domain.Sort) ([]domain.Country, error) {
	stmt := db.WithContext(ctx).Model(&domain.Country{})
	if filter.Region != "" {
		stmt = stmt.Where("region = ?", filter.Region)
	}
	if filter.CurrencyCode != "" {
		stmt = stmt.Where("currency_code = ?", filter.CurrencyCode)
	}

	countries := make([]domain.Country, 0)
	if err := stmt.Order(orderClause(sort)).Find(&countries).Error; err != nil {
		return nil, err
	}
	return countries, nil
}

// orderClause keeps null values last regardless of direction on the nullable
// sort columns. sort.Column comes from the fixed vocabulary in domain, never
// from caller input.
func orderClause(sort domain.Sort) string {
	direction := "ASC"
	if sort.Direction == "desc" {
		direction = "DESC"
	}
	switch sort.Column {
	case "estimated_gdp", "exchange_rate", "region":
		return fmt.Sprintf("%s IS NULL, %s %s", sort.Column, sort.Column, direction)
	default:
		return fmt.Sprintf("%s %s", sort.Column, direction)
	}
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, name string) (bool, error) {
	res := db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		Delete(&domain.Country{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Country{}).Count(&total).Error
	return total, err
}

func (r *repo) SetLastRefresh(ctx context.Context, db *gorm.DB, isoTimestamp string) error {
	meta := domain.RefreshMeta{Key: domain.LastRefreshKey, Value: isoTimestamp}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&meta).Error
}

func (r *repo) LastRefresh(ctx context.Context, db *gorm.DB) (string, error) {
	var meta domain.RefreshMeta
	err := db.WithContext(ctx).
		Where("`key` = ?", domain.LastRefreshKey).
		First(&meta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return meta.Value, nil
}
