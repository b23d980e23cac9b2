package service

import (
	"context"
	"fmt"
	"time"

	"github.com/smallbiznis/atlas/internal/chart"
	"github.com/smallbiznis/atlas/internal/country/domain"
	"github.com/smallbiznis/atlas/internal/sources"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Second-precision, Z-suffixed timestamp written to the meta table.
const refreshTimeLayout = "2006-01-02T15:04:05Z"

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Repo    domain.Repository
	Sources sources.Client
	Charts  chart.Generator
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    domain.Repository
	sources sources.Client
	charts  chart.Generator
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("country.service"),
		repo:    p.Repo,
		sources: p.Sources,
		charts:  p.Charts,
	}
}

// Refresh drives one fetch-merge-upsert-commit cycle. The fetch phase is
// all-or-nothing: both sources must answer before any write happens. All
// upserts and the refresh timestamp then share a single transaction, so a
// failure partway leaves the cache untouched. The summary image is
// regenerated only after the commit and its outcome is swallowed.
func (s *Service) Refresh(ctx context.Context) error {
	countries, err := s.sources.FetchCountries(ctx)
	if err != nil {
		refreshTotal.WithLabelValues(outcomeSourceUnavailable).Inc()
		return err
	}
	rates, err := s.sources.FetchExchangeRates(ctx)
	if err != nil {
		refreshTotal.WithLabelValues(outcomeSourceUnavailable).Inc()
		return err
	}

	now := time.Now().UTC().Truncate(time.Second)
	written := 0
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		written = 0
		for _, rec := range countries {
			payload, ok := buildCountry(rec, rates, now)
			if !ok {
				continue
			}
			if _, err := s.repo.Upsert(ctx, tx, &payload); err != nil {
				return err
			}
			written++
		}
		return s.repo.SetLastRefresh(ctx, tx, now.Format(refreshTimeLayout))
	})
	if err != nil {
		refreshTotal.WithLabelValues(outcomeWriteFailed).Inc()
		s.log.Error("refresh transaction rolled back", zap.Error(err))
		return fmt.Errorf("refresh write: %w", err)
	}

	refreshTotal.WithLabelValues(outcomeOK).Inc()
	s.log.Info("refresh committed",
		zap.Int("countries", written),
		zap.Time("refreshed_at", now),
	)

	s.regenerateSummary(ctx)
	return nil
}

// regenerateSummary is the post-commit side effect. Best-effort: a failure is
// logged and never propagated, and cannot roll back the committed refresh.
func (s *Service) regenerateSummary(ctx context.Context) {
	countries, err := s.repo.List(ctx, s.db, domain.ListFilter{}, domain.DefaultSort)
	if err == nil {
		err = s.charts.Render(countries)
	}
	if err != nil {
		s.log.Warn("summary image regeneration failed", zap.Error(err))
	}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Country, error) {
	filter := domain.ListFilter{
		Region:       req.Region,
		CurrencyCode: req.Currency,
	}
	countries, err := s.repo.List(ctx, s.db, filter, domain.ParseSort(req.Sort))
	if err != nil {
		return nil, err
	}
	return countries, nil
}

func (s *Service) GetByName(ctx context.Context, name string) (domain.Country, error) {
	country, err := s.repo.FindByName(ctx, s.db, name)
	if err != nil {
		return domain.Country{}, err
	}
	if country == nil {
		return domain.Country{}, domain.ErrNotFound
	}
	return *country, nil
}

// Delete runs in its own short transaction, independent of any refresh.
func (s *Service) Delete(ctx context.Context, name string) error {
	var removed bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		removed, err = s.repo.Delete(ctx, tx, name)
		return err
	})
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrNotFound
	}
	return nil
}

// Status reports store connectivity as a diagnostic payload and never fails:
// an unreachable store turns into ok=false with a reason, not an error.
func (s *Service) Status(ctx context.Context) domain.StatusResponse {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		return domain.StatusResponse{
			Reason:  "storage_unreachable",
			Message: err.Error(),
		}
	}

	resp := domain.StatusResponse{OK: true}
	resp.CountriesTable = s.db.WithContext(ctx).Migrator().HasTable(&domain.Country{})
	if !resp.CountriesTable {
		return resp
	}

	total, err := s.repo.Count(ctx, s.db)
	if err != nil {
		return domain.StatusResponse{
			CountriesTable: true,
			Reason:         "storage_error",
			Message:        err.Error(),
		}
	}
	resp.TotalCountries = total

	if last, err := s.repo.LastRefresh(ctx, s.db); err == nil && last != "" {
		resp.LastRefreshedAt = &last
	}
	return resp
}
