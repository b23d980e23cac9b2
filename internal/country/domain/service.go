package domain

import "context"

type ListRequest struct {
	Region   string
	Currency string
	Sort     string
}

// StatusResponse is a diagnostic payload; it is always delivered with a
// 200-level response even when storage is unreachable.
type StatusResponse struct {
	OK              bool    `json:"ok"`
	TotalCountries  int64   `json:"total_countries"`
	CountriesTable  bool    `json:"countries_table"`
	LastRefreshedAt *string `json:"last_refreshed_at"`
	Reason          string  `json:"reason,omitempty"`
	Message         string  `json:"message,omitempty"`
}

type Service interface {
	// Refresh runs one end-to-end fetch-merge-write cycle. It returns
	// ErrSourceUnavailable (wrapped) when either external source fails, in
	// which case no writes have occurred; any other error means the write
	// transaction rolled back.
	Refresh(ctx context.Context) error
	List(ctx context.Context, req ListRequest) ([]Country, error)
	GetByName(ctx context.Context, name string) (Country, error)
	Delete(ctx context.Context, name string) error
	Status(ctx context.Context) StatusResponse
}
