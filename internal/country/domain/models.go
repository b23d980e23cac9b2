package domain

import (
	"errors"
	"time"
)

// Country is one cached row per country, unique on name. Optional fields are
// pointers so they serialize as JSON null when absent.
type Country struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"size:128;uniqueIndex:uq_countries_name;not null" json:"name"`
	Capital         *string   `gorm:"size:128" json:"capital"`
	Region          *string   `gorm:"size:64" json:"region"`
	Population      int64     `gorm:"not null" json:"population"`
	CurrencyCode    *string   `gorm:"size:16" json:"currency_code"`
	ExchangeRate    *float64  `gorm:"column:exchange_rate" json:"exchange_rate"`
	EstimatedGDP    *float64  `gorm:"column:estimated_gdp" json:"estimated_gdp"`
	FlagURL         *string   `gorm:"column:flag_url" json:"flag_url"`
	LastRefreshedAt time.Time `gorm:"not null" json:"last_refreshed_at"`
}

func (Country) TableName() string { return "countries" }

// RefreshMeta is a single key/value row recording the last refresh that
// reached the commit point.
type RefreshMeta struct {
	Key   string `gorm:"primaryKey;size:64"`
	Value string `gorm:"not null"`
}

func (RefreshMeta) TableName() string { return "meta" }

// LastRefreshKey is the meta row holding the ISO-8601 UTC timestamp of the
// last committed refresh.
const LastRefreshKey = "last_refresh_ts"

// ListFilter narrows a listing by exact region and/or currency code match.
type ListFilter struct {
	Region       string
	CurrencyCode string
}

var (
	ErrNotFound          = errors.New("not_found")
	ErrSourceUnavailable = errors.New("source_unavailable")
)
