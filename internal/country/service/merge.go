package service

import (
	"math/rand"
	"strings"
	"time"

	"github.com/smallbiznis/atlas/internal/country/domain"
	"github.com/smallbiznis/atlas/internal/sources"
)

// buildCountry merges one fetched record with the rate mapping into a cache
// write payload. Pure apart from the GDP multiplier draw. Reports false for
// records missing a name or population, which are skipped without error.
//
// Decision table per record:
//   - no currency entries: currency_code null, exchange_rate null, gdp 0
//   - code present, rate known: code, rate, derived gdp
//   - code present, rate unknown: code, null, null
func buildCountry(rec sources.CountryRecord, rates map[string]float64, now time.Time) (domain.Country, bool) {
	name := strings.TrimSpace(rec.Name)
	if name == "" || rec.Population == nil || *rec.Population < 0 {
		return domain.Country{}, false
	}

	country := domain.Country{
		Name:            name,
		Capital:         optional(rec.Capital),
		Region:          optional(rec.Region),
		Population:      *rec.Population,
		FlagURL:         optional(rec.Flag),
		LastRefreshedAt: now,
	}

	if len(rec.Currencies) == 0 {
		zero := 0.0
		country.EstimatedGDP = &zero
		return country, true
	}

	code := strings.TrimSpace(rec.Currencies[0].Code)
	if code == "" {
		return country, true
	}

	country.CurrencyCode = &code
	if rate, ok := rates[code]; ok {
		country.ExchangeRate = &rate
		country.EstimatedGDP = estimateGDP(country.Population, rate)
	}
	return country, true
}

// estimateGDP derives population * multiplier / rate, with the multiplier
// drawn uniformly from [1000, 2000] independently per country per refresh.
// Nil when the rate is zero; a derived value of exactly zero is also stored
// as null. Only the no-currency case persists a zero GDP.
func estimateGDP(population int64, rate float64) *float64 {
	if rate == 0 {
		return nil
	}
	gdp := float64(population) * float64(gdpMultiplier()) / rate
	if gdp == 0 {
		return nil
	}
	return &gdp
}

func gdpMultiplier() int64 {
	return 1000 + rand.Int63n(1001)
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
