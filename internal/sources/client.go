// Package sources fetches the two external datasets a refresh merges: country
// metadata from restcountries and currency exchange rates versus USD from
// open-er-api. A non-success response, transport error, or malformed payload
// from either source is reported as domain.ErrSourceUnavailable carrying the
// source host; no retries happen at this layer.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/smallbiznis/atlas/internal/config"
	"github.com/smallbiznis/atlas/internal/country/domain"
	"go.uber.org/zap"
)

// CountryRecord is one entry of the restcountries v2 payload, restricted to
// the fields the refresh pipeline consumes. Population is a pointer so a
// missing field is distinguishable from zero.
type CountryRecord struct {
	Name       string          `json:"name"`
	Capital    string          `json:"capital"`
	Region     string          `json:"region"`
	Population *int64          `json:"population"`
	Flag       string          `json:"flag"`
	Currencies []CurrencyEntry `json:"currencies"`
}

type CurrencyEntry struct {
	Code string `json:"code"`
}

type Client interface {
	FetchCountries(ctx context.Context) ([]CountryRecord, error)
	FetchExchangeRates(ctx context.Context) (map[string]float64, error)
}

type httpClient struct {
	countriesURL string
	ratesURL     string
	client       *http.Client
	log          *zap.Logger
}

func NewClient(cfg config.Config, log *zap.Logger) Client {
	return &httpClient{
		countriesURL: cfg.CountriesURL,
		ratesURL:     cfg.RatesURL,
		client:       &http.Client{Timeout: cfg.SourceTimeout},
		log:          log.Named("sources"),
	}
}

func (c *httpClient) FetchCountries(ctx context.Context) ([]CountryRecord, error) {
	var records []CountryRecord
	if err := c.fetchJSON(ctx, c.countriesURL, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *httpClient) FetchExchangeRates(ctx context.Context) (map[string]float64, error) {
	var payload struct {
		Rates map[string]*float64 `json:"rates"`
	}
	if err := c.fetchJSON(ctx, c.ratesURL, &payload); err != nil {
		return nil, err
	}
	if payload.Rates == nil {
		c.log.Warn("rate mapping missing from payload", zap.String("url", c.ratesURL))
		return nil, unavailable(c.ratesURL)
	}
	// A null rate value means the source has no quote for that currency.
	// Dropping the entry leaves the currency on the unknown-rate path.
	rates := make(map[string]float64, len(payload.Rates))
	for code, rate := range payload.Rates {
		if rate == nil {
			continue
		}
		rates[code] = *rate
	}
	return rates, nil
}

func (c *httpClient) fetchJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return unavailable(rawURL)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		c.log.Warn("source request failed", zap.String("url", rawURL), zap.Error(err))
		return unavailable(rawURL)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		c.log.Warn("source returned non-success status",
			zap.String("url", rawURL),
			zap.Int("status", res.StatusCode),
		)
		return unavailable(rawURL)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		c.log.Warn("source payload malformed", zap.String("url", rawURL), zap.Error(err))
		return unavailable(rawURL)
	}
	return nil
}

func unavailable(rawURL string) error {
	host := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = u.Host
	}
	return fmt.Errorf("%s: %w", host, domain.ErrSourceUnavailable)
}
