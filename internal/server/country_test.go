package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/atlas/internal/chart"
	"github.com/smallbiznis/atlas/internal/config"
	"github.com/smallbiznis/atlas/internal/country/domain"
	"github.com/smallbiznis/atlas/internal/country/repository"
	"github.com/smallbiznis/atlas/internal/country/service"
	"github.com/smallbiznis/atlas/internal/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stubSources struct {
	countries    []sources.CountryRecord
	rates        map[string]float64
	countriesErr error
	ratesErr     error
}

func (s *stubSources) FetchCountries(ctx context.Context) ([]sources.CountryRecord, error) {
	return s.countries, s.countriesErr
}

func (s *stubSources) FetchExchangeRates(ctx context.Context) (map[string]float64, error) {
	return s.rates, s.ratesErr
}

func fetchedCountries() []sources.CountryRecord {
	pop := func(v int64) *int64 { return &v }
	return []sources.CountryRecord{
		{Name: "Testland", Capital: "Testville", Region: "Testern Europe", Population: pop(1000),
			Flag: "https://flags.example/tl.svg", Currencies: []sources.CurrencyEntry{{Code: "TLD"}}},
		{Name: "Freeport", Region: "Islands", Population: pop(500)},
		{Name: "Mysteria", Population: pop(200), Currencies: []sources.CurrencyEntry{{Code: "MYS"}}},
	}
}

func newTestServer(t *testing.T, src sources.Client) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Country{}, &domain.RefreshMeta{}))

	cfg := config.Config{
		Port:             "8080",
		SummaryImagePath: filepath.Join(t.TempDir(), "summary.png"),
	}
	charts := chart.NewGenerator(cfg)
	svc := service.New(service.Params{
		DB:      db,
		Log:     zap.NewNop(),
		Repo:    repository.Provide(),
		Sources: src,
		Charts:  charts,
	})

	engine := NewEngine()
	srv := NewServer(Params{
		Engine:     engine,
		Cfg:        cfg,
		Log:        zap.NewNop(),
		CountrySvc: svc,
		Charts:     charts,
	})
	srv.RegisterRoutes()
	return engine, db
}

func doRequest(engine *gin.Engine, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	engine.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	engine, _ := newTestServer(t, &stubSources{})
	rec := doRequest(engine, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestRefreshAndRead(t *testing.T) {
	engine, _ := newTestServer(t, &stubSources{
		countries: fetchedCountries(),
		rates:     map[string]float64{"TLD": 2.0},
	})

	rec := doRequest(engine, http.MethodPost, "/countries/refresh")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = doRequest(engine, http.MethodGet, "/countries")
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []domain.Country
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 3)
	assert.Equal(t, "Testland", listed[0].Name, "default sort is estimated GDP descending")
	assert.Equal(t, "Mysteria", listed[2].Name, "null GDP last")

	rec = doRequest(engine, http.MethodGet, "/countries?sort=name_asc")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Equal(t, "Freeport", listed[0].Name)

	rec = doRequest(engine, http.MethodGet, "/countries?region=Islands")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Freeport", listed[0].Name)

	rec = doRequest(engine, http.MethodGet, "/countries?currency=TLD")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Testland", listed[0].Name)
}

func TestGetCountry(t *testing.T) {
	engine, _ := newTestServer(t, &stubSources{
		countries: fetchedCountries(),
		rates:     map[string]float64{"TLD": 2.0},
	})
	require.Equal(t, http.StatusOK, doRequest(engine, http.MethodPost, "/countries/refresh").Code)

	rec := doRequest(engine, http.MethodGet, "/countries/TESTLAND")
	require.Equal(t, http.StatusOK, rec.Code)

	var country domain.Country
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &country))
	assert.Equal(t, "Testland", country.Name)

	// Optional fields serialize as explicit nulls when absent.
	rec = doRequest(engine, http.MethodGet, "/countries/Mysteria")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"exchange_rate":null`)
	assert.Contains(t, body, `"estimated_gdp":null`)

	rec = doRequest(engine, http.MethodGet, "/countries/Atlantis")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"not_found"`)
}

func TestDeleteCountry(t *testing.T) {
	engine, _ := newTestServer(t, &stubSources{
		countries: fetchedCountries(),
		rates:     map[string]float64{"TLD": 2.0},
	})
	require.Equal(t, http.StatusOK, doRequest(engine, http.MethodPost, "/countries/refresh").Code)

	rec := doRequest(engine, http.MethodDelete, "/countries/testland")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"deleted"}`, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, doRequest(engine, http.MethodGet, "/countries/Testland").Code)
	assert.Equal(t, http.StatusNotFound, doRequest(engine, http.MethodDelete, "/countries/Testland").Code)
}

func TestRefresh_SourceUnavailable(t *testing.T) {
	engine, db := newTestServer(t, &stubSources{
		countries: fetchedCountries(),
		ratesErr:  fmt.Errorf("open.er-api.com: %w", domain.ErrSourceUnavailable),
	})

	rec := doRequest(engine, http.MethodPost, "/countries/refresh")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"source_unavailable"`)

	var total int64
	require.NoError(t, db.Model(&domain.Country{}).Count(&total).Error)
	assert.Zero(t, total)
}

func TestSummaryImage(t *testing.T) {
	engine, _ := newTestServer(t, &stubSources{
		countries: fetchedCountries(),
		rates:     map[string]float64{"TLD": 2.0},
	})

	rec := doRequest(engine, http.MethodGet, "/countries/image")
	assert.Equal(t, http.StatusNotFound, rec.Code, "404 before any refresh generated an image")

	require.Equal(t, http.StatusOK, doRequest(engine, http.MethodPost, "/countries/refresh").Code)

	rec = doRequest(engine, http.MethodGet, "/countries/image")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	body := rec.Body.Bytes()
	require.Greater(t, len(body), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, body[:4])
}

func TestStatusEndpoint(t *testing.T) {
	engine, _ := newTestServer(t, &stubSources{
		countries: fetchedCountries(),
		rates:     map[string]float64{"TLD": 2.0},
	})

	rec := doRequest(engine, http.MethodGet, "/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var status domain.StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.OK)
	assert.True(t, status.CountriesTable)
	assert.Zero(t, status.TotalCountries)

	require.Equal(t, http.StatusOK, doRequest(engine, http.MethodPost, "/countries/refresh").Code)

	rec = doRequest(engine, http.MethodGet, "/status")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, int64(3), status.TotalCountries)
	assert.NotNil(t, status.LastRefreshedAt)
}

func TestStatusEndpoint_StorageDown(t *testing.T) {
	engine, db := newTestServer(t, &stubSources{})

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	rec := doRequest(engine, http.MethodGet, "/status")
	require.Equal(t, http.StatusOK, rec.Code, "status must degrade, not error")

	var status domain.StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.False(t, status.OK)
	assert.Equal(t, "storage_unreachable", status.Reason)
	assert.NotEmpty(t, status.Message)
}
