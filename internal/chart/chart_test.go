package chart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/smallbiznis/atlas/internal/config"
	"github.com/smallbiznis/atlas/internal/country/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestRender_WritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "summary.png")
	gen := NewGenerator(config.Config{SummaryImagePath: path})

	countries := []domain.Country{
		{Name: "Beta", EstimatedGDP: ptr(300.0)},
		{Name: "Alpha", EstimatedGDP: ptr(100.0)},
		{Name: "Gamma"},
	}
	require.NoError(t, gen.Render(countries))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data[:4])
	assert.Equal(t, path, gen.Path())
}

func TestRender_NothingToChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.png")
	gen := NewGenerator(config.Config{SummaryImagePath: path})

	err := gen.Render([]domain.Country{{Name: "Gamma"}, {Name: "Zero", EstimatedGDP: ptr(0.0)}})
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no image written when there is nothing to chart")
}
