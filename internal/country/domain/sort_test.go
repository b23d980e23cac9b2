package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSort(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		column    string
		direction string
	}{
		{"empty defaults to gdp desc", "", "estimated_gdp", "desc"},
		{"gdp desc", "gdp_desc", "estimated_gdp", "desc"},
		{"gdp asc", "gdp_asc", "estimated_gdp", "asc"},
		{"bare key sorts ascending", "gdp", "estimated_gdp", "asc"},
		{"name", "name_desc", "name", "desc"},
		{"pop alias", "pop_desc", "population", "desc"},
		{"population alias", "population_asc", "population", "asc"},
		{"exchange", "exchange_desc", "exchange_rate", "desc"},
		{"region", "region_asc", "region", "asc"},
		{"unknown key keeps direction", "bogus_desc", "estimated_gdp", "desc"},
		{"unknown key defaults ascending", "bogus", "estimated_gdp", "asc"},
		{"direction must be exactly desc", "gdp_descending", "estimated_gdp", "asc"},
		{"uppercase key accepted", "GDP_desc", "estimated_gdp", "desc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSort(tt.raw)
			assert.Equal(t, tt.column, got.Column)
			assert.Equal(t, tt.direction, got.Direction)
		})
	}
}
