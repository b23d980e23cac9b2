package domain

import "strings"

// Sort is a resolved listing order. Column is always one of the columns in
// sortColumns, never raw caller input.
type Sort struct {
	Column    string
	Direction string
}

// DefaultSort orders by estimated GDP, largest first.
var DefaultSort = Sort{Column: "estimated_gdp", Direction: "desc"}

var sortColumns = map[string]string{
	"gdp":        "estimated_gdp",
	"name":       "name",
	"pop":        "population",
	"population": "population",
	"exchange":   "exchange_rate",
	"region":     "region",
}

// ParseSort resolves a ?sort= query value ("gdp_desc", "name", "pop_asc", ...)
// against the fixed column vocabulary. An absent value means estimated GDP
// descending; an unrecognized key falls back to estimated GDP while the
// direction suffix is still honored. Direction defaults to ascending unless
// the suffix is exactly "desc".
func ParseSort(raw string) Sort {
	if raw == "" {
		return DefaultSort
	}

	key, order, _ := strings.Cut(raw, "_")
	column, ok := sortColumns[strings.ToLower(key)]
	if !ok {
		column = DefaultSort.Column
	}

	direction := "asc"
	if strings.ToLower(order) == "desc" {
		direction = "desc"
	}
	return Sort{Column: column, Direction: direction}
}
