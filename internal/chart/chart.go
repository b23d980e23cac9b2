// Package chart regenerates the summary artifact after a committed refresh: a
// bar chart of the highest estimated GDPs, written as a PNG next to the data
// directory. Rendering is cosmetic output; callers treat failures as
// non-critical.
package chart

import (
	"fmt"
	"os"
	"path/filepath"

	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/smallbiznis/atlas/internal/config"
	"github.com/smallbiznis/atlas/internal/country/domain"
)

const topN = 10

type Generator interface {
	// Render draws the summary chart from countries already ordered by
	// estimated GDP descending and atomically replaces the image on disk.
	Render(countries []domain.Country) error
	// Path is where the last rendered image lives; the file may not exist
	// before the first successful refresh.
	Path() string
}

type pngGenerator struct {
	path string
}

func NewGenerator(cfg config.Config) Generator {
	return &pngGenerator{path: cfg.SummaryImagePath}
}

func (g *pngGenerator) Path() string { return g.path }

func (g *pngGenerator) Render(countries []domain.Country) error {
	bars := make([]gochart.Value, 0, topN)
	for _, c := range countries {
		if c.EstimatedGDP == nil || *c.EstimatedGDP <= 0 {
			continue
		}
		bars = append(bars, gochart.Value{Label: c.Name, Value: *c.EstimatedGDP})
		if len(bars) == topN {
			break
		}
	}
	if len(bars) == 0 {
		return fmt.Errorf("no countries with estimated GDP to chart")
	}

	graph := gochart.BarChart{
		Title:    "Top estimated GDP (USD)",
		Width:    1024,
		Height:   512,
		BarWidth: 64,
		Bars:     bars,
	}

	if err := os.MkdirAll(filepath.Dir(g.path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(g.path), "summary-*.png")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := graph.Render(gochart.PNG, tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), g.path)
}
