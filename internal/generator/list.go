package generator

import (
	"github.com/tkturners/thumbgen/internal/catalog"
)

// RecordSummary is the display form of one catalog record.
type RecordSummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Badge        string `json:"badge"`
	PrimaryColor string `json:"primaryColor"`
}

// DefaultColorLabel is shown when a record does not override the primary color.
const DefaultColorLabel = "default"

// List loads the catalog without validating it and summarizes each record.
func (g *Generator) List() ([]RecordSummary, error) {
	cat, err := catalog.Load(g.cfg.Paths.Catalog)
	if err != nil {
		return nil, err
	}
	return Summaries(cat), nil
}

// Summaries builds display rows for every record in cat.
func Summaries(cat *catalog.Catalog) []RecordSummary {
	out := make([]RecordSummary, 0, len(cat.Thumbnails))
	for _, rec := range cat.Thumbnails {
		row := RecordSummary{
			ID:           rec.ID,
			Title:        rec.DisplayTitle(),
			PrimaryColor: DefaultColorLabel,
		}
		if rec.Badge != nil {
			row.Badge = rec.Badge.Text
		}
		if rec.Theme != nil && rec.Theme.PrimaryColor != "" {
			row.PrimaryColor = rec.Theme.PrimaryColor
		}
		out = append(out, row)
	}
	return out
}
