// Package catalog models the thumbnail catalog document and loads it from
// JSON.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

var (
	// ErrCatalogNotFound indicates the catalog file does not exist.
	ErrCatalogNotFound = errors.New("catalog file not found")
	// ErrThumbnailsNotSequence indicates the thumbnails field is missing or not an array.
	ErrThumbnailsNotSequence = errors.New("no thumbnails array found in catalog")
)

// Theme holds the colors a record may override.
type Theme struct {
	PrimaryColor       string `json:"primaryColor,omitempty"`
	AccentColor        string `json:"accentColor,omitempty"`
	BackgroundGradient string `json:"backgroundGradient,omitempty"`
}

// Branding names the shared logo and badge image files.
type Branding struct {
	Logo  string `json:"logo,omitempty"`
	Badge string `json:"badge,omitempty"`
}

// Defaults is the catalog-wide fallback for theme and branding.
type Defaults struct {
	Theme    Theme    `json:"theme"`
	Branding Branding `json:"branding"`
}

// Title is the three-line headline.
type Title struct {
	Line1 string `json:"line1"`
	Line2 string `json:"line2"`
	Line3 string `json:"line3"`
}

// Badge is the pill shown above the title.
type Badge struct {
	Color string `json:"color,omitempty"`
	Text  string `json:"text"`
}

// StatusBadge is the optional floating status pill.
type StatusBadge struct {
	Show bool   `json:"show"`
	Text string `json:"text,omitempty"`
}

// Record is one thumbnail specification.
type Record struct {
	ID           string       `json:"id"`
	Title        *Title       `json:"title,omitempty"`
	Badge        *Badge       `json:"badge,omitempty"`
	Description  string       `json:"description,omitempty"`
	FounderImage string       `json:"founderImage,omitempty"`
	Theme        *Theme       `json:"theme,omitempty"`
	StatusBadge  *StatusBadge `json:"statusBadge,omitempty"`
	Filename     string       `json:"filename,omitempty"`

	// Index is the record's position in the catalog.
	Index int `json:"-"`
	// DecodeErr is set when the record's JSON did not match the expected shape.
	DecodeErr error `json:"-"`
}

// Catalog is the loaded document. It is never mutated after Load returns.
type Catalog struct {
	Defaults   *Defaults
	Thumbnails []Record
}

// Load reads and parses the catalog at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, path)
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a catalog document. A record whose fields have the wrong JSON
// types does not fail the document; it is kept with DecodeErr set so callers
// can report it against that record alone.
func Parse(data []byte) (*Catalog, error) {
	var raw struct {
		Defaults   *Defaults       `json:"defaults"`
		Thumbnails json.RawMessage `json:"thumbnails"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	trimmed := bytes.TrimSpace(raw.Thumbnails)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrThumbnailsNotSequence
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("failed to parse thumbnails: %w", err)
	}

	cat := &Catalog{Defaults: raw.Defaults, Thumbnails: make([]Record, 0, len(items))}
	for i, item := range items {
		var rec Record
		if err := json.Unmarshal(item, &rec); err != nil {
			rec = Record{ID: peekID(item), DecodeErr: err}
		}
		rec.Index = i
		cat.Thumbnails = append(cat.Thumbnails, rec)
	}
	return cat, nil
}

func peekID(item json.RawMessage) string {
	var fields map[string]any
	if err := json.Unmarshal(item, &fields); err != nil {
		return ""
	}
	id, _ := fields["id"].(string)
	return id
}

// DefaultsOrZero returns the catalog defaults, or an empty value when the
// document has none.
func (c *Catalog) DefaultsOrZero() Defaults {
	if c == nil || c.Defaults == nil {
		return Defaults{}
	}
	return *c.Defaults
}

// Find returns the record with the given id.
func (c *Catalog) Find(id string) (Record, bool) {
	for _, rec := range c.Thumbnails {
		if rec.ID == id {
			return rec, true
		}
	}
	return Record{}, false
}

// IDs lists record ids in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.Thumbnails))
	for _, rec := range c.Thumbnails {
		ids = append(ids, rec.ID)
	}
	return ids
}

// OutputName is the base name for the record's captured image.
func (r Record) OutputName() string {
	if name := strings.TrimSpace(r.Filename); name != "" {
		return name
	}
	return r.ID
}

// DisplayTitle joins the three title lines with spaces.
func (r Record) DisplayTitle() string {
	if r.Title == nil {
		return ""
	}
	return strings.Join([]string{r.Title.Line1, r.Title.Line2, r.Title.Line3}, " ")
}

// EffectiveTheme overlays the record's theme fields onto the defaults.
func (r Record) EffectiveTheme(defaults Defaults) Theme {
	theme := defaults.Theme
	if r.Theme == nil {
		return theme
	}
	if r.Theme.PrimaryColor != "" {
		theme.PrimaryColor = r.Theme.PrimaryColor
	}
	if r.Theme.AccentColor != "" {
		theme.AccentColor = r.Theme.AccentColor
	}
	if r.Theme.BackgroundGradient != "" {
		theme.BackgroundGradient = r.Theme.BackgroundGradient
	}
	return theme
}
