// Package validation checks a catalog, its template and the asset directories
// before anything is generated.
//
// Findings are returned as data. Errors block generation, warnings never do.
// Every rule runs so an operator sees all problems in a single pass; only an
// unreadable catalog or a missing template stops checks on that document.
package validation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tkturners/thumbgen/internal/catalog"
	"github.com/tkturners/thumbgen/internal/expand"
	"github.com/tkturners/thumbgen/internal/layout"
)

var (
	hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	idPattern       = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// Paths locates the inputs a validation run inspects.
type Paths struct {
	Catalog  string
	Template string
	Images   string
	Logos    string
}

// Result holds the findings of one validation run.
type Result struct {
	Errors   []string `yaml:"errors,omitempty"`
	Warnings []string `yaml:"warnings,omitempty"`
}

// OK reports whether the run found no errors.
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Validate runs every check against the inputs in p.
func Validate(p Paths) Result {
	var res Result
	checkCatalog(&res, p)
	checkTemplate(&res, p.Template)
	checkAssets(&res, p)
	return res
}

// IsHexColor reports whether s is a #RRGGBB color.
func IsHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}

func checkCatalog(res *Result, p Paths) {
	cat, err := catalog.Load(p.Catalog)
	switch {
	case errors.Is(err, catalog.ErrCatalogNotFound):
		res.errorf("Data file not found: %s", p.Catalog)
		return
	case errors.Is(err, catalog.ErrThumbnailsNotSequence):
		res.errorf("No thumbnails array found in data file")
		return
	case err != nil:
		res.errorf("%s", errorText(err))
		return
	}

	if cat.Defaults == nil {
		res.warnf("No defaults section found in data file")
	}
	if len(cat.Thumbnails) == 0 {
		res.warnf("Thumbnails array is empty")
	}

	for _, rec := range cat.Thumbnails {
		checkRecord(res, rec, p.Images)
	}

	if dups := duplicateIDs(cat.Thumbnails); len(dups) > 0 {
		res.errorf("Duplicate thumbnail IDs found: %s", strings.Join(dups, ", "))
	}
}

// errorText capitalizes the first letter so messages read like the rest of
// the report.
func errorText(err error) string {
	msg := err.Error()
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

func checkRecord(res *Result, rec catalog.Record, imagesDir string) {
	if rec.ID == "" {
		res.errorf("Thumbnail at index %d: Missing required field 'id'", rec.Index)
	} else if !idPattern.MatchString(rec.ID) {
		res.warnf("Thumbnail '%s': ID should only contain lowercase letters, numbers, and hyphens", rec.ID)
	}

	if rec.DecodeErr != nil {
		res.errorf("Thumbnail '%s': Invalid record: %v", rec.ID, rec.DecodeErr)
		return
	}

	if t := rec.Title; t == nil || t.Line1 == "" || t.Line2 == "" || t.Line3 == "" {
		res.errorf("Thumbnail '%s': Missing or incomplete title (requires line1, line2, line3)", rec.ID)
	}
	if rec.Badge == nil || rec.Badge.Text == "" {
		res.errorf("Thumbnail '%s': Missing badge text", rec.ID)
	}
	if rec.Description == "" {
		res.errorf("Thumbnail '%s': Missing description", rec.ID)
	}

	if rec.FounderImage == "" {
		res.errorf("Thumbnail '%s': Missing founderImage", rec.ID)
	} else if !exists(filepath.Join(imagesDir, rec.FounderImage)) {
		res.warnf("Thumbnail '%s': Image file '%s' not found in %s", rec.ID, rec.FounderImage, expand.ImagePrefix)
	}

	if rec.Theme != nil {
		if c := rec.Theme.PrimaryColor; c != "" && !IsHexColor(c) {
			res.errorf("Thumbnail '%s': Invalid primaryColor hex format", rec.ID)
		}
		if c := rec.Theme.AccentColor; c != "" && !IsHexColor(c) {
			res.errorf("Thumbnail '%s': Invalid accentColor hex format", rec.ID)
		}
	}

	if name := strings.TrimSpace(rec.Filename); name != "" && layout.ValidName(name) != nil {
		res.errorf("Thumbnail '%s': Invalid filename '%s' (must not contain path separators)", rec.ID, rec.Filename)
	}
}

// duplicateIDs returns each id that occurs more than once, in order of its
// second occurrence. Empty ids are reported by the per-record check instead.
func duplicateIDs(records []catalog.Record) []string {
	seen := make(map[string]int, len(records))
	var dups []string
	for _, rec := range records {
		if rec.ID == "" {
			continue
		}
		seen[rec.ID]++
		if seen[rec.ID] == 2 {
			dups = append(dups, rec.ID)
		}
	}
	return dups
}

func checkTemplate(res *Result, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			res.errorf("Template file not found: %s", path)
		} else {
			res.errorf("Failed to read template: %v", err)
		}
		return
	}
	text := string(data)
	for _, token := range expand.RequiredTokens {
		if !strings.Contains(text, token) {
			res.warnf("Template missing placeholder: %s", token)
		}
	}
}

func checkAssets(res *Result, p Paths) {
	if !exists(p.Images) {
		res.warnf("Images directory not found: %s", p.Images)
	}
	if !exists(p.Logos) {
		res.warnf("Logos directory not found: %s", p.Logos)
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
