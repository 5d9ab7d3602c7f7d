// Package expand substitutes catalog record values into the shared HTML
// template.
//
// Substitution is a single left-to-right pass over the template driven by a
// fixed token table. Inserted values are never rescanned, so a description that
// happens to contain "{{TITLE}}" lands in the output verbatim.
package expand

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tkturners/thumbgen/internal/catalog"
)

// ErrMalformedRecord indicates a record lacks a field the token table needs.
var ErrMalformedRecord = errors.New("malformed record")

// LoadTemplate reads the raw template text.
func LoadTemplate(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read template: %w", err)
	}
	return string(data), nil
}

// Expand returns template with every recognized token replaced by the value
// derived from rec and defaults. The record's theme fields win over the
// defaults when present.
func Expand(template string, rec catalog.Record, defaults catalog.Defaults) (string, error) {
	table, err := Table(rec, defaults)
	if err != nil {
		return "", err
	}
	pairs := make([]string, 0, len(Tokens)*2)
	for _, token := range Tokens {
		pairs = append(pairs, token, table[token])
	}
	return strings.NewReplacer(pairs...).Replace(template), nil
}

// Table builds the token to value mapping for one record.
func Table(rec catalog.Record, defaults catalog.Defaults) (map[string]string, error) {
	if err := checkShape(rec); err != nil {
		return nil, err
	}
	theme := rec.EffectiveTheme(defaults)

	return map[string]string{
		TokenTitle:              rec.DisplayTitle() + TitleSuffix,
		TokenPrimaryColor:       theme.PrimaryColor,
		TokenAccentColor:        theme.AccentColor,
		TokenBackgroundGradient: defaults.Theme.BackgroundGradient,
		TokenLogoImage:          imagePath(defaults.Branding.Logo),
		TokenFounderImage:       imagePath(rec.FounderImage),
		TokenStatusBadge:        StatusBadge(rec.StatusBadge),
		TokenBadgeColor:         rec.Badge.Color,
		TokenBadgeText:          rec.Badge.Text,
		TokenTitleLine1:         rec.Title.Line1,
		TokenTitleLine2:         rec.Title.Line2,
		TokenTitleLine3:         rec.Title.Line3,
		TokenDescription:        rec.Description,
		TokenBadgeImage:         imagePath(defaults.Branding.Badge),
	}, nil
}

func checkShape(rec catalog.Record) error {
	if rec.DecodeErr != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRecord, rec.DecodeErr)
	}
	if rec.Title == nil {
		return fmt.Errorf("%w: title is missing", ErrMalformedRecord)
	}
	if rec.Badge == nil {
		return fmt.Errorf("%w: badge is missing", ErrMalformedRecord)
	}
	return nil
}

// imagePath joins the asset prefix with name. An empty name yields an empty
// value rather than a bare directory path.
func imagePath(name string) string {
	if name == "" {
		return ""
	}
	return ImagePrefix + name
}

// StatusBadge renders the floating status pill, or "" when the badge is
// absent or hidden. The text is inserted as-is, like every other text token.
func StatusBadge(badge *catalog.StatusBadge) string {
	if badge == nil || !badge.Show {
		return ""
	}
	return `<div class="absolute bottom-8 -right-4 bg-white/10 backdrop-blur-md border border-white/20 text-white text-xs font-semibold px-3 py-1.5 rounded-full shadow-lg flex items-center gap-1.5 transform rotate-[-2deg]">
<span class="w-2 h-2 rounded-full bg-primary animate-pulse"></span>
                    ` + badge.Text + `
                 </div>`
}
