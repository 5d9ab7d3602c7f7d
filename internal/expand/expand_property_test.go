//go:build property

package expand

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestExpandProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	tokenGen := gen.OneConstOf(
		TokenTitle, TokenDescription, TokenTitleLine1, TokenBadgeText, TokenStatusBadge, "{{OTHER}}",
	)

	properties.Property("expansion is idempotent", prop.ForAll(
		func(desc, line string) bool {
			rec := sampleRecord()
			rec.Description = desc
			rec.Title.Line1 = line
			template := "{{TITLE}}|{{DESCRIPTION}}|{{TITLE_LINE1}}"
			a, errA := Expand(template, rec, sampleDefaults())
			b, errB := Expand(template, rec, sampleDefaults())
			return errA == nil && errB == nil && a == b
		},
		gen.AnyString(),
		gen.AlphaString(),
	))

	properties.Property("token-like values are inserted verbatim", prop.ForAll(
		func(token string) bool {
			rec := sampleRecord()
			rec.Description = token
			got, err := Expand("<{{DESCRIPTION}}>", rec, sampleDefaults())
			return err == nil && got == "<"+token+">"
		},
		tokenGen,
	))

	properties.Property("no recognized token survives", prop.ForAll(
		func(picks []int) bool {
			var b strings.Builder
			for _, p := range picks {
				b.WriteString(Tokens[p%len(Tokens)])
				b.WriteString(" ")
			}
			got, err := Expand(b.String(), sampleRecord(), sampleDefaults())
			if err != nil {
				return false
			}
			for _, token := range Tokens {
				if strings.Contains(got, token) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 1000)),
	))

	properties.TestingRun(t)
}
