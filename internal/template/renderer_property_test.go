package template

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestRenderProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("absent markers leave text unchanged", prop.ForAll(
		func(text string, marker string, value string) bool {
			if marker == "" || strings.Contains(text, marker) {
				return true
			}
			return Render(text, []Substitution{{marker, value}}) == text
		},
		gen.AlphaString(),
		gen.Identifier(),
		gen.AlphaString(),
	))

	properties.Property("rendering twice equals rendering once when values contain no markers", prop.ForAll(
		func(text string, value string) bool {
			marker := "@@MARK@@"
			if strings.Contains(value, marker) {
				return true
			}
			subs := []Substitution{{marker, value}}
			once := Render(text, subs)
			return Render(once, subs) == once
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.Property("rendered output never contains a replaced marker", prop.ForAll(
		func(prefix string, suffix string, value string) bool {
			marker := "@@MARK@@"
			if strings.Contains(value, marker) {
				return true
			}
			text := prefix + marker + suffix
			if strings.Contains(prefix+suffix, marker) {
				return true
			}
			return !strings.Contains(Render(text, []Substitution{{marker, value}}), marker)
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
