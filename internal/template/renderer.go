// Package template renders firmware source templates by substituting
// literal marker strings with caller-supplied values, and manages the
// on-disk template files, one per sensor category.
package template

import "strings"

// Substitution replaces every occurrence of an exact literal marker with a
// literal value. Markers are plain substrings, not patterns or keys, and
// no escaping is performed; callers are responsible for sanitizing values
// (for example rejecting quote characters that would break the generated
// source).
type Substitution struct {
	Marker string
	Value  string
}

// Render applies subs to text in order, first to last, each marker
// independently. A marker absent from the text is skipped silently so a
// template may omit optional markers, such as the device-ID echo line.
func Render(text string, subs []Substitution) string {
	for _, s := range subs {
		text = strings.ReplaceAll(text, s.Marker, s.Value)
	}
	return text
}
