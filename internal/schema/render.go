// Render helpers for AggregatedMovie. Downstream category reduction and the
// descriptive outputs consume the cast as five ", "-joined strings; rendering
// them from the sub-records on demand keeps the five columns positionally
// aligned by construction. Missing values render as "nan".
package schema

import (
	"strconv"
	"strings"
)

// missingToken marks an absent value in a rendered cast column.
const missingToken = "nan"

// FormatFloat renders a float the shortest way that round-trips.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// CharacterNames renders the cast's character names in join order.
func (m *AggregatedMovie) CharacterNames() string {
	return m.renderStrings(func(c CharacterEntry) *string { return c.Name })
}

// Genders renders the cast's actor genders in join order.
func (m *AggregatedMovie) Genders() string {
	return m.renderStrings(func(c CharacterEntry) *string { return c.Gender })
}

// Ethnicities renders the cast's resolved ethnicity labels in join order.
func (m *AggregatedMovie) Ethnicities() string {
	return m.renderStrings(func(c CharacterEntry) *string { return c.Ethnicity })
}

// Heights renders the cast's actor heights in join order.
func (m *AggregatedMovie) Heights() string {
	return m.renderFloats(func(c CharacterEntry) *float64 { return c.HeightMeters })
}

// Ages renders the cast's actor ages at release in join order.
func (m *AggregatedMovie) Ages() string {
	return m.renderFloats(func(c CharacterEntry) *float64 { return c.AgeAtRelease })
}

func (m *AggregatedMovie) renderStrings(get func(CharacterEntry) *string) string {
	parts := make([]string, len(m.Characters))
	for i, c := range m.Characters {
		if v := get(c); v != nil {
			parts[i] = *v
		} else {
			parts[i] = missingToken
		}
	}
	return strings.Join(parts, ", ")
}

func (m *AggregatedMovie) renderFloats(get func(CharacterEntry) *float64) string {
	parts := make([]string, len(m.Characters))
	for i, c := range m.Characters {
		if v := get(c); v != nil {
			parts[i] = FormatFloat(*v)
		} else {
			parts[i] = missingToken
		}
	}
	return strings.Join(parts, ", ")
}
