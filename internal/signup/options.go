package signup

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Options is an ordered list of the labels a choice field accepts. The same
// list feeds validation and the pickers in the TUI.
type Options []string

var (
	BusinessTypes = Options{
		"Electrical",
		"Plumbing",
		"Carpentry",
		"Masonry",
		"HVAC",
		"Painting",
		"Roofing",
		"Landscaping",
		"Other",
	}

	TeamSizes = Options{
		"1-5 People",
		"6-10 People",
		"11-20 People",
		"21-50 People",
		"51-100 People",
		"100+ People",
	}

	YearsInBusiness = Options{
		"Less than 1 Year",
		"1-3 Years",
		"3-5 Years",
		"5-10 Years",
		"10+ Years",
	}
)

// OptionsFor returns the choice list backing f, or nil for free-text fields.
func OptionsFor(f Field) Options {
	switch f {
	case FieldBusinessType:
		return BusinessTypes
	case FieldTeamSize:
		return TeamSizes
	case FieldYearsInBusiness:
		return YearsInBusiness
	default:
		return nil
	}
}

// Contains reports whether v is a non-empty member of o.
func (o Options) Contains(v string) bool {
	return v != "" && o.Index(v) >= 0
}

// Index returns the position of v in o, or -1.
func (o Options) Index(v string) int {
	for i, opt := range o {
		if opt == v {
			return i
		}
	}
	return -1
}

// Next returns the option after current, wrapping to the first. An empty or
// unknown current selects the first option.
func (o Options) Next(current string) string {
	if len(o) == 0 {
		return ""
	}
	i := o.Index(current)
	if i < 0 {
		return o[0]
	}
	return o[(i+1)%len(o)]
}

// Prev returns the option before current, wrapping to the last. An empty or
// unknown current selects the last option.
func (o Options) Prev(current string) string {
	if len(o) == 0 {
		return ""
	}
	i := o.Index(current)
	if i <= 0 {
		return o[len(o)-1]
	}
	return o[i-1]
}

// Suggest returns the option closest to v by edit distance, ignoring case.
func (o Options) Suggest(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" || len(o) == 0 {
		return ""
	}
	best, bestDist := "", -1
	for _, opt := range o {
		d := levenshtein.ComputeDistance(v, strings.ToLower(opt))
		if bestDist < 0 || d < bestDist {
			best, bestDist = opt, d
		}
	}
	return best
}
