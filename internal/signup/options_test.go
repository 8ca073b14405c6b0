package signup

import (
	"testing"
)

func TestOptionsFor(t *testing.T) {
	tests := []struct {
		field Field
		want  Options
	}{
		{FieldBusinessType, BusinessTypes},
		{FieldTeamSize, TeamSizes},
		{FieldYearsInBusiness, YearsInBusiness},
		{FieldEmail, nil},
	}
	for _, tc := range tests {
		got := OptionsFor(tc.field)
		if len(got) != len(tc.want) || (len(got) > 0 && got[0] != tc.want[0]) {
			t.Errorf("OptionsFor(%s) = %v, want %v", tc.field, got, tc.want)
		}
	}
	if len(BusinessTypes) != 9 || len(TeamSizes) != 6 || len(YearsInBusiness) != 5 {
		t.Fatalf("option list sizes = %d/%d/%d, want 9/6/5", len(BusinessTypes), len(TeamSizes), len(YearsInBusiness))
	}
}

func TestOptionsContains(t *testing.T) {
	cases := []struct {
		opts Options
		v    string
		want bool
	}{
		{BusinessTypes, "HVAC", true},
		{BusinessTypes, "hvac", false},
		{BusinessTypes, "", false},
		{TeamSizes, "100+ People", true},
		{YearsInBusiness, "Less than 1 Year", true},
		{YearsInBusiness, "1 Year", false},
	}
	for _, tc := range cases {
		if got := tc.opts.Contains(tc.v); got != tc.want {
			t.Errorf("Contains(%q) = %v, want %v", tc.v, got, tc.want)
		}
	}
}

func TestOptionsCycle(t *testing.T) {
	cases := []struct {
		name string
		got  string
		want string
	}{
		{"next from empty", TeamSizes.Next(""), "1-5 People"},
		{"next", TeamSizes.Next("1-5 People"), "6-10 People"},
		{"next wraps", TeamSizes.Next("100+ People"), "1-5 People"},
		{"prev from empty", TeamSizes.Prev(""), "100+ People"},
		{"prev wraps", TeamSizes.Prev("1-5 People"), "100+ People"},
		{"prev", BusinessTypes.Prev("HVAC"), "Masonry"},
		{"next unknown", BusinessTypes.Next("Welding"), "Electrical"},
		{"empty list next", Options(nil).Next("x"), ""},
		{"empty list prev", Options(nil).Prev("x"), ""},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, tc.got, tc.want)
		}
	}
}

func TestOptionsSuggest(t *testing.T) {
	cases := []struct {
		opts Options
		in   string
		want string
	}{
		{BusinessTypes, "plumbng", "Plumbing"},
		{BusinessTypes, " hvac ", "HVAC"},
		{YearsInBusiness, "10+ years", "10+ Years"},
		{BusinessTypes, "  ", ""},
	}
	for _, tc := range cases {
		if got := tc.opts.Suggest(tc.in); got != tc.want {
			t.Errorf("Suggest(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
