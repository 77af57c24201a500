package job

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func int64p(v int64) *int64 { return &v }

func TestFilterNormalize(t *testing.T) {
	f := Filter{
		Query:           "  Senior  GO Engineer ",
		Location:        "  New   York ",
		ExperienceLevel: " Senior ",
		EmploymentType:  "FULL-TIME",
		Skills:          []string{"Go", " Docker ", "", "Go"},
	}.Normalize()

	if f.Query != "senior go engineer" {
		t.Fatalf("unexpected query %q", f.Query)
	}
	if f.Location != "New York" {
		t.Fatalf("unexpected location %q", f.Location)
	}
	if f.ExperienceLevel != "senior" || f.EmploymentType != "full-time" {
		t.Fatalf("unexpected enums %q %q", f.ExperienceLevel, f.EmploymentType)
	}
	if !reflect.DeepEqual(f.Skills, []string{"Docker", "Go"}) {
		t.Fatalf("unexpected skills %v", f.Skills)
	}
}

func TestFilterValidate(t *testing.T) {
	base := Filter{Limit: 20}
	if err := base.Validate(50); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name  string
		f     Filter
		field string
	}{
		{"bad level", Filter{ExperienceLevel: "guru", Limit: 20}, "experience_level"},
		{"bad type", Filter{EmploymentType: "gig", Limit: 20}, "employment_type"},
		{"negative min", Filter{SalaryMin: int64p(-1), Limit: 20}, "salary_min"},
		{"min over max", Filter{SalaryMin: int64p(10), SalaryMax: int64p(5), Limit: 20}, "salary_min"},
		{"zero limit", Filter{}, "limit"},
		{"limit too big", Filter{Limit: 51}, "limit"},
		{"negative offset", Filter{Limit: 1, Offset: -1}, "offset"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.f.Validate(50)
			if !errors.Is(err, ErrInvalidFilter) {
				t.Fatalf("expected ErrInvalidFilter, got %v", err)
			}
			var fe *FilterError
			if !errors.As(err, &fe) || fe.Field != tc.field {
				t.Fatalf("expected field %q, got %v", tc.field, err)
			}
		})
	}
}

func TestFilterCacheKey(t *testing.T) {
	a := Filter{Query: "go", Skills: []string{"Go", "Docker"}, Limit: 20}.Normalize()
	b := Filter{Query: " GO ", Skills: []string{"Docker", "Go", "Go"}, Limit: 20}.Normalize()
	if a.CacheKey() != b.CacheKey() {
		t.Fatalf("equivalent filters must share a cache key")
	}
	if !strings.HasPrefix(a.CacheKey(), SearchCachePrefix) {
		t.Fatalf("cache key must be namespaced: %s", a.CacheKey())
	}

	c := a
	c.Offset = 20
	if a.CacheKey() == c.CacheKey() {
		t.Fatalf("different pages must not share a cache key")
	}
	d := a
	d.SalaryMin = int64p(0)
	if a.CacheKey() == d.CacheKey() {
		t.Fatalf("salary_min=0 differs from no salary filter")
	}
}

func validDraft() Draft {
	return Draft{
		Title:           "Senior Go Engineer",
		Description:     strings.Repeat("Build reliable services. ", 3),
		Location:        "Berlin",
		SalaryRange:     "$80,000 - $120,000",
		ExperienceLevel: LevelSenior,
		Skills:          []string{"Go"},
	}
}

func TestDraftValidate(t *testing.T) {
	if err := validDraft().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d := Draft{Title: "Go", Description: "short", Location: "X", Skills: []string{" "}, EmploymentType: "gig"}
	err := d.Validate()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := map[string]string{
		"title":            "Title must be at least 3 characters",
		"description":      "Description must be at least 50 characters",
		"location":         "Location is required",
		"salary_range":     "Salary range is required",
		"experience_level": "Experience level is required",
		"employment_type":  "Employment type must be one of full-time, part-time, contract, internship",
		"skills":           "At least one skill is required",
	}
	if !reflect.DeepEqual(ve.Fields, want) {
		t.Fatalf("unexpected fields:\n got %v\nwant %v", ve.Fields, want)
	}
}

func TestDraftValidate_UnknownLevel(t *testing.T) {
	d := validDraft()
	d.ExperienceLevel = "principal"
	var ve *ValidationError
	if err := d.Validate(); !errors.As(err, &ve) || ve.Fields["experience_level"] == "" {
		t.Fatalf("expected experience_level error, got %v", err)
	}
}

func TestMentionsRemote(t *testing.T) {
	if !MentionsRemote("Remote (EU)") || MentionsRemote("Berlin") {
		t.Fatalf("unexpected remote detection")
	}
}
