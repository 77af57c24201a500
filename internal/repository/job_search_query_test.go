package repository

import (
	"strings"
	"testing"

	"jobmatch/internal/domain/job"
)

func TestBuildSearchQuery_OnlyActiveByDefault(t *testing.T) {
	q, args := buildSearchQuery(job.Filter{Limit: 20})

	if !strings.Contains(q, "WHERE is_active = true ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2") {
		t.Fatalf("unexpected query: %s", q)
	}
	if len(args) != 2 || args[0] != 20 || args[1] != 0 {
		t.Fatalf("unexpected args: %#v", args)
	}
}

func TestBuildSearchQuery_AllFilters(t *testing.T) {
	lo, hi := int64(80000), int64(150000)
	f := job.Filter{
		Query:           "go 100%",
		Location:        "berlin",
		ExperienceLevel: "senior",
		EmploymentType:  "full-time",
		RemoteOnly:      true,
		Skills:          []string{"go", "sql"},
		SalaryMin:       &lo,
		SalaryMax:       &hi,
		Limit:           10,
		Offset:          30,
	}
	q, args := buildSearchQuery(f)

	wants := []string{
		"(title ILIKE $1 OR description ILIKE $1)",
		"location ILIKE $2",
		"experience_level = $3",
		"employment_type = $4",
		"is_remote = true",
		"required_skills @> $5::text[]",
		"COALESCE(salary_max, salary_min) >= $6",
		"salary_min <= $7",
		"LIMIT $8 OFFSET $9",
	}
	for _, w := range wants {
		if !strings.Contains(q, w) {
			t.Fatalf("expected %q in query:\n%s", w, q)
		}
	}
	if args[0] != `%go 100\%%` {
		t.Fatalf("expected escaped query pattern, got %v", args[0])
	}
	if args[1] != "%berlin%" {
		t.Fatalf("unexpected location pattern: %v", args[1])
	}
	if args[5] != int64(80000) || args[6] != int64(150000) {
		t.Fatalf("unexpected salary args: %v %v", args[5], args[6])
	}
	if args[7] != 10 || args[8] != 30 {
		t.Fatalf("unexpected paging args: %v %v", args[7], args[8])
	}
}
