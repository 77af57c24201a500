package repository

import (
	"strconv"
	"strings"

	"jobmatch/internal/domain/job"
	"jobmatch/internal/search"
)

type queryArgs struct {
	args []any
}

func (a *queryArgs) add(v any) string {
	a.args = append(a.args, v)
	return "$" + strconv.Itoa(len(a.args))
}

// buildSearchQuery composes the listing search from a normalized, validated filter.
// Only active listings are returned, newest first.
func buildSearchQuery(f job.Filter) (string, []any) {
	var a queryArgs
	where := []string{"is_active = true"}

	if f.Query != "" {
		p := a.add(search.ContainsPattern(f.Query))
		where = append(where, "(title ILIKE "+p+" OR description ILIKE "+p+")")
	}
	if f.Location != "" {
		where = append(where, "location ILIKE "+a.add(search.ContainsPattern(f.Location)))
	}
	if f.ExperienceLevel != "" {
		where = append(where, "experience_level = "+a.add(f.ExperienceLevel))
	}
	if f.EmploymentType != "" {
		where = append(where, "employment_type = "+a.add(f.EmploymentType))
	}
	if f.RemoteOnly {
		where = append(where, "is_remote = true")
	}
	if len(f.Skills) > 0 {
		where = append(where, "required_skills @> "+a.add(f.Skills)+"::text[]")
	}
	if f.SalaryMin != nil {
		where = append(where, "COALESCE(salary_max, salary_min) >= "+a.add(*f.SalaryMin))
	}
	if f.SalaryMax != nil {
		where = append(where, "salary_min <= "+a.add(*f.SalaryMax))
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(jobColumns)
	b.WriteString(" FROM jobs WHERE ")
	b.WriteString(strings.Join(where, " AND "))
	b.WriteString(" ORDER BY created_at DESC, id DESC")
	b.WriteString(" LIMIT " + a.add(f.Limit))
	b.WriteString(" OFFSET " + a.add(f.Offset))
	return b.String(), a.args
}
