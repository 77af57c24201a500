package job

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"jobmatch/internal/search"
)

var ErrInvalidFilter = errors.New("invalid search filter")

// FilterError names the filter field that failed validation.
type FilterError struct {
	Field  string
	Reason string
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidFilter.Error(), e.Field, e.Reason)
}

func (e *FilterError) Unwrap() error { return ErrInvalidFilter }

// Filter narrows a search over active listings. Zero values mean "no constraint".
type Filter struct {
	Query           string   `json:"query"`
	Location        string   `json:"location"`
	ExperienceLevel string   `json:"experience_level"`
	EmploymentType  string   `json:"employment_type"`
	RemoteOnly      bool     `json:"remote_only"`
	Skills          []string `json:"skills"`
	SalaryMin       *int64   `json:"salary_min"`
	SalaryMax       *int64   `json:"salary_max"`
	Limit           int      `json:"limit"`
	Offset          int      `json:"offset"`
}

func (f Filter) Normalize() Filter {
	out := f
	out.Query = search.NormalizeQuery(f.Query)
	out.Location = search.CollapseSpaces(f.Location)
	out.ExperienceLevel = strings.ToLower(strings.TrimSpace(f.ExperienceLevel))
	out.EmploymentType = strings.ToLower(strings.TrimSpace(f.EmploymentType))

	skills := make([]string, 0, len(f.Skills))
	seen := make(map[string]struct{}, len(f.Skills))
	for _, s := range f.Skills {
		s = search.CollapseSpaces(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		skills = append(skills, s)
	}
	sort.Strings(skills)
	out.Skills = skills
	return out
}

// Validate checks a normalized filter. maxLimit bounds the page size.
func (f Filter) Validate(maxLimit int) error {
	if f.ExperienceLevel != "" && !ValidExperienceLevel(f.ExperienceLevel) {
		return &FilterError{Field: "experience_level", Reason: "must be one of entry, mid, senior, lead"}
	}
	if f.EmploymentType != "" && !ValidEmploymentType(f.EmploymentType) {
		return &FilterError{Field: "employment_type", Reason: "must be one of full-time, part-time, contract, internship"}
	}
	if f.SalaryMin != nil && *f.SalaryMin < 0 {
		return &FilterError{Field: "salary_min", Reason: "must not be negative"}
	}
	if f.SalaryMax != nil && *f.SalaryMax < 0 {
		return &FilterError{Field: "salary_max", Reason: "must not be negative"}
	}
	if f.SalaryMin != nil && f.SalaryMax != nil && *f.SalaryMin > *f.SalaryMax {
		return &FilterError{Field: "salary_min", Reason: "must not exceed salary_max"}
	}
	if f.Limit <= 0 || f.Limit > maxLimit {
		return &FilterError{Field: "limit", Reason: "must be between 1 and " + strconv.Itoa(maxLimit)}
	}
	if f.Offset < 0 {
		return &FilterError{Field: "offset", Reason: "must not be negative"}
	}
	return nil
}

// CacheKey identifies a normalized filter in the search cache.
func (f Filter) CacheKey() string {
	parts := []string{
		"q=" + f.Query,
		"l=" + strings.ToLower(f.Location),
		"x=" + f.ExperienceLevel,
		"e=" + f.EmploymentType,
		"r=" + strconv.FormatBool(f.RemoteOnly),
		"s=" + strings.Join(f.Skills, "\x1f"),
		"smin=" + optInt(f.SalaryMin),
		"smax=" + optInt(f.SalaryMax),
		"lim=" + strconv.Itoa(f.Limit),
		"off=" + strconv.Itoa(f.Offset),
	}
	h := sha256.Sum256([]byte(strings.Join(parts, "\x1e")))
	return SearchCachePrefix + hex.EncodeToString(h[:16])
}

// SearchCachePrefix namespaces cached search pages; writes invalidate SearchCachePrefix + "*".
const SearchCachePrefix = "jobs:search:"

func optInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
