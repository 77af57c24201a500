package job

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// ValidationError maps form fields to user-facing messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid job: " + strings.Join(parts, "; ")
}

// Draft is the editable part of a listing as submitted by an employer.
type Draft struct {
	Title           string
	Description     string
	Location        string
	SalaryRange     string
	ExperienceLevel string
	EmploymentType  string
	Skills          []string
}

const (
	MinTitleLen       = 3
	MinDescriptionLen = 50
	MinLocationLen    = 2
)

// Validate applies the posting form rules. It returns nil or a *ValidationError.
func (d Draft) Validate() error {
	fields := map[string]string{}
	if utf8.RuneCountInString(strings.TrimSpace(d.Title)) < MinTitleLen {
		fields["title"] = "Title must be at least 3 characters"
	}
	if utf8.RuneCountInString(strings.TrimSpace(d.Description)) < MinDescriptionLen {
		fields["description"] = "Description must be at least 50 characters"
	}
	if utf8.RuneCountInString(strings.TrimSpace(d.Location)) < MinLocationLen {
		fields["location"] = "Location is required"
	}
	if strings.TrimSpace(d.SalaryRange) == "" {
		fields["salary_range"] = "Salary range is required"
	}
	switch lvl := strings.ToLower(strings.TrimSpace(d.ExperienceLevel)); {
	case lvl == "":
		fields["experience_level"] = "Experience level is required"
	case !ValidExperienceLevel(lvl):
		fields["experience_level"] = "Experience level must be one of entry, mid, senior, lead"
	}
	if et := strings.ToLower(strings.TrimSpace(d.EmploymentType)); et != "" && !ValidEmploymentType(et) {
		fields["employment_type"] = "Employment type must be one of full-time, part-time, contract, internship"
	}
	if len(nonBlank(d.Skills)) == 0 {
		fields["skills"] = "At least one skill is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// MentionsRemote reports whether a location reads as a remote position.
func MentionsRemote(location string) bool {
	return strings.Contains(strings.ToLower(location), "remote")
}
