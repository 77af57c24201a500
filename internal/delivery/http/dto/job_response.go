package dto

import (
	"time"

	"jobmatch/internal/domain/job"

	"github.com/google/uuid"
)

const (
	DisplayRemote       = "Remote"
	DisplayCompetitive  = "Competitive"
	DisplayNotSpecified = "Not specified"
)

// JobDisplay holds the listing card text with fallbacks for missing fields.
type JobDisplay struct {
	Location        string `json:"location"`
	Salary          string `json:"salary"`
	ExperienceLevel string `json:"experience_level"`
}

type JobResponse struct {
	ID              uuid.UUID  `json:"id"`
	EmployerID      uuid.UUID  `json:"employer_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Location        *string    `json:"location"`
	SalaryRange     *string    `json:"salary_range"`
	SalaryMin       *int64     `json:"salary_min"`
	SalaryMax       *int64     `json:"salary_max"`
	RequiredSkills  []string   `json:"required_skills"`
	ExperienceLevel *string    `json:"experience_level"`
	EmploymentType  *string    `json:"employment_type"`
	IsRemote        bool       `json:"is_remote"`
	IsActive        bool       `json:"is_active"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Display         JobDisplay `json:"display"`
}

type JobSearchResponse struct {
	Filter job.Filter    `json:"filter"`
	Jobs   []JobResponse `json:"jobs"`
	Count  int           `json:"count"`
}

func NewJobResponse(j job.Job) JobResponse {
	skills := j.RequiredSkills
	if skills == nil {
		skills = []string{}
	}
	return JobResponse{
		ID:              j.ID,
		EmployerID:      j.EmployerID,
		Title:           j.Title,
		Description:     j.Description,
		Location:        j.Location,
		SalaryRange:     j.SalaryRange,
		SalaryMin:       j.SalaryMin,
		SalaryMax:       j.SalaryMax,
		RequiredSkills:  skills,
		ExperienceLevel: j.ExperienceLevel,
		EmploymentType:  j.EmploymentType,
		IsRemote:        j.IsRemote,
		IsActive:        j.IsActive,
		CreatedAt:       j.CreatedAt,
		UpdatedAt:       j.UpdatedAt,
		Display: JobDisplay{
			Location:        orDefault(j.Location, DisplayRemote),
			Salary:          orDefault(j.SalaryRange, DisplayCompetitive),
			ExperienceLevel: orDefault(j.ExperienceLevel, DisplayNotSpecified),
		},
	}
}

func NewJobResponses(items []job.Job) []JobResponse {
	out := make([]JobResponse, 0, len(items))
	for _, j := range items {
		out = append(out, NewJobResponse(j))
	}
	return out
}

func orDefault(v *string, def string) string {
	if v == nil || *v == "" {
		return def
	}
	return *v
}
