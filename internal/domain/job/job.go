package job

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("job not found")

const (
	LevelEntry  = "entry"
	LevelMid    = "mid"
	LevelSenior = "senior"
	LevelLead   = "lead"
)

const (
	EmploymentFullTime   = "full-time"
	EmploymentPartTime   = "part-time"
	EmploymentContract   = "contract"
	EmploymentInternship = "internship"
)

func ValidExperienceLevel(s string) bool {
	switch s {
	case LevelEntry, LevelMid, LevelSenior, LevelLead:
		return true
	}
	return false
}

func ValidEmploymentType(s string) bool {
	switch s {
	case EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentInternship:
		return true
	}
	return false
}

type Job struct {
	ID              uuid.UUID
	EmployerID      uuid.UUID
	Title           string
	Description     string
	Location        *string
	SalaryRange     *string
	SalaryMin       *int64
	SalaryMax       *int64
	RequiredSkills  []string
	ExperienceLevel *string
	EmploymentType  *string
	IsRemote        bool
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Repository interface {
	Create(ctx context.Context, j Job) (Job, error)
	GetByID(ctx context.Context, id uuid.UUID) (Job, error)
	ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]Job, error)
	Update(ctx context.Context, j Job) (Job, error)
	Search(ctx context.Context, f Filter) ([]Job, error)
	DeactivateOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
