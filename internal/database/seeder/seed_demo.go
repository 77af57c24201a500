package seeder

import (
	"context"
	"fmt"
	"strings"

	"jobmatch/internal/database"
	"jobmatch/internal/search"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	DemoEmployerEmail    = "employer@demo.jobmatch.dev"
	DemoEmployerPassword = "demo-employer"
)

// DemoSeeder creates one employer account with a handful of open listings.
// It is skipped when the demo employer already exists.
type DemoSeeder struct{}

func (DemoSeeder) Name() string { return "demo" }

func (DemoSeeder) Run(ctx context.Context, db database.DB) error {
	if err := RequireColumns(ctx, db, "jobs", "id", "employer_id", "required_skills", "salary_min", "salary_max", "is_remote"); err != nil {
		return err
	}

	var exists bool
	if err := db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, DemoEmployerEmail).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoEmployerPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	userID, profileID := uuid.New(), uuid.New()
	if _, err := tx.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, full_name, user_type) VALUES ($1, $2, $3, $4, 'employer')`,
		userID, DemoEmployerEmail, string(hash), "Demo Employer",
	); err != nil {
		return fmt.Errorf("insert demo employer: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO profiles (id, user_id, title, location) VALUES ($1, $2, $3, $4)`,
		profileID, userID, "Hiring at Demo Co", "Berlin",
	); err != nil {
		return fmt.Errorf("insert demo profile: %w", err)
	}

	for _, j := range demoJobs {
		lo, hi := search.ParseSalaryRange(j.Salary)
		remote := strings.Contains(strings.ToLower(j.Location), "remote")
		if _, err := tx.Exec(ctx,
			`INSERT INTO jobs (id, employer_id, title, description, location, salary_range, salary_min, salary_max,
				required_skills, experience_level, employment_type, is_remote)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			uuid.New(), profileID, j.Title, j.Description, j.Location, j.Salary, lo, hi,
			j.Skills, j.Level, j.Employment, remote,
		); err != nil {
			return fmt.Errorf("insert demo job %q: %w", j.Title, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type demoJob struct {
	Title       string
	Description string
	Location    string
	Salary      string
	Level       string
	Employment  string
	Skills      []string
}

var demoJobs = []demoJob{
	{
		Title:       "Senior Go Engineer",
		Description: "Own the services behind our hiring marketplace, from API design to Postgres tuning and on-call.",
		Location:    "Remote (EU)",
		Salary:      "$120,000 - $150,000",
		Level:       "senior",
		Employment:  "full-time",
		Skills:      []string{"Go", "PostgreSQL", "Redis"},
	},
	{
		Title:       "Frontend Developer",
		Description: "Build the candidate dashboard and job search experience with React and TypeScript.",
		Location:    "Berlin",
		Salary:      "70k-90k",
		Level:       "mid",
		Employment:  "full-time",
		Skills:      []string{"React", "TypeScript"},
	},
	{
		Title:       "Data Analyst Intern",
		Description: "Help the product team understand search behaviour and listing performance using SQL dashboards.",
		Location:    "Hamburg",
		Salary:      "$2,000",
		Level:       "entry",
		Employment:  "internship",
		Skills:      []string{"SQL", "Data Analysis"},
	},
}
