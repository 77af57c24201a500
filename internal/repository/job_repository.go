package repository

import (
	"context"
	"fmt"
	"time"

	"jobmatch/internal/database"
	"jobmatch/internal/domain/job"

	"github.com/google/uuid"
)

const jobColumns = `id, employer_id, title, description, location, salary_range, salary_min, salary_max,
	required_skills, experience_level, employment_type, is_remote, is_active, created_at, updated_at`

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

func (r *PostgresJobRepository) Create(ctx context.Context, j job.Job) (job.Job, error) {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	row := r.db.QueryRow(ctx,
		`INSERT INTO jobs (id, employer_id, title, description, location, salary_range, salary_min, salary_max,
			required_skills, experience_level, employment_type, is_remote, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING `+jobColumns,
		j.ID, j.EmployerID, j.Title, j.Description, j.Location, j.SalaryRange, j.SalaryMin, j.SalaryMax,
		nonNilSkills(j.RequiredSkills), j.ExperienceLevel, j.EmploymentType, j.IsRemote, j.IsActive,
	)
	created, err := scanJob(row)
	if err != nil {
		return job.Job{}, fmt.Errorf("insert job: %w", err)
	}
	return created, nil
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Job, error) {
	j, err := scanJob(r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		if database.IsNoRows(err) {
			return job.Job{}, job.ErrNotFound
		}
		return job.Job{}, err
	}
	return j, nil
}

func (r *PostgresJobRepository) ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]job.Job, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+jobColumns+`
		 FROM jobs
		 WHERE employer_id = $1
		 ORDER BY created_at DESC, id DESC`,
		employerID,
	)
	if err != nil {
		return nil, err
	}
	return collectJobs(rows)
}

func (r *PostgresJobRepository) Update(ctx context.Context, j job.Job) (job.Job, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE jobs
		 SET title = $2, description = $3, location = $4, salary_range = $5, salary_min = $6, salary_max = $7,
			required_skills = $8, experience_level = $9, employment_type = $10, is_remote = $11, is_active = $12,
			updated_at = now()
		 WHERE id = $1
		 RETURNING `+jobColumns,
		j.ID, j.Title, j.Description, j.Location, j.SalaryRange, j.SalaryMin, j.SalaryMax,
		nonNilSkills(j.RequiredSkills), j.ExperienceLevel, j.EmploymentType, j.IsRemote, j.IsActive,
	)
	updated, err := scanJob(row)
	if err != nil {
		if database.IsNoRows(err) {
			return job.Job{}, job.ErrNotFound
		}
		return job.Job{}, fmt.Errorf("update job: %w", err)
	}
	return updated, nil
}

func (r *PostgresJobRepository) Search(ctx context.Context, f job.Filter) ([]job.Job, error) {
	query, args := buildSearchQuery(f)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectJobs(rows)
}

func (r *PostgresJobRepository) DeactivateOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.db.Exec(ctx,
		`UPDATE jobs SET is_active = false, updated_at = now() WHERE is_active AND created_at < $1`,
		cutoff.UTC(),
	)
}

func collectJobs(rows database.Rows) ([]job.Job, error) {
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanJob(row database.Row) (job.Job, error) {
	var j job.Job
	err := row.Scan(
		&j.ID, &j.EmployerID, &j.Title, &j.Description, &j.Location, &j.SalaryRange, &j.SalaryMin, &j.SalaryMax,
		&j.RequiredSkills, &j.ExperienceLevel, &j.EmploymentType, &j.IsRemote, &j.IsActive, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return job.Job{}, err
	}
	if j.RequiredSkills == nil {
		j.RequiredSkills = []string{}
	}
	return j, nil
}

func nonNilSkills(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
