package repository

import (
	"context"

	"jobmatch/internal/database"
	"jobmatch/internal/domain/profile"

	"github.com/google/uuid"
)

const profileColumns = `id, user_id, avatar_url, title, bio, location, skills, experience_years, created_at, updated_at`

type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (profile.Profile, error) {
	row := r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID)

	var p profile.Profile
	if err := row.Scan(
		&p.ID, &p.UserID, &p.AvatarURL, &p.Title, &p.Bio, &p.Location,
		&p.Skills, &p.ExperienceYears, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		if database.IsNoRows(err) {
			return profile.Profile{}, profile.ErrNotFound
		}
		return profile.Profile{}, err
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	return p, nil
}

func (r *PostgresProfileRepository) Update(ctx context.Context, p profile.Profile) error {
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}
	affected, err := r.db.Exec(ctx,
		`UPDATE profiles
		 SET avatar_url = $2, title = $3, bio = $4, location = $5, skills = $6, experience_years = $7, updated_at = now()
		 WHERE id = $1`,
		p.ID, p.AvatarURL, p.Title, p.Bio, p.Location, skills, p.ExperienceYears,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return profile.ErrNotFound
	}
	return nil
}
