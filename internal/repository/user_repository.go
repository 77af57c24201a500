package repository

import (
	"context"
	"fmt"

	"jobmatch/internal/database"
	"jobmatch/internal/domain/profile"
	"jobmatch/internal/domain/user"

	"github.com/google/uuid"
)

const userColumns = `id, email, password_hash, full_name, user_type, created_at, updated_at`

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
	if err := row.Scan(&exists); err != nil {
		if database.IsNoRows(err) {
			return false, nil
		}
		return false, err
	}
	return exists, nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *PostgresUserRepository) CreateWithProfile(ctx context.Context, u user.User, p profile.Profile) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, full_name, user_type) VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Email, u.PasswordHash, u.FullName, string(u.UserType),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return user.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}

	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO profiles (id, user_id, avatar_url, title, bio, location, skills, experience_years)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, u.ID, p.AvatarURL, p.Title, p.Bio, p.Location, skills, p.ExperienceYears,
	)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func scanUser(row database.Row) (user.User, error) {
	var u user.User
	var userType string
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &userType, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if database.IsNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	u.UserType = user.Type(userType)
	return u, nil
}
