package repository

import (
	"context"
	"errors"
	"strings"

	"jobmatch/internal/database"
	"jobmatch/internal/search"

	"github.com/google/uuid"
)

var ErrSkillExists = errors.New("skill already exists")

type Skill struct {
	ID       uuid.UUID
	Name     string
	Category string
}

type SkillRepository interface {
	ListSkills(ctx context.Context, prefix string, limit int) ([]Skill, error)
	CreateSkill(ctx context.Context, name, category string) (Skill, error)
}

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

func (r *PostgresSkillRepository) ListSkills(ctx context.Context, prefix string, limit int) ([]Skill, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var (
		rows database.Rows
		err  error
	)
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		rows, err = r.db.Query(ctx, `SELECT id, name, category FROM skills ORDER BY name ASC LIMIT $1`, limit)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT id, name, category FROM skills WHERE name ILIKE $1 ORDER BY name ASC LIMIT $2`,
			search.PrefixPattern(prefix), limit,
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Skill, 0)
	for rows.Next() {
		var s Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.Category); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSkillRepository) CreateSkill(ctx context.Context, name, category string) (Skill, error) {
	id := uuid.New()
	_, err := r.db.Exec(ctx, `INSERT INTO skills (id, name, category) VALUES ($1, $2, $3)`, id, name, category)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return Skill{}, ErrSkillExists
		}
		return Skill{}, err
	}
	return Skill{ID: id, Name: name, Category: category}, nil
}
