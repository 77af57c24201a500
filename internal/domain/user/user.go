package user

import (
	"context"
	"errors"
	"time"

	"jobmatch/internal/domain/profile"

	"github.com/google/uuid"
)

type Type string

const (
	TypeJobSeeker Type = "job_seeker"
	TypeEmployer  Type = "employer"
)

func (t Type) Valid() bool {
	return t == TypeJobSeeker || t == TypeEmployer
}

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FullName     string
	UserType     Type
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Repository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	// CreateWithProfile stores the user and its empty profile atomically.
	// A duplicate email yields ErrEmailTaken.
	CreateWithProfile(ctx context.Context, u User, p profile.Profile) error
}
