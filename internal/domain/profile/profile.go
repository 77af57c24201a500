package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("profile not found")

type Profile struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	AvatarURL       *string
	Title           *string
	Bio             *string
	Location        *string
	Skills          []string
	ExperienceYears *int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Repository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (Profile, error)
	Update(ctx context.Context, p Profile) error
}

// NormalizeSkills trims entries, drops blanks and removes case-insensitive duplicates,
// keeping the first spelling seen.
func NormalizeSkills(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.Join(strings.Fields(s), " ")
		if s == "" {
			continue
		}
		k := strings.ToLower(s)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}
