package user

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"jobmatch/internal/domain/profile"
	"jobmatch/internal/domain/user"

	"github.com/google/uuid"
)

const maxExperienceYears = 60

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("user not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrInternal        = errors.New("internal error")
)

type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }
func (e *InputError) Unwrap() error { return ErrInvalidInput }

// UpdateProfileInput holds the fields to change. Nil fields are left untouched and
// blank strings clear the stored value.
type UpdateProfileInput struct {
	AvatarURL       *string
	Title           *string
	Bio             *string
	Location        *string
	Skills          *[]string
	ExperienceYears *int
}

func (in UpdateProfileInput) empty() bool {
	return in.AvatarURL == nil && in.Title == nil && in.Bio == nil &&
		in.Location == nil && in.Skills == nil && in.ExperienceYears == nil
}

type Me struct {
	User    user.User
	Profile profile.Profile
}

type Usecase interface {
	GetMe(ctx context.Context, userID uuid.UUID) (Me, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (profile.Profile, error)
}

type Service struct {
	users    user.Repository
	profiles profile.Repository
}

func NewService(users user.Repository, profiles profile.Repository) *Service {
	return &Service{users: users, profiles: profiles}
}

func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (Me, error) {
	usr, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Me{}, ErrNotFound
		}
		return Me{}, ErrInternal
	}

	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return Me{}, ErrProfileNotFound
		}
		return Me{}, ErrInternal
	}

	usr.PasswordHash = ""
	return Me{User: usr, Profile: p}, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (profile.Profile, error) {
	if in.empty() {
		return profile.Profile{}, &InputError{Message: "At least one profile field is required"}
	}

	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return profile.Profile{}, ErrProfileNotFound
		}
		return profile.Profile{}, ErrInternal
	}

	if in.AvatarURL != nil {
		v := optionalText(*in.AvatarURL)
		if v != nil && !isHTTPURL(*v) {
			return profile.Profile{}, &InputError{Message: "Avatar URL must be an http(s) URL"}
		}
		p.AvatarURL = v
	}
	if in.Title != nil {
		p.Title = optionalText(*in.Title)
	}
	if in.Bio != nil {
		p.Bio = optionalText(*in.Bio)
	}
	if in.Location != nil {
		p.Location = optionalText(*in.Location)
	}
	if in.Skills != nil {
		p.Skills = profile.NormalizeSkills(*in.Skills)
	}
	if in.ExperienceYears != nil {
		years := *in.ExperienceYears
		if years < 0 || years > maxExperienceYears {
			return profile.Profile{}, &InputError{Message: "Experience years must be between 0 and 60"}
		}
		p.ExperienceYears = &years
	}

	if err := s.profiles.Update(ctx, p); err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return profile.Profile{}, ErrProfileNotFound
		}
		return profile.Profile{}, ErrInternal
	}

	updated, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return profile.Profile{}, ErrInternal
	}
	return updated, nil
}

func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
