package dto

import (
	"time"

	"jobmatch/internal/domain/profile"
	"jobmatch/internal/domain/user"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	UserType  string    `json:"user_type"`
	CreatedAt time.Time `json:"created_at"`
}

type ProfileResponse struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	AvatarURL       *string   `json:"avatar_url"`
	Title           *string   `json:"title"`
	Bio             *string   `json:"bio"`
	Location        *string   `json:"location"`
	Skills          []string  `json:"skills"`
	ExperienceYears *int      `json:"experience_years"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type MeResponse struct {
	User    UserResponse    `json:"user"`
	Profile ProfileResponse `json:"profile"`
}

type SessionResponse struct {
	User             UserResponse `json:"user"`
	AccessToken      string       `json:"access_token"`
	AccessExpiresAt  time.Time    `json:"access_expires_at"`
	RefreshToken     string       `json:"refresh_token"`
	RefreshExpiresAt time.Time    `json:"refresh_expires_at"`
	TokenType        string       `json:"token_type"`
}

type CurrentSessionResponse struct {
	User      UserResponse `json:"user"`
	ExpiresAt time.Time    `json:"expires_at"`
}

func NewUserResponse(u user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		UserType:  string(u.UserType),
		CreatedAt: u.CreatedAt,
	}
}

func NewProfileResponse(p profile.Profile) ProfileResponse {
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}
	return ProfileResponse{
		ID:              p.ID,
		UserID:          p.UserID,
		AvatarURL:       p.AvatarURL,
		Title:           p.Title,
		Bio:             p.Bio,
		Location:        p.Location,
		Skills:          skills,
		ExperienceYears: p.ExperienceYears,
		UpdatedAt:       p.UpdatedAt,
	}
}
