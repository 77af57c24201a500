package auth

import (
	"context"
	"errors"
	"log"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"jobmatch/internal/domain/profile"
	"jobmatch/internal/domain/user"
	"jobmatch/internal/pkg/jwt"
)

const minPasswordLength = 6

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidSession         = errors.New("invalid session")
	ErrInternal               = errors.New("internal error")
)

// InputError carries the message shown to the caller for a rejected sign up or sign in.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }
func (e *InputError) Unwrap() error { return ErrInvalidInput }

func invalid(msg string) error { return &InputError{Message: msg} }

type RegisterInput struct {
	Email    string
	Password string
	FullName string
	UserType string
}

type LoginInput struct {
	Email    string
	Password string
}

type Session struct {
	User             user.User
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

type CurrentSession struct {
	User      user.User
	ExpiresAt time.Time
}

// SessionStore tracks live refresh tokens. Consume removes a token and reports whether it
// was still live, in one step, so a token can be spent only once.
type SessionStore interface {
	Save(ctx context.Context, jti string, userID uuid.UUID, ttl time.Duration) error
	Consume(ctx context.Context, jti string) (bool, error)
}

// SignOutNotifier is told when a user's session is revoked.
type SignOutNotifier interface {
	NotifySignedOut(userID uuid.UUID)
}

type AuthUsecase interface {
	Register(ctx context.Context, in RegisterInput) (Session, error)
	Login(ctx context.Context, in LoginInput) (Session, error)
	Refresh(ctx context.Context, refreshToken string) (Session, error)
	Logout(ctx context.Context, refreshToken string) error
	Session(ctx context.Context, accessToken string) (CurrentSession, error)
}

type Service struct {
	users    user.Repository
	tokens   jwt.Service
	sessions SessionStore
	notifier SignOutNotifier
	logger   *log.Logger

	comparePassword func(hash, password []byte) error
}

// dummyHash is compared against when the email is unknown so both failure paths cost one bcrypt run.
var dummyHash = sync.OnceValue(func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("jobmatch-unknown-account"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
})

func NewService(users user.Repository, tokens jwt.Service, sessions SessionStore, notifier SignOutNotifier, logger *log.Logger) *Service {
	return &Service{
		users:           users,
		tokens:          tokens,
		sessions:        sessions,
		notifier:        notifier,
		logger:          logger,
		comparePassword: bcrypt.CompareHashAndPassword,
	}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return Session{}, invalid("Email and password are required")
	}
	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		return Session{}, invalid("Full name is required for registration")
	}
	if !isValidPassword(in.Password) {
		return Session{}, invalid("Password must be at least 6 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return Session{}, invalid("Email address is invalid")
	}
	userType := user.Type(strings.ToLower(strings.TrimSpace(in.UserType)))
	if userType == "" {
		userType = user.TypeJobSeeker
	}
	if !userType.Valid() {
		return Session{}, invalid("User type must be job_seeker or employer")
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return Session{}, ErrInternal
	}
	if exists {
		return Session{}, ErrEmailAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, ErrInternal
	}

	u := user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		UserType:     userType,
	}
	p := profile.Profile{ID: uuid.New(), UserID: u.ID, Skills: []string{}}

	if err := s.users.CreateWithProfile(ctx, u, p); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return Session{}, ErrEmailAlreadyRegistered
		}
		s.logf("[Auth] register failed email=%s err=%v", email, err)
		return Session{}, ErrInternal
	}

	created, err := s.users.GetByID(ctx, u.ID)
	if err != nil {
		return Session{}, ErrInternal
	}
	return s.issueSession(ctx, created)
}

func (s *Service) Login(ctx context.Context, in LoginInput) (Session, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return Session{}, invalid("Email and password are required")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			_ = s.comparePassword(dummyHash(), []byte(in.Password))
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, ErrInternal
	}

	if err := s.comparePassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	return s.issueSession(ctx, u)
}

// Refresh exchanges a live refresh token for a new token pair. The presented token is spent.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	claims, err := s.consumeRefreshToken(ctx, refreshToken)
	if err != nil {
		return Session{}, err
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Session{}, ErrInvalidSession
		}
		return Session{}, ErrInternal
	}
	return s.issueSession(ctx, u)
}

func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.consumeRefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}
	s.logf("[Auth] signed out user=%s", claims.UserID)
	if s.notifier != nil {
		s.notifier.NotifySignedOut(claims.UserID)
	}
	return nil
}

func (s *Service) Session(ctx context.Context, accessToken string) (CurrentSession, error) {
	claims, err := s.tokens.ValidateAccessToken(strings.TrimSpace(accessToken))
	if err != nil {
		return CurrentSession{}, ErrInvalidSession
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return CurrentSession{}, ErrInvalidSession
		}
		return CurrentSession{}, ErrInternal
	}

	var exp time.Time
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	return CurrentSession{User: sanitizeUser(u), ExpiresAt: exp}, nil
}

func (s *Service) consumeRefreshToken(ctx context.Context, refreshToken string) (*jwt.Claims, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, invalid("Refresh token is required")
	}
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidSession
	}
	if s.sessions != nil {
		ok, err := s.sessions.Consume(ctx, claims.ID)
		if err != nil {
			return nil, ErrInternal
		}
		if !ok {
			return nil, ErrInvalidSession
		}
	}
	return claims, nil
}

func (s *Service) issueSession(ctx context.Context, u user.User) (Session, error) {
	sub := jwt.Subject{UserID: u.ID, Email: u.Email, UserType: string(u.UserType)}

	access, err := s.tokens.IssueAccessToken(sub)
	if err != nil {
		return Session{}, ErrInternal
	}
	refresh, err := s.tokens.IssueRefreshToken(sub)
	if err != nil {
		return Session{}, ErrInternal
	}
	if s.sessions != nil {
		if err := s.sessions.Save(ctx, refresh.ID, u.ID, s.tokens.RefreshTTL()); err != nil {
			s.logf("[Auth] session store failed user=%s err=%v", u.ID, err)
			return Session{}, ErrInternal
		}
	}

	return Session{
		User:             sanitizeUser(u),
		AccessToken:      access.Value,
		AccessExpiresAt:  access.ExpiresAt,
		RefreshToken:     refresh.Value,
		RefreshExpiresAt: refresh.ExpiresAt,
	}, nil
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	return strings.ToLower(email)
}

func isValidPassword(pw string) bool {
	return len(pw) >= minPasswordLength
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
