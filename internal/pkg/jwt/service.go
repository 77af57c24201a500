package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

type Claims struct {
	UserID    uuid.UUID `json:"uid"`
	Email     string    `json:"email"`
	UserType  string    `json:"user_type"`
	TokenType string    `json:"typ"`
	gojwt.RegisteredClaims
}

// Subject is the identity a token is issued for.
type Subject struct {
	UserID   uuid.UUID
	Email    string
	UserType string
}

type Token struct {
	Value     string
	ID        string
	ExpiresAt time.Time
}

type Service interface {
	IssueAccessToken(sub Subject) (Token, error)
	IssueRefreshToken(sub Subject) (Token, error)
	ValidateAccessToken(token string) (*Claims, error)
	ValidateRefreshToken(token string) (*Claims, error)
	RefreshTTL() time.Duration
}

type HMACService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
	now           func() time.Time
}

func NewHMACService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, issuer string) *HMACService {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &HMACService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		issuer:        issuer,
		now:           time.Now,
	}
}

func (s *HMACService) RefreshTTL() time.Duration { return s.refreshTTL }

func (s *HMACService) IssueAccessToken(sub Subject) (Token, error) {
	return s.issue(sub, TokenTypeAccess, s.accessSecret, s.accessTTL)
}

func (s *HMACService) IssueRefreshToken(sub Subject) (Token, error) {
	return s.issue(sub, TokenTypeRefresh, s.refreshSecret, s.refreshTTL)
}

func (s *HMACService) ValidateAccessToken(token string) (*Claims, error) {
	return s.validate(token, TokenTypeAccess, s.accessSecret)
}

func (s *HMACService) ValidateRefreshToken(token string) (*Claims, error) {
	return s.validate(token, TokenTypeRefresh, s.refreshSecret)
}

func (s *HMACService) issue(sub Subject, typ string, secret []byte, ttl time.Duration) (Token, error) {
	if sub.UserID == uuid.Nil {
		return Token{}, fmt.Errorf("issue %s token: empty subject", typ)
	}
	now := s.now()
	exp := now.Add(ttl)
	jti := uuid.NewString()

	claims := Claims{
		UserID:    sub.UserID,
		Email:     sub.Email,
		UserType:  sub.UserType,
		TokenType: typ,
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        jti,
			Issuer:    s.issuer,
			Subject:   sub.UserID.String(),
			IssuedAt:  gojwt.NewNumericDate(now),
			NotBefore: gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(exp),
		},
	}

	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign %s token: %w", typ, err)
	}
	return Token{Value: signed, ID: jti, ExpiresAt: exp}, nil
}

func (s *HMACService) validate(token, typ string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithTimeFunc(s.now),
		gojwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.issuer))
	}

	parsed, err := gojwt.ParseWithClaims(token, claims, func(*gojwt.Token) (interface{}, error) {
		return secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, gojwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.TokenType != typ || claims.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
