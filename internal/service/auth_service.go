package service

import (
	"errors"
	"fmt"
	"strings"
	"syncfit/connect-api/internal/domain"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// --- Error Definitions ---
var (
	ErrTokenGeneration = errors.New("failed to generate authentication token")
	ErrTokenExpired    = errors.New("token has expired")
	ErrTokenInvalid    = errors.New("invalid token")
)

const tokenIssuer = "syncfit-connect"

// AuthService issues and verifies bearer tokens.
type AuthService interface {
	IssueToken(identity domain.Identity) (string, error)
	ParseToken(tokenString string) (*domain.Identity, error)
}

// TokenClaims defines the structure of the JWT payload.
type TokenClaims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// authService implements the AuthService interface.
type authService struct {
	jwtSecret     []byte
	jwtExpiration time.Duration
	now           func() time.Time
}

// NewAuthService creates a new instance of authService.
func NewAuthService(jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour
	}
	return &authService{
		jwtSecret:     []byte(jwtSecret),
		jwtExpiration: jwtExpiration,
		now:           time.Now,
	}
}

// IssueToken signs the identity. Whoever calls this endpoint has already
// authenticated the user with the identity provider.
func (s *authService) IssueToken(identity domain.Identity) (string, error) {
	email := strings.TrimSpace(identity.Email)
	if email == "" {
		return "", invalid("email is required")
	}

	now := s.now()
	claims := &TokenClaims{
		Email: email,
		Name:  identity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}
	return signed, nil
}

// ParseToken validates signature and expiry and returns the identity.
func (s *authService) ParseToken(tokenString string) (*domain.Identity, error) {
	claims := &TokenClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid || claims.Email == "" {
		return nil, ErrTokenInvalid
	}
	// v4 treats a missing exp as valid; every token we issue has one.
	if claims.ExpiresAt == nil {
		return nil, ErrTokenInvalid
	}
	return &domain.Identity{Email: claims.Email, Name: claims.Name}, nil
}
