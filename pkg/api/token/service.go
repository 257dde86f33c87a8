package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/marmos91/radiusauth/pkg/auth"
)

// Common errors for token operations.
var (
	ErrInvalidToken        = errors.New("invalid token")
	ErrExpiredToken        = errors.New("token has expired")
	ErrTokenSigningFailed  = errors.New("failed to sign token")
	ErrInvalidSecretLength = errors.New("JWT secret must be at least 32 characters")
	ErrNotPassed           = errors.New("response did not pass authentication")
)

// DefaultIssuer is the iss claim when none is configured.
const DefaultIssuer = "radiusauth"

// DefaultAccessTokenDuration is the access token lifetime when none is configured.
const DefaultAccessTokenDuration = 15 * time.Minute

// Config holds configuration for token generation.
type Config struct {
	// Secret is the HMAC signing key. Must be at least 32 characters.
	Secret string

	// Issuer is the token issuer claim. Default: "radiusauth"
	Issuer string

	// AccessTokenDuration is the lifetime of access tokens. Default: 15 minutes.
	AccessTokenDuration time.Duration
}

// Service issues and validates HS256 access tokens.
type Service struct {
	config Config
	now    func() time.Time
}

// Token is the token returned to a client after a successful login.
type Token struct {
	// AccessToken is the signed JWT.
	AccessToken string `json:"access_token" yaml:"access_token"`

	// TokenType is always "Bearer".
	TokenType string `json:"token_type" yaml:"token_type"`

	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int64 `json:"expires_in" yaml:"expires_in"`

	// ExpiresAt is the access token expiration time.
	ExpiresAt time.Time `json:"expires_at" yaml:"expires_at"`
}

// NewService creates a token service with the given configuration.
func NewService(config Config) (*Service, error) {
	if len(config.Secret) < 32 {
		return nil, ErrInvalidSecretLength
	}

	// Apply defaults
	if config.Issuer == "" {
		config.Issuer = DefaultIssuer
	}
	if config.AccessTokenDuration <= 0 {
		config.AccessTokenDuration = DefaultAccessTokenDuration
	}

	return &Service{config: config, now: time.Now}, nil
}

// Issue creates an access token for a passing response.
func (s *Service) Issue(resp *auth.Response) (*Token, error) {
	if !resp.Passed() {
		return nil, ErrNotPassed
	}

	now := s.now()
	expiresAt := now.Add(s.config.AccessTokenDuration)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.config.Issuer,
			Subject:   resp.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Username: resp.Username,
		Provider: resp.Provider,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenSigningFailed, err)
	}

	return &Token{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.config.AccessTokenDuration.Seconds()),
		ExpiresAt:   expiresAt,
	}, nil
}

// Validate parses a token and returns its claims.
// Returns ErrExpiredToken for expired tokens and ErrInvalidToken otherwise.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	},
		jwt.WithIssuer(s.config.Issuer),
		jwt.WithTimeFunc(s.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// AccessTokenDuration returns the configured access token lifetime.
func (s *Service) AccessTokenDuration() time.Duration {
	return s.config.AccessTokenDuration
}
