// Package token issues and validates the JWT access tokens handed out for
// accepted logins.
package token

import "github.com/golang-jwt/jwt/v5"

// Claims represents the JWT claims of an access token.
//
// The registered ID claim (jti) is unique per token and the subject is the
// canonical username.
type Claims struct {
	jwt.RegisteredClaims

	// Username is the canonical username that passed authentication.
	Username string `json:"username"`

	// Provider names the primary provider that accepted the credentials.
	Provider string `json:"provider"`
}
