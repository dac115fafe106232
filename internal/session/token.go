package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the kiosk session token issued at unlock. It identifies the
// unlocking range officer to the admin endpoints; it does not by itself
// authorize check-in verification.
type TokenClaims struct {
	MemberID string `json:"member_id,omitempty"`
	Name     string `json:"name"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies kiosk session tokens
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates an issuer with a 12h token lifetime, long enough
// for a full shoot day.
func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: 12 * time.Hour}
}

// Issue creates a signed session token for the unlocking identity
func (t *TokenIssuer) Issue(by Identity) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		MemberID: by.MemberID,
		Name:     by.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "rangekiosk",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses a session token and returns its claims
func (t *TokenIssuer) Verify(tokenString string) (*TokenClaims, error) {
	var claims TokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}
	return &claims, nil
}
