package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer signs and verifies the stateless bearer tokens used by the gate.
// Tokens are HS256 JWTs carrying the user id as subject; nothing is persisted,
// a token is valid iff its signature checks out and its expiry has not passed.
//
// The signing secret and the per-issuance-path lifetimes are injected so tests
// can construct issuers with distinct keys.
type Issuer struct {
	secret    []byte
	signupTTL time.Duration
	loginTTL  time.Duration
}

// NewIssuer creates a token issuer with the given secret and token lifetimes.
func NewIssuer(secret string, signupTTL, loginTTL time.Duration) *Issuer {
	return &Issuer{
		secret:    []byte(secret),
		signupTTL: signupTTL,
		loginTTL:  loginTTL,
	}
}

// SignupToken issues a token for a freshly registered account.
func (i *Issuer) SignupToken(userID string) (string, error) {
	return i.sign(userID, i.signupTTL)
}

// LoginToken issues a token for a credential login.
func (i *Issuer) LoginToken(userID string) (string, error) {
	return i.sign(userID, i.loginTTL)
}

func (i *Issuer) sign(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify checks the token's signature and expiry and returns the subject
// user id. Any failure (malformed token, wrong key, wrong algorithm, expired)
// comes back as ErrInvalidCredential.
func (i *Issuer) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidCredential
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidCredential
	}
	return claims.Subject, nil
}
