// Package auth resolves the current user (the owner of inserted records)
// from an HS256-signed bearer token whose "sub" claim is the owner id.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrMissingClaim = errors.New("missing required claim")
	ErrNoSecret     = errors.New("jwt secret is not configured")
)

// Verifier turns a token into the id of the user it was issued to.
type Verifier interface {
	Verify(tokenString string) (ownerID string, err error)
}

// JWTVerifier implements Verifier using HS256 signed JWTs.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a new JWT verifier with the given secret.
func NewJWTVerifier(secret []byte) *JWTVerifier {
	return &JWTVerifier{secret: secret}
}

// Verify validates the token and extracts the owner id from the "sub" claim.
func (v *JWTVerifier) Verify(tokenString string) (string, error) {
	if len(v.secret) == 0 {
		return "", ErrNoSecret
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("%w: sub", ErrMissingClaim)
	}
	return sub, nil
}

// Generate creates a token for ownerID that expires after expiresIn.
func (v *JWTVerifier) Generate(ownerID string, expiresIn time.Duration) (string, error) {
	if len(v.secret) == 0 {
		return "", ErrNoSecret
	}
	if ownerID == "" {
		return "", fmt.Errorf("%w: sub", ErrMissingClaim)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   ownerID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// SubjectUnverified reads the "sub" claim without checking the signature.
// The records service still verifies every request; this is only used by
// clients that hold a token but not the signing secret.
func SubjectUnverified(tokenString string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("%w: sub", ErrMissingClaim)
	}
	return sub, nil
}
