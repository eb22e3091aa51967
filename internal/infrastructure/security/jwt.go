// Package security provides preview token utilities
package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ErrInvalidPreviewToken is returned for tokens that fail validation
var ErrInvalidPreviewToken = errors.New("invalid preview token")

// PreviewClaims is the payload of the preview cookie
type PreviewClaims struct {
	Preview bool   `json:"preview"`
	Slug    string `json:"slug,omitempty"`
	jwt.RegisteredClaims
}

// SignPreviewToken creates an HS256 token that turns preview mode on until ttl passes
func SignPreviewToken(slug, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("preview token secret is empty")
	}

	now := time.Now().UTC()
	claims := PreviewClaims{
		Preview: true,
		Slug:    slug,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        GenerateULID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign preview token: %w", err)
	}
	return signed, nil
}

// ValidatePreviewToken checks signature, algorithm and expiry and returns the claims
func ValidatePreviewToken(tokenString, secret string) (*PreviewClaims, error) {
	if tokenString == "" || secret == "" {
		return nil, ErrInvalidPreviewToken
	}

	claims := &PreviewClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPreviewToken, err)
	}
	if !token.Valid || !claims.Preview {
		return nil, ErrInvalidPreviewToken
	}
	return claims, nil
}
