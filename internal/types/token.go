package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pageza/bitebox/frontend/internal/models"
)

// ErrMalformedToken is returned when a session token cannot be decoded.
var ErrMalformedToken = errors.New("malformed session token")

// TokenClaims is the payload the backend puts in session tokens.
// It is read without verifying the signature and only drives display.
type TokenClaims struct {
	UserID   FlexString `json:"user_id"`
	Name     string     `json:"name"`
	PhotoURL string     `json:"url_photo"`
	jwt.RegisteredClaims
}

// DecodeToken reads the payload segment of a three-segment token. The
// header and signature are the backend's concern and are not inspected.
func DecodeToken(token string) (*TokenClaims, error) {
	segments := strings.Split(strings.TrimSpace(token), ".")
	if len(segments) != 3 {
		return nil, fmt.Errorf("%w: expected three segments", ErrMalformedToken)
	}

	payload, err := jwt.NewParser().DecodeSegment(segments[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	claims := &TokenClaims{}
	if err := json.Unmarshal(payload, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if claims.UserID == "" && claims.Name == "" {
		return nil, fmt.Errorf("%w: no identity claims", ErrMalformedToken)
	}
	return claims, nil
}

// Expired reports whether the token carries an exp claim that is not after now.
func (c *TokenClaims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return !c.ExpiresAt.Time.After(now)
}

// User builds the display identity held by a session.
func (c *TokenClaims) User() *models.User {
	return &models.User{
		ID:       string(c.UserID),
		Name:     c.Name,
		PhotoURL: c.PhotoURL,
	}
}
