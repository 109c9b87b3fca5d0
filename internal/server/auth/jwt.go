// Package auth issues and verifies the HS256 bearer tokens handed out at login.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/assistant/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the username as subject and the session id as jti.
type Claims struct {
	jwt.RegisteredClaims
}

// GenerateToken signs a token for username that expires after validityDuration.
// sessionID ties the token to a row in the sessions table.
func GenerateToken(username, sessionID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies signature, algorithm and expiry and returns the claims.
// Expired tokens yield common.ErrTokenExpired; every other verification
// failure yields common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" || claims.ID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
