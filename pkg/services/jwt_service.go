package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// tokenLifetime is how long issued bearer tokens stay valid.
const tokenLifetime = 24 * time.Hour

// Claims defines the JWT payload. Role travels inside the token so the
// middleware can gate routes without a database round trip.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed HS256 bearer token for a user.
func GenerateToken(secret []byte, userID uuid.UUID, role string) (string, error) {
	expirationTime := time.Now().Add(tokenLifetime)

	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "reelproof-api",
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(secret)
	if err != nil {
		log.Errorf("Failed to sign JWT token for user %s: %v", userID.String(), err)
		return "", err
	}

	log.Debugf("Generated JWT for user %s, expires at %s", userID.String(), expirationTime.Format(time.RFC3339))
	return tokenString, nil
}

// ValidateToken validates a bearer token and returns its claims.
func ValidateToken(secret []byte, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})

	if err != nil {
		log.Warnf("JWT validation failed: %v", err)
		return nil, err
	}

	if !token.Valid {
		log.Warn("Invalid JWT token.")
		return nil, jwt.ErrInvalidKey
	}

	return claims, nil
}
