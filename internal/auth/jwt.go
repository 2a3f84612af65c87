package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// contextKey is a custom type used for context keys to avoid collisions.
type contextKey string

const (
	AdminSubjectKey contextKey = "adminSubject"

	tokenIssuer   = "bonsaichat-backend"
	adminAudience = "admin"
)

var ErrInvalidToken = errors.New("invalid token")

// AdminClaims are the claims carried by an admin access token.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// NewAccessToken generates a signed admin access token for the given subject.
func NewAccessToken(subject, jwtSecret string, expiration time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(expiration)
	claims := AdminClaims{
		Role: adminAudience,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings{adminAudience},
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "signing admin token")
	}
	return signed, expiresAt, nil
}

// ParseAccessToken validates an admin token and returns its claims.
// Expired and malformed tokens keep their jwt sentinel in the error chain.
func ParseAccessToken(tokenString, jwtSecret string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, hmacKey(jwtSecret),
		jwt.WithAudience(adminAudience),
		jwt.WithIssuer(tokenIssuer),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Role != adminAudience || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func hmacKey(secret string) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}
}
