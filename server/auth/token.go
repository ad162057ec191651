package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const (
	// Issuer is the access token issuer.
	Issuer = "learnloop"
	// AccessTokenDuration is the lifetime of an access token.
	AccessTokenDuration = 7 * 24 * time.Hour
)

// ClaimsMessage are the JWT claims carried by an access token.
type ClaimsMessage struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateAccessToken signs an access token for the given principal.
func GenerateAccessToken(userUID string, role Role, secret string) (string, error) {
	expirationTime := time.Now().Add(AccessTokenDuration)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &ClaimsMessage{
		Role: role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   userUID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	})
	return token.SignedString([]byte(secret))
}

// ParseAccessToken verifies an access token and returns the user UID and role.
func ParseAccessToken(tokenString, secret string) (string, Role, error) {
	claims := &ClaimsMessage{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", 0, errors.Wrap(err, "failed to parse access token")
	}
	if !token.Valid {
		return "", 0, errors.New("invalid access token")
	}

	role, err := RoleFromString(claims.Role)
	if err != nil {
		return "", 0, err
	}
	return claims.Subject, role, nil
}
