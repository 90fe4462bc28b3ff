package handler

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

const adminTokenIssuer = "shopchat-support"

// AdminClaims ідентифікують оператора на admin-з'єднанні.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateAdminToken підписує токен оператора, дійсний протягом ttl.
func GenerateAdminToken(secret, operator string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("admin token secret is empty")
	}

	now := time.Now()
	claims := AdminClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   operator,
			Issuer:    adminTokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ValidateAdminToken перевіряє підпис, issuer, термін дії та роль admin.
func ValidateAdminToken(secret, tokenString string) (*AdminClaims, error) {
	if tokenString == "" {
		return nil, errors.New("admin token missing")
	}

	claims := &AdminClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(adminTokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid admin token: %w", err)
	}
	if claims.Role != "admin" {
		return nil, errors.New("token does not carry the admin role")
	}
	return claims, nil
}
