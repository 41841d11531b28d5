package utils

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type JwtCustomClaim struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	IsStaff   bool   `json:"is_staff"`
	TokenType string `json:"token_type"`
	jwt.StandardClaims
}

var jwtSecret = []byte(getJwtSecret())

func getJwtSecret() string {
	secret := os.Getenv("API_SECRET")
	if secret == "" {
		return "Invoicing-Secret"
	}
	return secret
}

func tokenLifespanHours(envKey string, def int) int {
	lifespan, err := strconv.Atoi(os.Getenv(envKey))
	if err != nil || lifespan <= 0 {
		return def
	}
	return lifespan
}

// JwtGenerate issues a short-lived access token.
func JwtGenerate(accountID int, email string, name string, isStaff bool) (string, error) {
	lifespan := tokenLifespanHours("TOKEN_HOUR_LIFESPAN", 1)

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &JwtCustomClaim{
		ID:        accountID,
		Email:     email,
		Name:      name,
		IsStaff:   isStaff,
		TokenType: TokenTypeAccess,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour * time.Duration(lifespan)).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	})

	return t.SignedString(jwtSecret)
}

// JwtGenerateRefresh issues a longer-lived refresh token with a jti so the
// server can keep an allow-list of live refresh tokens.
func JwtGenerateRefresh(accountID int, email string) (token string, jti string, err error) {
	lifespan := tokenLifespanHours("REFRESH_TOKEN_HOUR_LIFESPAN", 24*7)
	jti = uuid.NewString()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &JwtCustomClaim{
		ID:        accountID,
		Email:     email,
		TokenType: TokenTypeRefresh,
		StandardClaims: jwt.StandardClaims{
			Id:        jti,
			ExpiresAt: time.Now().Add(time.Hour * time.Duration(lifespan)).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	})

	token, err = t.SignedString(jwtSecret)
	return token, jti, err
}

func RefreshTokenLifespan() time.Duration {
	return time.Duration(tokenLifespanHours("REFRESH_TOKEN_HOUR_LIFESPAN", 24*7)) * time.Hour
}

func JwtValidate(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &JwtCustomClaim{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("there's a problem with the signing method")
		}
		return jwtSecret, nil
	})
}
