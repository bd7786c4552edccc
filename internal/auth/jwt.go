package auth

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rogerio-castellano/storefront/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")

var (
	mu        sync.RWMutex
	jwtSecret = []byte("dev-only-secret")
	tokenTTL  = 15 * time.Minute
)

// Claims is what the HTTP layer needs from a verified token.
type Claims struct {
	UserID   int
	Username string
	Role     string
}

// Configure replaces the signing secret and token lifetime. Zero values keep the current setting.
func Configure(secret string, ttl time.Duration) {
	mu.Lock()
	defer mu.Unlock()
	if secret != "" {
		jwtSecret = []byte(secret)
	}
	if ttl > 0 {
		tokenTTL = ttl
	}
}

func settings() ([]byte, time.Duration) {
	mu.RLock()
	defer mu.RUnlock()
	return jwtSecret, tokenTTL
}

func GenerateToken(user models.User) (string, error) {
	secret, ttl := settings()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func ParseToken(tokenStr string) (Claims, error) {
	secret, _ := settings()
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	sub, ok := mc["sub"].(float64)
	if !ok {
		return Claims{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	c := Claims{UserID: int(sub)}
	c.Username, _ = mc["username"].(string)
	c.Role, _ = mc["role"].(string)
	return c, nil
}

// TokenFromHeader verifies a "Bearer <token>" Authorization header value.
func TokenFromHeader(authorization string) (Claims, error) {
	tokenStr, ok := strings.CutPrefix(authorization, "Bearer ")
	if !ok || tokenStr == "" {
		return Claims{}, fmt.Errorf("%w: missing bearer token", ErrInvalidToken)
	}
	return ParseToken(tokenStr)
}
