package auth

import (
	"errors"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalid = errors.New("invalid token")

// Claims identifies an admin user. A non-empty TenantID limits the bearer to
// that tenant's store.
type Claims struct {
	UserID   uint   `json:"uid"`
	Username string `json:"username"`
	TenantID string `json:"tenantId,omitempty"`
	jwt.RegisteredClaims
}

var (
	secretMu  sync.RWMutex
	secretKey []byte
)

// SetSecret overrides the signing key. Without it JWT_SECRET is used.
func SetSecret(s string) {
	secretMu.Lock()
	defer secretMu.Unlock()
	secretKey = []byte(s)
}

func secret() []byte {
	secretMu.RLock()
	defer secretMu.RUnlock()
	if len(secretKey) > 0 {
		return secretKey
	}
	s := os.Getenv("JWT_SECRET")
	if s == "" {
		s = "change-me-secret"
	}
	return []byte(s)
}

func Generate(userID uint, username, tenantID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		TenantID: tenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret())
}

func Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return secret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalid
	}
	if claims, ok := token.Claims.(*Claims); ok {
		return claims, nil
	}
	return nil, ErrInvalid
}
