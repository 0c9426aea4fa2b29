package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UserID    string `json:"sub"`
	Email     string `json:"email"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// Manager signs and verifies tokens in two independent domains: a
// short-lived access token and a long-lived refresh token, each with
// its own secret. Tokens are never persisted server-side, so a refresh
// token stays usable until its natural expiry.
type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (m *Manager) AccessTTL() time.Duration  { return m.accessTTL }
func (m *Manager) RefreshTTL() time.Duration { return m.refreshTTL }

func (m *Manager) IssueAccess(userID, email string) (string, error) {
	return m.sign(userID, email, "access", m.accessSecret, m.accessTTL)
}

func (m *Manager) IssueRefresh(userID, email string) (string, error) {
	return m.sign(userID, email, "refresh", m.refreshSecret, m.refreshTTL)
}

func (m *Manager) sign(userID, email, typ string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now().UTC()

	claims := Claims{
		UserID:    userID,
		Email:     email,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (m *Manager) VerifyAccess(tokenStr string) (*Claims, error) {
	return m.parseAndValidate(tokenStr, "access", m.accessSecret)
}

func (m *Manager) VerifyRefresh(tokenStr string) (*Claims, error) {
	return m.parseAndValidate(tokenStr, "refresh", m.refreshSecret)
}

func (m *Manager) parseAndValidate(tokenStr, typ string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Enforce HS256

		_, ok := t.Method.(*jwt.SigningMethodHMAC)

		if !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})

	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)

	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	// A refresh token must never authorize an API call and vice versa.
	if claims.TokenType != typ {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
