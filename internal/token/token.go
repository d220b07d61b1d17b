package token

import (
	"errors"
	"time"

	"fitcoach/workout-api/internal/domain"

	"github.com/golang-jwt/jwt/v4"
)

// Identity is the verified payload carried by an authentication token.
// It is the only identity source for authenticated operations; services
// never re-derive it from raw credentials.
type Identity struct {
	UserID string
	Email  string
	Role   domain.Role
}

// claims defines the structure of the JWT payload.
type claims struct {
	UserID string      `json:"uid"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Manager issues and verifies signed, time-limited bearer tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a token Manager.
func NewManager(secret string, ttl time.Duration) *Manager {
	if secret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if ttl <= 0 {
		ttl = time.Hour * 1
	}
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed HS256 token for the given identity with an
// absolute expiry derived from the configured TTL.
func (m *Manager) Issue(identity Identity) (string, error) {
	now := time.Now()
	c := &claims{
		UserID: identity.UserID,
		Email:  identity.Email,
		Role:   identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "workout-api",
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
}

// Verify parses and validates a token string. Malformed, tampered and
// expired tokens all surface as Unauthenticated; expiry keeps its own
// message so operators can tell the cases apart.
func (m *Manager) Verify(tokenString string) (Identity, error) {
	c := &claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, &domain.Error{Kind: domain.KindUnauthenticated, Message: "token has expired", Err: err}
		}
		return Identity{}, &domain.Error{Kind: domain.KindUnauthenticated, Message: "invalid token", Err: err}
	}

	if !parsed.Valid || c.UserID == "" || c.Role == "" {
		return Identity{}, domain.NewUnauthenticated("invalid token")
	}

	return Identity{UserID: c.UserID, Email: c.Email, Role: c.Role}, nil
}
