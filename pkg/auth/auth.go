// Package auth implements the admin login flag as a signed token kept in
// the persistence sink.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/aretw0/folio/pkg/core"
)

var (
	// ErrInvalidCredentials is returned for a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotLoggedIn is returned when no login flag is stored.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrInvalidToken is returned for tokens that fail validation or do not
	// match the stored flag.
	ErrInvalidToken = errors.New("invalid token")
	// ErrNoPassword is returned by NewManager without an admin password.
	ErrNoPassword = errors.New("admin password is required")
)

// DefaultTTL is the lifetime of an admin token.
const DefaultTTL = 12 * time.Hour

const subject = "admin"

// Claims represents the admin token claims.
type Claims struct {
	Sub string `json:"sub"`
	jwt.RegisteredClaims
}

// Manager issues and checks admin tokens. The current token is the login
// flag stored under core.LoginKey, so logging out anywhere invalidates it.
type Manager struct {
	store    core.Store
	secret   []byte
	password []byte
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// Config configures a Manager.
type Config struct {
	Password string
	Secret   string // signing key; a random one is generated when empty
	TTL      time.Duration
	Logger   *slog.Logger
}

// NewManager creates a Manager on store.
func NewManager(store core.Store, cfg Config) (*Manager, error) {
	if cfg.Password == "" {
		return nil, ErrNoPassword
	}
	secret := cfg.Secret
	if secret == "" {
		secret = uuid.NewString() + uuid.NewString()
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		store:    store,
		secret:   []byte(secret),
		password: []byte(cfg.Password),
		ttl:      ttl,
		logger:   cfg.Logger,
		now:      time.Now,
	}, nil
}

// Login checks password, issues a token and stores it as the login flag.
func (m *Manager) Login(ctx context.Context, password string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(password), m.password) != 1 {
		if m.logger != nil {
			m.logger.Warn("admin login failed")
		}
		return "", ErrInvalidCredentials
	}

	token, err := m.generate()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	if err := m.store.Set(ctx, core.LoginKey, []byte(token)); err != nil {
		return "", fmt.Errorf("failed to store login flag: %w", err)
	}
	if m.logger != nil {
		m.logger.Info("admin logged in")
	}
	return token, nil
}

// Check validates token and requires it to be the stored login flag.
func (m *Manager) Check(ctx context.Context, token string) (*Claims, error) {
	claims, err := m.validate(token)
	if err != nil {
		return nil, err
	}

	stored, err := m.store.Get(ctx, core.LoginKey)
	if errors.Is(err, core.ErrNotFound) {
		return nil, ErrNotLoggedIn
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read login flag: %w", err)
	}
	if subtle.ConstantTimeCompare(stored, []byte(token)) != 1 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// LoggedIn reports whether a valid login flag is stored.
func (m *Manager) LoggedIn(ctx context.Context) bool {
	stored, err := m.store.Get(ctx, core.LoginKey)
	if err != nil {
		return false
	}
	_, err = m.validate(string(stored))
	return err == nil
}

// Logout removes the login flag.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.Delete(ctx, core.LoginKey); err != nil {
		return fmt.Errorf("failed to remove login flag: %w", err)
	}
	if m.logger != nil {
		m.logger.Info("admin logged out")
	}
	return nil
}

func (m *Manager) generate() (string, error) {
	now := m.now()
	claims := &Claims{
		Sub: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *Manager) validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.Sub == subject {
		return claims, nil
	}
	return nil, ErrInvalidToken
}
