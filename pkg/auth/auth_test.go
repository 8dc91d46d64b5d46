package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/folio/pkg/adapters/memory"
	"github.com/aretw0/folio/pkg/auth"
	"github.com/aretw0/folio/pkg/core"
)

func newManager(t *testing.T) (*auth.Manager, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	m, err := auth.NewManager(store, auth.Config{Password: "geheim", Secret: "test-secret", TTL: time.Hour})
	require.NoError(t, err)
	return m, store
}

func TestLoginCheckLogout(t *testing.T) {
	ctx := context.Background()
	m, store := newManager(t)

	assert.False(t, m.LoggedIn(ctx))

	token, err := m.Login(ctx, "geheim")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	stored, err := store.Get(ctx, core.LoginKey)
	require.NoError(t, err)
	assert.Equal(t, token, string(stored))
	assert.True(t, m.LoggedIn(ctx))

	claims, err := m.Check(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Sub)
	assert.NotEmpty(t, claims.ID)

	require.NoError(t, m.Logout(ctx))
	assert.False(t, m.LoggedIn(ctx))
	_, err = m.Check(ctx, token)
	assert.ErrorIs(t, err, auth.ErrNotLoggedIn)
}

func TestLogin_WrongPassword(t *testing.T) {
	ctx := context.Background()
	m, store := newManager(t)

	_, err := m.Login(ctx, "falsch")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = store.Get(ctx, core.LoginKey)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestCheck_Rejections(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)

	first, err := m.Login(ctx, "geheim")
	require.NoError(t, err)
	second, err := m.Login(ctx, "geheim")
	require.NoError(t, err)

	// A newer login replaces the flag.
	_, err = m.Check(ctx, first)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
	_, err = m.Check(ctx, second)
	assert.NoError(t, err)

	_, err = m.Check(ctx, "not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	// Signed with another key.
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, &auth.Claims{
		Sub: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	forgedString, err := forged.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = m.Check(ctx, forgedString)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestCheck_Expired(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)

	token, err := m.Login(ctx, "geheim")
	require.NoError(t, err)

	m.SetClock(func() time.Time { return time.Now().Add(2 * time.Hour) })
	_, err = m.Check(ctx, token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
	assert.False(t, m.LoggedIn(ctx))
}

func TestNewManager_RequiresPassword(t *testing.T) {
	_, err := auth.NewManager(memory.NewStore(), auth.Config{})
	assert.ErrorIs(t, err, auth.ErrNoPassword)
}
