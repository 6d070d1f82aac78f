package auth

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront/internal/infrastructure/kvstore"
	"github.com/example/storefront/internal/store"
)

func TestDirectory_RegisterAndAuthenticate(t *testing.T) {
	kv := kvstore.NewMemory()
	dir := NewDirectory(kv)
	ctx := context.Background()

	user, err := dir.Register(ctx, "Alice", "alice@example.com", "supersecret")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, RoleUser, user.Role)
	assert.Empty(t, user.PasswordHash)

	got, err := dir.Authenticate(ctx, "alice@example.com", "supersecret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Empty(t, got.PasswordHash)
}

func TestDirectory_RegisterNormalizesEmail(t *testing.T) {
	dir := NewDirectory(kvstore.NewMemory())
	ctx := context.Background()

	user, err := dir.Register(ctx, "Bob", "  Bob@Example.COM ", "supersecret")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", user.Email)

	_, err = dir.Authenticate(ctx, "BOB@example.com", "supersecret")
	assert.NoError(t, err)
}

func TestDirectory_RegisterDuplicateEmail(t *testing.T) {
	dir := NewDirectory(kvstore.NewMemory())
	ctx := context.Background()

	_, err := dir.Register(ctx, "Alice", "alice@example.com", "supersecret")
	require.NoError(t, err)

	_, err = dir.Register(ctx, "Impostor", "ALICE@example.com", "anothersecret")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestDirectory_RegisterShortPassword(t *testing.T) {
	dir := NewDirectory(kvstore.NewMemory())

	_, err := dir.Register(context.Background(), "Alice", "alice@example.com", "short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestDirectory_RegisterInvalidEmail(t *testing.T) {
	dir := NewDirectory(kvstore.NewMemory())

	_, err := dir.Register(context.Background(), "Alice", "not-an-email", "supersecret")
	assert.Error(t, err)
}

func TestDirectory_AuthenticateWrongPassword(t *testing.T) {
	dir := NewDirectory(kvstore.NewMemory())
	ctx := context.Background()

	_, err := dir.Register(ctx, "Alice", "alice@example.com", "supersecret")
	require.NoError(t, err)

	_, err = dir.Authenticate(ctx, "alice@example.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDirectory_AuthenticateUnknownEmail(t *testing.T) {
	dir := NewDirectory(kvstore.NewMemory())

	_, err := dir.Authenticate(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDirectory_MasterAdmin(t *testing.T) {
	dir := NewDirectory(kvstore.NewMemory(),
		WithMasterAdmin("admin@shop.test", "letmein-admin"))
	ctx := context.Background()

	user, err := dir.Authenticate(ctx, "Admin@Shop.Test", "letmein-admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, user.Role)
	assert.Equal(t, "admin@shop.test", user.Email)

	_, err = dir.Authenticate(ctx, "admin@shop.test", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// The admin address cannot be claimed through registration.
	_, err = dir.Register(ctx, "Squatter", "admin@shop.test", "supersecret")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestDirectory_PasswordsStoredHashed(t *testing.T) {
	kv := kvstore.NewMemory()
	dir := NewDirectory(kv)
	ctx := context.Background()

	_, err := dir.Register(ctx, "Alice", "alice@example.com", "supersecret")
	require.NoError(t, err)

	raw, ok, err := kv.Get(ctx, store.KeyUsers)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotContains(t, raw, "supersecret")

	var users []store.User
	require.NoError(t, json.Unmarshal([]byte(raw), &users))
	require.Len(t, users, 1)
	assert.True(t, CheckPassword("supersecret", users[0].PasswordHash))
}

func TestDirectory_SessionRoundTrip(t *testing.T) {
	dir := NewDirectory(kvstore.NewMemory())
	ctx := context.Background()

	got, err := dir.Session(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	user := &store.User{ID: "u1", Name: "Alice", Email: "alice@example.com", Role: RoleUser}
	require.NoError(t, dir.SetSession(ctx, user))

	got, err = dir.Session(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.ID)

	require.NoError(t, dir.SetSession(ctx, nil))

	got, err = dir.Session(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}
