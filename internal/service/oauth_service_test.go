package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"melodex/internal/domain"
)

func TestOAuthProvisionNewAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.oauthSvc.Resolve(ctx, ProviderClaims{
		SubjectID:   "google:123",
		Email:       "carol@example.com",
		DisplayName: "Carol Jones",
	})
	require.NoError(t, err)
	assert.Equal(t, "Carol_Jones", user.Username)
	assert.Equal(t, "carol@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)

	// the stored placeholder hash never matches a password login
	_, err = env.userSvc.Authenticate(ctx, "carol@example.com", testPassword)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestOAuthResolveIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	claims := ProviderClaims{SubjectID: "google:123", Email: "carol@example.com", DisplayName: "Carol"}

	first, err := env.oauthSvc.Resolve(ctx, claims)
	require.NoError(t, err)
	second, err := env.oauthSvc.Resolve(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	users, err := env.users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestOAuthLinksExistingEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	existing := env.registerUser(t, "alice", "alice@example.com")

	resolved, err := env.oauthSvc.Resolve(ctx, ProviderClaims{
		SubjectID:   "github:42",
		Email:       "alice@example.com",
		DisplayName: "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, resolved.ID)
	assert.Equal(t, "alice", resolved.Username)

	stored, err := env.users.GetByOAuthSubject(ctx, "github:42")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, stored.ID)

	// the original password still works after linking
	_, err = env.userSvc.Authenticate(ctx, "alice@example.com", testPassword)
	assert.NoError(t, err)
}

func TestOAuthUsernameSuffixing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerUser(t, "alice", "taken1@example.com")

	user1, err := env.oauthSvc.Resolve(ctx, ProviderClaims{
		SubjectID: "google:1", Email: "a1@example.com", DisplayName: "alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice_1", user1.Username)

	user2, err := env.oauthSvc.Resolve(ctx, ProviderClaims{
		SubjectID: "google:2", Email: "a2@example.com", DisplayName: "alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice_2", user2.Username)
}

func TestOAuthUsernameFromEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.oauthSvc.Resolve(ctx, ProviderClaims{
		SubjectID: "google:9", Email: "dave.smith@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "dave_smith", user.Username)
}

func TestOAuthRequiresSubjectAndEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.oauthSvc.Resolve(ctx, ProviderClaims{Email: "x@example.com"})
	assert.True(t, domain.IsKind(err, domain.KindValidation))

	_, err = env.oauthSvc.Resolve(ctx, ProviderClaims{SubjectID: "google:1"})
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}
