package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"melodex/internal/domain"
)

func TestBiometricDefaultsToDisabled(t *testing.T) {
	env := newTestEnv(t)
	alice := env.registerUser(t, "alice", "alice@example.com")

	enabled, err := env.biometricSvc.HasEnabled(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestBiometricEnableDisable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice", "alice@example.com")

	record, err := env.biometricSvc.SetEnabled(ctx, alice.ID, true)
	require.NoError(t, err)
	assert.True(t, record.Enabled)

	enabled, err := env.biometricSvc.HasEnabled(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, enabled)

	_, err = env.biometricSvc.SetEnabled(ctx, alice.ID, false)
	require.NoError(t, err)

	enabled, err = env.biometricSvc.HasEnabled(ctx, alice.ID)
	require.NoError(t, err)
	assert.False(t, enabled)

	// disabling keeps the record around rather than deleting it
	stored, err := env.biometrics.GetByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.False(t, stored.Enabled)
	assert.Equal(t, record.ID, stored.ID)
}

func TestBiometricUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.biometricSvc.SetEnabled(ctx, 999, true)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	_, err = env.biometricSvc.HasEnabled(ctx, 999)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}
