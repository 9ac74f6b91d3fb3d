package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"melodex/internal/domain"
)

func TestAddFavorite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice", "alice@example.com")
	track := env.createTrack(t, "Supernova", "Orbital")

	favorite, err := env.favoriteSvc.Add(ctx, alice.ID, track.ID)
	require.NoError(t, err)
	assert.NotZero(t, favorite.ID)

	yes, err := env.favoriteSvc.IsFavorite(ctx, alice.ID, track.ID)
	require.NoError(t, err)
	assert.True(t, yes)
}

func TestAddFavoriteTwiceConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice", "alice@example.com")
	track := env.createTrack(t, "Supernova", "Orbital")

	_, err := env.favoriteSvc.Add(ctx, alice.ID, track.ID)
	require.NoError(t, err)

	_, err = env.favoriteSvc.Add(ctx, alice.ID, track.ID)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindConflict))
}

func TestFavoriteAddRemoveReAdd(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice", "alice@example.com")
	track := env.createTrack(t, "Supernova", "Orbital")

	_, err := env.favoriteSvc.Add(ctx, alice.ID, track.ID)
	require.NoError(t, err)
	require.NoError(t, env.favoriteSvc.Remove(ctx, alice.ID, track.ID))

	yes, err := env.favoriteSvc.IsFavorite(ctx, alice.ID, track.ID)
	require.NoError(t, err)
	assert.False(t, yes)

	_, err = env.favoriteSvc.Add(ctx, alice.ID, track.ID)
	assert.NoError(t, err, "re-adding after removal succeeds")
}

func TestRemoveAbsentFavorite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice", "alice@example.com")
	track := env.createTrack(t, "Supernova", "Orbital")

	err := env.favoriteSvc.Remove(ctx, alice.ID, track.ID)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestFavoriteUnknownReferents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice", "alice@example.com")
	track := env.createTrack(t, "Supernova", "Orbital")

	_, err := env.favoriteSvc.Add(ctx, 999, track.ID)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	_, err = env.favoriteSvc.Add(ctx, alice.ID, 999)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	_, err = env.favoriteSvc.ListByUser(ctx, 999)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	// the query form checks referents too, row or no row
	_, err = env.favoriteSvc.IsFavorite(ctx, 999, track.ID)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	_, err = env.favoriteSvc.IsFavorite(ctx, alice.ID, 999)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestFavoriteLists(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice", "alice@example.com")
	bob := env.registerUser(t, "bob", "bob@example.com")
	track1 := env.createTrack(t, "Supernova", "Orbital")
	track2 := env.createTrack(t, "Midnight", "Luna")

	_, err := env.favoriteSvc.Add(ctx, alice.ID, track1.ID)
	require.NoError(t, err)
	_, err = env.favoriteSvc.Add(ctx, alice.ID, track2.ID)
	require.NoError(t, err)
	_, err = env.favoriteSvc.Add(ctx, bob.ID, track1.ID)
	require.NoError(t, err)

	byUser, err := env.favoriteSvc.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	byMusic, err := env.favoriteSvc.ListByMusic(ctx, track1.ID)
	require.NoError(t, err)
	assert.Len(t, byMusic, 2)
}

func TestFavoriteEntryOperations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice", "alice@example.com")
	track1 := env.createTrack(t, "Supernova", "Orbital")
	track2 := env.createTrack(t, "Midnight", "Luna")

	favorite, err := env.favoriteSvc.Add(ctx, alice.ID, track1.ID)
	require.NoError(t, err)

	got, err := env.favoriteSvc.GetEntry(ctx, favorite.ID)
	require.NoError(t, err)
	assert.Equal(t, track1.ID, got.MusicID)

	updated, err := env.favoriteSvc.UpdateEntry(ctx, favorite.ID, alice.ID, track2.ID)
	require.NoError(t, err)
	assert.Equal(t, track2.ID, updated.MusicID)

	status, err := env.favoriteSvc.DeleteEntry(ctx, favorite.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Deleted, status)

	status, err = env.favoriteSvc.DeleteEntry(ctx, favorite.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DeleteNotFound, status)
}
