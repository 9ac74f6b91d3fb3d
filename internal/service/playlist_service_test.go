package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"melodex/internal/domain"
)

func TestCreatePlaylistDefaultName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice", "alice@example.com")

	playlist, err := env.playlistSvc.Create(ctx, alice.ID, "   ")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPlaylistName, playlist.Name)

	named, err := env.playlistSvc.Create(ctx, alice.ID, "Workout")
	require.NoError(t, err)
	assert.Equal(t, "Workout", named.Name)
}

func TestCreatePlaylistUnknownUser(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.playlistSvc.Create(context.Background(), 999, "Workout")
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestRenamePlaylist(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice", "alice@example.com")
	playlist, err := env.playlistSvc.Create(ctx, alice.ID, "Workout")
	require.NoError(t, err)

	renamed, err := env.playlistSvc.Rename(ctx, playlist.ID, "Morning Run")
	require.NoError(t, err)
	assert.Equal(t, "Morning Run", renamed.Name)

	// a blank name leaves the playlist untouched
	unchanged, err := env.playlistSvc.Rename(ctx, playlist.ID, "  ")
	require.NoError(t, err)
	assert.Equal(t, "Morning Run", unchanged.Name)
}

func TestPlaylistMembership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice", "alice@example.com")
	playlist, err := env.playlistSvc.Create(ctx, alice.ID, "Workout")
	require.NoError(t, err)
	track1 := env.createTrack(t, "Supernova", "Orbital")
	track2 := env.createTrack(t, "Midnight", "Luna")

	require.NoError(t, env.playlistSvc.AddMusic(ctx, playlist.ID, track1.ID))
	require.NoError(t, env.playlistSvc.AddMusic(ctx, playlist.ID, track2.ID))

	err = env.playlistSvc.AddMusic(ctx, playlist.ID, track1.ID)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindConflict), "duplicate member")

	got, err := env.playlistSvc.GetByID(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{track1.ID, track2.ID}, got.MusicIDs)

	member, err := env.playlistSvc.HasMusic(ctx, playlist.ID, track1.ID)
	require.NoError(t, err)
	assert.True(t, member)

	require.NoError(t, env.playlistSvc.RemoveMusic(ctx, playlist.ID, track1.ID))
	got, err = env.playlistSvc.GetByID(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{track2.ID}, got.MusicIDs)

	member, err = env.playlistSvc.HasMusic(ctx, playlist.ID, track1.ID)
	require.NoError(t, err)
	assert.False(t, member)
}

func TestRemoveNonMemberIsConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice", "alice@example.com")
	playlist, err := env.playlistSvc.Create(ctx, alice.ID, "Workout")
	require.NoError(t, err)
	track := env.createTrack(t, "Supernova", "Orbital")

	err = env.playlistSvc.RemoveMusic(ctx, playlist.ID, track.ID)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindConflict))
	assert.False(t, domain.IsKind(err, domain.KindNotFound))

	// a music id the catalog has never seen is still "not a member"
	err = env.playlistSvc.RemoveMusic(ctx, playlist.ID, 9999)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindConflict))
	assert.False(t, domain.IsKind(err, domain.KindNotFound))
}

func TestPlaylistMembershipUnknownReferents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice", "alice@example.com")
	playlist, err := env.playlistSvc.Create(ctx, alice.ID, "Workout")
	require.NoError(t, err)
	track := env.createTrack(t, "Supernova", "Orbital")

	err = env.playlistSvc.AddMusic(ctx, 999, track.ID)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	err = env.playlistSvc.AddMusic(ctx, playlist.ID, 999)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	err = env.playlistSvc.RemoveMusic(ctx, 999, track.ID)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	_, err = env.playlistSvc.HasMusic(ctx, 999, track.ID)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	_, err = env.playlistSvc.HasMusic(ctx, playlist.ID, 999)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestAddToDefaultPlaylist(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice", "alice@example.com")
	track1 := env.createTrack(t, "Supernova", "Orbital")
	track2 := env.createTrack(t, "Midnight", "Luna")

	// no playlists yet: one is created with the default name
	playlist, err := env.playlistSvc.AddToDefault(ctx, alice.ID, track1.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPlaylistName, playlist.Name)
	assert.Equal(t, []int64{track1.ID}, playlist.MusicIDs)

	// the same playlist receives further tracks
	playlist2, err := env.playlistSvc.AddToDefault(ctx, alice.ID, track2.ID)
	require.NoError(t, err)
	assert.Equal(t, playlist.ID, playlist2.ID)

	_, err = env.playlistSvc.AddToDefault(ctx, alice.ID, track1.ID)
	assert.True(t, domain.IsKind(err, domain.KindConflict))

	all, err := env.playlistSvc.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestListContainingMusic(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice", "alice@example.com")
	bob := env.registerUser(t, "bob", "bob@example.com")
	track := env.createTrack(t, "Supernova", "Orbital")

	p1, err := env.playlistSvc.Create(ctx, alice.ID, "A")
	require.NoError(t, err)
	p2, err := env.playlistSvc.Create(ctx, bob.ID, "B")
	require.NoError(t, err)
	_, err = env.playlistSvc.Create(ctx, bob.ID, "C")
	require.NoError(t, err)

	require.NoError(t, env.playlistSvc.AddMusic(ctx, p1.ID, track.ID))
	require.NoError(t, env.playlistSvc.AddMusic(ctx, p2.ID, track.ID))

	containing, err := env.playlistSvc.ListContainingMusic(ctx, track.ID)
	require.NoError(t, err)
	assert.Len(t, containing, 2)
}

func TestDeletePlaylistStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice", "alice@example.com")
	playlist, err := env.playlistSvc.Create(ctx, alice.ID, "Workout")
	require.NoError(t, err)
	track := env.createTrack(t, "Supernova", "Orbital")
	require.NoError(t, env.playlistSvc.AddMusic(ctx, playlist.ID, track.ID))

	status, err := env.playlistSvc.Delete(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Deleted, status)

	status, err = env.playlistSvc.Delete(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DeleteNotFound, status)

	// membership rows are gone but the track itself survives
	_, err = env.musicSvc.GetByID(ctx, track.ID)
	assert.NoError(t, err)
}
