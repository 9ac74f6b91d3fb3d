package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"melodex/internal/domain"
	"melodex/internal/repository"
)

type repoSet struct {
	db         *sql.DB
	users      repository.UserRepository
	music      repository.MusicRepository
	favorites  repository.FavoriteRepository
	offline    repository.OfflineRepository
	playlists  repository.PlaylistRepository
	biometrics repository.BiometricRepository
}

func newRepoSet(t *testing.T) *repoSet {
	t.Helper()

	db, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := &repoSet{
		db:         db,
		users:      NewUserRepository(db),
		music:      NewMusicRepository(db),
		favorites:  NewFavoriteRepository(db),
		offline:    NewOfflineRepository(db),
		playlists:  NewPlaylistRepository(db),
		biometrics: NewBiometricRepository(db),
	}

	ctx := context.Background()
	require.NoError(t, s.users.Init(ctx))
	require.NoError(t, s.music.Init(ctx))
	require.NoError(t, s.favorites.Init(ctx))
	require.NoError(t, s.offline.Init(ctx))
	require.NoError(t, s.playlists.Init(ctx))
	require.NoError(t, s.biometrics.Init(ctx))
	return s
}

func (s *repoSet) seedUser(t *testing.T, username string) *domain.User {
	t.Helper()
	user := &domain.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	_, err := s.users.Create(context.Background(), user)
	require.NoError(t, err)
	return user
}

func (s *repoSet) seedMusic(t *testing.T, title string, ownerID *int64) *domain.Music {
	t.Helper()
	music := &domain.Music{Title: title, Artist: "artist", AudioURL: "https://example.com/a.mp3", OwnerID: ownerID}
	_, err := s.music.Create(context.Background(), music)
	require.NoError(t, err)
	return music
}

func (s *repoSet) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestDeleteUserCascades(t *testing.T) {
	s := newRepoSet(t)
	ctx := context.Background()

	user := s.seedUser(t, "alice")
	other := s.seedUser(t, "bob")
	track := s.seedMusic(t, "Supernova", nil)

	_, err := s.favorites.Create(ctx, &domain.Favorite{UserID: user.ID, MusicID: track.ID})
	require.NoError(t, err)
	_, err = s.favorites.Create(ctx, &domain.Favorite{UserID: other.ID, MusicID: track.ID})
	require.NoError(t, err)
	_, err = s.offline.Create(ctx, &domain.OfflineEntry{UserID: user.ID, MusicID: track.ID, FilePath: "/a.mp3"})
	require.NoError(t, err)
	playlist := &domain.Playlist{Name: "Workout", UserID: user.ID}
	_, err = s.playlists.Create(ctx, playlist)
	require.NoError(t, err)
	require.NoError(t, s.playlists.AddMusic(ctx, playlist.ID, track.ID))
	_, err = s.biometrics.Create(ctx, &domain.BiometricAuth{UserID: user.ID, Enabled: true})
	require.NoError(t, err)

	require.NoError(t, s.users.Delete(ctx, user.ID))

	assert.Equal(t, 1, s.count(t, "favorites"), "only the other user's favorite remains")
	assert.Equal(t, 0, s.count(t, "offline_entries"))
	assert.Equal(t, 0, s.count(t, "playlists"))
	assert.Equal(t, 0, s.count(t, "playlist_music"))
	assert.Equal(t, 0, s.count(t, "biometric_auth"))
}

func TestDeleteUserOrphansOwnedMusic(t *testing.T) {
	s := newRepoSet(t)
	ctx := context.Background()

	user := s.seedUser(t, "alice")
	track := s.seedMusic(t, "Supernova", &user.ID)

	require.NoError(t, s.users.Delete(ctx, user.ID))

	stored, err := s.music.GetByID(ctx, track.ID)
	require.NoError(t, err, "owned music survives the owner")
	assert.Nil(t, stored.OwnerID)
}

func TestDeleteMusicCascades(t *testing.T) {
	s := newRepoSet(t)
	ctx := context.Background()

	user := s.seedUser(t, "alice")
	track := s.seedMusic(t, "Supernova", nil)
	keep := s.seedMusic(t, "Midnight", nil)

	_, err := s.favorites.Create(ctx, &domain.Favorite{UserID: user.ID, MusicID: track.ID})
	require.NoError(t, err)
	_, err = s.offline.Create(ctx, &domain.OfflineEntry{UserID: user.ID, MusicID: track.ID, FilePath: "/a.mp3"})
	require.NoError(t, err)
	playlist := &domain.Playlist{Name: "Workout", UserID: user.ID}
	_, err = s.playlists.Create(ctx, playlist)
	require.NoError(t, err)
	require.NoError(t, s.playlists.AddMusic(ctx, playlist.ID, track.ID))
	require.NoError(t, s.playlists.AddMusic(ctx, playlist.ID, keep.ID))

	require.NoError(t, s.music.Delete(ctx, track.ID))

	assert.Equal(t, 0, s.count(t, "favorites"))
	assert.Equal(t, 0, s.count(t, "offline_entries"))

	got, err := s.playlists.GetByID(ctx, playlist.ID)
	require.NoError(t, err, "the playlist itself survives")
	assert.Equal(t, []int64{keep.ID}, got.MusicIDs)
}

func TestForeignKeysRejectUnknownReferents(t *testing.T) {
	s := newRepoSet(t)
	ctx := context.Background()

	_, err := s.favorites.Create(ctx, &domain.Favorite{UserID: 999, MusicID: 999})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestUniquePairConstraint(t *testing.T) {
	s := newRepoSet(t)
	ctx := context.Background()

	user := s.seedUser(t, "alice")
	track := s.seedMusic(t, "Supernova", nil)

	_, err := s.favorites.Create(ctx, &domain.Favorite{UserID: user.ID, MusicID: track.ID})
	require.NoError(t, err)
	_, err = s.favorites.Create(ctx, &domain.Favorite{UserID: user.ID, MusicID: track.ID})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindConflict))
}
