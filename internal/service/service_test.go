package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"melodex/internal/domain"
	"melodex/internal/repository"
	"melodex/internal/repository/sqlite"
)

type testEnv struct {
	users      repository.UserRepository
	music      repository.MusicRepository
	favorites  repository.FavoriteRepository
	offline    repository.OfflineRepository
	playlists  repository.PlaylistRepository
	biometrics repository.BiometricRepository

	userSvc      UserService
	oauthSvc     OAuthService
	musicSvc     MusicService
	favoriteSvc  FavoriteService
	offlineSvc   OfflineService
	playlistSvc  PlaylistService
	biometricSvc BiometricService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := &testEnv{
		users:      sqlite.NewUserRepository(db),
		music:      sqlite.NewMusicRepository(db),
		favorites:  sqlite.NewFavoriteRepository(db),
		offline:    sqlite.NewOfflineRepository(db),
		playlists:  sqlite.NewPlaylistRepository(db),
		biometrics: sqlite.NewBiometricRepository(db),
	}

	ctx := context.Background()
	require.NoError(t, env.users.Init(ctx))
	require.NoError(t, env.music.Init(ctx))
	require.NoError(t, env.favorites.Init(ctx))
	require.NoError(t, env.offline.Init(ctx))
	require.NoError(t, env.playlists.Init(ctx))
	require.NoError(t, env.biometrics.Init(ctx))

	env.userSvc = NewUserService(env.users)
	env.oauthSvc = NewOAuthService(env.users)
	env.musicSvc = NewMusicService(env.music, env.users, nil, BlobOptions{})
	env.favoriteSvc = NewFavoriteService(env.favorites, env.users, env.music)
	env.offlineSvc = NewOfflineService(env.offline, env.users, env.music)
	env.playlistSvc = NewPlaylistService(env.playlists, env.users, env.music)
	env.biometricSvc = NewBiometricService(env.biometrics, env.users)

	return env
}

const testPassword = "Str0ngP@ss"

func (e *testEnv) registerUser(t *testing.T, username, email string) *domain.User {
	t.Helper()
	user, err := e.userSvc.Register(context.Background(), username, email, testPassword)
	require.NoError(t, err)
	return user
}

func (e *testEnv) createTrack(t *testing.T, title, artist string) *domain.Music {
	t.Helper()
	music, err := e.musicSvc.Create(context.Background(), CreateMusicParams{
		Title:  title,
		Artist: artist,
		Audio:  domain.AudioSource{URL: "https://cdn.example.com/" + title + ".mp3"},
	})
	require.NoError(t, err)
	return music
}
