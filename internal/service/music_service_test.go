package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"melodex/internal/domain"
)

// blobStoreStub keeps uploaded objects in a map so offload and cleanup
// can be observed.
type blobStoreStub struct {
	objects map[string][]byte
}

func newBlobStoreStub() *blobStoreStub {
	return &blobStoreStub{objects: map[string][]byte{}}
}

func (s *blobStoreStub) UploadObject(_ context.Context, bucket, key, _ string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.objects[bucket+"/"+key] = data
	return "s3://" + bucket + "/" + key, nil
}

func (s *blobStoreStub) DeleteObject(_ context.Context, bucket, key string) error {
	delete(s.objects, bucket+"/"+key)
	return nil
}

func (s *blobStoreStub) GetObjectURL(_ context.Context, bucket, key string, _ time.Duration) (string, error) {
	return "https://signed.test/" + bucket + "/" + key, nil
}

func TestCreateMusicInlineAudio(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	audio := []byte{0x49, 0x44, 0x33, 0x04, 0x00}

	music, err := env.musicSvc.Create(ctx, CreateMusicParams{
		Title:  "Supernova",
		Artist: "Orbital",
		Audio:  domain.AudioSource{Inline: audio},
	})
	require.NoError(t, err)

	stored, err := env.musicSvc.GetByID(ctx, music.ID)
	require.NoError(t, err)
	assert.Equal(t, audio, stored.AudioData)
	assert.Empty(t, stored.AudioURL)
}

func TestCreateMusicExternalAudio(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	music, err := env.musicSvc.Create(ctx, CreateMusicParams{
		Title:  "Supernova",
		Artist: "Orbital",
		Audio:  domain.AudioSource{URL: "https://cdn.example.com/supernova.mp3"},
	})
	require.NoError(t, err)

	stored, err := env.musicSvc.GetByID(ctx, music.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.AudioData)
	assert.Equal(t, "https://cdn.example.com/supernova.mp3", stored.AudioURL)
}

func TestCreateMusicAudioSourceRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.musicSvc.Create(ctx, CreateMusicParams{Title: "x", Artist: "y"})
	assert.True(t, domain.IsKind(err, domain.KindValidation), "no audio source")

	_, err = env.musicSvc.Create(ctx, CreateMusicParams{
		Title: "x", Artist: "y",
		Audio: domain.AudioSource{URL: "ftp://example.com/file"},
	})
	assert.True(t, domain.IsKind(err, domain.KindValidation), "bad url scheme")

	// inline bytes win when both alternatives are supplied
	music, err := env.musicSvc.Create(ctx, CreateMusicParams{
		Title: "x", Artist: "y",
		Audio: domain.AudioSource{Inline: []byte{1, 2}, URL: "https://example.com/f.mp3"},
	})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, music.AudioData)
	assert.Empty(t, music.AudioURL)
}

func TestCreateMusicDataURI(t *testing.T) {
	env := newTestEnv(t)

	music, err := env.musicSvc.Create(context.Background(), CreateMusicParams{
		Title: "x", Artist: "y",
		Audio: domain.AudioSource{URL: "data:audio/mpeg;base64,AAAA"},
	})
	require.NoError(t, err)
	assert.Equal(t, "data:audio/mpeg;base64,AAAA", music.AudioURL)
}

func TestCreateMusicRequiresTitleAndArtist(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	audio := domain.AudioSource{Inline: []byte{1}}

	_, err := env.musicSvc.Create(ctx, CreateMusicParams{Title: "  ", Artist: "y", Audio: audio})
	assert.True(t, domain.IsKind(err, domain.KindValidation))

	_, err = env.musicSvc.Create(ctx, CreateMusicParams{Title: "x", Artist: "", Audio: audio})
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestCreateMusicUnknownOwner(t *testing.T) {
	env := newTestEnv(t)
	owner := int64(999)

	_, err := env.musicSvc.Create(context.Background(), CreateMusicParams{
		Title: "x", Artist: "y",
		Audio:   domain.AudioSource{Inline: []byte{1}},
		OwnerID: &owner,
	})
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestMusicSearch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createTrack(t, "Supernova", "Orbital")
	env.createTrack(t, "Nova Dreams", "Luna")
	env.createTrack(t, "Midnight", "Orbital")

	byTitle, err := env.musicSvc.FindByTitle(ctx, "nova")
	require.NoError(t, err)
	assert.Len(t, byTitle, 2, "title contains is case-insensitive")

	byArtist, err := env.musicSvc.FindByArtist(ctx, "orbit")
	require.NoError(t, err)
	assert.Len(t, byArtist, 2)

	exact, err := env.musicSvc.FindByExactTitle(ctx, "Supernova")
	require.NoError(t, err)
	require.Len(t, exact, 1)
	assert.Equal(t, "Orbital", exact[0].Artist)

	none, err := env.musicSvc.FindByExactTitle(ctx, "supernova")
	require.NoError(t, err)
	assert.Empty(t, none, "exact match is verbatim")
}

func TestMusicDurationRange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, tc := range []struct {
		title   string
		seconds int
	}{
		{"Short", 90}, {"Medium", 210}, {"Long", 600},
	} {
		d := tc.seconds
		_, err := env.musicSvc.Create(ctx, CreateMusicParams{
			Title: tc.title, Artist: "a",
			DurationSeconds: &d,
			Audio:           domain.AudioSource{Inline: []byte{1}},
		})
		require.NoError(t, err)
	}

	low, high := 100, 300
	items, err := env.musicSvc.FindByDurationRange(ctx, &low, &high)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Medium", items[0].Title)

	items, err = env.musicSvc.FindByDurationRange(ctx, &low, nil)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = env.musicSvc.FindByDurationRange(ctx, &high, &low)
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestUpdateMusic(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	music := env.createTrack(t, "Supernova", "Orbital")

	genre := "electronic"
	updated, err := env.musicSvc.Update(ctx, music.ID, UpdateMusicParams{Genre: &genre})
	require.NoError(t, err)
	assert.Equal(t, "electronic", updated.Genre)
	assert.Equal(t, "Supernova", updated.Title)

	blank := " "
	_, err = env.musicSvc.Update(ctx, music.ID, UpdateMusicParams{Title: &blank})
	assert.True(t, domain.IsKind(err, domain.KindValidation))

	audio := domain.AudioSource{Inline: []byte{7, 8, 9}}
	updated, err = env.musicSvc.Update(ctx, music.ID, UpdateMusicParams{Audio: &audio})
	require.NoError(t, err)
	assert.Equal(t, []byte{7, 8, 9}, updated.AudioData)
	assert.Empty(t, updated.AudioURL, "inline replaces the previous url")
}

func TestDeleteMusicStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	music := env.createTrack(t, "Supernova", "Orbital")

	status, err := env.musicSvc.Delete(ctx, music.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Deleted, status)

	status, err = env.musicSvc.Delete(ctx, music.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DeleteNotFound, status)
}

func TestOffloadedAudioLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	blobs := newBlobStoreStub()
	svc := NewMusicService(env.music, env.users, blobs, BlobOptions{Bucket: "tunes", KeyPrefix: "audio-test"})

	music, err := svc.Create(ctx, CreateMusicParams{
		Title: "Supernova", Artist: "Orbital",
		Audio: domain.AudioSource{Inline: []byte{0x49, 0x44, 0x33}},
	})
	require.NoError(t, err)
	assert.Empty(t, music.AudioData, "inline bytes move to the blob store")
	assert.True(t, strings.HasPrefix(music.AudioURL, "s3://tunes/audio-test/"), music.AudioURL)
	assert.Len(t, blobs.objects, 1)

	status, err := svc.Delete(ctx, music.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Deleted, status)
	assert.Empty(t, blobs.objects, "deleting the row removes its blob")

	// tracks that only reference an external url leave the store alone
	external, err := svc.Create(ctx, CreateMusicParams{
		Title: "Midnight", Artist: "Luna",
		Audio: domain.AudioSource{URL: "https://cdn.example.com/midnight.mp3"},
	})
	require.NoError(t, err)
	_, err = svc.Delete(ctx, external.ID)
	require.NoError(t, err)
	assert.Empty(t, blobs.objects)
}

func TestExistsByTitleAndArtist(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createTrack(t, "Supernova", "Orbital")

	exists, err := env.musicSvc.ExistsByTitleAndArtist(ctx, "Supernova", "Orbital")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = env.musicSvc.ExistsByTitleAndArtist(ctx, "Supernova", "Luna")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestListByOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice", "alice@example.com")

	_, err := env.musicSvc.Create(ctx, CreateMusicParams{
		Title: "Mine", Artist: "a",
		Audio:   domain.AudioSource{Inline: []byte{1}},
		OwnerID: &alice.ID,
	})
	require.NoError(t, err)
	env.createTrack(t, "Unowned", "b")

	owned, err := env.musicSvc.ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "Mine", owned[0].Title)

	_, err = env.musicSvc.ListByOwner(ctx, 999)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}
