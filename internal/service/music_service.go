package service

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"melodex/internal/domain"
	"melodex/internal/repository"
	"melodex/internal/storage"
)

// CreateMusicParams describes a new catalog track. Audio carries the
// tagged source; when both alternatives are set the inline bytes win.
type CreateMusicParams struct {
	Title           string
	Artist          string
	Genre           string
	DurationSeconds *int
	Audio           domain.AudioSource
	ImageRef        string
	OwnerID         *int64
}

// UpdateMusicParams carries the optional fields of a partial update.
type UpdateMusicParams struct {
	Title           *string
	Artist          *string
	Genre           *string
	DurationSeconds *int
	Audio           *domain.AudioSource
	ImageRef        *string
}

// MusicService describes catalog operations.
type MusicService interface {
	Create(ctx context.Context, params CreateMusicParams) (*domain.Music, error)
	GetByID(ctx context.Context, id int64) (*domain.Music, error)
	List(ctx context.Context) ([]domain.Music, error)
	ListByOwner(ctx context.Context, userID int64) ([]domain.Music, error)
	Update(ctx context.Context, id int64, params UpdateMusicParams) (*domain.Music, error)
	Delete(ctx context.Context, id int64) (domain.DeleteStatus, error)
	FindByTitle(ctx context.Context, title string) ([]domain.Music, error)
	FindByArtist(ctx context.Context, artist string) ([]domain.Music, error)
	FindByGenre(ctx context.Context, genre string) ([]domain.Music, error)
	FindByExactTitle(ctx context.Context, title string) ([]domain.Music, error)
	FindByExactArtist(ctx context.Context, artist string) ([]domain.Music, error)
	FindByExactGenre(ctx context.Context, genre string) ([]domain.Music, error)
	FindByDurationRange(ctx context.Context, minSeconds, maxSeconds *int) ([]domain.Music, error)
	ExistsByTitleAndArtist(ctx context.Context, title, artist string) (bool, error)
}

// BlobOptions configures the optional S3 offload of inline audio. A zero
// value (or nil storage service) keeps audio bytes inline in the database.
type BlobOptions struct {
	Bucket    string
	KeyPrefix string
}

type musicService struct {
	music repository.MusicRepository
	users repository.UserRepository
	blobs storage.Service
	blob  BlobOptions
}

func NewMusicService(music repository.MusicRepository, users repository.UserRepository, blobs storage.Service, blob BlobOptions) MusicService {
	return &musicService{music: music, users: users, blobs: blobs, blob: blob}
}

func (s *musicService) Create(ctx context.Context, params CreateMusicParams) (*domain.Music, error) {
	title := strings.TrimSpace(params.Title)
	artist := strings.TrimSpace(params.Artist)
	if title == "" {
		return nil, domain.Validationf("title is required")
	}
	if artist == "" {
		return nil, domain.Validationf("artist is required")
	}

	audioData, audioURL, err := resolveAudioSource(params.Audio)
	if err != nil {
		return nil, err
	}

	if params.OwnerID != nil {
		exists, err := s.users.ExistsByID(ctx, *params.OwnerID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, domain.NotFoundf("user %d not found", *params.OwnerID)
		}
	}

	if len(audioData) > 0 && s.offloadEnabled() {
		location, err := s.offloadAudio(ctx, audioData)
		if err != nil {
			return nil, err
		}
		audioData = nil
		audioURL = location
	}

	music := &domain.Music{
		Title:           title,
		Artist:          artist,
		Genre:           strings.TrimSpace(params.Genre),
		DurationSeconds: params.DurationSeconds,
		AudioData:       audioData,
		AudioURL:        audioURL,
		ImageRef:        params.ImageRef,
		OwnerID:         params.OwnerID,
	}
	if _, err := s.music.Create(ctx, music); err != nil {
		return nil, err
	}
	return music, nil
}

func (s *musicService) GetByID(ctx context.Context, id int64) (*domain.Music, error) {
	return s.music.GetByID(ctx, id)
}

func (s *musicService) List(ctx context.Context) ([]domain.Music, error) {
	return s.music.List(ctx)
}

func (s *musicService) ListByOwner(ctx context.Context, userID int64) ([]domain.Music, error) {
	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.NotFoundf("user %d not found", userID)
	}
	return s.music.ListByOwner(ctx, userID)
}

func (s *musicService) Update(ctx context.Context, id int64, params UpdateMusicParams) (*domain.Music, error) {
	music, err := s.music.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		title := strings.TrimSpace(*params.Title)
		if title == "" {
			return nil, domain.Validationf("title is required")
		}
		music.Title = title
	}
	if params.Artist != nil {
		artist := strings.TrimSpace(*params.Artist)
		if artist == "" {
			return nil, domain.Validationf("artist is required")
		}
		music.Artist = artist
	}
	if params.Genre != nil {
		music.Genre = strings.TrimSpace(*params.Genre)
	}
	if params.DurationSeconds != nil {
		music.DurationSeconds = params.DurationSeconds
	}
	if params.Audio != nil {
		audioData, audioURL, err := resolveAudioSource(*params.Audio)
		if err != nil {
			return nil, err
		}
		music.AudioData = audioData
		music.AudioURL = audioURL
	}
	if params.ImageRef != nil {
		music.ImageRef = *params.ImageRef
	}

	if err := s.music.Update(ctx, music); err != nil {
		return nil, err
	}
	return music, nil
}

func (s *musicService) Delete(ctx context.Context, id int64) (domain.DeleteStatus, error) {
	music, err := s.music.GetByID(ctx, id)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return domain.DeleteNotFound, nil
		}
		return "", err
	}
	if err := s.music.Delete(ctx, id); err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return domain.DeleteNotFound, nil
		}
		return "", err
	}
	if err := s.removeOffloadedAudio(ctx, music.AudioURL); err != nil {
		return "", err
	}
	return domain.Deleted, nil
}

// removeOffloadedAudio drops the blob behind an s3:// location once the
// row referencing it is gone. Plain external urls are left alone.
func (s *musicService) removeOffloadedAudio(ctx context.Context, location string) error {
	if s.blobs == nil || !strings.HasPrefix(location, "s3://") {
		return nil
	}
	rest := strings.TrimPrefix(location, "s3://")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return nil
	}
	if err := s.blobs.DeleteObject(ctx, parts[0], parts[1]); err != nil {
		return fmt.Errorf("delete audio object: %w", err)
	}
	return nil
}

func (s *musicService) FindByTitle(ctx context.Context, title string) ([]domain.Music, error) {
	return s.music.FindByTitleContains(ctx, title)
}

func (s *musicService) FindByArtist(ctx context.Context, artist string) ([]domain.Music, error) {
	return s.music.FindByArtistContains(ctx, artist)
}

func (s *musicService) FindByGenre(ctx context.Context, genre string) ([]domain.Music, error) {
	return s.music.FindByGenreContains(ctx, genre)
}

func (s *musicService) FindByExactTitle(ctx context.Context, title string) ([]domain.Music, error) {
	return s.music.FindByTitle(ctx, title)
}

func (s *musicService) FindByExactArtist(ctx context.Context, artist string) ([]domain.Music, error) {
	return s.music.FindByArtist(ctx, artist)
}

func (s *musicService) FindByExactGenre(ctx context.Context, genre string) ([]domain.Music, error) {
	return s.music.FindByGenre(ctx, genre)
}

func (s *musicService) FindByDurationRange(ctx context.Context, minSeconds, maxSeconds *int) ([]domain.Music, error) {
	if minSeconds != nil && *minSeconds < 0 {
		return nil, domain.Validationf("minimum duration must not be negative")
	}
	if maxSeconds != nil && *maxSeconds < 0 {
		return nil, domain.Validationf("maximum duration must not be negative")
	}
	if minSeconds != nil && maxSeconds != nil && *minSeconds > *maxSeconds {
		return nil, domain.Validationf("minimum duration exceeds maximum")
	}
	return s.music.FindByDurationRange(ctx, minSeconds, maxSeconds)
}

func (s *musicService) ExistsByTitleAndArtist(ctx context.Context, title, artist string) (bool, error) {
	return s.music.ExistsByTitleAndArtist(ctx, title, artist)
}

func (s *musicService) offloadEnabled() bool {
	return s.blobs != nil && s.blob.Bucket != ""
}

func (s *musicService) offloadAudio(ctx context.Context, data []byte) (string, error) {
	key := strings.Trim(s.blob.KeyPrefix, "/")
	if key != "" {
		key += "/"
	}
	key += "audio/" + uuid.NewString()
	location, err := s.blobs.UploadObject(ctx, s.blob.Bucket, key, "application/octet-stream", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("offload audio: %w", err)
	}
	return location, nil
}

// resolveAudioSource applies the exactly-one rule: inline bytes win when
// both alternatives are present, a lone URL must be http(s) or a data URI.
func resolveAudioSource(audio domain.AudioSource) ([]byte, string, error) {
	if len(audio.Inline) > 0 {
		return audio.Inline, "", nil
	}
	raw := strings.TrimSpace(audio.URL)
	if raw == "" {
		return nil, "", domain.Validationf("audio source is required: inline data or an external url")
	}
	if strings.HasPrefix(raw, "data:") {
		return nil, raw, nil
	}
	parsed, err := url.Parse(raw)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, "", domain.Validationf("audio url must be a valid http(s) url or data uri")
	}
	return nil, raw, nil
}
