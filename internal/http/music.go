package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"melodex/internal/domain"
	"melodex/internal/service"
)

type createMusicRequest struct {
	Title           string `json:"title" binding:"required"`
	Artist          string `json:"artist" binding:"required"`
	Genre           string `json:"genre"`
	DurationSeconds *int   `json:"duration_seconds"`
	AudioData       []byte `json:"audio_data"`
	AudioURL        string `json:"audio_url"`
	ImageRef        string `json:"image_ref"`
	OwnerID         *int64 `json:"owner_id"`
}

func (h *Handler) createMusic(c *gin.Context) {
	var req createMusicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	music, err := h.music.Create(c.Request.Context(), service.CreateMusicParams{
		Title:           req.Title,
		Artist:          req.Artist,
		Genre:           req.Genre,
		DurationSeconds: req.DurationSeconds,
		Audio:           domain.AudioSource{Inline: req.AudioData, URL: req.AudioURL},
		ImageRef:        req.ImageRef,
		OwnerID:         req.OwnerID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, musicToResponse(*music))
}

func (h *Handler) listMusic(c *gin.Context) {
	items, err := h.music.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, musicListResponse(items))
}

func (h *Handler) getMusic(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	music, err := h.music.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, musicToResponse(*music))
}

type updateMusicRequest struct {
	Title           *string `json:"title"`
	Artist          *string `json:"artist"`
	Genre           *string `json:"genre"`
	DurationSeconds *int    `json:"duration_seconds"`
	AudioData       []byte  `json:"audio_data"`
	AudioURL        *string `json:"audio_url"`
	ImageRef        *string `json:"image_ref"`
}

func (h *Handler) updateMusic(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateMusicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	params := service.UpdateMusicParams{
		Title:           req.Title,
		Artist:          req.Artist,
		Genre:           req.Genre,
		DurationSeconds: req.DurationSeconds,
		ImageRef:        req.ImageRef,
	}
	if len(req.AudioData) > 0 || req.AudioURL != nil {
		audio := domain.AudioSource{Inline: req.AudioData}
		if req.AudioURL != nil {
			audio.URL = *req.AudioURL
		}
		params.Audio = &audio
	}

	music, err := h.music.Update(c.Request.Context(), id, params)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, musicToResponse(*music))
}

func (h *Handler) deleteMusic(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	status, err := h.music.Delete(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	deleteStatusResponse(c, status)
}

// streamAudio serves inline bytes directly, presigns s3 locations, and
// redirects to anything else.
func (h *Handler) streamAudio(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	music, err := h.music.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	if len(music.AudioData) > 0 {
		c.Data(http.StatusOK, "application/octet-stream", music.AudioData)
		return
	}
	if music.AudioURL == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "music has no audio source"})
		return
	}

	if strings.HasPrefix(music.AudioURL, "s3://") {
		if h.storage == nil || h.bucket == "" {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage service not configured"})
			return
		}
		key, err := extractS3Key(music.AudioURL, h.bucket)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		signed, err := h.storage.GetObjectURL(c.Request.Context(), h.bucket, key, 15*time.Minute)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Redirect(http.StatusTemporaryRedirect, signed)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, music.AudioURL)
}

func extractS3Key(location, bucket string) (string, error) {
	rest := strings.TrimPrefix(location, "s3://")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("invalid s3 location")
	}
	if bucket != "" && parts[0] != bucket {
		return "", fmt.Errorf("s3 bucket mismatch")
	}
	return parts[1], nil
}

// searchMusic dispatches on the first recognized query parameter. The
// exact flag switches title/artist/genre from contains to equality.
func (h *Handler) searchMusic(c *gin.Context) {
	ctx := c.Request.Context()
	exact, _ := strconv.ParseBool(c.DefaultQuery("exact", "false"))

	var (
		items []domain.Music
		err   error
	)
	switch {
	case c.Query("title") != "":
		if exact {
			items, err = h.music.FindByExactTitle(ctx, c.Query("title"))
		} else {
			items, err = h.music.FindByTitle(ctx, c.Query("title"))
		}
	case c.Query("artist") != "":
		if exact {
			items, err = h.music.FindByExactArtist(ctx, c.Query("artist"))
		} else {
			items, err = h.music.FindByArtist(ctx, c.Query("artist"))
		}
	case c.Query("genre") != "":
		if exact {
			items, err = h.music.FindByExactGenre(ctx, c.Query("genre"))
		} else {
			items, err = h.music.FindByGenre(ctx, c.Query("genre"))
		}
	case c.Query("min_duration") != "" || c.Query("max_duration") != "":
		var minSeconds, maxSeconds *int
		if minSeconds, err = optionalIntQuery(c, "min_duration"); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if maxSeconds, err = optionalIntQuery(c, "max_duration"); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		items, err = h.music.FindByDurationRange(ctx, minSeconds, maxSeconds)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "a search parameter is required"})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, musicListResponse(items))
}

func optionalIntQuery(c *gin.Context, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", name)
	}
	return &v, nil
}

func (h *Handler) musicExists(c *gin.Context) {
	title := c.Query("title")
	artist := c.Query("artist")
	if title == "" || artist == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and artist are required"})
		return
	}
	exists, err := h.music.ExistsByTitleAndArtist(c.Request.Context(), title, artist)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

func (h *Handler) listUserMusic(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	items, err := h.music.ListByOwner(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, musicListResponse(items))
}
