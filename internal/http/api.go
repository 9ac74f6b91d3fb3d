package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"melodex/internal/domain"
	"melodex/internal/service"
	"melodex/internal/storage"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users      service.UserService
	oauth      service.OAuthService
	music      service.MusicService
	favorites  service.FavoriteService
	offline    service.OfflineService
	playlists  service.PlaylistService
	biometrics service.BiometricService
	storage    storage.Service
	bucket     string
	auth       AuthOptions
	oauthCfg   OAuthProviders
}

func NewHandler(
	users service.UserService,
	oauth service.OAuthService,
	music service.MusicService,
	favorites service.FavoriteService,
	offline service.OfflineService,
	playlists service.PlaylistService,
	biometrics service.BiometricService,
	store storage.Service,
	bucket string,
	auth AuthOptions,
	oauthCfg OAuthProviders,
) *Handler {
	return &Handler{
		users:      users,
		oauth:      oauth,
		music:      music,
		favorites:  favorites,
		offline:    offline,
		playlists:  playlists,
		biometrics: biometrics,
		storage:    store,
		bucket:     bucket,
		auth:       auth,
		oauthCfg:   oauthCfg,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		auth := api.Group("/auth")
		{
			auth.POST("/register", h.register)
			auth.POST("/login", h.login)
			auth.GET("/oauth/:provider/login", h.oauthLogin)
			auth.GET("/oauth/:provider/callback", h.oauthCallback)
		}

		protected := api.Group("")
		protected.Use(authMiddleware(h.auth.Secret))
		{
			protected.GET("/users", h.listUsers)
			protected.GET("/users/:id", h.getUser)
			protected.PUT("/users/:id", h.updateUser)
			protected.DELETE("/users/:id", h.deleteUser)
			protected.POST("/users/:id/password", h.changePassword)
			protected.PUT("/users/:id/picture", h.updateProfilePicture)
			protected.GET("/users/:id/biometric", h.getBiometric)
			protected.PUT("/users/:id/biometric", h.setBiometric)

			protected.POST("/music", h.createMusic)
			protected.GET("/music", h.listMusic)
			protected.GET("/music/search", h.searchMusic)
			protected.GET("/music/exists", h.musicExists)
			protected.GET("/music/:id", h.getMusic)
			protected.PUT("/music/:id", h.updateMusic)
			protected.DELETE("/music/:id", h.deleteMusic)
			protected.GET("/music/:id/audio", h.streamAudio)
			protected.GET("/music/:id/favorites", h.listMusicFavorites)
			protected.GET("/music/:id/offline", h.listMusicOffline)
			protected.GET("/music/:id/playlists", h.listMusicPlaylists)
			protected.GET("/users/:id/music", h.listUserMusic)

			protected.GET("/users/:id/favorites", h.listUserFavorites)
			protected.GET("/users/:id/favorites/:musicId", h.isFavorite)
			protected.POST("/users/:id/favorites/:musicId", h.addFavorite)
			protected.DELETE("/users/:id/favorites/:musicId", h.removeFavorite)
			protected.GET("/favorites/:id", h.getFavorite)
			protected.PUT("/favorites/:id", h.updateFavorite)
			protected.DELETE("/favorites/:id", h.deleteFavorite)

			protected.GET("/users/:id/offline", h.listUserOffline)
			protected.GET("/users/:id/offline/:musicId", h.isOffline)
			protected.POST("/users/:id/offline/:musicId", h.addOffline)
			protected.DELETE("/users/:id/offline/:musicId", h.removeOffline)
			protected.GET("/offline/search", h.searchOffline)
			protected.GET("/offline/:id", h.getOffline)
			protected.PUT("/offline/:id", h.updateOffline)
			protected.DELETE("/offline/:id", h.deleteOffline)

			protected.GET("/users/:id/playlists", h.listUserPlaylists)
			protected.POST("/users/:id/playlists", h.createPlaylist)
			protected.POST("/users/:id/playlists/default/:musicId", h.addToDefaultPlaylist)
			protected.GET("/playlists/:id", h.getPlaylist)
			protected.PUT("/playlists/:id", h.renamePlaylist)
			protected.DELETE("/playlists/:id", h.deletePlaylist)
			protected.GET("/playlists/:id/music/:musicId", h.hasPlaylistMusic)
			protected.POST("/playlists/:id/music/:musicId", h.addPlaylistMusic)
			protected.DELETE("/playlists/:id/music/:musicId", h.removePlaylistMusic)
		}
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// writeError maps domain error kinds to HTTP status codes.
func writeError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	status := http.StatusInternalServerError
	switch domain.KindOf(err) {
	case domain.KindValidation:
		status = http.StatusBadRequest
	case domain.KindAuthentication:
		status = http.StatusUnauthorized
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindConflict:
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func deleteStatusResponse(c *gin.Context, status domain.DeleteStatus) {
	code := http.StatusOK
	if status == domain.DeleteNotFound {
		code = http.StatusNotFound
	}
	c.JSON(code, gin.H{"status": string(status)})
}

type UserResponse struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

func userToResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		ProfilePicture: user.ProfilePicture,
		CreatedAt:      user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      user.UpdatedAt.Format(time.RFC3339),
	}
}

type MusicResponse struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Artist          string `json:"artist"`
	Genre           string `json:"genre,omitempty"`
	DurationSeconds *int   `json:"duration_seconds,omitempty"`
	HasAudioData    bool   `json:"has_audio_data"`
	AudioURL        string `json:"audio_url,omitempty"`
	ImageRef        string `json:"image_ref,omitempty"`
	OwnerID         *int64 `json:"owner_id,omitempty"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

func musicToResponse(m domain.Music) MusicResponse {
	return MusicResponse{
		ID:              m.ID,
		Title:           m.Title,
		Artist:          m.Artist,
		Genre:           m.Genre,
		DurationSeconds: m.DurationSeconds,
		HasAudioData:    len(m.AudioData) > 0,
		AudioURL:        m.AudioURL,
		ImageRef:        m.ImageRef,
		OwnerID:         m.OwnerID,
		CreatedAt:       m.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       m.UpdatedAt.Format(time.RFC3339),
	}
}

func musicListResponse(items []domain.Music) []MusicResponse {
	resp := make([]MusicResponse, len(items))
	for i := range items {
		resp[i] = musicToResponse(items[i])
	}
	return resp
}

type FavoriteResponse struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	MusicID   int64  `json:"music_id"`
	CreatedAt string `json:"created_at"`
}

func favoriteToResponse(f domain.Favorite) FavoriteResponse {
	return FavoriteResponse{
		ID:        f.ID,
		UserID:    f.UserID,
		MusicID:   f.MusicID,
		CreatedAt: f.CreatedAt.Format(time.RFC3339),
	}
}

type OfflineResponse struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	MusicID   int64  `json:"music_id"`
	FilePath  string `json:"file_path"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func offlineToResponse(e domain.OfflineEntry) OfflineResponse {
	return OfflineResponse{
		ID:        e.ID,
		UserID:    e.UserID,
		MusicID:   e.MusicID,
		FilePath:  e.FilePath,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
		UpdatedAt: e.UpdatedAt.Format(time.RFC3339),
	}
}

type PlaylistResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	UserID    int64   `json:"user_id"`
	MusicIDs  []int64 `json:"music_ids"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

func playlistToResponse(p domain.Playlist) PlaylistResponse {
	ids := p.MusicIDs
	if ids == nil {
		ids = []int64{}
	}
	return PlaylistResponse{
		ID:        p.ID,
		Name:      p.Name,
		UserID:    p.UserID,
		MusicIDs:  ids,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}
