package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createPlaylistRequest struct {
	Name string `json:"name"`
}

func (h *Handler) createPlaylist(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req createPlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	playlist, err := h.playlists.Create(c.Request.Context(), userID, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, playlistToResponse(*playlist))
}

func (h *Handler) listUserPlaylists(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	items, err := h.playlists.ListByUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]PlaylistResponse, len(items))
	for i := range items {
		resp[i] = playlistToResponse(items[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) listMusicPlaylists(c *gin.Context) {
	musicID, ok := pathID(c, "id")
	if !ok {
		return
	}
	items, err := h.playlists.ListContainingMusic(c.Request.Context(), musicID)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]PlaylistResponse, len(items))
	for i := range items {
		resp[i] = playlistToResponse(items[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getPlaylist(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	playlist, err := h.playlists.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, playlistToResponse(*playlist))
}

func (h *Handler) renamePlaylist(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req createPlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	playlist, err := h.playlists.Rename(c.Request.Context(), id, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, playlistToResponse(*playlist))
}

func (h *Handler) deletePlaylist(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	status, err := h.playlists.Delete(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	deleteStatusResponse(c, status)
}

func (h *Handler) addPlaylistMusic(c *gin.Context) {
	playlistID, ok := pathID(c, "id")
	if !ok {
		return
	}
	musicID, ok := pathID(c, "musicId")
	if !ok {
		return
	}
	if err := h.playlists.AddMusic(c.Request.Context(), playlistID, musicID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "added"})
}

func (h *Handler) removePlaylistMusic(c *gin.Context) {
	playlistID, ok := pathID(c, "id")
	if !ok {
		return
	}
	musicID, ok := pathID(c, "musicId")
	if !ok {
		return
	}
	if err := h.playlists.RemoveMusic(c.Request.Context(), playlistID, musicID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

func (h *Handler) hasPlaylistMusic(c *gin.Context) {
	playlistID, ok := pathID(c, "id")
	if !ok {
		return
	}
	musicID, ok := pathID(c, "musicId")
	if !ok {
		return
	}
	member, err := h.playlists.HasMusic(c.Request.Context(), playlistID, musicID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"member": member})
}

func (h *Handler) addToDefaultPlaylist(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	musicID, ok := pathID(c, "musicId")
	if !ok {
		return
	}
	playlist, err := h.playlists.AddToDefault(c.Request.Context(), userID, musicID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, playlistToResponse(*playlist))
}
