package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"melodex/internal/domain"
	"melodex/internal/service"
)

func (h *Handler) addFavorite(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	musicID, ok := pathID(c, "musicId")
	if !ok {
		return
	}
	favorite, err := h.favorites.Add(c.Request.Context(), userID, musicID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, favoriteToResponse(*favorite))
}

func (h *Handler) removeFavorite(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	musicID, ok := pathID(c, "musicId")
	if !ok {
		return
	}
	if err := h.favorites.Remove(c.Request.Context(), userID, musicID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(domain.Deleted)})
}

func (h *Handler) isFavorite(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	musicID, ok := pathID(c, "musicId")
	if !ok {
		return
	}
	favorite, err := h.favorites.IsFavorite(c.Request.Context(), userID, musicID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorite": favorite})
}

func (h *Handler) listUserFavorites(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	items, err := h.favorites.ListByUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]FavoriteResponse, len(items))
	for i := range items {
		resp[i] = favoriteToResponse(items[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) listMusicFavorites(c *gin.Context) {
	musicID, ok := pathID(c, "id")
	if !ok {
		return
	}
	items, err := h.favorites.ListByMusic(c.Request.Context(), musicID)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]FavoriteResponse, len(items))
	for i := range items {
		resp[i] = favoriteToResponse(items[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getFavorite(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	favorite, err := h.favorites.GetEntry(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, favoriteToResponse(*favorite))
}

type updateFavoriteRequest struct {
	UserID  int64 `json:"user_id" binding:"required"`
	MusicID int64 `json:"music_id" binding:"required"`
}

func (h *Handler) updateFavorite(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	favorite, err := h.favorites.UpdateEntry(c.Request.Context(), id, req.UserID, req.MusicID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, favoriteToResponse(*favorite))
}

func (h *Handler) deleteFavorite(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	status, err := h.favorites.DeleteEntry(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	deleteStatusResponse(c, status)
}

type addOfflineRequest struct {
	FilePath string `json:"file_path" binding:"required"`
}

func (h *Handler) addOffline(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	musicID, ok := pathID(c, "musicId")
	if !ok {
		return
	}
	var req addOfflineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry, err := h.offline.Add(c.Request.Context(), userID, musicID, req.FilePath)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, offlineToResponse(*entry))
}

func (h *Handler) removeOffline(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	musicID, ok := pathID(c, "musicId")
	if !ok {
		return
	}
	if err := h.offline.Remove(c.Request.Context(), userID, musicID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(domain.Deleted)})
}

func (h *Handler) isOffline(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	musicID, ok := pathID(c, "musicId")
	if !ok {
		return
	}
	offline, err := h.offline.IsOffline(c.Request.Context(), userID, musicID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"offline": offline})
}

func (h *Handler) listUserOffline(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	items, err := h.offline.ListByUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]OfflineResponse, len(items))
	for i := range items {
		resp[i] = offlineToResponse(items[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) listMusicOffline(c *gin.Context) {
	musicID, ok := pathID(c, "id")
	if !ok {
		return
	}
	items, err := h.offline.ListByMusic(c.Request.Context(), musicID)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]OfflineResponse, len(items))
	for i := range items {
		resp[i] = offlineToResponse(items[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) searchOffline(c *gin.Context) {
	items, err := h.offline.SearchByFilePath(c.Request.Context(), c.Query("path"))
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]OfflineResponse, len(items))
	for i := range items {
		resp[i] = offlineToResponse(items[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getOffline(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	entry, err := h.offline.GetEntry(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, offlineToResponse(*entry))
}

type updateOfflineRequest struct {
	UserID   *int64  `json:"user_id"`
	MusicID  *int64  `json:"music_id"`
	FilePath *string `json:"file_path"`
}

func (h *Handler) updateOffline(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateOfflineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry, err := h.offline.UpdateEntry(c.Request.Context(), id, service.UpdateOfflineEntryParams{
		UserID:   req.UserID,
		MusicID:  req.MusicID,
		FilePath: req.FilePath,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, offlineToResponse(*entry))
}

func (h *Handler) deleteOffline(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	status, err := h.offline.DeleteEntry(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	deleteStatusResponse(c, status)
}
