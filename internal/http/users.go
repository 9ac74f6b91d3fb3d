package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"melodex/internal/service"
)

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = userToResponse(users[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(*user))
}

type updateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (h *Handler) updateUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Update(c.Request.Context(), id, service.UpdateUserParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(*user))
}

func (h *Handler) deleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	status, err := h.users.Delete(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	deleteStatusResponse(c, status)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

func (h *Handler) changePassword(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.users.ChangePassword(c.Request.Context(), id, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "password changed"})
}

type updatePictureRequest struct {
	ProfilePicture string `json:"profile_picture" binding:"required"`
}

func (h *Handler) updateProfilePicture(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updatePictureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.users.UpdateProfilePicture(c.Request.Context(), id, req.ProfilePicture)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(*user))
}

type setBiometricRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

func (h *Handler) setBiometric(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req setBiometricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	record, err := h.biometrics.SetEnabled(c.Request.Context(), id, *req.Enabled)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": record.UserID, "enabled": record.Enabled})
}

func (h *Handler) getBiometric(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	enabled, err := h.biometrics.HasEnabled(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": id, "enabled": enabled})
}
