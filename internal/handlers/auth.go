package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/resource-planning-api/internal/constants"
	"github.com/yukikurage/resource-planning-api/internal/dto"
	apierrors "github.com/yukikurage/resource-planning-api/internal/errors"
	"github.com/yukikurage/resource-planning-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login sends a one-time code to the user and remembers the email in the
// session for the verification step.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email string `json:"email" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.authService.RequestCode(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.SessionKeyLoginEmail, services.NormalizeEmail(req.Email))
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "A login code has been sent to your email",
	})
}

// Verify checks the one-time code for the email stored by Login and signs the
// user in.
func (h *AuthHandler) Verify(c *gin.Context) {
	type VerifyRequest struct {
		Code string `json:"code" binding:"required"`
	}

	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	session := sessions.Default(c)
	email, _ := session.Get(constants.SessionKeyLoginEmail).(string)

	user, err := h.authService.VerifyCode(email, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	memberships, err := h.authService.Memberships(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	session.Delete(constants.SessionKeyLoginEmail)
	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, dto.ToCurrentUserDTO(*user, memberships))
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user and their organizations.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	memberships, err := h.authService.Memberships(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCurrentUserDTO(*user, memberships))
}
