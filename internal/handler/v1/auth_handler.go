package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/clinovahealth/clinicflow/internal/authz"
	"github.com/clinovahealth/clinicflow/internal/service"
)

type AuthHandler struct {
	authSvc *service.AuthService
}

func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, pair)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.authSvc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, pair)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		respondError(c, 401, "authentication required")
		return
	}

	var req changePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"changed": true})
}

// Me returns the caller's identity plus the action set and landing view for
// their role, so the client can render role-scoped navigation without
// hardcoding the policy table.
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		respondError(c, 401, "authentication required")
		return
	}

	policy, _ := authz.PolicyFor(claims.Role)
	respondOK(c, gin.H{
		"user_id":      claims.UserID,
		"email":        claims.Email,
		"role":         claims.Role,
		"actions":      policy.Actions,
		"default_view": policy.DefaultView,
	})
}
