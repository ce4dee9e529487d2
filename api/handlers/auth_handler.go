package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"bakehouse/api/middleware"
	"bakehouse/internal/models"
	"bakehouse/internal/services"
	"bakehouse/internal/store"
)

type AuthHandler struct {
	authService      *services.AuthService
	dashboardService *services.DashboardService
}

func NewAuthHandler(authService *services.AuthService, dashboardService *services.DashboardService) *AuthHandler {
	return &AuthHandler{authService: authService, dashboardService: dashboardService}
}

// POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req)
	switch {
	case errors.Is(err, services.ErrWeakPassword):
		respondError(c, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, services.ErrEmailTaken):
		respondError(c, http.StatusConflict, "Email is already registered")
		return
	case err != nil:
		log.WithError(err).Error("Registration failed")
		respondError(c, http.StatusInternalServerError, "Registration failed")
		return
	}

	respondCreated(c, "Registration successful", gin.H{"user": user})
}

// POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req)
	if errors.Is(err, services.ErrInvalidCredentials) {
		respondError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		log.WithError(err).Error("Login failed")
		respondError(c, http.StatusInternalServerError, "Login failed")
		return
	}

	respondOK(c, "Login successful", gin.H{
		"token": token,
		"user":  user,
	})
}

// POST /api/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.CurrentToken(c)
	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		log.WithError(err).Error("Logout failed")
		respondError(c, http.StatusInternalServerError, "Logout failed")
		return
	}
	respondOK(c, "Logged out", nil)
}

// GET /api/dashboard
func (h *AuthHandler) Dashboard(c *gin.Context) {
	user := middleware.CurrentUser(c)

	dashboard, err := h.dashboardService.Get(c.Request.Context(), user.ID)
	if err != nil {
		log.WithError(err).Error("Loading dashboard failed")
		respondError(c, http.StatusInternalServerError, "Failed to retrieve dashboard")
		return
	}

	respondOK(c, "Dashboard data retrieved", dashboard)
}

// PUT /api/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.authService.UpdateProfile(c.Request.Context(), user.ID, req); err != nil {
		log.WithError(err).Error("Profile update failed")
		respondError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	respondOK(c, "Profile updated successfully", nil)
}

// POST /api/points/redeem
func (h *AuthHandler) RedeemPoints(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req models.RedeemPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	balance, err := h.authService.RedeemPoints(c.Request.Context(), user.ID, req.Points)
	if errors.Is(err, store.ErrInsufficientPoints) {
		respondError(c, http.StatusBadRequest, "Insufficient points")
		return
	}
	if err != nil {
		log.WithError(err).Error("Points redemption failed")
		respondError(c, http.StatusInternalServerError, "Failed to redeem points")
		return
	}

	respondOK(c, "Reward redeemed successfully", gin.H{"new_balance": balance})
}
