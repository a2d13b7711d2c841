package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jobnexus/jobnexus-api/internal/services"
	"github.com/jobnexus/jobnexus-api/pkg/linkedin"
)

type AuthHandler struct {
	Profiles *services.ProfileService
}

func NewAuthHandler(profiles *services.ProfileService) *AuthHandler {
	return &AuthHandler{Profiles: profiles}
}

// Login is the GET /api/auth/linkedin/login endpoint.
func (h *AuthHandler) Login(c *gin.Context) {
	authURL, state, err := h.Profiles.Login(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrNotConfigured) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "LinkedIn OAuth is not configured. Set LINKEDIN_CLIENT_ID and LINKEDIN_REDIRECT_URI."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"auth_url": authURL, "state": state})
}

// Callback is the GET /api/auth/linkedin/callback endpoint. Provider
// failures keep their upstream status code; configuration and state
// problems are the caller's fault.
func (h *AuthHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing authorization code"})
		return
	}

	profile, err := h.Profiles.Callback(c.Request.Context(), code, c.Query("state"))
	if err != nil {
		var upstream *linkedin.UpstreamError
		switch {
		case errors.Is(err, services.ErrNotConfigured):
			c.JSON(http.StatusBadRequest, gin.H{"error": "LinkedIn OAuth is not configured. Set LINKEDIN_CLIENT_ID, LINKEDIN_CLIENT_SECRET and LINKEDIN_REDIRECT_URI."})
		case errors.Is(err, services.ErrBadState):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, linkedin.ErrNoAccessToken):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.As(err, &upstream):
			c.JSON(upstream.StatusCode, gin.H{"error": upstream.Error()})
		case errors.Is(err, services.ErrStoreUnavailable):
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetProfile is the GET /api/users/linkedin/:linkedin_id endpoint.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	doc, err := h.Profiles.Get(c.Request.Context(), c.Param("linkedin_id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrStoreUnavailable):
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, doc)
}
