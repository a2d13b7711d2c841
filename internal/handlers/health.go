package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/jobnexus/jobnexus-api/internal/store"
)

// HealthHandler serves the greeting and store-diagnostic endpoints.
type HealthHandler struct {
	Store store.Store
}

func NewHealthHandler(st store.Store) *HealthHandler {
	return &HealthHandler{Store: st}
}

func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello from the Job Nexus backend!"})
}

func (h *HealthHandler) Hello(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello from the backend API!"})
}

// TestStore reports whether the document store is configured and
// reachable. It never fails the request; problems show up in the body.
func (h *HealthHandler) TestStore(c *gin.Context) {
	resp := gin.H{
		"backend":           "running",
		"database":          "not available",
		"connection_status": "not connected",
		"database_url":      envSet("DATABASE_URL"),
		"database_name":     envSet("DATABASE_NAME"),
	}

	if h.Store != nil {
		resp["database"] = "available"
		if _, err := h.Store.Count(c.Request.Context(), "job", store.Filter{}); err != nil {
			resp["database"] = "connected but error: " + err.Error()
		} else {
			resp["database"] = "connected"
			resp["connection_status"] = "connected"
		}
	}

	c.JSON(http.StatusOK, resp)
}

func envSet(key string) string {
	if os.Getenv(key) != "" {
		return "set"
	}
	return "not set"
}
