package handlers

import (
	"net/http"

	"github.com/knottin/enquiry-api/internal/version"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// HealthResponse reports liveness and the running build
type HealthResponse struct {
	Status  string            `json:"status"`
	Version version.BuildInfo `json:"version"`
}

func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: version.GetBuildInfo(),
	})
}
