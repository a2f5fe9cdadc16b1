package handler

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/seedlink/backend/internal/infrastructure/logger"
	"github.com/seedlink/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// SystemHandler handles system-related API endpoints
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	engine    string
	outputDir string
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler. outputDir is checked by the
// health endpoint.
func NewSystemHandler(name, version, engine, outputDir string) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		engine:    engine,
		outputDir: outputDir,
		startTime: time.Now(),
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Engine    string `json:"engine"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// GetSystemInfo returns basic system information including version and uptime
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		Engine:    h.engine,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// PingResponse represents the ping response
type PingResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Ping is a simple endpoint to check if the API is responsive
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, PingResponse{
		Message:   "pong",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// Health reports whether the output directory is usable
func (h *SystemHandler) Health(c *gin.Context) {
	info, err := os.Stat(h.outputDir)
	if err != nil || !info.IsDir() {
		logger.GetGinLogger(c).Warn("Health check failed", zap.String("dir", h.outputDir), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"time":   time.Now().Format(time.RFC3339),
			"output": "error",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
		"output": "ok",
	})
}

// SystemRoutes creates the route group for system endpoints
func SystemRoutes(h *SystemHandler) *router.DomainGroup {
	group := router.NewDomainGroup("system", "/system")
	group.GET("/info", h.GetSystemInfo)
	group.GET("/ping", h.Ping)
	return group
}
