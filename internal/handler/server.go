// Package handler exposes the workflow engine over HTTP.
package handler

import (
	"net/http"
	"time"

	"lingoflow/internal/config"
	app_errors "lingoflow/internal/errors"
	"lingoflow/internal/middleware"
	"lingoflow/internal/response"
	"lingoflow/internal/services"
	"lingoflow/internal/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/dig"
	"gorm.io/gorm"
)

// Server aggregates every handler dependency.
type Server struct {
	DB               *gorm.DB
	config           types.ConfigManager
	SettingsManager  *config.SystemSettingsManager
	ProjectService   *services.ProjectService
	DocumentService  *services.DocumentService
	SegmentService   *services.SegmentService
	MemoryService    *services.TranslationMemoryService
	GlossaryService  *services.GlossaryService
	Membership       *services.MembershipService
	TeamService      *services.TeamService
	TranslateService *services.TranslateService
	Dashboard        *services.DashboardService
}

// ServerParams defines the dependencies for the Server.
type ServerParams struct {
	dig.In
	DB               *gorm.DB
	ConfigManager    types.ConfigManager
	SettingsManager  *config.SystemSettingsManager
	ProjectService   *services.ProjectService
	DocumentService  *services.DocumentService
	SegmentService   *services.SegmentService
	MemoryService    *services.TranslationMemoryService
	GlossaryService  *services.GlossaryService
	Membership       *services.MembershipService
	TeamService      *services.TeamService
	TranslateService *services.TranslateService
	Dashboard        *services.DashboardService
}

// NewServer creates a new Server instance.
func NewServer(params ServerParams) *Server {
	return &Server{
		DB:               params.DB,
		config:           params.ConfigManager,
		SettingsManager:  params.SettingsManager,
		ProjectService:   params.ProjectService,
		DocumentService:  params.DocumentService,
		SegmentService:   params.SegmentService,
		MemoryService:    params.MemoryService,
		GlossaryService:  params.GlossaryService,
		Membership:       params.Membership,
		TeamService:      params.TeamService,
		TranslateService: params.TranslateService,
		Dashboard:        params.Dashboard,
	}
}

// Health handles the health check endpoint. It pings the database so load
// balancers stop routing to a node that lost its storage.
func (s *Server) Health(c *gin.Context) {
	uptime := "unknown"
	if startTime, ok := c.Get("serverStartTime"); ok {
		if start, ok := startTime.(time.Time); ok {
			uptime = time.Since(start).Round(time.Second).String()
		}
	}

	dbStatus := "ok"
	if s.DB != nil {
		if sqlDB, err := s.DB.DB(); err != nil {
			dbStatus = "unavailable"
		} else if err := sqlDB.PingContext(c.Request.Context()); err != nil {
			dbStatus = "unavailable"
		}
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if dbStatus != "ok" {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, gin.H{
		"status":    status,
		"database":  dbStatus,
		"uptime":    uptime,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// requireActor returns the authenticated actor id, writing an error response
// when the request carried none.
func requireActor(c *gin.Context) (string, bool) {
	actorID := middleware.ActorID(c)
	if actorID == "" {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrBadRequest, "X-Actor-Id header is required"))
		return "", false
	}
	return actorID, true
}
