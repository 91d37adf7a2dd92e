package router

import (
	"time"

	"lingoflow/internal/handler"
	"lingoflow/internal/i18n"
	"lingoflow/internal/middleware"
	"lingoflow/internal/types"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with all middleware and routes registered.
func NewRouter(serverHandler *handler.Server, configManager types.ConfigManager) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Register global middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Logger(configManager.GetLogConfig()))
	router.Use(middleware.CORS(configManager.GetCORSConfig()))
	router.Use(middleware.RateLimiter(configManager.GetPerformanceConfig()))
	router.Use(middleware.SecurityHeaders())
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	startTime := time.Now()
	router.Use(func(c *gin.Context) {
		c.Set("serverStartTime", startTime)
		c.Next()
	})

	registerSystemRoutes(router, serverHandler)
	registerAPIRoutes(router, serverHandler, configManager)

	return router
}

// registerSystemRoutes registers system-level routes
func registerSystemRoutes(router *gin.Engine, serverHandler *handler.Server) {
	router.GET("/health", serverHandler.Health)
}

// registerAPIRoutes registers API routes
func registerAPIRoutes(router *gin.Engine, serverHandler *handler.Server, configManager types.ConfigManager) {
	api := router.Group("/api")
	api.Use(i18n.Middleware())
	api.Use(middleware.Auth(configManager.GetAuthConfig()))

	projects := api.Group("/projects")
	{
		projects.POST("", serverHandler.CreateProject)
		projects.GET("", serverHandler.ListProjects)
		projects.GET("/:id", serverHandler.GetProject)
		projects.PUT("/:id", serverHandler.UpdateProject)
		projects.DELETE("/:id", serverHandler.DeleteProject)
		projects.POST("/:id/archive", serverHandler.ArchiveProject)
		projects.POST("/:id/unarchive", serverHandler.UnarchiveProject)
		projects.POST("/:id/transfer", serverHandler.TransferOwnership)
		projects.GET("/:id/activity", serverHandler.ProjectActivity)

		projects.GET("/:id/members", serverHandler.ListMembers)
		projects.POST("/:id/members", serverHandler.GrantRole)
		projects.DELETE("/:id/members/:user_id", serverHandler.RevokeRole)
		projects.POST("/:id/teams", serverHandler.LinkTeam)
		projects.DELETE("/:id/teams/:team_id", serverHandler.UnlinkTeam)

		projects.POST("/:id/documents", serverHandler.CreateDocument)
		projects.GET("/:id/documents", serverHandler.ListDocuments)
	}

	documents := api.Group("/documents")
	{
		documents.GET("/:id", serverHandler.GetDocument)
		documents.DELETE("/:id", serverHandler.DeleteDocument)
		documents.PUT("/:id/translator", serverHandler.AssignTranslator)
		documents.POST("/:id/segments", serverHandler.CreateSegment)
		documents.GET("/:id/segments", serverHandler.ListSegments)
	}

	segments := api.Group("/segments")
	{
		segments.GET("/:id", serverHandler.GetSegment)
		segments.PUT("/:id", serverHandler.EditSegment)
		segments.POST("/:id/translate", serverHandler.TranslateSegment)
		segments.POST("/:id/review", serverHandler.ReviewSegment)
		segments.POST("/:id/reopen", serverHandler.ReopenSegment)
		segments.POST("/:id/reset", serverHandler.ResetSegment)
		segments.GET("/:id/comments", serverHandler.SegmentComments)
	}

	memory := api.Group("/memory")
	{
		memory.GET("", serverHandler.ListMemory)
		memory.POST("", serverHandler.RecordMemory)
		memory.POST("/lookup", serverHandler.LookupMemory)
		memory.DELETE("/:id", serverHandler.DeleteMemory)
	}

	glossary := api.Group("/glossary")
	{
		glossary.GET("", serverHandler.ListTerms)
		glossary.POST("", serverHandler.CreateTerm)
		glossary.PUT("/:id", serverHandler.UpdateTerm)
		glossary.DELETE("/:id", serverHandler.DeleteTerm)
		glossary.POST("/match", serverHandler.MatchTerms)
	}

	teams := api.Group("/teams")
	{
		teams.GET("", serverHandler.ListTeams)
		teams.POST("", serverHandler.CreateTeam)
		teams.GET("/:id", serverHandler.GetTeam)
		teams.DELETE("/:id", serverHandler.DeleteTeam)
		teams.POST("/:id/members", serverHandler.AddTeamMember)
		teams.DELETE("/:id/members/:user_id", serverHandler.RemoveTeamMember)
	}

	api.POST("/translate", serverHandler.QuickTranslate)
	api.GET("/dashboard/stats", serverHandler.DashboardStats)
	api.GET("/dashboard/activity", serverHandler.DashboardActivity)
	api.GET("/settings", serverHandler.GetSettings)
	api.PUT("/settings", serverHandler.UpdateSettings)
}
