package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brandlens/brandlens/internal/db"
	"github.com/brandlens/brandlens/internal/services"
)

// Server is the REST API server
type Server struct {
	router     *gin.Engine
	brands     db.BrandStore
	sessions   *services.SessionService
	lifetime   *services.LifetimeService
	corsOrigin string
}

// NewServer creates a new API server with all routes registered
func NewServer(brands db.BrandStore, sessions *services.SessionService, lifetime *services.LifetimeService, corsOrigin string) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		router:     gin.Default(),
		brands:     brands,
		sessions:   sessions,
		lifetime:   lifetime,
		corsOrigin: corsOrigin,
	}

	s.router.Use(s.corsMiddleware())
	s.setupRoutes()

	return s
}

// Run starts the HTTP server on the given address
func (s *Server) Run(address string) error {
	return s.router.Run(address)
}

func (s *Server) setupRoutes() {
	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/health", s.health)

		v1.GET("/brands", s.listBrands)
		v1.GET("/brands/:id", s.getBrand)
		v1.POST("/brands", s.createBrand)
		v1.PUT("/brands/:id", s.updateBrand)
		v1.DELETE("/brands/:id", s.deleteBrand)

		v1.GET("/brands/:id/queries", s.listQueries)
		v1.POST("/brands/:id/queries", s.createQuery)
		v1.PUT("/brands/:id/queries/:queryID", s.updateQuery)
		v1.DELETE("/brands/:id/queries/:queryID", s.deleteQuery)

		v1.POST("/brands/:id/run", s.runSession)
		v1.GET("/brands/:id/history", s.getHistory)
		v1.GET("/brands/:id/analytics/sessions", s.listSessionAnalytics)
		v1.GET("/brands/:id/analytics/sessions/:sessionID", s.getSessionAnalytics)
		v1.GET("/brands/:id/analytics/lifetime", s.getLifetimeAnalytics)
	}
}

// corsMiddleware handles cross-origin requests
func (s *Server) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := s.corsOrigin
		if origin == "" {
			origin = "*"
		}

		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// health handles GET /api/v1/health
func (s *Server) health(c *gin.Context) {
	s.successResponse(c, gin.H{"status": "ok"})
}

// successResponse sends a success envelope
func (s *Server) successResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// errorResponse sends an error envelope
func (s *Server) errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}
