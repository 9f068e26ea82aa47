package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brandlens/brandlens/internal/shared"
)

// runSession handles POST /api/v1/brands/:id/run
func (s *Server) runSession(c *gin.Context) {
	brandID := c.Param("id")

	analytics, err := s.sessions.Run(c.Request.Context(), brandID)
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Could not save/update analytics: "+err.Error())
		return
	}

	s.successResponse(c, analytics)
}

// getHistory handles GET /api/v1/brands/:id/history
func (s *Server) getHistory(c *gin.Context) {
	brandID := c.Param("id")

	history, err := s.sessions.History(c.Request.Context(), brandID)
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to read history: "+err.Error())
		return
	}

	s.successResponse(c, history)
}

// listSessionAnalytics handles GET /api/v1/brands/:id/analytics/sessions.
// Supports session_id, start_time, end_time (RFC3339), limit and offset
// query parameters.
func (s *Server) listSessionAnalytics(c *gin.Context) {
	filter := shared.SessionFilter{
		BrandID:   c.Param("id"),
		SessionID: c.Query("session_id"),
	}

	if v := c.Query("start_time"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			s.errorResponse(c, http.StatusBadRequest, "Invalid start_time: "+err.Error())
			return
		}
		filter.StartTime = &t
	}
	if v := c.Query("end_time"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			s.errorResponse(c, http.StatusBadRequest, "Invalid end_time: "+err.Error())
			return
		}
		filter.EndTime = &t
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Offset = n
		}
	}

	sessions, err := s.sessions.ListSessions(c.Request.Context(), filter)
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to list session analytics: "+err.Error())
		return
	}

	s.successResponse(c, sessions)
}

// getSessionAnalytics handles GET /api/v1/brands/:id/analytics/sessions/:sessionID
func (s *Server) getSessionAnalytics(c *gin.Context) {
	sessionID := c.Param("sessionID")

	analytics, err := s.sessions.Session(c.Request.Context(), sessionID)
	if err != nil {
		s.errorResponse(c, http.StatusNotFound, "Session analytics not found: "+err.Error())
		return
	}

	s.successResponse(c, analytics)
}

// getLifetimeAnalytics handles GET /api/v1/brands/:id/analytics/lifetime.
// With ?recompute=true a fresh snapshot is calculated; otherwise the latest
// stored snapshot is returned.
func (s *Server) getLifetimeAnalytics(c *gin.Context) {
	brandID := c.Param("id")

	var err error
	if c.Query("recompute") == "true" {
		analytics, recomputeErr := s.lifetime.Recompute(c.Request.Context(), brandID)
		if recomputeErr == nil {
			s.successResponse(c, analytics)
			return
		}
		err = recomputeErr
	} else {
		analytics, latestErr := s.lifetime.Latest(c.Request.Context(), brandID)
		if latestErr == nil {
			s.successResponse(c, analytics)
			return
		}
		err = latestErr
	}

	s.errorResponse(c, http.StatusInternalServerError, "Could not save/update analytics: "+err.Error())
}
