package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brandlens/brandlens/internal/db"
	"github.com/brandlens/brandlens/internal/models"
	"github.com/brandlens/brandlens/internal/shared"
)

// Tracked query request structures
type CreateQueryRequest struct {
	Text     string `json:"text" binding:"required"`
	Keyword  string `json:"keyword,omitempty"`
	Category string `json:"category,omitempty"`
	Enabled  *bool  `json:"enabled,omitempty"`
}

type UpdateQueryRequest struct {
	Text     string `json:"text,omitempty"`
	Keyword  string `json:"keyword,omitempty"`
	Category string `json:"category,omitempty"`
	Enabled  *bool  `json:"enabled,omitempty"`
}

// listQueries handles GET /api/v1/brands/:id/queries
func (s *Server) listQueries(c *gin.Context) {
	brandID := c.Param("id")
	enabled := shared.ParseEnabledFilter(c)

	queries, err := s.brands.ListQueries(c.Request.Context(), brandID, enabled)
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to list queries: "+err.Error())
		return
	}

	s.successResponse(c, queries)
}

// createQuery handles POST /api/v1/brands/:id/queries
func (s *Server) createQuery(c *gin.Context) {
	brandID := c.Param("id")

	if _, err := s.brands.GetBrand(c.Request.Context(), brandID); err != nil {
		s.errorResponse(c, http.StatusNotFound, "Brand not found: "+err.Error())
		return
	}

	var req CreateQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	query := &models.TrackedQuery{
		ID:       uuid.NewString(),
		BrandID:  brandID,
		Text:     req.Text,
		Keyword:  req.Keyword,
		Category: req.Category,
		Enabled:  enabled,
	}

	if err := s.brands.CreateQuery(c.Request.Context(), query); err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to create query: "+err.Error())
		return
	}

	s.successResponse(c, query)
}

// updateQuery handles PUT /api/v1/brands/:id/queries/:queryID
func (s *Server) updateQuery(c *gin.Context) {
	queryID := c.Param("queryID")

	var req UpdateQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	query, err := s.brands.GetQuery(c.Request.Context(), queryID)
	if err != nil {
		s.errorResponse(c, http.StatusNotFound, "Query not found: "+err.Error())
		return
	}

	if req.Text != "" {
		query.Text = req.Text
	}
	if req.Keyword != "" {
		query.Keyword = req.Keyword
	}
	if req.Category != "" {
		query.Category = req.Category
	}
	if req.Enabled != nil {
		query.Enabled = *req.Enabled
	}

	if err := s.brands.UpdateQuery(c.Request.Context(), query); err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to update query: "+err.Error())
		return
	}

	s.successResponse(c, query)
}

// deleteQuery handles DELETE /api/v1/brands/:id/queries/:queryID
func (s *Server) deleteQuery(c *gin.Context) {
	queryID := c.Param("queryID")

	if err := s.brands.DeleteQuery(c.Request.Context(), queryID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.errorResponse(c, http.StatusNotFound, "Query not found: "+err.Error())
			return
		}
		s.errorResponse(c, http.StatusInternalServerError, "Failed to delete query: "+err.Error())
		return
	}

	s.successResponse(c, gin.H{"deleted": queryID})
}
