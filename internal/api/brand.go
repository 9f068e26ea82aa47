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

// Brand request structures
type CreateBrandRequest struct {
	Name        string              `json:"name" binding:"required"`
	Domain      string              `json:"domain" binding:"required"`
	Competitors []models.Competitor `json:"competitors,omitempty"`
	CronExpr    string              `json:"cron_expr,omitempty"`
	Enabled     *bool               `json:"enabled,omitempty"`
}

type UpdateBrandRequest struct {
	Name        string              `json:"name,omitempty"`
	Domain      string              `json:"domain,omitempty"`
	Competitors []models.Competitor `json:"competitors,omitempty"`
	CronExpr    *string             `json:"cron_expr,omitempty"`
	Enabled     *bool               `json:"enabled,omitempty"`
}

// listBrands handles GET /api/v1/brands
func (s *Server) listBrands(c *gin.Context) {
	enabled := shared.ParseEnabledFilter(c)

	brands, err := s.brands.ListBrands(c.Request.Context(), enabled)
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to list brands: "+err.Error())
		return
	}

	s.successResponse(c, brands)
}

// getBrand handles GET /api/v1/brands/:id
func (s *Server) getBrand(c *gin.Context) {
	id := c.Param("id")

	brand, err := s.brands.GetBrand(c.Request.Context(), id)
	if err != nil {
		s.errorResponse(c, http.StatusNotFound, "Brand not found: "+err.Error())
		return
	}

	s.successResponse(c, brand)
}

// createBrand handles POST /api/v1/brands
func (s *Server) createBrand(c *gin.Context) {
	var req CreateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	brand := &models.Brand{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Domain:      req.Domain,
		Competitors: req.Competitors,
		CronExpr:    req.CronExpr,
		Enabled:     enabled,
	}

	if err := s.brands.CreateBrand(c.Request.Context(), brand); err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to create brand: "+err.Error())
		return
	}

	s.successResponse(c, brand)
}

// updateBrand handles PUT /api/v1/brands/:id
func (s *Server) updateBrand(c *gin.Context) {
	id := c.Param("id")

	var req UpdateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	brand, err := s.brands.GetBrand(c.Request.Context(), id)
	if err != nil {
		s.errorResponse(c, http.StatusNotFound, "Brand not found: "+err.Error())
		return
	}

	if req.Name != "" {
		brand.Name = req.Name
	}
	if req.Domain != "" {
		brand.Domain = req.Domain
	}
	if req.Competitors != nil {
		brand.Competitors = req.Competitors
	}
	if req.CronExpr != nil {
		brand.CronExpr = *req.CronExpr
	}
	if req.Enabled != nil {
		brand.Enabled = *req.Enabled
	}

	if err := s.brands.UpdateBrand(c.Request.Context(), brand); err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to update brand: "+err.Error())
		return
	}

	s.successResponse(c, brand)
}

// deleteBrand handles DELETE /api/v1/brands/:id
func (s *Server) deleteBrand(c *gin.Context) {
	id := c.Param("id")

	if err := s.brands.DeleteBrand(c.Request.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.errorResponse(c, http.StatusNotFound, "Brand not found: "+err.Error())
			return
		}
		s.errorResponse(c, http.StatusInternalServerError, "Failed to delete brand: "+err.Error())
		return
	}

	s.successResponse(c, gin.H{"deleted": id})
}
