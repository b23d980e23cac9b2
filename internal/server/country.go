package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	countrydomain "github.com/smallbiznis/atlas/internal/country/domain"
)

func (s *Server) RefreshCountries(c *gin.Context) {
	if err := s.countrySvc.Refresh(c.Request.Context()); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) ListCountries(c *gin.Context) {
	countries, err := s.countrySvc.List(c.Request.Context(), countrydomain.ListRequest{
		Region:   strings.TrimSpace(c.Query("region")),
		Currency: strings.TrimSpace(c.Query("currency")),
		Sort:     strings.TrimSpace(c.Query("sort")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, countries)
}

// GetCountry also serves GET /countries/image; the reserved segment is
// checked before any storage access.
func (s *Server) GetCountry(c *gin.Context) {
	name := c.Param("name")
	if strings.EqualFold(name, "image") {
		s.SummaryImage(c)
		return
	}

	country, err := s.countrySvc.GetByName(c.Request.Context(), name)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, country)
}

func (s *Server) DeleteCountry(c *gin.Context) {
	if err := s.countrySvc.Delete(c.Request.Context(), c.Param("name")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) SummaryImage(c *gin.Context) {
	path := s.charts.Path()
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, errorResponse{Error: errorPayload{
			Type:    "not_found",
			Message: "summary image not found",
		}})
		return
	}
	c.Header("Content-Type", "image/png")
	c.File(path)
}
