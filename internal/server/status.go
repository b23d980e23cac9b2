package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Status reports store connectivity and whether the countries table exists.
// Storage problems come back as a 200-level diagnostic payload, never as an
// error status.
func (s *Server) Status(c *gin.Context) {
	c.JSON(http.StatusOK, s.countrySvc.Status(c.Request.Context()))
}
