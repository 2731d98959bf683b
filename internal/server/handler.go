package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	drawioexport "github.com/rbellek/go-drawio-export"
)

// exportRequest is the JSON body of POST /export.
type exportRequest struct {
	XML    string  `json:"xml" binding:"required"`
	Format string  `json:"format"`
	Scale  float64 `json:"scale"`
	Border int     `json:"border"`
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

// handleExport renders one diagram and returns the artifact bytes with the
// content type matching the requested kind.
func (s *Server) handleExport(c *gin.Context) {
	var body exportRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if body.Format == "" {
		body.Format = "png"
	}

	// Parse up front so a bad format never consumes a pooled exporter.
	format, err := drawioexport.ParseFormat(body.Format)
	if err != nil {
		c.JSON(statusFor(err), errorResponse{Error: err.Error()})
		return
	}

	exp, err := s.pool.Acquire()
	if err != nil {
		c.JSON(statusFor(err), errorResponse{Error: err.Error()})
		return
	}
	defer s.pool.Release(exp)

	artifact, err := exp.Render(c.Request.Context(), drawioexport.Request{
		XML:    body.XML,
		Format: body.Format,
		Scale:  body.Scale,
		Border: body.Border,
	})
	if err != nil {
		s.logger.Warn("render failed",
			zap.String("format", body.Format),
			zap.Error(err))
		c.JSON(statusFor(err), errorResponse{Error: err.Error()})
		return
	}

	c.Data(http.StatusOK, format.Kind.ContentType(), artifact)
}

// handleHealthz reports liveness.
func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// statusFor maps pipeline errors to HTTP status codes: caller mistakes are
// 400s, exhausted or closed pools 503, everything engine-side 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, drawioexport.ErrInvalidFormat),
		errors.Is(err, drawioexport.ErrUnsupportedFormat),
		errors.Is(err, drawioexport.ErrEmptyDiagram),
		errors.Is(err, drawioexport.ErrInvalidScale),
		errors.Is(err, drawioexport.ErrInvalidBorder):
		return http.StatusBadRequest
	case errors.Is(err, drawioexport.ErrPoolClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
