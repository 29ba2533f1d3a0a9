package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/audittrail/audittrail/pkg/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuditRequest represents a JSON audit submission
type AuditRequest struct {
	Question string `json:"question" binding:"required"`
}

// AuditResponse represents a JSON audit result
type AuditResponse struct {
	AuditID string `json:"audit_id"`
	Report  string `json:"report"`
	Success bool   `json:"success"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleRoot reports static service information
func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":   "audittrail",
		"version":   s.version,
		"providers": s.manager.Providers(),
	})
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	providers := s.manager.Providers()

	status := "healthy"
	code := http.StatusOK
	if len(providers) == 0 {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	body := gin.H{
		"status":    status,
		"providers": len(providers),
	}

	if s.checkStorage != nil {
		if err := s.checkStorage(c.Request.Context()); err != nil {
			body["status"] = "degraded"
			body["storage"] = "unreachable"
			code = http.StatusServiceUnavailable
		} else {
			body["storage"] = "ok"
		}
	}

	c.JSON(code, body)
}

// handleAudit accepts a question as raw text or JSON, runs the audit
// pipeline, and replies in the format the question arrived in.
func (s *Server) handleAudit(c *gin.Context) {
	wantsJSON := strings.HasPrefix(c.ContentType(), "application/json")

	question, ok := s.readQuestion(c, wantsJSON)
	if !ok {
		return
	}

	report, err := s.manager.Audit(c.Request.Context(), question)
	if err != nil {
		s.writeAuditError(c, wantsJSON, err)
		return
	}

	if wantsJSON {
		c.JSON(http.StatusOK, AuditResponse{
			AuditID: report.ID,
			Report:  report.Text,
			Success: true,
		})
		return
	}

	c.String(http.StatusOK, report.Text)
}

// readQuestion extracts the question from a JSON or plain-text body
func (s *Server) readQuestion(c *gin.Context, wantsJSON bool) (string, bool) {
	if wantsJSON {
		var req AuditRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			s.logger.Warn("invalid audit request", zap.Error(err))
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: ErrorDetail{
					Code:    "INVALID_REQUEST",
					Message: err.Error(),
				},
			})
			return "", false
		}
		return req.Question, true
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.String(http.StatusBadRequest, "Error: could not read request body.")
		return "", false
	}
	return string(body), true
}

// writeAuditError maps pipeline errors to HTTP responses in the format
// the request arrived in. Provider details stay in the message; raw
// stack traces never reach the client.
func (s *Server) writeAuditError(c *gin.Context, wantsJSON bool, err error) {
	var code string
	var status int

	switch {
	case errors.Is(err, domain.ErrInputTooShort):
		code, status = "INPUT_TOO_SHORT", http.StatusBadRequest
	case errors.Is(err, domain.ErrNoProvidersConfigured):
		code, status = "NO_PROVIDERS_CONFIGURED", http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrAllProvidersFailed):
		code, status = "ALL_PROVIDERS_FAILED", http.StatusBadGateway
	default:
		s.logger.Error("audit failed", zap.Error(err))
		code, status = "INTERNAL_ERROR", http.StatusInternalServerError
	}

	if wantsJSON {
		c.JSON(status, ErrorResponse{
			Error: ErrorDetail{
				Code:    code,
				Message: err.Error(),
			},
		})
		return
	}

	c.String(status, "Error: %s", err.Error())
}

// handleGetReport retrieves a previously stored report
func (s *Server) handleGetReport(c *gin.Context) {
	id := c.Param("id")

	report, err := s.manager.GetReport(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrReportNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error: ErrorDetail{
					Code:    "NOT_FOUND",
					Message: "Report not found",
				},
			})
			return
		}

		s.logger.Error("failed to load report",
			zap.String("audit_id", id),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{
				Code:    "STORAGE_ERROR",
				Message: "Failed to load report",
			},
		})
		return
	}

	c.JSON(http.StatusOK, report)
}
