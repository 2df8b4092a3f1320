package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/gin-gonic/gin"
)

// Detail strings that are part of the public contract.
const (
	detailAuthRequired = "full authentication is required to access this resource"
	detailInternal     = "internal error"
	detailMalformed    = "malformed request body"
	detailBadToken     = "invalid or expired token"
)

// ErrorDetails is the body of every error response.
type ErrorDetails struct {
	Timestamp time.Time `json:"timestamp"`
	Code      int       `json:"code"`
	Detail    string    `json:"detail"`
}

func (s *HTTPServer) abortWithError(c *gin.Context, status, code int, detail string) {
	c.AbortWithStatusJSON(status, ErrorDetails{
		Timestamp: s.now(),
		Code:      code,
		Detail:    detail,
	})
}

// abortWithServiceError maps a flow error to its status, code and detail.
// Internal and crypto failures never reveal their cause to the client.
func (s *HTTPServer) abortWithServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrDuplicateAccount):
		s.abortWithError(c, http.StatusBadRequest, common.CodeInputRequest, err.Error())
	case errors.Is(err, common.ErrValidationFailed):
		s.abortWithError(c, http.StatusBadRequest, common.CodeValidationFailed, err.Error())
	case errors.Is(err, common.ErrInvalidCredentials):
		s.abortWithError(c, http.StatusUnauthorized, common.CodeInvalidCredentials, detailAuthRequired)
	default:
		s.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		s.abortWithError(c, http.StatusInternalServerError, common.CodeInternal, detailInternal)
	}
}
