package httpserver

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const requestIDHeader = "X-Request-ID"

// requestID tags each request with an id, reusing the caller's if present.
func (s *HTTPServer) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			var err error
			if id, err = common.MakeRandHexString(8); err != nil {
				id = "unknown"
			}
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (s *HTTPServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		s.metrics.ObserveRequest(route, strconv.Itoa(status), latency.Seconds())
		s.logger.Info(c.Request.Context(), "request",
			"request_id", c.GetString(requestIDHeader),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", latency,
		)
	}
}

// recovery turns a handler panic into the generic internal error response.
func (s *HTTPServer) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, rec any) {
		s.logger.Error(c.Request.Context(), "panic recovered", "panic", rec, "path", c.Request.URL.Path)
		s.abortWithError(c, http.StatusInternalServerError, common.CodeInternal, detailInternal)
	})
}

// tokenFilter runs the bearer token validator on every route except sign-up.
// A missing header lets the request through anonymously; a present but
// unusable one stops it with 401 before any handler runs.
func (s *HTTPServer) tokenFilter() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == common.SignUpPath {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		out := s.validator.ValidateRequest(c.Request)
		s.logger.Debug(ctx, "token filter", "path", c.Request.URL.Path, "outcome", out.Kind.String())

		switch out.Kind {
		case auth.Accepted:
			c.Request = c.Request.WithContext(auth.WithPrincipal(ctx, out.Principal))
		case auth.Rejected:
			s.metrics.TokenRejected()
			s.logger.Warn(ctx, "token rejected", "path", c.Request.URL.Path, "reason", out.Reason)
			s.abortWithError(c, http.StatusUnauthorized, common.CodeInvalidCredentials, detailBadToken)
			return
		}

		c.Next()
	}
}
