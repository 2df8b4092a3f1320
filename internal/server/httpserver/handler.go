package httpserver

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (s *HTTPServer) signUp(c *gin.Context) {
	ctx := c.Request.Context()

	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.metrics.Registration(metrics.OutcomeInvalid)
		if isValidationError(err) {
			s.abortWithError(c, http.StatusBadRequest, common.CodeSignUp, fieldMessage(err))
			return
		}
		s.abortWithError(c, http.StatusBadRequest, common.CodeValidationFailed, detailMalformed)
		return
	}

	s.logger.Info(ctx, "Registration request", "email", req.Email)

	account, err := s.accounts.Register(ctx, req.candidate())
	if err != nil {
		if errors.Is(err, common.ErrDuplicateAccount) {
			s.metrics.Registration(metrics.OutcomeDuplicate)
		} else {
			s.metrics.Registration(metrics.OutcomeError)
		}
		s.abortWithServiceError(c, err)
		return
	}

	s.metrics.Registration(metrics.OutcomeSuccess)
	c.JSON(http.StatusCreated, newSignUpResponse(account))
}

func (s *HTTPServer) login(c *gin.Context) {
	ctx := c.Request.Context()

	principal, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		s.metrics.Login(metrics.OutcomeInvalid)
		s.abortWithError(c, http.StatusUnauthorized, common.CodeInvalidCredentials, detailAuthRequired)
		return
	}

	result, err := s.accounts.Login(ctx, principal)
	if err != nil {
		s.metrics.Login(metrics.OutcomeError)
		s.abortWithServiceError(c, err)
		return
	}

	s.metrics.Login(metrics.OutcomeSuccess)
	c.JSON(http.StatusOK, newLoginResponse(result))
}
