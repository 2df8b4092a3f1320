package client

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a decoded error response of the server.
type APIError struct {
	Timestamp time.Time `json:"timestamp"`
	Detail    string    `json:"detail"`
	Status    int       `json:"-"`
	Code      int       `json:"code"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error (%d, code %d): %s", e.Status, e.Code, e.Detail)
}

// Is lets callers match 401 with ErrUnauthorized and 5xx with ErrUnavailable.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrUnavailable:
		return e.Status >= http.StatusInternalServerError
	}
	return false
}
