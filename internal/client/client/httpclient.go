package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// HTTPClient implements Client against the gophauth HTTP API.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient returns a client for baseURL. A non-positive timeout leaves
// requests bounded only by their context.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	c := &http.Client{}
	if timeout > 0 {
		c.Timeout = timeout
	}
	return &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  c,
	}
}

func (h *HTTPClient) Ping(ctx context.Context) error {
	return h.do(ctx, http.MethodGet, "/ping", "", nil, nil)
}

func (h *HTTPClient) SignUp(ctx context.Context, req *SignUpRequest) (*SignUpResponse, error) {
	var resp SignUpResponse
	if err := h.do(ctx, http.MethodPost, common.SignUpPath, "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (h *HTTPClient) Login(ctx context.Context, token string) (*LoginResponse, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: token is required", ErrUnauthorized)
	}
	var resp LoginResponse
	if err := h.do(ctx, http.MethodGet, common.LoginPath, token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (h *HTTPClient) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return handleErrorResponse(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// handleErrorResponse turns a non-2xx response into *APIError. Bodies that
// are not an error envelope keep their raw text as the detail.
func handleErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	apiErr := &APIError{Status: resp.StatusCode}
	if json.Unmarshal(body, apiErr) == nil && apiErr.Detail != "" {
		apiErr.Status = resp.StatusCode
		return apiErr
	}

	apiErr.Detail = strings.TrimSpace(string(body))
	if apiErr.Detail == "" {
		apiErr.Detail = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
