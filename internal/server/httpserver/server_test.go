package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSettings = auth.TokenSettings{
	Secret:   []byte("http-test-secret-that-is-long-enough"),
	Validity: auth.DefaultTokenValidity,
}

type env struct {
	srv    *HTTPServer
	issuer *auth.TokenIssuer
	repo   *accounts.MemoryRepository
}

func newEnv(t *testing.T) env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	issuer, err := auth.NewTokenIssuer(testSettings)
	require.NoError(t, err)
	validator, err := auth.NewTokenValidator(testSettings, nil)
	require.NoError(t, err)
	cipher, err := cryptox.NewPasswordCipher(cryptox.GenerateKey())
	require.NoError(t, err)

	repo := accounts.NewMemoryRepository()
	svc := services.NewAccountService(repo, cipher, issuer, nil)

	srv, err := NewHTTPServer(":0", logging.NopLogger{}, svc, validator, metrics.NewRegistry())
	require.NoError(t, err)

	return env{srv: srv, issuer: issuer, repo: repo}
}

func (e env) do(t *testing.T, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorDetails {
	t.Helper()
	var ed ErrorDetails
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ed), "body: %s", w.Body.String())
	assert.False(t, ed.Timestamp.IsZero())
	return ed
}

const aliceBody = `{
	"name": "Alice",
	"email": "alice@example.com",
	"password": "a2asfGfdfdf3",
	"phones": [{"number": "12345678", "cityCode": "11", "countryCode": "57"}]
}`

func TestSignUp_Created(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/app/sign-up", aliceBody, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["id"])
	assert.NotEmpty(t, resp["token"])
	assert.Equal(t, true, resp["isActive"])
	assert.NotEmpty(t, resp["created"])
	assert.NotContains(t, resp, "password")
	assert.NotContains(t, resp, "email")
	assert.NotContains(t, resp, "lastLogin")

	stored, err := e.repo.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "a2asfGfdfdf3", stored.Password)
	assert.Len(t, stored.Phones, 1)
}

func TestSignUp_IgnoresAuthorizationHeader(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/app/sign-up", aliceBody, map[string]string{"Authorization": "Bearer garbage"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestSignUp_Duplicate(t *testing.T) {
	e := newEnv(t)

	require.Equal(t, http.StatusCreated, e.do(t, http.MethodPost, "/app/sign-up", aliceBody, nil).Code)

	w := e.do(t, http.MethodPost, "/app/sign-up", aliceBody, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	ed := decodeError(t, w)
	assert.Equal(t, common.CodeInputRequest, ed.Code)
	assert.Equal(t, "user already exists with email: alice@example.com", ed.Detail)
	assert.Equal(t, 1, e.repo.Len())
}

func TestSignUp_ValidationErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantCode   int
		wantDetail string
	}{
		{
			name:       "bad password",
			body:       `{"email":"bob@example.com","password":"password"}`,
			wantCode:   common.CodeSignUp,
			wantDetail: "Invalid password.",
		},
		{
			name:       "adjacent digits",
			body:       `{"email":"bob@example.com","password":"Abcdef12"}`,
			wantCode:   common.CodeSignUp,
			wantDetail: "Invalid password.",
		},
		{
			name:       "bad email",
			body:       `{"email":"not-an-email","password":"Abcde1f2"}`,
			wantCode:   common.CodeSignUp,
			wantDetail: "Enter a valid email address.",
		},
		{
			name:       "missing email",
			body:       `{"password":"Abcde1f2"}`,
			wantCode:   common.CodeSignUp,
			wantDetail: "email is required.",
		},
		{
			name:       "short name",
			body:       `{"name":"Al","email":"bob@example.com","password":"Abcde1f2"}`,
			wantCode:   common.CodeSignUp,
			wantDetail: "name must be between 3 and 20 characters.",
		},
		{
			name:       "phone with letters",
			body:       `{"email":"bob@example.com","password":"Abcde1f2","phones":[{"number":"12ab","cityCode":"1","countryCode":"57"}]}`,
			wantCode:   common.CodeSignUp,
			wantDetail: "number must contain only digits.",
		},
		{
			name:       "not json",
			body:       `{"email":`,
			wantCode:   common.CodeValidationFailed,
			wantDetail: "malformed request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			w := e.do(t, http.MethodPost, "/app/sign-up", tt.body, nil)
			require.Equal(t, http.StatusBadRequest, w.Code)

			ed := decodeError(t, w)
			assert.Equal(t, tt.wantCode, ed.Code)
			assert.True(t, strings.HasPrefix(ed.Detail, tt.wantDetail), "detail %q", ed.Detail)
			assert.Zero(t, e.repo.Len())
		})
	}
}

func TestLogin_Flow(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/app/sign-up", aliceBody, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var signUp SignUpResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &signUp))

	before := time.Now().Add(-time.Second)
	w = e.do(t, http.MethodGet, "/app/login", "", map[string]string{"Authorization": "Bearer " + signUp.Token})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var login LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	assert.Equal(t, signUp.ID, login.ID)
	assert.Equal(t, "alice@example.com", login.Email)
	assert.Equal(t, "Alice", login.Name)
	assert.Equal(t, "a2asfGfdfdf3", login.Password)
	assert.NotEqual(t, signUp.Token, login.Token)
	assert.True(t, login.IsActive)
	require.Len(t, login.Phones, 1)
	assert.Equal(t, PhoneDTO{Number: "12345678", CityCode: "11", CountryCode: "57"}, login.Phones[0])
	require.NotNil(t, login.LastLogin)
	assert.False(t, login.LastLogin.Before(before))

	// the fresh token works too
	w = e.do(t, http.MethodGet, "/app/login", "", map[string]string{"Authorization": "Bearer " + login.Token})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogin_NoHeader(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodGet, "/app/login", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	ed := decodeError(t, w)
	assert.Equal(t, common.CodeInvalidCredentials, ed.Code)
	assert.Equal(t, "full authentication is required to access this resource", ed.Detail)
}

func TestLogin_RejectedHeaders(t *testing.T) {
	e := newEnv(t)

	tok, err := e.issuer.Issue("alice@example.com")
	require.NoError(t, err)

	for _, h := range []string{"Bearer", "bearer " + tok, "Token " + tok, "Bearer not.a.token"} {
		w := e.do(t, http.MethodGet, "/app/login", "", map[string]string{"Authorization": h})
		require.Equal(t, http.StatusUnauthorized, w.Code, "header %q", h)
		assert.Equal(t, common.CodeInvalidCredentials, decodeError(t, w).Code)
	}
}

func TestLogin_TokenForUnknownAccount(t *testing.T) {
	e := newEnv(t)

	tok, err := e.issuer.Issue("ghost@example.com")
	require.NoError(t, err)

	w := e.do(t, http.MethodGet, "/app/login", "", map[string]string{"Authorization": "Bearer " + tok})
	require.Equal(t, http.StatusInternalServerError, w.Code)

	ed := decodeError(t, w)
	assert.Equal(t, common.CodeInternal, ed.Code)
	assert.Equal(t, "internal error", ed.Detail)
}

func TestPingAndMetrics(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodGet, "/ping", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"OK"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	e.do(t, http.MethodGet, "/app/login", "", map[string]string{"Authorization": "Bearer"})

	w = e.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "gophauth_auth_token_rejections_total 1")
}

func TestRequestID_Propagated(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodGet, "/ping", "", map[string]string{"X-Request-ID": "abc123"})
	assert.Equal(t, "abc123", w.Header().Get("X-Request-ID"))
}

func TestNoRoute(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// --- error mapping with a stubbed flow ---

type stubFlows struct {
	registerErr error
	loginErr    error
	panicOnCall bool
}

func (s stubFlows) Register(context.Context, *models.Candidate) (*models.Account, error) {
	if s.panicOnCall {
		panic("boom")
	}
	return nil, s.registerErr
}

func (s stubFlows) Login(context.Context, *auth.Principal) (*services.LoginResult, error) {
	return nil, s.loginErr
}

type acceptAll struct{}

func (acceptAll) ValidateRequest(*http.Request) auth.Outcome {
	return auth.Outcome{Kind: auth.Accepted, Principal: &auth.Principal{Subject: "alice@example.com", Authority: auth.DefaultAuthority}}
}

func newStubServer(t *testing.T, flows stubFlows) *HTTPServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv, err := NewHTTPServer(":0", logging.NopLogger{}, flows, acceptAll{}, nil)
	require.NoError(t, err)
	return srv
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		flows      stubFlows
		method     string
		path       string
		wantStatus int
		wantCode   int
	}{
		{"crypto failure on sign-up", stubFlows{registerErr: common.ErrCryptoFailure}, http.MethodPost, "/app/sign-up", 500, common.CodeInternal},
		{"internal on sign-up", stubFlows{registerErr: errors.New("boom")}, http.MethodPost, "/app/sign-up", 500, common.CodeInternal},
		{"panic on sign-up", stubFlows{panicOnCall: true}, http.MethodPost, "/app/sign-up", 500, common.CodeInternal},
		{"crypto failure on login", stubFlows{loginErr: common.ErrCryptoFailure}, http.MethodGet, "/app/login", 500, common.CodeInternal},
		{"invalid credentials on login", stubFlows{loginErr: common.ErrInvalidCredentials}, http.MethodGet, "/app/login", 401, common.CodeInvalidCredentials},
		{"validation on sign-up", stubFlows{registerErr: common.ErrValidationFailed}, http.MethodPost, "/app/sign-up", 400, common.CodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newStubServer(t, tt.flows)

			var body *bytes.Reader
			if tt.method == http.MethodPost {
				body = bytes.NewReader([]byte(`{"email":"alice@example.com","password":"Abcde1f2"}`))
			} else {
				body = bytes.NewReader(nil)
			}
			req := httptest.NewRequest(tt.method, tt.path, body)
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			ed := decodeError(t, w)
			assert.Equal(t, tt.wantCode, ed.Code)
			if tt.wantStatus == http.StatusInternalServerError {
				assert.Equal(t, "internal error", ed.Detail)
			}
		})
	}
}

func TestNewHTTPServer_RequiresCollaborators(t *testing.T) {
	_, err := NewHTTPServer(":0", logging.NopLogger{}, nil, acceptAll{}, nil)
	assert.Error(t, err)
}

func TestRun_StopsOnCancel(t *testing.T) {
	srv := newStubServer(t, stubFlows{})
	srv.address = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
