package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	verifyStatus int
	verifyBody   string
	loginStatus  int
	loginBody    string

	verifyCalls atomic.Int32
	loginCalls  atomic.Int32
	lastToken   string
	lastCreds   Credentials
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/auth/verify-email/{token}", func(w http.ResponseWriter, r *http.Request) {
		f.verifyCalls.Add(1)
		f.lastToken = r.PathValue("token")
		w.WriteHeader(f.verifyStatus)
		_, _ = w.Write([]byte(f.verifyBody))
	})
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		f.loginCalls.Add(1)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&f.lastCreds))
		w.WriteHeader(f.loginStatus)
		_, _ = w.Write([]byte(f.loginBody))
	})
	return mux
}

func newTestRunner(t *testing.T, baseURL string) (*Runner, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return NewRunner(NewClient(nil, baseURL), zerolog.New(&buf)), &buf
}

var testCreds = Credentials{Email: "test@example.com", Password: "password123"}

func TestRun_VerificationRejected(t *testing.T) {
	api := &fakeAPI{verifyStatus: http.StatusOK, verifyBody: `{"success":false,"message":"token already used"}`}
	srv := httptest.NewServer(api.handler(t))
	defer srv.Close()

	runner, out := newTestRunner(t, srv.URL+"/api/auth")
	res := runner.Run(context.Background(), "tok", testCreds)

	assert.ErrorIs(t, res.Err, ErrVerificationRejected)
	assert.False(t, res.Verified)
	assert.False(t, res.LoginAttempt)
	assert.Equal(t, []State{AwaitingVerification, Done}, res.States)
	assert.EqualValues(t, 0, api.loginCalls.Load())
	assert.Contains(t, out.String(), "Email verification failed")
	assert.Contains(t, out.String(), "token already used")
}

func TestRun_VerificationNon2xx(t *testing.T) {
	api := &fakeAPI{verifyStatus: http.StatusBadRequest, verifyBody: `{"success":false,"message":"invalid or expired verification token"}`}
	srv := httptest.NewServer(api.handler(t))
	defer srv.Close()

	runner, out := newTestRunner(t, srv.URL+"/api/auth")
	res := runner.Run(context.Background(), "tok", testCreds)

	var respErr *ResponseError
	require.ErrorAs(t, res.Err, &respErr)
	assert.Equal(t, http.StatusBadRequest, respErr.StatusCode)
	assert.EqualValues(t, 0, api.loginCalls.Load())
	assert.Contains(t, out.String(), `"status":400`)
	assert.Contains(t, out.String(), "invalid or expired verification token")
}

func TestRun_VerificationConnectionError(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler(t))
	baseURL := srv.URL + "/api/auth"
	srv.Close()

	runner, out := newTestRunner(t, baseURL)
	res := runner.Run(context.Background(), "tok", testCreds)

	require.Error(t, res.Err)
	assert.False(t, res.LoginAttempt)
	assert.Equal(t, []State{AwaitingVerification, Done}, res.States)
	assert.EqualValues(t, 0, api.verifyCalls.Load())
	assert.EqualValues(t, 0, api.loginCalls.Load())
	assert.Contains(t, out.String(), "Email verification failed")
}

func TestRun_Success(t *testing.T) {
	api := &fakeAPI{
		verifyStatus: http.StatusOK,
		verifyBody:   `{"success":true,"message":"Email verified"}`,
		loginStatus:  http.StatusOK,
		loginBody:    `{"success":true,"data":{"token":"abc"}}`,
	}
	srv := httptest.NewServer(api.handler(t))
	defer srv.Close()

	runner, out := newTestRunner(t, srv.URL+"/api/auth")
	res := runner.Run(context.Background(), "tok-123", testCreds)

	require.NoError(t, res.Err)
	assert.True(t, res.Verified)
	assert.True(t, res.LoggedIn)
	assert.True(t, res.TokenPresent)
	assert.Equal(t, []State{AwaitingVerification, AwaitingLogin, Done}, res.States)
	assert.EqualValues(t, 1, api.verifyCalls.Load())
	assert.EqualValues(t, 1, api.loginCalls.Load())
	assert.Equal(t, "tok-123", api.lastToken)
	assert.Equal(t, testCreds, api.lastCreds)
	assert.Contains(t, out.String(), `"token_present":true`)
}

func TestRun_LoginWithoutToken(t *testing.T) {
	api := &fakeAPI{
		verifyStatus: http.StatusOK,
		verifyBody:   `{"success":true}`,
		loginStatus:  http.StatusOK,
		loginBody:    `{"success":true,"data":{"token":""}}`,
	}
	srv := httptest.NewServer(api.handler(t))
	defer srv.Close()

	runner, out := newTestRunner(t, srv.URL+"/api/auth")
	res := runner.Run(context.Background(), "tok", testCreds)

	assert.NoError(t, res.Err)
	assert.True(t, res.LoggedIn)
	assert.False(t, res.TokenPresent)
	assert.Contains(t, out.String(), `"token_present":false`)
}

func TestRun_LoginUnauthorized(t *testing.T) {
	api := &fakeAPI{
		verifyStatus: http.StatusOK,
		verifyBody:   `{"success":true}`,
		loginStatus:  http.StatusUnauthorized,
		loginBody:    `{"success":false,"message":"invalid credentials"}`,
	}
	srv := httptest.NewServer(api.handler(t))
	defer srv.Close()

	runner, out := newTestRunner(t, srv.URL+"/api/auth")
	res := runner.Run(context.Background(), "tok", testCreds)

	var respErr *ResponseError
	require.ErrorAs(t, res.Err, &respErr)
	assert.Equal(t, http.StatusUnauthorized, respErr.StatusCode)
	assert.True(t, res.Verified)
	assert.False(t, res.LoggedIn)
	assert.False(t, res.TokenPresent)
	assert.Equal(t, []State{AwaitingVerification, AwaitingLogin, Done}, res.States)
	assert.EqualValues(t, 1, api.loginCalls.Load())
	assert.Contains(t, out.String(), "Login failed")
	assert.Contains(t, out.String(), "invalid credentials")
}

func TestClient_VerifyEscapesToken(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.Client(), srv.URL+"/").VerifyEmail(context.Background(), "a/b c")
	require.NoError(t, err)
	assert.Equal(t, "/verify-email/a%2Fb%20c", gotPath)
}

func TestClient_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.Client(), srv.URL).Login(context.Background(), testCreds)
	assert.ErrorContains(t, err, "could not decode response")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "awaiting_verification", AwaitingVerification.String())
	assert.Equal(t, "awaiting_login", AwaitingLogin.String())
	assert.Equal(t, "done", Done.String())
	assert.Equal(t, "unknown", State(42).String())
}
