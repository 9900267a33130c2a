package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNotifier captures confirmation links instead of sending mail.
type fakeNotifier struct {
	links chan string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{links: make(chan string, 4)}
}

func (n *fakeNotifier) SendConfirmationEmail(_, _, link string) error {
	n.links <- link
	return nil
}

func (n *fakeNotifier) waitForLink(t *testing.T) string {
	t.Helper()
	select {
	case link := <-n.links:
		return link
	case <-time.After(2 * time.Second):
		t.Fatal("no confirmation email was sent")
		return ""
	}
}

func newTestRouter(t *testing.T) (*mux.Router, *fakeNotifier) {
	t.Helper()

	repo := newFakeUserRepo()
	codec := testCodec()
	service := NewService(repo, codec)
	confirmations := NewConfirmations(repo, codec)
	notifier := newFakeNotifier()
	handler := NewJSONHandler(service, confirmations, notifier, "http://localhost:8000")

	r := mux.NewRouter()
	handler.Register(r.PathPrefix("/api/auth").Subrouter())

	protected := r.PathPrefix("/api/auth").Subrouter()
	protected.Use(NewMiddleware(codec, repo).RequireAccessToken)
	protected.HandleFunc("/logout", handler.Logout).Methods(http.MethodPost)

	return r, notifier
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any, headers map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestAuthFlow(t *testing.T) {
	t.Parallel()

	router, notifier := newTestRouter(t)

	creds := map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "correct horse battery staple",
	}

	// Signup.
	rec, body := doJSON(t, router, http.MethodPost, "/api/auth/signup", creds, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, "alice@example.com", body["email"])
	assert.NotContains(t, body, "password")

	link := notifier.waitForLink(t)
	parts := strings.Split(link, "/")
	confirmToken := parts[len(parts)-1]

	// Login before confirmation.
	rec, body = doJSON(t, router, http.MethodPost, "/api/auth/login", map[string]string{
		"email": creds["email"], "password": creds["password"],
	}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Email not confirmed", body["detail"])

	// Confirm via the emailed token.
	rec, body = doJSON(t, router, http.MethodGet, "/api/auth/confirmed_email/"+confirmToken, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Email confirmed", body["message"])

	// Confirming again is idempotent.
	rec, body = doJSON(t, router, http.MethodGet, "/api/auth/confirmed_email/"+confirmToken, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Your email is already confirmed", body["message"])

	// Wrong password and unknown email produce the same error class.
	rec, body = doJSON(t, router, http.MethodPost, "/api/auth/login", map[string]string{
		"email": creds["email"], "password": "wrong password",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", body["detail"])

	rec, body = doJSON(t, router, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ghost@example.com", "password": creds["password"],
	}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", body["detail"])

	// Successful login.
	rec, body = doJSON(t, router, http.MethodPost, "/api/auth/login", map[string]string{
		"email": creds["email"], "password": creds["password"],
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "bearer", body["token_type"])
	refreshToken, _ := body["refresh_token"].(string)
	require.NotEmpty(t, refreshToken)

	// Refresh rotates the pair.
	rec, body = doJSON(t, router, http.MethodPost, "/api/auth/refresh_token", nil, map[string]string{
		"Authorization": "Bearer " + refreshToken,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	newRefresh, _ := body["refresh_token"].(string)
	require.NotEmpty(t, newRefresh)
	assert.NotEqual(t, refreshToken, newRefresh)

	// The superseded refresh token is rejected.
	rec, body = doJSON(t, router, http.MethodPost, "/api/auth/refresh_token", nil, map[string]string{
		"Authorization": "Bearer " + refreshToken,
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid refresh token", body["detail"])
}

func TestSignup_DuplicateAccount(t *testing.T) {
	t.Parallel()

	router, notifier := newTestRouter(t)

	creds := map[string]string{
		"username": "bob",
		"email":    "bob@example.com",
		"password": "correct horse battery staple",
	}

	rec, _ := doJSON(t, router, http.MethodPost, "/api/auth/signup", creds, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	notifier.waitForLink(t)

	rec, body := doJSON(t, router, http.MethodPost, "/api/auth/signup", creds, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Account already exists", body["detail"])
}

func TestSignup_WeakPassword(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/auth/signup", map[string]string{
		"username": "bob",
		"email":    "bob@example.com",
		"password": "aaa",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefresh_MissingHeader(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodPost, "/api/auth/refresh_token", nil, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid refresh token", body["detail"])
}

func TestRequestEmail_UnknownAddressDoesNotLeak(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodPost, "/api/auth/request_email", map[string]string{
		"email": "ghost@example.com",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Check your email for confirmation.", body["message"])
}

func TestLogout_RevokesRefresh(t *testing.T) {
	t.Parallel()

	router, notifier := newTestRouter(t)

	creds := map[string]string{
		"username": "carol",
		"email":    "carol@example.com",
		"password": "correct horse battery staple",
	}

	rec, _ := doJSON(t, router, http.MethodPost, "/api/auth/signup", creds, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	link := notifier.waitForLink(t)
	parts := strings.Split(link, "/")
	rec, _ = doJSON(t, router, http.MethodGet, "/api/auth/confirmed_email/"+parts[len(parts)-1], nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := doJSON(t, router, http.MethodPost, "/api/auth/login", map[string]string{
		"email": creds["email"], "password": creds["password"],
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	access, _ := body["access_token"].(string)
	refresh, _ := body["refresh_token"].(string)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/auth/logout", nil, map[string]string{
		"Authorization": "Bearer " + access,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, body = doJSON(t, router, http.MethodPost, "/api/auth/refresh_token", nil, map[string]string{
		"Authorization": "Bearer " + refresh,
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid refresh token", body["detail"])
}
