package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/streamhive/streamhive-backend/middleware"
	"github.com/streamhive/streamhive-backend/models"
	"github.com/streamhive/streamhive-backend/utils"
)

type fakeMediaStore struct {
	fail    bool
	deleted []string
}

func (f *fakeMediaStore) Upload(_ context.Context, fh *multipart.FileHeader, folder string) (*models.MediaRef, error) {
	if f.fail {
		return nil, errors.New("upload failed")
	}
	return &models.MediaRef{
		PublicID: folder + "/" + fh.Filename,
		URL:      "https://cdn.example.com/" + folder + "/" + fh.Filename,
	}, nil
}

func (f *fakeMediaStore) Delete(_ context.Context, publicID string) error {
	f.deleted = append(f.deleted, publicID)
	return nil
}

func authRouter(store utils.MediaStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	v := utils.NewImageOrVideoValidator()

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.POST("/register", RegisterUser(store, v))
	r.POST("/login", LoginUser())
	r.POST("/refresh-token", RefreshAccessToken())
	return r
}

func postJSON(r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	var body bytes.Buffer
	_ = json.NewEncoder(&body).Encode(payload)
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func envelopeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	msg, _ := body["message"].(string)
	return msg
}

func TestRegisterMissingFields(t *testing.T) {
	r := authRouter(&fakeMediaStore{})

	cases := []map[string]string{
		{},
		{"username": "alice"},
		{"username": "alice", "fullName": "Alice A"},
		{"username": "alice", "fullName": "Alice A", "email": "a@x.com"},
		{"fullName": "Alice A", "email": "a@x.com", "password": "pw123456"},
	}
	for _, fields := range cases {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		for k, v := range fields {
			_ = mw.WriteField(k, v)
		}
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/register", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "fields %v", fields)
		assert.Equal(t, "All fields are required", envelopeMessage(t, w))
	}
}

func TestRegisterRejectsUnusableUsername(t *testing.T) {
	r := authRouter(&fakeMediaStore{})

	// Symbol-only names normalize to the empty string.
	for _, username := range []string{"!!!", "@@", "  ", "???"} {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		for k, v := range map[string]string{
			"username": username,
			"fullName": "Alice A",
			"email":    "a@x.com",
			"password": "pw123456",
		} {
			_ = mw.WriteField(k, v)
		}
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/register", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "username %q", username)
		assert.Equal(t, "Invalid username", envelopeMessage(t, w), "username %q", username)
	}
}

func TestLoginValidationOrder(t *testing.T) {
	r := authRouter(&fakeMediaStore{})

	// Identifier is checked before the password.
	w := postJSON(r, "/login", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Username or email is required", envelopeMessage(t, w))

	w = postJSON(r, "/login", map[string]string{"username": "alice"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Password is required", envelopeMessage(t, w))
}

func TestLoginMalformedBody(t *testing.T) {
	r := authRouter(&fakeMediaStore{})

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRefreshMissingToken(t *testing.T) {
	r := authRouter(&fakeMediaStore{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/refresh-token", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshWronglySignedToken(t *testing.T) {
	t.Setenv("REFRESH_TOKEN_SECRET", "attacker-secret")
	tok, err := utils.GenerateRefreshToken("0123456789abcdef01234567", time.Hour)
	require.NoError(t, err)

	t.Setenv("REFRESH_TOKEN_SECRET", "server-secret")
	r := authRouter(&fakeMediaStore{})

	req := httptest.NewRequest(http.MethodPost, "/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: tok})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
