package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postSession(t *testing.T, h *AdminSessionHandler, accessKey string) *httptest.ResponseRecorder {
	t.Helper()
	payload, _ := json.Marshal(AdminSessionRequest{AccessKey: accessKey})
	req := httptest.NewRequest(http.MethodPost, "/admin/session", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	h.CreateSession(rec, req)
	return rec
}

func TestCreateSessionValidPasskey(t *testing.T) {
	h := NewAdminSessionHandler("111111", "jwt-secret", 15*time.Minute, nil)

	rec := postSession(t, h, base64.StdEncoding.EncodeToString([]byte("111111")))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp AdminSessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), resp.ExpiresAt, 5*time.Second)

	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(resp.Token, &claims, func(*jwt.Token) (any, error) {
		return []byte("jwt-secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, "admin", claims.Subject)
}

func TestCreateSessionWrongPasskey(t *testing.T) {
	h := NewAdminSessionHandler("111111", "jwt-secret", 15*time.Minute, nil)

	rec := postSession(t, h, base64.StdEncoding.EncodeToString([]byte("222222")))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateSessionMalformedKey(t *testing.T) {
	h := NewAdminSessionHandler("111111", "jwt-secret", 15*time.Minute, nil)

	rec := postSession(t, h, "not-base64!!")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateSessionDisabledWithoutPasskey(t *testing.T) {
	h := NewAdminSessionHandler("", "jwt-secret", 15*time.Minute, nil)

	rec := postSession(t, h, base64.StdEncoding.EncodeToString([]byte("111111")))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateSessionBadBody(t *testing.T) {
	h := NewAdminSessionHandler("111111", "jwt-secret", 15*time.Minute, nil)

	req := httptest.NewRequest(http.MethodPost, "/admin/session", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	h.CreateSession(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
