package handlers

import (
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/meditrack/meditrack-server/internal/http/middleware"
	"github.com/meditrack/meditrack-server/pkg/logging"
)

// AdminSessionRequest carries the base64-encoded access key the dashboard
// stores client-side.
type AdminSessionRequest struct {
	AccessKey string `json:"access_key"`
}

// AdminSessionResponse returns the minted session token.
type AdminSessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AdminSessionHandler exchanges the admin passkey for a short-lived JWT. The
// passkey check happens server-side; a wrong key is a plain 401.
type AdminSessionHandler struct {
	passkey   string
	jwtSecret string
	ttl       time.Duration
	logger    *logging.Logger
}

// NewAdminSessionHandler creates the passkey exchange handler.
func NewAdminSessionHandler(passkey, jwtSecret string, ttl time.Duration, logger *logging.Logger) *AdminSessionHandler {
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &AdminSessionHandler{passkey: passkey, jwtSecret: jwtSecret, ttl: ttl, logger: logger}
}

// CreateSession handles POST /admin/session.
func (h *AdminSessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	if h.passkey == "" || h.jwtSecret == "" {
		http.Error(w, "admin access disabled", http.StatusUnauthorized)
		return
	}

	var req AdminSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	decoded, err := base64.StdEncoding.DecodeString(req.AccessKey)
	if err != nil {
		http.Error(w, "invalid access key", http.StatusUnauthorized)
		return
	}
	if subtle.ConstantTimeCompare(decoded, []byte(h.passkey)) != 1 {
		h.logger.Warn("admin passkey rejected", "remote_ip", r.RemoteAddr)
		http.Error(w, "invalid access key", http.StatusUnauthorized)
		return
	}

	token, err := middleware.IssueAdminToken(h.jwtSecret, h.ttl)
	if err != nil {
		h.logger.Error("failed to issue admin token", "error", err)
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(AdminSessionResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(h.ttl),
	})
}
