package http

import (
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type AuthHandler struct {
	authService    ports.AuthService
	redirectURL    string
	cookieDomain   string
	cookieSameSite http.SameSite
	adminTTL       time.Duration
	voterTTL       time.Duration
}

func NewAuthHandler(authService ports.AuthService, redirectURL string, cookieDomain string, cookieSameSite http.SameSite, adminTTL, voterTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		redirectURL:    redirectURL,
		cookieDomain:   cookieDomain,
		cookieSameSite: cookieSameSite,
		adminTTL:       adminTTL,
		voterTTL:       voterTTL,
	}
}

// GoogleCallback godoc
// @Summary      Signs an administrator in
// @Description  Receives the Google Identity Services form post, verifies the ID token and sets the access token cookie.
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Success      303
// @Failure      400,401
// @Router       /auth/google/callback [post]
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, r, domain.NewValidationError("failed to parse form"))
		return
	}

	credential := r.FormValue("credential")
	if credential == "" {
		writeError(w, r, domain.NewValidationError("missing credential"))
		return
	}

	accessToken, err := h.authService.LoginAdmin(r.Context(), credential)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.setAccessTokenCookie(w, accessToken, h.adminTTL)
	http.Redirect(w, r, h.redirectURL, http.StatusSeeOther)
}

type voterAuthRequest struct {
	NID   string `json:"nid"`
	Image string `json:"image"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// AuthenticateVoter godoc
// @Summary      Authenticates a voter
// @Description  Compares a live face image with the citizen's reference image and issues a short voter session.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200
// @Failure      400,401
// @Router       /api/voter/authenticate [post]
func (h *AuthHandler) AuthenticateVoter(w http.ResponseWriter, r *http.Request) {
	var req voterAuthRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	image, err := decodeImage(req.Image)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.authService.AuthenticateVoter(r.Context(), req.NID, image)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.setAccessTokenCookie(w, token, h.voterTTL)
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, ExpiresIn: int(h.voterTTL.Seconds())})
}

// Logout godoc
// @Summary      Logs the session out
// @Description  Clears the access token cookie
// @Tags         auth
// @Success      200
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: accessTokenCookie, MaxAge: -1, Path: "/", Domain: h.cookieDomain})
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AuthHandler) setAccessTokenCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    token,
		Path:     "/",
		Domain:   h.cookieDomain,
		HttpOnly: true,
		Secure:   true,
		SameSite: h.cookieSameSite,
		MaxAge:   int(ttl.Seconds()),
	})
}

// decodeImage accepts plain base64 or a data URL.
func decodeImage(encoded string) ([]byte, error) {
	if i := strings.Index(encoded, ","); i >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[i+1:]
	}
	if encoded == "" {
		return nil, domain.NewValidationError("image is required")
	}
	image, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, domain.NewValidationError("image must be base64 encoded")
	}
	return image, nil
}
