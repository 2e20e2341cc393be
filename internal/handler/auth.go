package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/efreitasn/tradedesk/internal/domain"
	"github.com/efreitasn/tradedesk/internal/session"
)

// AuthHandler handles HTTP requests for the session lifecycle.
type AuthHandler struct {
	sessions *session.Manager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(sessions *session.Manager) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// loginRequest is the JSON request body for POST /auth/login.
type loginRequest struct {
	Method     string `json:"method"`
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// signupRequest is the JSON request body for POST /auth/signup.
type signupRequest struct {
	Method          string `json:"method"`
	Identifier      string `json:"identifier"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	AcceptTerms     bool   `json:"accept_terms"`
}

type userResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Avatar string `json:"avatar"`
}

type sessionResponse struct {
	Token     string       `json:"token,omitempty"`
	User      userResponse `json:"user"`
	CreatedAt string       `json:"created_at"`
	ExpiresAt string       `json:"expires_at"`
}

func buildSessionResponse(s domain.Session, withToken bool) sessionResponse {
	resp := sessionResponse{
		User: userResponse{
			ID:     s.User.ID,
			Name:   s.User.Name,
			Email:  s.User.Email,
			Phone:  s.User.Phone,
			Avatar: s.User.Avatar,
		},
		CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339),
		ExpiresAt: s.ExpiresAt.UTC().Format(time.RFC3339),
	}
	if withToken {
		resp.Token = s.Token
	}
	return resp
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	sess, err := h.sessions.Login(r.Context(), session.Credentials{
		Method:     req.Method,
		Identifier: req.Identifier,
		Password:   req.Password,
	})
	if err != nil {
		mapError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildSessionResponse(sess, true))
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	sess, err := h.sessions.Signup(r.Context(), session.Registration{
		Credentials: session.Credentials{
			Method:     req.Method,
			Identifier: req.Identifier,
			Password:   req.Password,
		},
		ConfirmPassword: req.ConfirmPassword,
		AcceptTerms:     req.AcceptTerms,
	})
	if err != nil {
		mapError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, buildSessionResponse(sess, true))
}

// SocialLogin handles POST /auth/social/{provider}.
func (h *AuthHandler) SocialLogin(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.SocialLogin(r.Context(), chi.URLParam(r, "provider"))
	if err != nil {
		mapError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildSessionResponse(sess, true))
}

// Logout handles POST /auth/logout. Logging out without a session succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		if err := h.sessions.Logout(r.Context(), token); err != nil {
			mapError(w, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// Session handles GET /auth/session.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	WriteJSON(w, http.StatusOK, buildSessionResponse(sess, false))
}
