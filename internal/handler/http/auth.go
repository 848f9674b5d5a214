package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/openleave/lms-backend-go/internal/domain/session"
	"github.com/openleave/lms-backend-go/internal/handler/http/response"
	"github.com/openleave/lms-backend-go/internal/pkg/jwt"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	jwtService jwt.Service
	sessions   session.Store
}

func NewAuthHandler(jwtService jwt.Service, sessions session.Store) AuthHandler {
	return &AuthHandlerImpl{
		jwtService: jwtService,
		sessions:   sessions,
	}
}

// Login implements AuthHandler. Login is mock: any well-formed username is
// accepted, and the reserved "admin" username receives the admin role.
func (h *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var req session.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Login decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	identity := session.Identity{
		Username: req.Username,
		Role:     session.RoleFor(req.Username),
	}

	token, expiresAt, err := h.jwtService.GenerateAccessToken(identity.Username, identity.Role)
	if err != nil {
		slog.Error("Login token generation error", "error", err)
		response.InternalServerError(w, "Failed to generate access token")
		return
	}

	if err := h.sessions.Login(identity); err != nil {
		slog.Error("Login session persist error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, session.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		Identity:    identity,
	})
}

// Logout implements AuthHandler.
func (h *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(); err != nil {
		slog.Error("Logout error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Logged out successfully", nil)
}

// Me implements AuthHandler.
func (h *AuthHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	identity := h.sessions.Current()
	if identity == nil {
		response.HandleError(w, session.ErrNoActiveSession)
		return
	}

	response.Success(w, identity)
}
