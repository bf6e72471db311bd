package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/equipment-tracking/internal"
	"github.com/frahmantamala/equipment-tracking/internal/transport"
	"github.com/frahmantamala/equipment-tracking/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service  *Service
	Provider Provider
}

func NewHandler(svc *Service, provider Provider) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
		Provider:    provider,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteAppError(w, err)
		return
	}

	token, err := h.Provider.SignIn(dto.Email, dto.Password)
	if err != nil {
		h.Logger.Warn("sign-in failed", "email", dto.Email, "error", err)
		h.WriteAppError(w, err)
		return
	}

	// Resolve the session from the freshly issued token rather than the
	// service's current-session state: that state is process-global and a
	// concurrent login could have replaced it between SignIn returning
	// and this read, echoing someone else's identity back.
	identity, err := h.Provider.ValidateToken(token)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	session, err := h.Service.ResolveSession(r.Context(), *identity)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, LoginResponse{
		AccessToken: token,
		Session:     session.ToResponse(),
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.SignOut(r.Context()); err != nil {
		h.WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the session resolved for the request's bearer token,
// including the authenticated-but-unauthorized case.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := SessionFromContext(r.Context())
	if !ok || !session.IsAuthenticated() {
		h.WriteError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	h.WriteJSON(w, http.StatusOK, session.ToResponse())
}

// AuthMiddleware resolves the bearer token into a session and stores it
// in the request context. Tokens for identities missing from the
// allow-list still pass through with RoleNone; role gates decide later.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		identity, err := h.Provider.ValidateToken(token)
		if err != nil {
			h.WriteAppError(w, err)
			return
		}

		session, err := h.Service.ResolveSession(r.Context(), *identity)
		if err != nil {
			h.WriteAppError(w, err)
			return
		}

		ctx := ContextWithSession(r.Context(), session)
		ctx = internal.ContextWithUserID(ctx, identity.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ---------------- admin user management ----------------

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	session, _ := SessionFromContext(r.Context())

	users, err := h.Service.ListAllowedUsers(r.Context(), session)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) AddUser(w http.ResponseWriter, r *http.Request) {
	session, _ := SessionFromContext(r.Context())

	var dto AddAllowedUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	row, err := h.Service.AddAllowedUser(r.Context(), session, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, row)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	session, _ := SessionFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var dto UpdateAllowedUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.UpdateAllowedUser(r.Context(), session, id, dto); err != nil {
		h.WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RemoveUser(w http.ResponseWriter, r *http.Request) {
	session, _ := SessionFromContext(r.Context())
	id := chi.URLParam(r, "id")
	email := r.URL.Query().Get("email")

	if err := h.Service.RemoveAllowedUser(r.Context(), session, id, email); err != nil {
		if errors.Is(err, internal.ErrSelfDeletion) {
			h.Logger.Warn("self-deletion blocked", "email", email)
		}
		h.WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
