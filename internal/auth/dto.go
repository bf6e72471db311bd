package auth

import (
	"strings"

	"github.com/frahmantamala/equipment-tracking/internal"
)

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() error {
	if strings.TrimSpace(d.Email) == "" {
		return internal.NewValidationFieldError("email", "email is required", internal.ErrCodeInvalidEmail)
	}
	if d.Password == "" {
		return internal.NewValidationFieldError("password", "password is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type AddAllowedUserDTO struct {
	Email       string `json:"email"`
	Role        string `json:"role"`
	DisplayName string `json:"display_name"`
}

func (d AddAllowedUserDTO) Validate() error {
	if strings.TrimSpace(d.Email) == "" {
		return internal.NewValidationFieldError("email", "email is required", internal.ErrCodeInvalidEmail)
	}
	if !strings.Contains(d.Email, "@") {
		return internal.NewValidationFieldError("email", "email must be a valid address", internal.ErrCodeInvalidEmail)
	}
	if !ParseRole(d.Role).Valid() {
		return internal.NewValidationFieldError("role", "role must be viewer, editor or super_admin", internal.ErrCodeInvalidRole)
	}
	return nil
}

// UpdateAllowedUserDTO carries a partial update; nil fields are left
// untouched.
type UpdateAllowedUserDTO struct {
	Role        *string `json:"role,omitempty"`
	DisplayName *string `json:"display_name,omitempty"`
}

func (d UpdateAllowedUserDTO) Validate() error {
	if d.Role != nil && !ParseRole(*d.Role).Valid() {
		return internal.NewValidationFieldError("role", "role must be viewer, editor or super_admin", internal.ErrCodeInvalidRole)
	}
	return nil
}

// SessionResponse is the API view of the resolved session.
type SessionResponse struct {
	Identity      Identity `json:"identity"`
	Role          string   `json:"role"`
	DisplayName   string   `json:"display_name"`
	IsAllowedUser bool     `json:"is_allowed_user"`
	CanEdit       bool     `json:"can_edit"`
	CanDelete     bool     `json:"can_delete"`
	CanAdmin      bool     `json:"can_admin"`
}

func (s *Session) ToResponse() SessionResponse {
	return SessionResponse{
		Identity:      s.Identity,
		Role:          string(s.Role),
		DisplayName:   s.DisplayName,
		IsAllowedUser: s.IsAllowedUser(),
		CanEdit:       s.CanEdit(),
		CanDelete:     s.CanDelete(),
		CanAdmin:      s.CanAccessAdmin(),
	}
}

type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	Session     SessionResponse `json:"session"`
}
