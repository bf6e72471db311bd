package auth

import (
	"strings"

	userDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/user"
)

// Role is the capability set derived from the allow-list. RoleNone is
// the "authenticated but not on the allow-list" state and carries no
// capabilities.
type Role string

const (
	RoleNone       Role = ""
	RoleViewer     Role = "viewer"
	RoleEditor     Role = "editor"
	RoleSuperAdmin Role = "super_admin"
)

// ParseRole maps a stored role string onto the enum. Unknown values
// resolve to RoleNone so a corrupted row can never grant access.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleViewer, RoleEditor, RoleSuperAdmin:
		return Role(s)
	}
	return RoleNone
}

// Valid reports whether the role is one of the three allow-list values.
func (r Role) Valid() bool {
	return r == RoleViewer || r == RoleEditor || r == RoleSuperAdmin
}

func (r Role) CanEdit() bool {
	return r == RoleEditor || r == RoleSuperAdmin
}

func (r Role) CanDelete() bool {
	return r == RoleSuperAdmin
}

func (r Role) CanAccessAdmin() bool {
	return r == RoleSuperAdmin
}

// Identity is what the identity provider knows about a signed-in user.
// It says nothing about authorization; that comes from the allow-list.
type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// Session pairs an identity with its resolved role and display name.
// The predicates are pure functions of the session and are safe on an
// absent (nil) session, which behaves like "not authenticated".
type Session struct {
	Identity    Identity `json:"identity"`
	Role        Role     `json:"role"`
	DisplayName string   `json:"display_name"`
}

func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Identity.ID != ""
}

func (s *Session) IsAllowedUser() bool {
	return s != nil && s.Role.Valid()
}

func (s *Session) CanEdit() bool {
	return s != nil && s.Role.CanEdit()
}

func (s *Session) CanDelete() bool {
	return s != nil && s.Role.CanDelete()
}

func (s *Session) CanAccessAdmin() bool {
	return s != nil && s.Role.CanAccessAdmin()
}

// NormalizeEmail is the canonical email form used for every allow-list
// lookup and write.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AllowedUserRepository is the allow-list portion of the store facade.
// GetAllowedUserByEmail returns (nil, nil) when no row matches; Create
// must surface a uniqueness violation as internal.ErrDuplicateUser.
type AllowedUserRepository interface {
	GetAllowedUserByEmail(email string) (*userDatamodel.AllowedUser, error)
	ListAllowedUsers() ([]*userDatamodel.AllowedUser, error)
	CreateAllowedUser(u *userDatamodel.AllowedUser) error
	UpdateAllowedUser(id string, fields map[string]interface{}) error
	DeleteAllowedUser(id string) error
}

// IdentityRepository backs the identity provider. GetIdentityByEmail
// returns (nil, nil) when the identity does not exist.
type IdentityRepository interface {
	GetIdentityByEmail(email string) (*userDatamodel.Identity, error)
	CreateIdentity(identity *userDatamodel.Identity) error
}

// Provider is the identity-provider boundary: sign-in/sign-out, the
// currently held session identity, and bearer-token resolution. State
// changes are announced on the event bus, never returned synchronously
// from SignIn.
type Provider interface {
	CurrentIdentity() *Identity
	SignIn(email, password string) (token string, err error)
	SignOut() error
	ValidateToken(tokenString string) (*Identity, error)
}

// Observer receives auth state changes: event kind (signed_in or
// signed_out), the identity involved (nil on sign-out), and the
// resolved role.
type Observer func(eventKind string, identity *Identity, role Role)
