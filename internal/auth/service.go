package auth

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/frahmantamala/equipment-tracking/internal"
	"github.com/frahmantamala/equipment-tracking/internal/core/events"
	userDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/user"
)

// Service owns the current-session state machine and the privileged
// allow-list operations. The session/role pair is replaced as a whole
// under one lock, so readers can never observe a role belonging to a
// different identity.
type Service struct {
	repo     AllowedUserRepository
	provider Provider
	bus      *events.EventBus
	logger   *slog.Logger

	mu          sync.RWMutex
	current     *Session
	initialized bool

	obsMu     sync.Mutex
	observers []Observer
}

func NewService(repo AllowedUserRepository, provider Provider, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		provider: provider,
		bus:      bus,
		logger:   logger,
	}
}

// Initialize adopts any session the provider already holds, then
// subscribes to the provider's sign-in/sign-out events for the rest of
// the process lifetime. Call once at startup; repeated calls are no-ops.
func (s *Service) Initialize(ctx context.Context) error {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return nil
	}
	s.initialized = true
	s.mu.Unlock()

	if identity := s.provider.CurrentIdentity(); identity != nil {
		session, err := s.ResolveSession(ctx, *identity)
		if err != nil {
			return err
		}
		s.setCurrentSession(session)
	}

	s.bus.Subscribe(events.EventTypeSignedIn, func(ctx context.Context, event events.Event) error {
		e, ok := event.(*events.SignedInEvent)
		if !ok {
			return nil
		}
		identity := Identity{
			ID:          e.IdentityID,
			Email:       e.Email,
			DisplayName: e.DisplayName,
			AvatarURL:   e.AvatarURL,
		}
		session, err := s.ResolveSession(ctx, identity)
		if err != nil {
			s.logger.Error("failed to resolve role on sign-in", "error", err, "email", identity.Email)
			return err
		}
		s.setCurrentSession(session)
		s.notifyObservers(events.EventTypeSignedIn, &identity, session.Role)
		return nil
	})

	s.bus.Subscribe(events.EventTypeSignedOut, func(ctx context.Context, event events.Event) error {
		s.clearCurrentSession()
		s.notifyObservers(events.EventTypeSignedOut, nil, RoleNone)
		return nil
	})

	return nil
}

// ResolveSession looks the identity up in the allow-list. A missing row
// is not an error: it yields an authenticated session with RoleNone,
// which is distinguishable from having no session at all.
func (s *Service) ResolveSession(ctx context.Context, identity Identity) (*Session, error) {
	row, err := s.repo.GetAllowedUserByEmail(NormalizeEmail(identity.Email))
	if err != nil {
		s.logger.Error("allow-list lookup failed", "error", err, "email", identity.Email)
		return nil, internal.NewStoreError(err)
	}

	session := &Session{Identity: identity}
	if row == nil {
		session.Role = RoleNone
		session.DisplayName = firstNonEmpty(identity.DisplayName, identity.Email)
		return session, nil
	}

	session.Role = ParseRole(row.Role)
	session.DisplayName = firstNonEmpty(row.DisplayName, identity.DisplayName, identity.Email)
	return session, nil
}

// CurrentSession returns the session set by the most recent auth event,
// or nil when signed out.
func (s *Service) CurrentSession() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SignIn delegates to the provider. It never sets session state
// directly; the signed-in event is the single state-setting path, so
// the explicit call and a provider-initiated event cannot diverge.
func (s *Service) SignIn(ctx context.Context, email, password string) error {
	_, err := s.provider.SignIn(email, password)
	return err
}

// SignOut clears local state via the provider's signed-out event, which
// runs synchronously before SignOut returns.
func (s *Service) SignOut(ctx context.Context) error {
	return s.provider.SignOut()
}

// Subscribe registers an observer for auth state changes. Observers run
// synchronously in registration order; a panicking observer is isolated
// and the rest still run.
func (s *Service) Subscribe(observer Observer) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.observers = append(s.observers, observer)
}

func (s *Service) setCurrentSession(session *Session) {
	s.mu.Lock()
	s.current = session
	s.mu.Unlock()
}

func (s *Service) clearCurrentSession() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

func (s *Service) notifyObservers(eventKind string, identity *Identity, role Role) {
	s.obsMu.Lock()
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	s.obsMu.Unlock()

	for _, observer := range observers {
		s.invokeObserver(observer, eventKind, identity, role)
	}
}

func (s *Service) invokeObserver(observer Observer, eventKind string, identity *Identity, role Role) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("auth observer panicked", "event", eventKind, "panic", r)
		}
	}()
	observer(eventKind, identity, role)
}

// ---------------- privileged user management ----------------
//
// Every operation below checks the acting session locally before any
// store call; the store's own rules are never the sole gate.

func (s *Service) ListAllowedUsers(ctx context.Context, actor *Session) ([]*userDatamodel.AllowedUser, error) {
	if !actor.CanAccessAdmin() {
		return nil, internal.ErrNotSuperAdmin
	}

	users, err := s.repo.ListAllowedUsers()
	if err != nil {
		s.logger.Error("failed to list allowed users", "error", err)
		return nil, internal.NewStoreError(err)
	}
	return users, nil
}

func (s *Service) AddAllowedUser(ctx context.Context, actor *Session, dto AddAllowedUserDTO) (*userDatamodel.AllowedUser, error) {
	if !actor.CanAccessAdmin() {
		return nil, internal.ErrNotSuperAdmin
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	createdBy := actor.Identity.ID
	row := &userDatamodel.AllowedUser{
		ID:          uuid.NewString(),
		Email:       NormalizeEmail(dto.Email),
		Role:        dto.Role,
		DisplayName: dto.DisplayName,
		CreatedBy:   &createdBy,
	}

	if err := s.repo.CreateAllowedUser(row); err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr.Code == internal.ErrCodeDuplicateUser {
			return nil, err
		}
		s.logger.Error("failed to create allowed user", "error", err, "email", row.Email)
		return nil, internal.NewStoreError(err)
	}

	s.logger.Info("allowed user added", "email", row.Email, "role", row.Role, "added_by", actor.Identity.Email)
	return row, nil
}

func (s *Service) UpdateAllowedUser(ctx context.Context, actor *Session, id string, dto UpdateAllowedUserDTO) error {
	if !actor.CanAccessAdmin() {
		return internal.ErrNotSuperAdmin
	}
	if err := dto.Validate(); err != nil {
		return err
	}

	// Partial update: only fields the caller provided are written.
	fields := make(map[string]interface{})
	if dto.Role != nil {
		fields["role"] = *dto.Role
	}
	if dto.DisplayName != nil {
		fields["display_name"] = *dto.DisplayName
	}
	if len(fields) == 0 {
		return nil
	}

	if err := s.repo.UpdateAllowedUser(id, fields); err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr.Type == internal.ErrorTypeNotFound {
			return err
		}
		s.logger.Error("failed to update allowed user", "error", err, "id", id)
		return internal.NewStoreError(err)
	}

	s.logger.Info("allowed user updated", "id", id, "updated_by", actor.Identity.Email)
	return nil
}

func (s *Service) RemoveAllowedUser(ctx context.Context, actor *Session, id, email string) error {
	if !actor.CanAccessAdmin() {
		return internal.ErrNotSuperAdmin
	}

	// A super admin can never revoke their own access through this
	// path; checked before any store mutation.
	if NormalizeEmail(email) == NormalizeEmail(actor.Identity.Email) {
		return internal.ErrSelfDeletion
	}

	if err := s.repo.DeleteAllowedUser(id); err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr.Type == internal.ErrorTypeNotFound {
			return err
		}
		s.logger.Error("failed to remove allowed user", "error", err, "id", id)
		return internal.NewStoreError(err)
	}

	s.logger.Info("allowed user removed", "id", id, "email", email, "removed_by", actor.Identity.Email)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
