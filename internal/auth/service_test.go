package auth_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/equipment-tracking/internal"
	"github.com/frahmantamala/equipment-tracking/internal/auth"
	userDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/user"
	"github.com/frahmantamala/equipment-tracking/internal/core/events"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Module Suite")
}

// Mock allow-list repository
type mockAllowedUserRepository struct {
	rows        map[string]*userDatamodel.AllowedUser // keyed by normalized email
	getError    error
	listCalls   int
	created     []*userDatamodel.AllowedUser
	updated     map[string]map[string]interface{}
	deleted     []string
	createError error
	deleteCalls int
}

func newMockAllowedUserRepository() *mockAllowedUserRepository {
	return &mockAllowedUserRepository{
		rows:    make(map[string]*userDatamodel.AllowedUser),
		updated: make(map[string]map[string]interface{}),
	}
}

func (m *mockAllowedUserRepository) GetAllowedUserByEmail(email string) (*userDatamodel.AllowedUser, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	return m.rows[email], nil
}

func (m *mockAllowedUserRepository) ListAllowedUsers() ([]*userDatamodel.AllowedUser, error) {
	m.listCalls++
	result := make([]*userDatamodel.AllowedUser, 0, len(m.rows))
	for _, row := range m.rows {
		result = append(result, row)
	}
	return result, nil
}

func (m *mockAllowedUserRepository) CreateAllowedUser(u *userDatamodel.AllowedUser) error {
	if m.createError != nil {
		return m.createError
	}
	if _, exists := m.rows[u.Email]; exists {
		return internal.ErrDuplicateUser
	}
	m.rows[u.Email] = u
	m.created = append(m.created, u)
	return nil
}

func (m *mockAllowedUserRepository) UpdateAllowedUser(id string, fields map[string]interface{}) error {
	m.updated[id] = fields
	return nil
}

func (m *mockAllowedUserRepository) DeleteAllowedUser(id string) error {
	m.deleteCalls++
	m.deleted = append(m.deleted, id)
	return nil
}

// Mock identity repository backing the JWT provider
type mockIdentityRepository struct {
	identities map[string]*userDatamodel.Identity
}

func (m *mockIdentityRepository) GetIdentityByEmail(email string) (*userDatamodel.Identity, error) {
	return m.identities[email], nil
}

func (m *mockIdentityRepository) CreateIdentity(identity *userDatamodel.Identity) error {
	m.identities[identity.Email] = identity
	return nil
}

var _ = Describe("AuthService", func() {
	var (
		service    *auth.Service
		provider   *auth.JWTProvider
		mockRepo   *mockAllowedUserRepository
		identities *mockIdentityRepository
		bus        *events.EventBus
		ctx        context.Context
	)

	const password = "correct horse battery staple"

	BeforeEach(func() {
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		mockRepo = newMockAllowedUserRepository()
		identities = &mockIdentityRepository{identities: make(map[string]*userDatamodel.Identity)}
		bus = events.NewEventBus(lg)
		provider = auth.NewJWTProvider(identities, bus, "test-secret", time.Hour, lg)
		service = auth.NewService(mockRepo, provider, bus, lg)
		ctx = context.Background()

		hash, err := auth.HashPassword(password, 4)
		Expect(err).ToNot(HaveOccurred())
		identities.identities["admin@example.com"] = &userDatamodel.Identity{
			ID:           "id-admin",
			Email:        "admin@example.com",
			DisplayName:  "Admin",
			PasswordHash: hash,
		}

		Expect(service.Initialize(ctx)).To(Succeed())
	})

	allow := func(email, role, displayName string) {
		mockRepo.rows[email] = &userDatamodel.AllowedUser{
			ID:          "allowed-" + email,
			Email:       email,
			Role:        role,
			DisplayName: displayName,
		}
	}

	Describe("ResolveSession", func() {
		It("should resolve the allow-list role by normalized email", func() {
			allow("admin@example.com", "editor", "The Admin")

			session, err := service.ResolveSession(ctx, auth.Identity{
				ID:    "id-admin",
				Email: "  ADMIN@Example.COM ",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(session.Role).To(Equal(auth.RoleEditor))
			Expect(session.DisplayName).To(Equal("The Admin"))
		})

		It("should yield an authenticated no-role session for an unlisted identity", func() {
			session, err := service.ResolveSession(ctx, auth.Identity{
				ID:          "id-guest",
				Email:       "guest@example.com",
				DisplayName: "Guest",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(session.IsAuthenticated()).To(BeTrue())
			Expect(session.IsAllowedUser()).To(BeFalse())
			Expect(session.Role).To(Equal(auth.RoleNone))
			Expect(session.DisplayName).To(Equal("Guest"))
		})

		It("should fall back to the email when the provider has no display name", func() {
			session, err := service.ResolveSession(ctx, auth.Identity{
				ID:    "id-guest",
				Email: "guest@example.com",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(session.DisplayName).To(Equal("guest@example.com"))
		})

		It("should propagate allow-list lookup failures", func() {
			mockRepo.getError = errors.New("connection refused")

			_, err := service.ResolveSession(ctx, auth.Identity{ID: "x", Email: "x@example.com"})

			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeStoreFailure))
		})

		It("should never grant access for an unknown stored role", func() {
			allow("admin@example.com", "owner", "")

			session, err := service.ResolveSession(ctx, auth.Identity{ID: "id-admin", Email: "admin@example.com"})

			Expect(err).ToNot(HaveOccurred())
			Expect(session.Role).To(Equal(auth.RoleNone))
		})
	})

	Describe("Sign-in and sign-out state", func() {
		It("should set the current session from the signed-in event", func() {
			allow("admin@example.com", "super_admin", "")

			Expect(service.SignIn(ctx, "admin@example.com", password)).To(Succeed())

			session := service.CurrentSession()
			Expect(session).ToNot(BeNil())
			Expect(session.Identity.ID).To(Equal("id-admin"))
			Expect(session.Role).To(Equal(auth.RoleSuperAdmin))
		})

		It("should reject bad credentials without touching session state", func() {
			err := service.SignIn(ctx, "admin@example.com", "wrong")

			Expect(errors.Is(err, internal.ErrInvalidCredentials)).To(BeTrue())
			Expect(service.CurrentSession()).To(BeNil())
		})

		It("should clear state on sign-out before observers run", func() {
			allow("admin@example.com", "viewer", "")
			Expect(service.SignIn(ctx, "admin@example.com", password)).To(Succeed())

			var sessionDuringSignOut *auth.Session
			service.Subscribe(func(eventKind string, identity *auth.Identity, role auth.Role) {
				if eventKind == events.EventTypeSignedOut {
					sessionDuringSignOut = service.CurrentSession()
				}
			})

			Expect(service.SignOut(ctx)).To(Succeed())
			Expect(service.CurrentSession()).To(BeNil())
			Expect(sessionDuringSignOut).To(BeNil())
		})

		It("should adopt an existing provider session on initialize", func() {
			allow("admin@example.com", "editor", "")
			Expect(provider.SignIn("admin@example.com", password)).ToNot(BeEmpty())

			lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
			fresh := auth.NewService(mockRepo, provider, events.NewEventBus(lg), lg)
			Expect(fresh.Initialize(ctx)).To(Succeed())

			session := fresh.CurrentSession()
			Expect(session).ToNot(BeNil())
			Expect(session.Role).To(Equal(auth.RoleEditor))
		})
	})

	Describe("Observers", func() {
		It("should run observers synchronously in registration order", func() {
			allow("admin@example.com", "viewer", "")

			var calls []string
			service.Subscribe(func(eventKind string, identity *auth.Identity, role auth.Role) {
				calls = append(calls, "first:"+eventKind)
			})
			service.Subscribe(func(eventKind string, identity *auth.Identity, role auth.Role) {
				calls = append(calls, "second:"+eventKind)
			})

			Expect(service.SignIn(ctx, "admin@example.com", password)).To(Succeed())

			Expect(calls).To(Equal([]string{
				"first:" + events.EventTypeSignedIn,
				"second:" + events.EventTypeSignedIn,
			}))
		})

		It("should isolate a panicking observer", func() {
			allow("admin@example.com", "viewer", "")

			var secondRan bool
			service.Subscribe(func(eventKind string, identity *auth.Identity, role auth.Role) {
				panic("observer exploded")
			})
			service.Subscribe(func(eventKind string, identity *auth.Identity, role auth.Role) {
				secondRan = true
			})

			Expect(service.SignIn(ctx, "admin@example.com", password)).To(Succeed())
			Expect(secondRan).To(BeTrue())
		})

		It("should pass the resolved role to observers", func() {
			allow("admin@example.com", "editor", "")

			var seenRole auth.Role
			service.Subscribe(func(eventKind string, identity *auth.Identity, role auth.Role) {
				seenRole = role
			})

			Expect(service.SignIn(ctx, "admin@example.com", password)).To(Succeed())
			Expect(seenRole).To(Equal(auth.RoleEditor))
		})
	})

	Describe("Privileged user management", func() {
		superAdmin := &auth.Session{
			Identity: auth.Identity{ID: "id-admin", Email: "admin@example.com"},
			Role:     auth.RoleSuperAdmin,
		}
		editor := &auth.Session{
			Identity: auth.Identity{ID: "id-editor", Email: "editor@example.com"},
			Role:     auth.RoleEditor,
		}

		It("should refuse a non-super-admin actor before any store call", func() {
			_, err := service.ListAllowedUsers(ctx, editor)

			Expect(errors.Is(err, internal.ErrNotSuperAdmin)).To(BeTrue())
			Expect(mockRepo.listCalls).To(BeZero())
		})

		It("should refuse an absent session", func() {
			_, err := service.ListAllowedUsers(ctx, nil)

			Expect(errors.Is(err, internal.ErrNotSuperAdmin)).To(BeTrue())
		})

		It("should normalize the email on add", func() {
			row, err := service.AddAllowedUser(ctx, superAdmin, auth.AddAllowedUserDTO{
				Email: "  New.User@Example.COM ",
				Role:  "viewer",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(row.Email).To(Equal("new.user@example.com"))
			Expect(*row.CreatedBy).To(Equal("id-admin"))
		})

		It("should surface a duplicate add as a conflict", func() {
			allow("dup@example.com", "viewer", "")

			_, err := service.AddAllowedUser(ctx, superAdmin, auth.AddAllowedUserDTO{
				Email: "dup@example.com",
				Role:  "viewer",
			})

			Expect(errors.Is(err, internal.ErrDuplicateUser)).To(BeTrue())
		})

		It("should reject an invalid role on add", func() {
			_, err := service.AddAllowedUser(ctx, superAdmin, auth.AddAllowedUserDTO{
				Email: "x@example.com",
				Role:  "owner",
			})

			Expect(err).To(HaveOccurred())
			Expect(mockRepo.created).To(BeEmpty())
		})

		It("should refuse self-deletion with no store mutation", func() {
			err := service.RemoveAllowedUser(ctx, superAdmin, "some-id", "Admin@Example.com")

			Expect(errors.Is(err, internal.ErrSelfDeletion)).To(BeTrue())
			Expect(mockRepo.deleteCalls).To(BeZero())
		})

		It("should remove another user's access", func() {
			err := service.RemoveAllowedUser(ctx, superAdmin, "other-id", "other@example.com")

			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.deleted).To(Equal([]string{"other-id"}))
		})

		It("should write only the provided fields on update", func() {
			role := "editor"
			err := service.UpdateAllowedUser(ctx, superAdmin, "row-1", auth.UpdateAllowedUserDTO{Role: &role})

			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.updated["row-1"]).To(Equal(map[string]interface{}{"role": "editor"}))
		})

		It("should treat an empty update as a no-op", func() {
			err := service.UpdateAllowedUser(ctx, superAdmin, "row-1", auth.UpdateAllowedUserDTO{})

			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.updated).ToNot(HaveKey("row-1"))
		})
	})

	Describe("Session predicates", func() {
		It("should behave like signed-out on a nil session", func() {
			var session *auth.Session

			Expect(session.IsAuthenticated()).To(BeFalse())
			Expect(session.IsAllowedUser()).To(BeFalse())
			Expect(session.CanEdit()).To(BeFalse())
			Expect(session.CanDelete()).To(BeFalse())
			Expect(session.CanAccessAdmin()).To(BeFalse())
		})

		It("should gate capabilities by role", func() {
			viewer := &auth.Session{Identity: auth.Identity{ID: "v"}, Role: auth.RoleViewer}
			editor := &auth.Session{Identity: auth.Identity{ID: "e"}, Role: auth.RoleEditor}
			admin := &auth.Session{Identity: auth.Identity{ID: "a"}, Role: auth.RoleSuperAdmin}

			Expect(viewer.CanEdit()).To(BeFalse())
			Expect(editor.CanEdit()).To(BeTrue())
			Expect(editor.CanDelete()).To(BeFalse())
			Expect(admin.CanEdit()).To(BeTrue())
			Expect(admin.CanDelete()).To(BeTrue())
			Expect(admin.CanAccessAdmin()).To(BeTrue())
		})
	})
})
