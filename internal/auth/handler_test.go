package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/equipment-tracking/internal/auth"
	userDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/user"
	"github.com/frahmantamala/equipment-tracking/internal/core/events"
)

var _ = Describe("Auth Handler", func() {
	var (
		handler    *auth.Handler
		service    *auth.Service
		provider   *auth.JWTProvider
		mockRepo   *mockAllowedUserRepository
		identities *mockIdentityRepository
	)

	const password = "correct horse battery staple"

	addIdentity := func(id, email, displayName string) {
		hash, err := auth.HashPassword(password, 4)
		Expect(err).ToNot(HaveOccurred())
		identities.identities[email] = &userDatamodel.Identity{
			ID:           id,
			Email:        email,
			DisplayName:  displayName,
			PasswordHash: hash,
		}
	}

	login := func(email string) *httptest.ResponseRecorder {
		body, err := json.Marshal(auth.LoginDTO{Email: email, Password: password})
		Expect(err).ToNot(HaveOccurred())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		handler.Login(rec, req)
		return rec
	}

	BeforeEach(func() {
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		mockRepo = newMockAllowedUserRepository()
		identities = &mockIdentityRepository{identities: make(map[string]*userDatamodel.Identity)}
		bus := events.NewEventBus(lg)
		provider = auth.NewJWTProvider(identities, bus, "test-secret", time.Hour, lg)
		service = auth.NewService(mockRepo, provider, bus, lg)
		handler = auth.NewHandler(service, provider)

		Expect(service.Initialize(context.Background())).To(Succeed())

		addIdentity("id-alice", "alice@example.com", "Alice")
		addIdentity("id-bob", "bob@example.com", "Bob")
		mockRepo.rows["alice@example.com"] = &userDatamodel.AllowedUser{
			ID: "allowed-alice", Email: "alice@example.com", Role: "super_admin", DisplayName: "Alice",
		}
		mockRepo.rows["bob@example.com"] = &userDatamodel.AllowedUser{
			ID: "allowed-bob", Email: "bob@example.com", Role: "editor", DisplayName: "Bob",
		}
	})

	Describe("Login", func() {
		It("returns the caller's own session", func() {
			rec := login("bob@example.com")
			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp auth.LoginResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.AccessToken).ToNot(BeEmpty())
			Expect(resp.Session.Identity.Email).To(Equal("bob@example.com"))
			Expect(resp.Session.Role).To(Equal("editor"))
			Expect(resp.Session.CanAdmin).To(BeFalse())
		})

		It("rejects bad credentials without a session body", func() {
			body, err := json.Marshal(auth.LoginDTO{Email: "bob@example.com", Password: "wrong"})
			Expect(err).ToNot(HaveOccurred())

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
			rec := httptest.NewRecorder()
			handler.Login(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("never echoes another user's session under concurrent logins", func() {
			// A slow observer widens the window between a sign-in event
			// updating the shared session state and the response being
			// written; the response must not depend on that state.
			service.Subscribe(func(string, *auth.Identity, auth.Role) {
				time.Sleep(2 * time.Millisecond)
			})

			emails := []string{"alice@example.com", "bob@example.com"}
			for iteration := 0; iteration < 10; iteration++ {
				start := make(chan struct{})
				results := make([]auth.LoginResponse, len(emails))
				var wg sync.WaitGroup

				for i, email := range emails {
					wg.Add(1)
					go func(i int, email string) {
						defer wg.Done()
						defer GinkgoRecover()
						<-start

						rec := login(email)
						Expect(rec.Code).To(Equal(http.StatusOK))
						Expect(json.Unmarshal(rec.Body.Bytes(), &results[i])).To(Succeed())
					}(i, email)
				}

				close(start)
				wg.Wait()

				for i, email := range emails {
					Expect(results[i].Session.Identity.Email).To(Equal(email),
						fmt.Sprintf("iteration %d: response for %s carried someone else's session", iteration, email))
				}
				Expect(results[0].Session.Role).To(Equal("super_admin"))
				Expect(results[1].Session.Role).To(Equal("editor"))
			}
		})
	})
})
