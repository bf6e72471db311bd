package audit_test

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/equipment-tracking/internal"
	"github.com/frahmantamala/equipment-tracking/internal/audit"
	"github.com/frahmantamala/equipment-tracking/internal/auth"
	auditDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/audit"
)

func TestAudit(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Audit Suite")
}

type mockAuditRepository struct {
	entries     []*auditDatamodel.AuditLog
	listError   error
	createError error
}

func (m *mockAuditRepository) ListAuditLogs(equipmentID string) ([]*auditDatamodel.AuditLog, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	var out []*auditDatamodel.AuditLog
	for _, e := range m.entries {
		if e.EquipmentID == equipmentID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockAuditRepository) CreateAuditLog(entry *auditDatamodel.AuditLog) error {
	if m.createError != nil {
		return m.createError
	}
	m.entries = append(m.entries, entry)
	return nil
}

var _ = Describe("Audit Service", func() {
	var (
		repo    *mockAuditRepository
		service *audit.Service
		ctx     context.Context
	)

	BeforeEach(func() {
		repo = &mockAuditRepository{}
		service = audit.NewService(repo, slog.Default())
		ctx = context.Background()
	})

	Describe("Record", func() {
		It("stores the acting user from the session", func() {
			session := &auth.Session{
				Identity: auth.Identity{ID: "id-1", Email: "editor@example.com"},
				Role:     auth.RoleEditor,
			}
			service.Record(auth.ContextWithSession(ctx, session), "eq-1", "updated", "2 fields")

			Expect(repo.entries).To(HaveLen(1))
			entry := repo.entries[0]
			Expect(entry.Action).To(Equal("updated"))
			Expect(*entry.ActorID).To(Equal("id-1"))
			Expect(*entry.ActorEmail).To(Equal("editor@example.com"))
		})

		It("leaves actor fields empty without a session", func() {
			service.Record(ctx, "eq-1", "created", "")

			Expect(repo.entries).To(HaveLen(1))
			Expect(repo.entries[0].ActorID).To(BeNil())
			Expect(repo.entries[0].ActorEmail).To(BeNil())
		})

		It("drops the entry when the store write fails", func() {
			repo.createError = fmt.Errorf("connection reset")

			// must not panic and must not propagate the failure
			service.Record(ctx, "eq-1", "created", "")
			Expect(repo.entries).To(BeEmpty())
		})
	})

	Describe("ListForEquipment", func() {
		It("returns only the item's entries", func() {
			repo.entries = []*auditDatamodel.AuditLog{
				{ID: "a-1", EquipmentID: "eq-1", Action: "created"},
				{ID: "a-2", EquipmentID: "eq-2", Action: "created"},
			}

			entries, err := service.ListForEquipment("eq-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].ID).To(Equal("a-1"))
		})

		It("wraps store failures", func() {
			repo.listError = fmt.Errorf("connection reset")

			_, err := service.ListForEquipment("eq-1")
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeStoreFailure))
		})
	})
})
