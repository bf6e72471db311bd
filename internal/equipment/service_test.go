package equipment_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/equipment-tracking/internal"
	"github.com/frahmantamala/equipment-tracking/internal/blobstore"
	equipmentDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/equipment"
	locationDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/location"
	"github.com/frahmantamala/equipment-tracking/internal/equipment"
)

func TestEquipment(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Equipment Module Suite")
}

// Mock repository for testing
type mockEquipmentRepository struct {
	items         map[string]*equipmentDatamodel.Equipment
	order         []string
	docPaths      map[string][]string
	cascadeError  error
	createError   error
	updateError   error
	docPathsError error
	cascaded      []string
}

func newMockEquipmentRepository() *mockEquipmentRepository {
	return &mockEquipmentRepository{
		items:    make(map[string]*equipmentDatamodel.Equipment),
		docPaths: make(map[string][]string),
	}
}

func (m *mockEquipmentRepository) ListEquipment(locationID string) ([]*equipmentDatamodel.Equipment, error) {
	result := make([]*equipmentDatamodel.Equipment, 0)
	for i := len(m.order) - 1; i >= 0; i-- {
		eq := m.items[m.order[i]]
		if locationID == "" || eq.LocationID == locationID {
			result = append(result, eq)
		}
	}
	return result, nil
}

func (m *mockEquipmentRepository) ListEquipmentIDs(locationID string) ([]string, error) {
	ids := make([]string, 0)
	for _, id := range m.order {
		if m.items[id].LocationID == locationID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *mockEquipmentRepository) GetEquipment(id string) (*equipmentDatamodel.Equipment, error) {
	eq, exists := m.items[id]
	if !exists {
		return nil, internal.ErrEquipmentNotFound
	}
	copied := *eq
	return &copied, nil
}

func (m *mockEquipmentRepository) CreateEquipment(eq *equipmentDatamodel.Equipment) error {
	if m.createError != nil {
		return m.createError
	}
	m.items[eq.ID] = eq
	m.order = append(m.order, eq.ID)
	return nil
}

func (m *mockEquipmentRepository) UpdateEquipment(id string, fields map[string]interface{}) error {
	if m.updateError != nil {
		return m.updateError
	}
	eq, exists := m.items[id]
	if !exists {
		return internal.ErrEquipmentNotFound
	}
	if v, ok := fields["status"]; ok {
		eq.Status = v.(string)
	}
	if v, ok := fields["notes"]; ok {
		eq.Notes = v.(string)
	}
	if v, ok := fields["photo_url"]; ok {
		eq.PhotoURL = v.(string)
	}
	eq.UpdatedAt = time.Now()
	return nil
}

func (m *mockEquipmentRepository) DeleteEquipmentCascade(ctx context.Context, id string) error {
	if m.cascadeError != nil {
		return m.cascadeError
	}
	delete(m.items, id)
	m.cascaded = append(m.cascaded, id)
	return nil
}

func (m *mockEquipmentRepository) ListDocumentStoragePaths(equipmentID string) ([]string, error) {
	if m.docPathsError != nil {
		return nil, m.docPathsError
	}
	return m.docPaths[equipmentID], nil
}

// Mock parent checker
type mockParentChecker struct {
	locations map[string]bool
}

func (m *mockParentChecker) GetLocation(id string) (*locationDatamodel.Location, error) {
	if !m.locations[id] {
		return nil, internal.ErrLocationNotFound
	}
	return &locationDatamodel.Location{ID: id}, nil
}

// Mock audit recorder: records calls, optionally "fails" silently the
// way the real best-effort recorder does.
type mockAuditRecorder struct {
	entries []string
	panics  bool
}

func (m *mockAuditRecorder) Record(ctx context.Context, equipmentID, action, details string) {
	if m.panics {
		// The real recorder swallows store failures internally, so
		// from the service's point of view Record always returns.
		return
	}
	m.entries = append(m.entries, equipmentID+":"+action)
}

// Mock blob store
type mockBlobStore struct {
	uploadError error
	deleteError error
	uploaded    []string
	deleted     []string
}

func (m *mockBlobStore) Upload(ctx context.Context, path string, r io.Reader, size int64, contentType string, progress blobstore.ProgressFunc) (string, error) {
	if m.uploadError != nil {
		return "", m.uploadError
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	if progress != nil {
		progress(100)
	}
	m.uploaded = append(m.uploaded, path)
	return m.PublicURL(path), nil
}

func (m *mockBlobStore) PublicURL(path string) string {
	return "https://blobs.test/" + path
}

func (m *mockBlobStore) Delete(ctx context.Context, path string) error {
	if m.deleteError != nil {
		return m.deleteError
	}
	m.deleted = append(m.deleted, path)
	return nil
}

func (m *mockBlobStore) PathFromRef(ref string) (string, bool) {
	const prefix = "https://blobs.test/"
	if ref == "" || !strings.HasPrefix(ref, prefix) {
		return "", false
	}
	return strings.TrimPrefix(ref, prefix), true
}

var _ = Describe("EquipmentService", func() {
	var (
		service   *equipment.Service
		mockRepo  *mockEquipmentRepository
		mockLocs  *mockParentChecker
		mockAudit *mockAuditRecorder
		mockBlobs *mockBlobStore
		ctx       context.Context
	)

	BeforeEach(func() {
		mockRepo = newMockEquipmentRepository()
		mockLocs = &mockParentChecker{locations: map[string]bool{"loc-1": true}}
		mockAudit = &mockAuditRecorder{}
		mockBlobs = &mockBlobStore{}
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = equipment.NewService(mockRepo, mockLocs, mockAudit, mockBlobs, lg)
		ctx = context.Background()
	})

	seedEquipment := func(id, locationID string) {
		mockRepo.items[id] = &equipmentDatamodel.Equipment{
			ID:         id,
			LocationID: locationID,
			Type:       "camera",
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}
		mockRepo.order = append(mockRepo.order, id)
	}

	Describe("CreateEquipment", func() {
		It("should create equipment under an existing location", func() {
			result, err := service.CreateEquipment(ctx, equipment.CreateEquipmentDTO{
				LocationID: "loc-1",
				Type:       "switch",
				Status:     "active",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.ID).ToNot(BeEmpty())
			Expect(result.LocationID).To(Equal("loc-1"))
			Expect(mockRepo.items).To(HaveKey(result.ID))
		})

		It("should append an audit entry on create", func() {
			result, err := service.CreateEquipment(ctx, equipment.CreateEquipmentDTO{
				LocationID: "loc-1",
				Type:       "switch",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(mockAudit.entries).To(ContainElement(result.ID + ":created"))
		})

		It("should succeed even when the audit recorder drops the entry", func() {
			mockAudit.panics = true

			result, err := service.CreateEquipment(ctx, equipment.CreateEquipmentDTO{
				LocationID: "loc-1",
				Type:       "switch",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.items).To(HaveKey(result.ID))
		})

		It("should reject a missing parent location", func() {
			_, err := service.CreateEquipment(ctx, equipment.CreateEquipmentDTO{
				LocationID: "ghost",
				Type:       "switch",
			})

			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeMissingParent))
			Expect(mockRepo.items).To(BeEmpty())
		})

		It("should reject a missing type", func() {
			_, err := service.CreateEquipment(ctx, equipment.CreateEquipmentDTO{LocationID: "loc-1"})

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("UpdateEquipment", func() {
		BeforeEach(func() {
			seedEquipment("eq-1", "loc-1")
			mockRepo.items["eq-1"].Notes = "rack 4"
		})

		It("should write only the provided fields", func() {
			status := "maintenance"
			result, err := service.UpdateEquipment(ctx, "eq-1", equipment.UpdateEquipmentDTO{Status: &status})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Status).To(Equal("maintenance"))
			Expect(result.Notes).To(Equal("rack 4"))
		})

		It("should append an audit entry when fields changed", func() {
			status := "maintenance"
			_, err := service.UpdateEquipment(ctx, "eq-1", equipment.UpdateEquipmentDTO{Status: &status})

			Expect(err).ToNot(HaveOccurred())
			Expect(mockAudit.entries).To(ContainElement("eq-1:updated"))
		})

		It("should skip the audit entry for an empty update", func() {
			_, err := service.UpdateEquipment(ctx, "eq-1", equipment.UpdateEquipmentDTO{})

			Expect(err).ToNot(HaveOccurred())
			Expect(mockAudit.entries).To(BeEmpty())
		})

		It("should return not-found for a missing id", func() {
			status := "x"
			_, err := service.UpdateEquipment(ctx, "missing", equipment.UpdateEquipmentDTO{Status: &status})

			Expect(errors.Is(err, internal.ErrEquipmentNotFound)).To(BeTrue())
		})
	})

	Describe("DeleteEquipment", func() {
		BeforeEach(func() {
			seedEquipment("eq-1", "loc-1")
			mockRepo.docPaths["eq-1"] = []string{
				"equipment/eq-1/docs/1_manual.pdf",
				"equipment/eq-1/docs/2_wiring.pdf",
			}
		})

		It("should cascade through the store and clean up blobs", func() {
			err := service.DeleteEquipment(ctx, "eq-1")

			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.cascaded).To(Equal([]string{"eq-1"}))
			Expect(mockBlobs.deleted).To(ConsistOf(
				"equipment/eq-1/docs/1_manual.pdf",
				"equipment/eq-1/docs/2_wiring.pdf",
			))
		})

		It("should keep the item when the cascade fails", func() {
			mockRepo.cascadeError = errors.New("tx aborted")

			err := service.DeleteEquipment(ctx, "eq-1")

			Expect(err).To(HaveOccurred())
			Expect(mockRepo.items).To(HaveKey("eq-1"))
			Expect(mockBlobs.deleted).To(BeEmpty())
		})

		It("should succeed even when blob cleanup fails", func() {
			mockBlobs.deleteError = errors.New("bucket offline")

			err := service.DeleteEquipment(ctx, "eq-1")

			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.cascaded).To(Equal([]string{"eq-1"}))
		})

		It("should drop the photo blob after a successful cascade", func() {
			mockRepo.items["eq-1"].PhotoURL = "https://blobs.test/equipment/eq-1/photo/1_a.jpg"
			mockRepo.docPaths["eq-1"] = nil

			err := service.DeleteEquipment(ctx, "eq-1")

			Expect(err).ToNot(HaveOccurred())
			Expect(mockBlobs.deleted).To(ContainElement("equipment/eq-1/photo/1_a.jpg"))
		})
	})

	Describe("ListEquipment", func() {
		It("should scope the listing to a location when given", func() {
			seedEquipment("eq-1", "loc-1")
			seedEquipment("eq-2", "loc-2")

			items, err := service.ListEquipment("loc-1")

			Expect(err).ToNot(HaveOccurred())
			Expect(items).To(HaveLen(1))
			Expect(items[0].ID).To(Equal("eq-1"))
		})

		It("should list across locations for an empty filter", func() {
			seedEquipment("eq-1", "loc-1")
			seedEquipment("eq-2", "loc-2")

			items, err := service.ListEquipment("")

			Expect(err).ToNot(HaveOccurred())
			Expect(items).To(HaveLen(2))
		})
	})

	Describe("UploadPhoto", func() {
		It("should replace the previous photo blob", func() {
			seedEquipment("eq-1", "loc-1")
			mockRepo.items["eq-1"].PhotoURL = "https://blobs.test/equipment/eq-1/photo/1_old.jpg"

			result, err := service.UploadPhoto(ctx, "eq-1", "new.jpg", strings.NewReader("img"), 3, "image/jpeg", nil)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.PhotoURL).To(HavePrefix("https://blobs.test/equipment/eq-1/photo/"))
			Expect(mockBlobs.deleted).To(ContainElement("equipment/eq-1/photo/1_old.jpg"))
		})
	})
})
