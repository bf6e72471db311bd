package location_test

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
	locationDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/location"
	"github.com/frahmantamala/equipment-tracking/internal/location"
)

func TestLocation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Location Module Suite")
}

// Mock repository for testing
type mockLocationRepository struct {
	locations   map[string]*locationDatamodel.Location
	order       []string
	listError   error
	createError error
	updateError error
	deleteError error
	deleted     []string
}

func newMockLocationRepository() *mockLocationRepository {
	return &mockLocationRepository{
		locations: make(map[string]*locationDatamodel.Location),
	}
}

func (m *mockLocationRepository) ListLocations() ([]*locationDatamodel.Location, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	result := make([]*locationDatamodel.Location, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		result = append(result, m.locations[m.order[i]])
	}
	return result, nil
}

func (m *mockLocationRepository) GetLocation(id string) (*locationDatamodel.Location, error) {
	loc, exists := m.locations[id]
	if !exists {
		return nil, internal.ErrLocationNotFound
	}
	copied := *loc
	return &copied, nil
}

func (m *mockLocationRepository) CreateLocation(loc *locationDatamodel.Location) error {
	if m.createError != nil {
		return m.createError
	}
	m.locations[loc.ID] = loc
	m.order = append(m.order, loc.ID)
	return nil
}

func (m *mockLocationRepository) UpdateLocation(id string, fields map[string]interface{}) error {
	if m.updateError != nil {
		return m.updateError
	}
	loc, exists := m.locations[id]
	if !exists {
		return internal.ErrLocationNotFound
	}
	if v, ok := fields["name"]; ok {
		loc.Name = v.(string)
	}
	if v, ok := fields["latitude"]; ok {
		loc.Latitude = v.(float64)
	}
	if v, ok := fields["longitude"]; ok {
		loc.Longitude = v.(float64)
	}
	if v, ok := fields["address"]; ok {
		loc.Address = v.(string)
	}
	if v, ok := fields["description"]; ok {
		loc.Description = v.(string)
	}
	if v, ok := fields["photo_url"]; ok {
		loc.PhotoURL = v.(string)
	}
	loc.UpdatedAt = time.Now()
	return nil
}

func (m *mockLocationRepository) DeleteLocation(id string) error {
	if m.deleteError != nil {
		return m.deleteError
	}
	delete(m.locations, id)
	m.deleted = append(m.deleted, id)
	return nil
}

// Mock equipment cascader: failAt marks the equipment id whose delete
// should fail mid-cascade.
type mockEquipmentCascader struct {
	byLocation map[string][]string
	failAt     string
	listError  error
	deleted    []string
}

func newMockEquipmentCascader() *mockEquipmentCascader {
	return &mockEquipmentCascader{byLocation: make(map[string][]string)}
}

func (m *mockEquipmentCascader) ListEquipmentIDs(locationID string) ([]string, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	return m.byLocation[locationID], nil
}

func (m *mockEquipmentCascader) DeleteEquipment(ctx context.Context, id string) error {
	if id == m.failAt {
		return errors.New("equipment delete failed")
	}
	m.deleted = append(m.deleted, id)
	return nil
}

// Mock blob store
type mockBlobStore struct {
	uploadError error
	deleteError error
	uploaded    []string
	deleted     []string
	progress    []int
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
		m.progress = append(m.progress, 100)
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

var _ = Describe("LocationService", func() {
	var (
		service   *location.Service
		mockRepo  *mockLocationRepository
		mockCasc  *mockEquipmentCascader
		mockBlobs *mockBlobStore
		logger    *slog.Logger
		ctx       context.Context
	)

	BeforeEach(func() {
		mockRepo = newMockLocationRepository()
		mockCasc = newMockEquipmentCascader()
		mockBlobs = &mockBlobStore{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = location.NewService(mockRepo, mockCasc, mockBlobs, logger)
		ctx = context.Background()
	})

	seedLocation := func(id, name string) {
		mockRepo.locations[id] = &locationDatamodel.Location{
			ID:        id,
			Name:      name,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		mockRepo.order = append(mockRepo.order, id)
	}

	Describe("CreateLocation", func() {
		It("should create a location with a generated id", func() {
			result, err := service.CreateLocation(location.CreateLocationDTO{
				Name:      "  Main Hall  ",
				Latitude:  52.5,
				Longitude: 13.4,
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.ID).ToNot(BeEmpty())
			Expect(result.Name).To(Equal("Main Hall"))
			Expect(mockRepo.locations).To(HaveKey(result.ID))
		})

		It("should reject an empty name", func() {
			_, err := service.CreateLocation(location.CreateLocationDTO{Name: "   "})

			Expect(err).To(HaveOccurred())
			Expect(mockRepo.locations).To(BeEmpty())
		})

		It("should reject out-of-range coordinates", func() {
			_, err := service.CreateLocation(location.CreateLocationDTO{
				Name:     "Roof",
				Latitude: 123,
			})

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("GetLocation", func() {
		It("should return not-found for a missing id", func() {
			_, err := service.GetLocation("nope")

			Expect(errors.Is(err, internal.ErrLocationNotFound)).To(BeTrue())
		})
	})

	Describe("UpdateLocation", func() {
		BeforeEach(func() {
			seedLocation("loc-1", "Warehouse")
			mockRepo.locations["loc-1"].Address = "Old Street 1"
		})

		It("should write only the provided fields", func() {
			newName := "Warehouse North"
			result, err := service.UpdateLocation("loc-1", location.UpdateLocationDTO{Name: &newName})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Name).To(Equal("Warehouse North"))
			Expect(result.Address).To(Equal("Old Street 1"))
		})

		It("should be a no-op when no fields are provided", func() {
			result, err := service.UpdateLocation("loc-1", location.UpdateLocationDTO{})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Name).To(Equal("Warehouse"))
		})

		It("should return not-found for a missing id", func() {
			newName := "X"
			_, err := service.UpdateLocation("missing", location.UpdateLocationDTO{Name: &newName})

			Expect(errors.Is(err, internal.ErrLocationNotFound)).To(BeTrue())
		})
	})

	Describe("DeleteLocation", func() {
		BeforeEach(func() {
			seedLocation("loc-1", "Warehouse")
			mockCasc.byLocation["loc-1"] = []string{"eq-1", "eq-2", "eq-3"}
		})

		It("should delete all equipment before the location", func() {
			err := service.DeleteLocation(ctx, "loc-1")

			Expect(err).ToNot(HaveOccurred())
			Expect(mockCasc.deleted).To(Equal([]string{"eq-1", "eq-2", "eq-3"}))
			Expect(mockRepo.deleted).To(Equal([]string{"loc-1"}))
		})

		It("should keep the location when a child delete fails mid-cascade", func() {
			mockCasc.failAt = "eq-2"

			err := service.DeleteLocation(ctx, "loc-1")

			Expect(err).To(HaveOccurred())
			Expect(mockCasc.deleted).To(Equal([]string{"eq-1"}))
			Expect(mockRepo.deleted).To(BeEmpty())
			Expect(mockRepo.locations).To(HaveKey("loc-1"))
		})

		It("should drop the location photo blob after a successful delete", func() {
			mockRepo.locations["loc-1"].PhotoURL = "https://blobs.test/locations/loc-1/photo/1_a.jpg"

			err := service.DeleteLocation(ctx, "loc-1")

			Expect(err).ToNot(HaveOccurred())
			Expect(mockBlobs.deleted).To(ContainElement("locations/loc-1/photo/1_a.jpg"))
		})

		It("should return not-found for a missing id", func() {
			err := service.DeleteLocation(ctx, "missing")

			Expect(errors.Is(err, internal.ErrLocationNotFound)).To(BeTrue())
		})
	})

	Describe("UploadPhoto", func() {
		BeforeEach(func() {
			seedLocation("loc-1", "Warehouse")
		})

		It("should upload the blob and store the returned url", func() {
			result, err := service.UploadPhoto(ctx, "loc-1", "front.jpg", strings.NewReader("img"), 3, "image/jpeg", nil)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.PhotoURL).To(HavePrefix("https://blobs.test/locations/loc-1/photo/"))
			Expect(mockBlobs.uploaded).To(HaveLen(1))
		})

		It("should drop the previous photo after a replacement upload", func() {
			mockRepo.locations["loc-1"].PhotoURL = "https://blobs.test/locations/loc-1/photo/1_old.jpg"

			_, err := service.UploadPhoto(ctx, "loc-1", "new.jpg", strings.NewReader("img"), 3, "image/jpeg", nil)

			Expect(err).ToNot(HaveOccurred())
			Expect(mockBlobs.deleted).To(ContainElement("locations/loc-1/photo/1_old.jpg"))
		})

		It("should leave the stored url untouched when the upload fails", func() {
			mockBlobs.uploadError = errors.New("boom")

			_, err := service.UploadPhoto(ctx, "loc-1", "new.jpg", strings.NewReader("img"), 3, "image/jpeg", nil)

			Expect(err).To(HaveOccurred())
			Expect(mockRepo.locations["loc-1"].PhotoURL).To(BeEmpty())
		})
	})

	Describe("DeletePhoto", func() {
		It("should be a no-op for a foreign photo reference", func() {
			seedLocation("loc-1", "Warehouse")
			mockRepo.locations["loc-1"].PhotoURL = "https://elsewhere.example/p.jpg"

			err := service.DeletePhoto(ctx, "loc-1")

			Expect(err).ToNot(HaveOccurred())
			Expect(mockBlobs.deleted).To(BeEmpty())
			Expect(mockRepo.locations["loc-1"].PhotoURL).To(BeEmpty())
		})
	})
})
