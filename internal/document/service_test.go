package document_test

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
	documentDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/document"
	equipmentDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/equipment"
	"github.com/frahmantamala/equipment-tracking/internal/document"
)

func TestDocument(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Document Module Suite")
}

// Mock repository for testing
type mockDocumentRepository struct {
	docs        map[string]*documentDatamodel.Document
	order       []string
	createError error
	deleteError error
}

func newMockDocumentRepository() *mockDocumentRepository {
	return &mockDocumentRepository{docs: make(map[string]*documentDatamodel.Document)}
}

func (m *mockDocumentRepository) ListDocuments(equipmentID string) ([]*documentDatamodel.Document, error) {
	result := make([]*documentDatamodel.Document, 0)
	for i := len(m.order) - 1; i >= 0; i-- {
		doc := m.docs[m.order[i]]
		if doc != nil && doc.EquipmentID == equipmentID {
			result = append(result, doc)
		}
	}
	return result, nil
}

func (m *mockDocumentRepository) GetDocument(id string) (*documentDatamodel.Document, error) {
	doc, exists := m.docs[id]
	if !exists {
		return nil, internal.ErrDocumentNotFound
	}
	copied := *doc
	return &copied, nil
}

func (m *mockDocumentRepository) CreateDocument(doc *documentDatamodel.Document) error {
	if m.createError != nil {
		return m.createError
	}
	m.docs[doc.ID] = doc
	m.order = append(m.order, doc.ID)
	return nil
}

func (m *mockDocumentRepository) DeleteDocument(id string) error {
	if m.deleteError != nil {
		return m.deleteError
	}
	delete(m.docs, id)
	return nil
}

// Mock parent checker
type mockParentChecker struct {
	items map[string]bool
}

func (m *mockParentChecker) GetEquipment(id string) (*equipmentDatamodel.Equipment, error) {
	if !m.items[id] {
		return nil, internal.ErrEquipmentNotFound
	}
	return &equipmentDatamodel.Equipment{ID: id}, nil
}

// Mock audit recorder
type mockAuditRecorder struct {
	entries []string
}

func (m *mockAuditRecorder) Record(ctx context.Context, equipmentID, action, details string) {
	m.entries = append(m.entries, equipmentID+":"+action)
}

// Mock blob store with a missing-blob flavor of delete
type mockBlobStore struct {
	uploadError error
	deleteError error
	missing     map[string]bool
	uploaded    []string
	deleted     []string
	progress    []int
}

func newMockBlobStore() *mockBlobStore {
	return &mockBlobStore{missing: make(map[string]bool)}
}

func (m *mockBlobStore) Upload(ctx context.Context, path string, r io.Reader, size int64, contentType string, progress blobstore.ProgressFunc) (string, error) {
	if m.uploadError != nil {
		return "", m.uploadError
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	if progress != nil {
		progress(50)
		m.progress = append(m.progress, 50)
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
	if m.missing[path] {
		// already gone counts as success
		return nil
	}
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

var _ = Describe("DocumentService", func() {
	var (
		service   *document.Service
		mockRepo  *mockDocumentRepository
		mockEq    *mockParentChecker
		mockAudit *mockAuditRecorder
		mockBlobs *mockBlobStore
		ctx       context.Context
	)

	BeforeEach(func() {
		mockRepo = newMockDocumentRepository()
		mockEq = &mockParentChecker{items: map[string]bool{"eq-1": true}}
		mockAudit = &mockAuditRecorder{}
		mockBlobs = newMockBlobStore()
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = document.NewService(mockRepo, mockEq, mockAudit, mockBlobs, lg)
		ctx = context.Background()
	})

	seedDocument := func(id, equipmentID, path string) {
		mockRepo.docs[id] = &documentDatamodel.Document{
			ID:          id,
			EquipmentID: equipmentID,
			Name:        "manual.pdf",
			StoragePath: path,
			FileURL:     "https://blobs.test/" + path,
			UploadedAt:  time.Now(),
		}
		mockRepo.order = append(mockRepo.order, id)
	}

	Describe("UploadDocument", func() {
		It("should write the blob before the metadata row", func() {
			doc, err := service.UploadDocument(ctx, "eq-1", "manual.pdf", strings.NewReader("pdf"), 3, "application/pdf", nil)

			Expect(err).ToNot(HaveOccurred())
			Expect(doc.FileURL).To(HavePrefix("https://blobs.test/equipment/eq-1/docs/"))
			Expect(mockBlobs.uploaded).To(HaveLen(1))
			Expect(mockRepo.docs).To(HaveKey(doc.ID))
		})

		It("should leave no metadata behind when the blob upload fails", func() {
			mockBlobs.uploadError = errors.New("bucket offline")

			_, err := service.UploadDocument(ctx, "eq-1", "manual.pdf", strings.NewReader("pdf"), 3, "application/pdf", nil)

			Expect(err).To(HaveOccurred())
			Expect(mockRepo.docs).To(BeEmpty())
		})

		It("should clean the fresh blob up when the metadata write fails", func() {
			mockRepo.createError = errors.New("insert failed")

			_, err := service.UploadDocument(ctx, "eq-1", "manual.pdf", strings.NewReader("pdf"), 3, "application/pdf", nil)

			Expect(err).To(HaveOccurred())
			Expect(mockBlobs.deleted).To(HaveLen(1))
			Expect(mockBlobs.deleted[0]).To(Equal(mockBlobs.uploaded[0]))
		})

		It("should report monotonic progress ending at 100", func() {
			var reported []int
			_, err := service.UploadDocument(ctx, "eq-1", "manual.pdf", strings.NewReader("pdf"), 3, "application/pdf", func(pct int) {
				reported = append(reported, pct)
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(reported).ToNot(BeEmpty())
			for i := 1; i < len(reported); i++ {
				Expect(reported[i]).To(BeNumerically(">=", reported[i-1]))
			}
			Expect(reported[len(reported)-1]).To(Equal(100))
		})

		It("should reject a missing equipment parent", func() {
			_, err := service.UploadDocument(ctx, "ghost", "manual.pdf", strings.NewReader("pdf"), 3, "application/pdf", nil)

			Expect(errors.Is(err, internal.ErrEquipmentNotFound)).To(BeTrue())
			Expect(mockBlobs.uploaded).To(BeEmpty())
		})

		It("should append an audit entry on upload", func() {
			_, err := service.UploadDocument(ctx, "eq-1", "manual.pdf", strings.NewReader("pdf"), 3, "application/pdf", nil)

			Expect(err).ToNot(HaveOccurred())
			Expect(mockAudit.entries).To(ContainElement("eq-1:document_uploaded"))
		})
	})

	Describe("DeleteDocument", func() {
		It("should remove blob and metadata", func() {
			seedDocument("doc-1", "eq-1", "equipment/eq-1/docs/1_manual.pdf")

			err := service.DeleteDocument(ctx, "doc-1")

			Expect(err).ToNot(HaveOccurred())
			Expect(mockBlobs.deleted).To(ContainElement("equipment/eq-1/docs/1_manual.pdf"))
			Expect(mockRepo.docs).ToNot(HaveKey("doc-1"))
			Expect(mockAudit.entries).To(ContainElement("eq-1:document_deleted"))
		})

		It("should succeed when the blob is already gone", func() {
			seedDocument("doc-1", "eq-1", "equipment/eq-1/docs/1_manual.pdf")
			mockBlobs.missing["equipment/eq-1/docs/1_manual.pdf"] = true

			err := service.DeleteDocument(ctx, "doc-1")

			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.docs).ToNot(HaveKey("doc-1"))
		})

		It("should remove the metadata even when the blob delete errors", func() {
			seedDocument("doc-1", "eq-1", "equipment/eq-1/docs/1_manual.pdf")
			mockBlobs.deleteError = errors.New("bucket offline")

			err := service.DeleteDocument(ctx, "doc-1")

			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.docs).ToNot(HaveKey("doc-1"))
		})

		It("should return not-found for a missing id", func() {
			err := service.DeleteDocument(ctx, "missing")

			Expect(errors.Is(err, internal.ErrDocumentNotFound)).To(BeTrue())
		})
	})

	Describe("ListDocuments", func() {
		It("should list newest upload first", func() {
			seedDocument("doc-1", "eq-1", "equipment/eq-1/docs/1_a.pdf")
			seedDocument("doc-2", "eq-1", "equipment/eq-1/docs/2_b.pdf")

			docs, err := service.ListDocuments("eq-1")

			Expect(err).ToNot(HaveOccurred())
			Expect(docs).To(HaveLen(2))
			Expect(docs[0].ID).To(Equal("doc-2"))
		})
	})
})
