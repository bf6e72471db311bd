package document

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/equipment-tracking/internal/blobstore"
	"github.com/frahmantamala/equipment-tracking/internal/transport"
	"github.com/frahmantamala/equipment-tracking/pkg/logger"
)

const maxDocumentSize = 100 << 20 // 100 MiB

type ServiceAPI interface {
	ListDocuments(equipmentID string) ([]DocumentResponse, error)
	GetDocument(id string) (*DocumentResponse, error)
	UploadDocument(ctx context.Context, equipmentID, filename string, r io.Reader, size int64, contentType string, progress blobstore.ProgressFunc) (*DocumentResponse, error)
	DeleteDocument(ctx context.Context, id string) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	equipmentID := chi.URLParam(r, "equipmentID")

	docs, err := h.Service.ListDocuments(equipmentID)
	if err != nil {
		h.Logger.Error("ListDocuments: service error", "error", err, "equipment_id", equipmentID)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"documents": docs,
	})
}

func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	doc, err := h.Service.GetDocument(id)
	if err != nil {
		h.Logger.Error("GetDocument: service error", "error", err, "document_id", id)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	equipmentID := chi.URLParam(r, "equipmentID")

	if err := r.ParseMultipartForm(maxDocumentSize); err != nil {
		h.Logger.Error("UploadDocument: invalid multipart form", "error", err, "equipment_id", equipmentID)
		h.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.Logger.Error("UploadDocument: missing file", "error", err, "equipment_id", equipmentID)
		h.WriteError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	doc, err := h.Service.UploadDocument(r.Context(), equipmentID, header.Filename, file, header.Size, header.Header.Get("Content-Type"), nil)
	if err != nil {
		h.Logger.Error("UploadDocument: service error", "error", err, "equipment_id", equipmentID)
		h.WriteAppError(w, err)
		return
	}

	h.Logger.Info("UploadDocument: document uploaded", "document_id", doc.ID, "equipment_id", equipmentID)
	h.WriteJSON(w, http.StatusCreated, doc)
}

func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Service.DeleteDocument(r.Context(), id); err != nil {
		h.Logger.Error("DeleteDocument: service error", "error", err, "document_id", id)
		h.WriteAppError(w, err)
		return
	}

	h.Logger.Info("DeleteDocument: document deleted", "document_id", id)
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
