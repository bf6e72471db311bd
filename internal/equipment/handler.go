package equipment

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/equipment-tracking/internal/blobstore"
	"github.com/frahmantamala/equipment-tracking/internal/transport"
	"github.com/frahmantamala/equipment-tracking/pkg/logger"
)

const maxPhotoSize = 20 << 20 // 20 MiB

type ServiceAPI interface {
	ListEquipment(locationID string) ([]EquipmentResponse, error)
	GetEquipment(id string) (*EquipmentResponse, error)
	CreateEquipment(ctx context.Context, dto CreateEquipmentDTO) (*EquipmentResponse, error)
	UpdateEquipment(ctx context.Context, id string, dto UpdateEquipmentDTO) (*EquipmentResponse, error)
	DeleteEquipment(ctx context.Context, id string) error
	UploadPhoto(ctx context.Context, id, filename string, r io.Reader, size int64, contentType string, progress blobstore.ProgressFunc) (*EquipmentResponse, error)
	DeletePhoto(ctx context.Context, id string) error
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

func (h *Handler) ListEquipment(w http.ResponseWriter, r *http.Request) {
	locationID := r.URL.Query().Get("location_id")
	if locationID == "" {
		locationID = chi.URLParam(r, "locationID")
	}

	items, err := h.Service.ListEquipment(locationID)
	if err != nil {
		h.Logger.Error("ListEquipment: service error", "error", err, "location_id", locationID)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"equipment": items,
	})
}

func (h *Handler) GetEquipment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	eq, err := h.Service.GetEquipment(id)
	if err != nil {
		h.Logger.Error("GetEquipment: service error", "error", err, "equipment_id", id)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, eq)
}

func (h *Handler) CreateEquipment(w http.ResponseWriter, r *http.Request) {
	var dto CreateEquipmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateEquipment: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if locationID := chi.URLParam(r, "locationID"); locationID != "" {
		dto.LocationID = locationID
	}

	eq, err := h.Service.CreateEquipment(r.Context(), dto)
	if err != nil {
		h.Logger.Error("CreateEquipment: service error", "error", err, "location_id", dto.LocationID)
		h.WriteAppError(w, err)
		return
	}

	h.Logger.Info("CreateEquipment: equipment created", "equipment_id", eq.ID, "location_id", eq.LocationID)
	h.WriteJSON(w, http.StatusCreated, eq)
}

func (h *Handler) UpdateEquipment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dto UpdateEquipmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateEquipment: invalid request body", "error", err, "equipment_id", id)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	eq, err := h.Service.UpdateEquipment(r.Context(), id, dto)
	if err != nil {
		h.Logger.Error("UpdateEquipment: service error", "error", err, "equipment_id", id)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, eq)
}

func (h *Handler) DeleteEquipment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Service.DeleteEquipment(r.Context(), id); err != nil {
		h.Logger.Error("DeleteEquipment: service error", "error", err, "equipment_id", id)
		h.WriteAppError(w, err)
		return
	}

	h.Logger.Info("DeleteEquipment: equipment deleted", "equipment_id", id)
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		h.Logger.Error("UploadPhoto: invalid multipart form", "error", err, "equipment_id", id)
		h.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		h.Logger.Error("UploadPhoto: missing photo file", "error", err, "equipment_id", id)
		h.WriteError(w, http.StatusBadRequest, "photo file is required")
		return
	}
	defer file.Close()

	eq, err := h.Service.UploadPhoto(r.Context(), id, header.Filename, file, header.Size, header.Header.Get("Content-Type"), nil)
	if err != nil {
		h.Logger.Error("UploadPhoto: service error", "error", err, "equipment_id", id)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, eq)
}

func (h *Handler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Service.DeletePhoto(r.Context(), id); err != nil {
		h.Logger.Error("DeletePhoto: service error", "error", err, "equipment_id", id)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
