package location

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
	ListLocations() ([]LocationResponse, error)
	GetLocation(id string) (*LocationResponse, error)
	CreateLocation(dto CreateLocationDTO) (*LocationResponse, error)
	UpdateLocation(id string, dto UpdateLocationDTO) (*LocationResponse, error)
	DeleteLocation(ctx context.Context, id string) error
	UploadPhoto(ctx context.Context, id, filename string, r io.Reader, size int64, contentType string, progress blobstore.ProgressFunc) (*LocationResponse, error)
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

func (h *Handler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.Service.ListLocations()
	if err != nil {
		h.Logger.Error("ListLocations: service error", "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"locations": locations,
	})
}

func (h *Handler) GetLocation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	loc, err := h.Service.GetLocation(id)
	if err != nil {
		h.Logger.Error("GetLocation: service error", "error", err, "location_id", id)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, loc)
}

func (h *Handler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var dto CreateLocationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateLocation: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	loc, err := h.Service.CreateLocation(dto)
	if err != nil {
		h.Logger.Error("CreateLocation: service error", "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.Logger.Info("CreateLocation: location created", "location_id", loc.ID, "name", loc.Name)
	h.WriteJSON(w, http.StatusCreated, loc)
}

func (h *Handler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dto UpdateLocationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateLocation: invalid request body", "error", err, "location_id", id)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	loc, err := h.Service.UpdateLocation(id, dto)
	if err != nil {
		h.Logger.Error("UpdateLocation: service error", "error", err, "location_id", id)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, loc)
}

func (h *Handler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Service.DeleteLocation(r.Context(), id); err != nil {
		h.Logger.Error("DeleteLocation: service error", "error", err, "location_id", id)
		h.WriteAppError(w, err)
		return
	}

	h.Logger.Info("DeleteLocation: location deleted", "location_id", id)
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		h.Logger.Error("UploadPhoto: invalid multipart form", "error", err, "location_id", id)
		h.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		h.Logger.Error("UploadPhoto: missing photo file", "error", err, "location_id", id)
		h.WriteError(w, http.StatusBadRequest, "photo file is required")
		return
	}
	defer file.Close()

	loc, err := h.Service.UploadPhoto(r.Context(), id, header.Filename, file, header.Size, header.Header.Get("Content-Type"), nil)
	if err != nil {
		h.Logger.Error("UploadPhoto: service error", "error", err, "location_id", id)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, loc)
}

func (h *Handler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Service.DeletePhoto(r.Context(), id); err != nil {
		h.Logger.Error("DeletePhoto: service error", "error", err, "location_id", id)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
