package maintenance

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/equipment-tracking/internal/transport"
	"github.com/frahmantamala/equipment-tracking/pkg/logger"
)

type ServiceAPI interface {
	ListMaintenance(equipmentID string) ([]RecordResponse, error)
	AddMaintenance(ctx context.Context, equipmentID string, dto AddMaintenanceDTO) (*RecordResponse, error)
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

func (h *Handler) ListMaintenance(w http.ResponseWriter, r *http.Request) {
	equipmentID := chi.URLParam(r, "equipmentID")

	records, err := h.Service.ListMaintenance(equipmentID)
	if err != nil {
		h.Logger.Error("ListMaintenance: service error", "error", err, "equipment_id", equipmentID)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"maintenance": records,
	})
}

func (h *Handler) AddMaintenance(w http.ResponseWriter, r *http.Request) {
	equipmentID := chi.URLParam(r, "equipmentID")

	var dto AddMaintenanceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("AddMaintenance: invalid request body", "error", err, "equipment_id", equipmentID)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.Service.AddMaintenance(r.Context(), equipmentID, dto)
	if err != nil {
		h.Logger.Error("AddMaintenance: service error", "error", err, "equipment_id", equipmentID)
		h.WriteAppError(w, err)
		return
	}

	h.Logger.Info("AddMaintenance: record added", "record_id", rec.ID, "equipment_id", equipmentID)
	h.WriteJSON(w, http.StatusCreated, rec)
}
