package audit

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/equipment-tracking/internal/transport"
	"github.com/frahmantamala/equipment-tracking/pkg/logger"
)

type ServiceAPI interface {
	ListForEquipment(equipmentID string) ([]EntryResponse, error)
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

func (h *Handler) ListAuditLog(w http.ResponseWriter, r *http.Request) {
	equipmentID := chi.URLParam(r, "equipmentID")

	entries, err := h.Service.ListForEquipment(equipmentID)
	if err != nil {
		h.Logger.Error("ListAuditLog: service error", "error", err, "equipment_id", equipmentID)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"audit_log": entries,
	})
}
