package customtype

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/equipment-tracking/internal/transport"
	"github.com/frahmantamala/equipment-tracking/pkg/logger"
)

type ServiceAPI interface {
	ListTypes() ([]TypeResponse, error)
	AddType(name string) (*TypeResponse, error)
}

type AddTypeDTO struct {
	Name string `json:"name" validate:"required"`
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

func (h *Handler) ListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.Service.ListTypes()
	if err != nil {
		h.Logger.Error("ListTypes: service error", "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"types": types,
	})
}

func (h *Handler) AddType(w http.ResponseWriter, r *http.Request) {
	var dto AddTypeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("AddType: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ct, err := h.Service.AddType(dto.Name)
	if err != nil {
		h.Logger.Error("AddType: service error", "error", err, "name", dto.Name)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, ct)
}
