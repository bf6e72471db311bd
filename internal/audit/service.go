package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/equipment-tracking/internal"
	"github.com/frahmantamala/equipment-tracking/internal/auth"
	auditDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/audit"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) ListForEquipment(equipmentID string) ([]EntryResponse, error) {
	entries, err := s.repo.ListAuditLogs(equipmentID)
	if err != nil {
		s.logger.Error("failed to list audit log", "error", err, "equipment_id", equipmentID)
		return nil, internal.NewStoreError(err)
	}

	responses := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, ToResponse(e))
	}
	return responses, nil
}

// Record appends an audit entry. It returns nothing on purpose: audit
// writes are best-effort and a failure here must never abort the
// operation that triggered it. The actor is taken from the session in
// ctx when present.
func (s *Service) Record(ctx context.Context, equipmentID, action, details string) {
	entry := &auditDatamodel.AuditLog{
		ID:          uuid.NewString(),
		EquipmentID: equipmentID,
		Action:      action,
		Details:     details,
		CreatedAt:   time.Now().UTC(),
	}

	if session, ok := auth.SessionFromContext(ctx); ok && session.IsAuthenticated() {
		actorID := session.Identity.ID
		actorEmail := session.Identity.Email
		entry.ActorID = &actorID
		entry.ActorEmail = &actorEmail
	} else if userID := internal.UserIDFromContext(ctx); userID != "" {
		entry.ActorID = &userID
	}

	if err := s.repo.CreateAuditLog(entry); err != nil {
		s.logger.Warn("audit write dropped",
			"error", err,
			"equipment_id", equipmentID,
			"action", action)
	}
}
