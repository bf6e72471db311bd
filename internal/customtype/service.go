package customtype

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/equipment-tracking/internal"
	customtypeDatamodel "github.com/frahmantamala/equipment-tracking/internal/core/datamodel/customtype"
)

// Service handles the custom type registry
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

// ListTypes returns the registry oldest first, so the order types were
// introduced in is stable for pickers.
func (s *Service) ListTypes() ([]TypeResponse, error) {
	types, err := s.repo.ListTypes()
	if err != nil {
		s.logger.Error("failed to list custom types", "error", err)
		return nil, internal.NewStoreError(err)
	}

	responses := make([]TypeResponse, 0, len(types))
	for _, ct := range types {
		responses = append(responses, ToResponse(ct))
	}
	return responses, nil
}

// AddType registers a type name idempotently: adding an existing name
// (after whitespace trimming, comparison case-sensitive) returns the
// existing entry instead of an error. A concurrent insert losing the
// race to the unique index is resolved by re-reading the winner.
func (s *Service) AddType(name string) (*TypeResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, internal.NewValidationError("name is required", internal.ErrCodeValidationFailed)
	}

	existing, err := s.repo.GetTypeByName(name)
	if err != nil {
		s.logger.Error("failed to look up custom type", "error", err, "name", name)
		return nil, internal.NewStoreError(err)
	}
	if existing != nil {
		resp := ToResponse(existing)
		return &resp, nil
	}

	ct := &customtypeDatamodel.CustomType{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.CreateType(ct); err != nil {
		if errors.Is(err, internal.ErrDuplicateType) {
			winner, readErr := s.repo.GetTypeByName(name)
			if readErr != nil || winner == nil {
				s.logger.Error("failed to re-read custom type after conflict", "error", readErr, "name", name)
				return nil, internal.NewStoreError(readErr)
			}
			resp := ToResponse(winner)
			return &resp, nil
		}
		s.logger.Error("failed to create custom type", "error", err, "name", name)
		return nil, internal.NewStoreError(err)
	}

	s.logger.Info("custom type added", "type_id", ct.ID, "name", name)

	resp := ToResponse(ct)
	return &resp, nil
}
