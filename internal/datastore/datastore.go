// Package datastore declares the composite persistence facade. Two
// implementations exist, sqlstore (GORM over postgres or sqlite) and
// mongostore (official mongo driver); one is selected at startup and
// both honor the same ordering, idempotence and cascade guarantees.
package datastore

import (
	"context"

	"github.com/frahmantamala/equipment-tracking/internal/audit"
	"github.com/frahmantamala/equipment-tracking/internal/auth"
	"github.com/frahmantamala/equipment-tracking/internal/customtype"
	"github.com/frahmantamala/equipment-tracking/internal/document"
	"github.com/frahmantamala/equipment-tracking/internal/equipment"
	"github.com/frahmantamala/equipment-tracking/internal/location"
	"github.com/frahmantamala/equipment-tracking/internal/maintenance"
)

// Store is everything the domain services need from persistence.
type Store interface {
	auth.AllowedUserRepository
	auth.IdentityRepository
	location.Repository
	equipment.Repository
	document.Repository
	maintenance.Repository
	audit.Repository
	customtype.Repository

	// Ping verifies connectivity for health checks.
	Ping(ctx context.Context) error

	// Close releases the underlying connections.
	Close(ctx context.Context) error
}
