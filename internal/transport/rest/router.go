package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/redis/go-redis/v9"

	"github.com/frahmantamala/equipment-tracking/internal/audit"
	"github.com/frahmantamala/equipment-tracking/internal/auth"
	"github.com/frahmantamala/equipment-tracking/internal/customtype"
	"github.com/frahmantamala/equipment-tracking/internal/document"
	"github.com/frahmantamala/equipment-tracking/internal/equipment"
	"github.com/frahmantamala/equipment-tracking/internal/location"
	"github.com/frahmantamala/equipment-tracking/internal/maintenance"
	"github.com/frahmantamala/equipment-tracking/internal/transport/middleware"
	"github.com/frahmantamala/equipment-tracking/internal/transport/swagger"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth        *auth.Handler
	Location    *location.Handler
	Equipment   *equipment.Handler
	Document    *document.Handler
	Maintenance *maintenance.Handler
	CustomType  *customtype.Handler
	Audit       *audit.Handler
}

// Options carries the transport-level knobs the router wires in.
type Options struct {
	AllowedOrigins string
	RateLimitRPS   int
	RedisClient    *redis.Client // nil disables rate limiting
	BlobDir        string        // non-empty serves local blobs under /blobs/
}

// RegisterAllRoutes wires middleware and the full /api/v1 surface.
// Reads require an allow-list role, writes require editor, deletes and
// user management require super_admin.
func RegisterAllRoutes(router *chi.Mux, store Pinger, backend string, h Handlers, opts Options, logger *slog.Logger) {
	healthHandler := NewHealthHandler(store, backend)
	rbac := auth.NewRoleAuthorization(logger)

	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	if opts.RedisClient != nil && opts.RateLimitRPS > 0 {
		router.Use(middleware.RateLimit(opts.RedisClient, opts.RateLimitRPS, time.Second, logger))
	}

	// OpenAPI spec and swagger UI live outside the API prefix
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	// Local blob backend serves its files directly
	if opts.BlobDir != "" {
		fs := http.StripPrefix("/blobs/", http.FileServer(http.Dir(opts.BlobDir)))
		router.Handle("/blobs/*", fs)
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/logout", h.Auth.Logout)
		})

		// Everything below resolves the bearer token into a session.
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			// Only needs authentication: an unlisted identity still
			// gets to see its own (role-less) session.
			pr.Get("/users/me", h.Auth.Me)

			// Reads for any allow-list role
			pr.Group(func(vr chi.Router) {
				vr.Use(rbac.RequireAllowed())

				vr.Get("/locations", h.Location.ListLocations)
				vr.Get("/locations/{id}", h.Location.GetLocation)
				vr.Get("/locations/{locationID}/equipment", h.Equipment.ListEquipment)
				vr.Get("/equipment", h.Equipment.ListEquipment)
				vr.Get("/equipment/{id}", h.Equipment.GetEquipment)
				vr.Get("/equipment/{equipmentID}/documents", h.Document.ListDocuments)
				vr.Get("/documents/{id}", h.Document.GetDocument)
				vr.Get("/equipment/{equipmentID}/maintenance", h.Maintenance.ListMaintenance)
				vr.Get("/equipment/{equipmentID}/audit", h.Audit.ListAuditLog)
				vr.Get("/types", h.CustomType.ListTypes)
			})

			// Writes require editor
			pr.Group(func(er chi.Router) {
				er.Use(rbac.RequireEditor())

				er.Post("/locations", h.Location.CreateLocation)
				er.Patch("/locations/{id}", h.Location.UpdateLocation)
				er.Post("/locations/{id}/photo", h.Location.UploadPhoto)
				er.Delete("/locations/{id}/photo", h.Location.DeletePhoto)

				er.Post("/locations/{locationID}/equipment", h.Equipment.CreateEquipment)
				er.Post("/equipment", h.Equipment.CreateEquipment)
				er.Patch("/equipment/{id}", h.Equipment.UpdateEquipment)
				er.Post("/equipment/{id}/photo", h.Equipment.UploadPhoto)
				er.Delete("/equipment/{id}/photo", h.Equipment.DeletePhoto)

				er.Post("/equipment/{equipmentID}/documents", h.Document.UploadDocument)
				er.Post("/equipment/{equipmentID}/maintenance", h.Maintenance.AddMaintenance)
				er.Post("/types", h.CustomType.AddType)
			})

			// Destructive operations require super_admin
			pr.Group(func(dr chi.Router) {
				dr.Use(rbac.RequireSuperAdmin())

				dr.Delete("/locations/{id}", h.Location.DeleteLocation)
				dr.Delete("/equipment/{id}", h.Equipment.DeleteEquipment)
				dr.Delete("/documents/{id}", h.Document.DeleteDocument)
			})

			// Allow-list management requires super_admin
			pr.Route("/admin/users", func(ar chi.Router) {
				ar.Use(rbac.RequireSuperAdmin())

				ar.Get("/", h.Auth.ListUsers)
				ar.Post("/", h.Auth.AddUser)
				ar.Patch("/{id}", h.Auth.UpdateUser)
				ar.Delete("/{id}", h.Auth.RemoveUser)
			})
		})
	})
}
