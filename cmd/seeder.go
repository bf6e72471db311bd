package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/frahmantamala/equipment-tracking/internal"
	"github.com/frahmantamala/equipment-tracking/internal/auth"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with a super admin account and demo inventory for development.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		var driver string
		switch cfg.Database.Backend {
		case internal.DatabaseBackendPostgres:
			driver = "pgx"
		case internal.DatabaseBackendSQLite:
			driver = "sqlite3"
		default:
			log.Fatalf("seeding applies to relational backends only, not %q", cfg.Database.Backend)
		}

		db, err := sqlx.Connect(driver, cfg.Database.Source)
		if err != nil {
			log.Fatalf("failed to connect: %v", err)
		}
		defer db.Close()

		if clearData {
			// children before parents
			for _, table := range []string{"audit_logs", "maintenance_records", "documents", "equipment", "locations", "custom_types", "allowed_users", "identities"} {
				if _, err := db.Exec("DELETE FROM " + table); err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		adminEmail := "admin@example.com"
		hash, err := auth.HashPassword("password", cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}

		now := time.Now().UTC()

		var exists int
		if err := db.QueryRow(db.Rebind("SELECT 1 FROM identities WHERE email = ?"), adminEmail).Scan(&exists); err != nil {
			if _, err := db.Exec(
				db.Rebind("INSERT INTO identities (id, email, display_name, password_hash, created_at) VALUES (?, ?, ?, ?, ?)"),
				uuid.NewString(), adminEmail, "Admin", hash, now,
			); err != nil {
				log.Fatalf("failed to insert admin identity: %v", err)
			}
			fmt.Println("Seeded admin identity:", adminEmail)
		}

		if err := db.QueryRow(db.Rebind("SELECT 1 FROM allowed_users WHERE email = ?"), adminEmail).Scan(&exists); err != nil {
			if _, err := db.Exec(
				db.Rebind("INSERT INTO allowed_users (id, email, role, display_name, created_at) VALUES (?, ?, ?, ?, ?)"),
				uuid.NewString(), adminEmail, "super_admin", "Admin", now,
			); err != nil {
				log.Fatalf("failed to insert admin allow-list row: %v", err)
			}
			fmt.Println("Granted super_admin to:", adminEmail)
		}

		for _, name := range []string{"Camera", "Router", "Sensor"} {
			if err := db.QueryRow(db.Rebind("SELECT 1 FROM custom_types WHERE name = ?"), name).Scan(&exists); err == nil {
				continue
			}
			if _, err := db.Exec(
				db.Rebind("INSERT INTO custom_types (id, name, created_at) VALUES (?, ?, ?)"),
				uuid.NewString(), name, now,
			); err != nil {
				log.Fatalf("failed to insert type %s: %v", name, err)
			}
		}

		locations := []struct {
			Name      string
			Latitude  float64
			Longitude float64
			Address   string
		}{
			{"Head Office", 52.5200, 13.4050, "Alexanderplatz 1, Berlin"},
			{"Warehouse North", 53.5511, 9.9937, "Speicherstadt 12, Hamburg"},
		}

		for _, loc := range locations {
			if err := db.QueryRow(db.Rebind("SELECT 1 FROM locations WHERE name = ?"), loc.Name).Scan(&exists); err == nil {
				continue
			}

			locationID := uuid.NewString()
			if _, err := db.Exec(
				db.Rebind("INSERT INTO locations (id, name, latitude, longitude, address, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)"),
				locationID, loc.Name, loc.Latitude, loc.Longitude, loc.Address, now, now,
			); err != nil {
				log.Fatalf("failed to insert location %s: %v", loc.Name, err)
			}

			if _, err := db.Exec(
				db.Rebind("INSERT INTO equipment (id, location_id, inventory_number, type, status, manufacturer, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"),
				uuid.NewString(), locationID, fmt.Sprintf("INV-%d", now.UnixNano()%100000), "Camera", "active", "Axis", now, now,
			); err != nil {
				log.Fatalf("failed to insert equipment for %s: %v", loc.Name, err)
			}

			fmt.Println("Seeded location:", loc.Name)
		}

		fmt.Println("Seeding complete")
	},
}
