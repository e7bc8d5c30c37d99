package database

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type tableIndex struct {
	table   string
	name    string
	columns string
}

// queryIndexes back the allocation and dashboard queries.
var queryIndexes = []tableIndex{
	{"projects", "idx_projects_org_status", "organization_id, status"},
	{"projects", "idx_projects_start_date", "start_date"},
	{"assignments", "idx_assignments_dates", "start_date, end_date"},
	{"otps", "idx_otps_email_valid", "email, is_valid"},
	{"leave_records", "idx_leave_records_status", "status"},
}

// AddIndexes creates the query indexes that are not declared on the models.
// Existing indexes are left alone.
func AddIndexes(db *gorm.DB, log zerolog.Logger) error {
	migrator := db.Migrator()
	for _, idx := range queryIndexes {
		if migrator.HasIndex(idx.table, idx.name) {
			log.Debug().Str("index", idx.name).Msg("index exists, skipping")
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info().Str("index", idx.name).Str("table", idx.table).Msg("created index")
	}

	return nil
}

// MigrateDatabase runs table migrations and then adds indexes
func MigrateDatabase(db *gorm.DB, log zerolog.Logger) error {
	if err := Migrate(db); err != nil {
		return err
	}
	if err := AddIndexes(db, log); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}
	log.Info().Msg("database migrations completed")
	return nil
}
