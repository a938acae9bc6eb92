package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints applies what AutoMigrate cannot express.
func MigrateConstraints(db *gorm.DB) error {
	// uuid_generate_v4 defaults on the models need the extension.
	err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error
	if err != nil {
		return err
	}

	// Loading a configuration always reads rows ordered by position.
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_event_tickets_event_position
		ON event_tickets (event_id, position);
	`).Error
	if err != nil {
		return err
	}

	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_event_sectors_event_position
		ON event_sectors (event_id, position);
	`).Error
	if err != nil {
		return err
	}

	// Event browsing filters on status plus date.
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_events_status_date
		ON events (status, date_time);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
