package database

import (
	"ingresso/internal/eventconfig"
	"ingresso/internal/events"
	"ingresso/internal/favorites"
	"ingresso/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&events.Event{},
		&favorites.Favorite{},
		&eventconfig.SectorRow{},
		&eventconfig.BatchRow{},
		&eventconfig.TicketRow{},
		&eventconfig.CouponRow{},
		&eventconfig.CouponTicketPriceRow{},
		&eventconfig.CouponProductPriceRow{},
		&eventconfig.ProductRow{},
	)
}
