package eventconfig

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// SaveRows replaces the event's configuration rows inside a single
	// transaction: a failure on any table leaves the previous
	// configuration untouched.
	SaveRows(ctx context.Context, eventID uuid.UUID, rows *RowSet) error
	LoadRows(ctx context.Context, eventID uuid.UUID) (*RowSet, error)
	HasRows(ctx context.Context, eventID uuid.UUID) (bool, error)
	DeleteRows(ctx context.Context, eventID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SaveRows(ctx context.Context, eventID uuid.UUID, rows *RowSet) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteEventRows(tx, eventID); err != nil {
			return err
		}

		if len(rows.Sectors) > 0 {
			if err := tx.Create(&rows.Sectors).Error; err != nil {
				return fmt.Errorf("failed to insert sector rows: %w", err)
			}
		}
		if len(rows.Batches) > 0 {
			if err := tx.Create(&rows.Batches).Error; err != nil {
				return fmt.Errorf("failed to insert batch rows: %w", err)
			}
		}
		if len(rows.Tickets) > 0 {
			if err := tx.Create(&rows.Tickets).Error; err != nil {
				return fmt.Errorf("failed to insert ticket rows: %w", err)
			}
		}
		if len(rows.Coupons) > 0 {
			if err := tx.Create(&rows.Coupons).Error; err != nil {
				return fmt.Errorf("failed to insert coupon rows: %w", err)
			}
		}
		if len(rows.TicketPrices) > 0 {
			if err := tx.Create(&rows.TicketPrices).Error; err != nil {
				return fmt.Errorf("failed to insert coupon ticket prices: %w", err)
			}
		}
		if len(rows.Products) > 0 {
			if err := tx.Create(&rows.Products).Error; err != nil {
				return fmt.Errorf("failed to insert product rows: %w", err)
			}
		}
		if len(rows.ProductPrices) > 0 {
			if err := tx.Create(&rows.ProductPrices).Error; err != nil {
				return fmt.Errorf("failed to insert coupon product prices: %w", err)
			}
		}
		return nil
	})
}

func (r *repository) LoadRows(ctx context.Context, eventID uuid.UUID) (*RowSet, error) {
	db := r.db.WithContext(ctx)
	rows := &RowSet{}

	if err := db.Where("event_id = ?", eventID).Order("position").Find(&rows.Sectors).Error; err != nil {
		return nil, fmt.Errorf("failed to load sector rows: %w", err)
	}
	if err := db.Where("event_id = ?", eventID).Order("position").Find(&rows.Batches).Error; err != nil {
		return nil, fmt.Errorf("failed to load batch rows: %w", err)
	}
	if err := db.Where("event_id = ?", eventID).Order("position").Find(&rows.Tickets).Error; err != nil {
		return nil, fmt.Errorf("failed to load ticket rows: %w", err)
	}
	if err := db.Where("event_id = ?", eventID).Order("position").Find(&rows.Coupons).Error; err != nil {
		return nil, fmt.Errorf("failed to load coupon rows: %w", err)
	}

	couponIDs := make([]uuid.UUID, 0, len(rows.Coupons))
	for _, c := range rows.Coupons {
		couponIDs = append(couponIDs, c.ID)
	}
	if len(couponIDs) > 0 {
		if err := db.Where("coupon_id IN ?", couponIDs).Find(&rows.TicketPrices).Error; err != nil {
			return nil, fmt.Errorf("failed to load coupon ticket prices: %w", err)
		}
		if err := db.Where("coupon_id IN ?", couponIDs).Find(&rows.ProductPrices).Error; err != nil {
			return nil, fmt.Errorf("failed to load coupon product prices: %w", err)
		}
	}

	if err := db.Where("event_id = ?", eventID).Order("position").Find(&rows.Products).Error; err != nil {
		return nil, fmt.Errorf("failed to load product rows: %w", err)
	}

	return rows, nil
}

func (r *repository) HasRows(ctx context.Context, eventID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&SectorRow{}).Where("event_id = ?", eventID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) DeleteRows(ctx context.Context, eventID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteEventRows(tx, eventID)
	})
}

func deleteEventRows(tx *gorm.DB, eventID uuid.UUID) error {
	var couponIDs []uuid.UUID
	if err := tx.Model(&CouponRow{}).Where("event_id = ?", eventID).Pluck("id", &couponIDs).Error; err != nil {
		return fmt.Errorf("failed to list coupon rows: %w", err)
	}
	if len(couponIDs) > 0 {
		if err := tx.Where("coupon_id IN ?", couponIDs).Delete(&CouponTicketPriceRow{}).Error; err != nil {
			return fmt.Errorf("failed to delete coupon ticket prices: %w", err)
		}
		if err := tx.Where("coupon_id IN ?", couponIDs).Delete(&CouponProductPriceRow{}).Error; err != nil {
			return fmt.Errorf("failed to delete coupon product prices: %w", err)
		}
	}
	for _, model := range []interface{}{&CouponRow{}, &TicketRow{}, &BatchRow{}, &SectorRow{}, &ProductRow{}} {
		if err := tx.Where("event_id = ?", eventID).Delete(model).Error; err != nil {
			return fmt.Errorf("failed to delete configuration rows: %w", err)
		}
	}
	return nil
}
