package eventconfig

import (
	"time"

	"github.com/google/uuid"
)

// Persisted row models. The nested configuration is flattened into these
// before any write; ids are generated in memory so join rows can reference
// ticket and product rows inside the same transaction.

type TicketRow struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	EventID    uuid.UUID  `json:"event_id" gorm:"type:uuid;not null;index"`
	SectorID   uuid.UUID  `json:"sector_id" gorm:"type:uuid;not null;index"`
	SectorName string     `json:"sector_name" gorm:"not null;size:255"`
	BatchID    *uuid.UUID `json:"batch_id" gorm:"type:uuid;index"`
	Name       string     `json:"name" gorm:"not null;size:255"`
	Price      float64    `json:"price" gorm:"not null;check:price >= 0"`
	Quantity   int        `json:"quantity" gorm:"not null;check:quantity >= 0"`
	Unlimited  bool       `json:"unlimited" gorm:"default:false"`
	Position   int        `json:"position" gorm:"not null"`
	CreatedBy  uuid.UUID  `json:"created_by" gorm:"type:uuid;not null"`
	CreatedAt  time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

type BatchRow struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	EventID   uuid.UUID  `json:"event_id" gorm:"type:uuid;not null;index"`
	SectorID  uuid.UUID  `json:"sector_id" gorm:"type:uuid;not null;index"`
	Name      string     `json:"name" gorm:"not null;size:255"`
	StartsAt  *time.Time `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at"`
	Position  int        `json:"position" gorm:"not null"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

type SectorRow struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	EventID   uuid.UUID `json:"event_id" gorm:"type:uuid;not null;index"`
	Name      string    `json:"name" gorm:"not null;size:255"`
	Capacity  *int      `json:"capacity"`
	Batched   bool      `json:"batched" gorm:"default:false"`
	Position  int       `json:"position" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type CouponRow struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	EventID     uuid.UUID  `json:"event_id" gorm:"type:uuid;not null;index:idx_coupon_event_code,unique"`
	Code        string     `json:"code" gorm:"not null;size:64;index:idx_coupon_event_code,unique"`
	Description string     `json:"description" gorm:"type:text"`
	MaxUses     *int       `json:"max_uses"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	Position    int        `json:"position" gorm:"not null"`
	CreatedBy   uuid.UUID  `json:"created_by" gorm:"type:uuid;not null"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

type CouponTicketPriceRow struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CouponID  uuid.UUID `json:"coupon_id" gorm:"type:uuid;not null;index"`
	TicketID  uuid.UUID `json:"ticket_id" gorm:"type:uuid;not null;index"`
	Price     float64   `json:"price" gorm:"not null;check:price >= 0"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

type CouponProductPriceRow struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CouponID  uuid.UUID `json:"coupon_id" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	Price     float64   `json:"price" gorm:"not null;check:price >= 0"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

type ProductRow struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	EventID        uuid.UUID `json:"event_id" gorm:"type:uuid;not null;index"`
	Name           string    `json:"name" gorm:"not null;size:255"`
	Description    string    `json:"description" gorm:"type:text"`
	Price          float64   `json:"price" gorm:"not null;check:price >= 0"`
	Quantity       int       `json:"quantity" gorm:"not null;check:quantity >= 0"`
	Size           string    `json:"size" gorm:"size:50"`
	Category       string    `json:"category" gorm:"type:varchar(20);default:'other'"`
	ImageURL       string    `json:"image_url" gorm:"size:500"`
	AcceptsCoupons bool      `json:"accepts_coupons" gorm:"default:false"`
	Position       int       `json:"position" gorm:"not null"`
	CreatedBy      uuid.UUID `json:"created_by" gorm:"type:uuid;not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (TicketRow) TableName() string             { return "event_tickets" }
func (BatchRow) TableName() string              { return "event_batches" }
func (SectorRow) TableName() string             { return "event_sectors" }
func (CouponRow) TableName() string             { return "event_coupons" }
func (CouponTicketPriceRow) TableName() string  { return "coupon_ticket_prices" }
func (CouponProductPriceRow) TableName() string { return "coupon_product_prices" }
func (ProductRow) TableName() string            { return "event_products" }

// RowSet is everything one configuration flattens into, written and read as
// a unit.
type RowSet struct {
	Sectors       []SectorRow
	Batches       []BatchRow
	Tickets       []TicketRow
	Coupons       []CouponRow
	TicketPrices  []CouponTicketPriceRow
	ProductPrices []CouponProductPriceRow
	Products      []ProductRow
}
