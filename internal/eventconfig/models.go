package eventconfig

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SectorMode selects which arm of SectorContents is populated.
type SectorMode string

const (
	SectorModeFlat    SectorMode = "flat"
	SectorModeBatched SectorMode = "batched"
)

// TicketType is a single priced, quantity-limited admission item.
type TicketType struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	Unlimited bool      `json:"unlimited"`
}

// Batch (lote) is a time-boxed pricing tier inside a sector.
type Batch struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	StartsAt    *time.Time   `json:"starts_at,omitempty"`
	EndsAt      *time.Time   `json:"ends_at,omitempty"`
	TicketTypes []TicketType `json:"ticket_types"`
}

// SectorContents is the flat-or-batched variant of a sector's inventory.
// Exactly one arm is active, selected by Mode; the inactive arm stays empty.
// Unbatched is only legal in batched mode and holds ticket rows that were
// persisted without a batch id (a partial migration leftover, not an error).
type SectorContents struct {
	Mode      SectorMode   `json:"mode"`
	Flat      []TicketType `json:"ticket_types,omitempty"`
	Batches   []Batch      `json:"batches,omitempty"`
	Unbatched []TicketType `json:"unbatched,omitempty"`
}

// Sector (setor) is a named partition of the event's ticket inventory.
type Sector struct {
	ID       uuid.UUID      `json:"id"`
	Name     string         `json:"name"`
	Capacity *int           `json:"capacity,omitempty"`
	Contents SectorContents `json:"contents"`
}

// TicketTypes returns every ticket type under the sector regardless of mode,
// batch order first, unbatched leftovers last.
func (s *Sector) TicketTypes() []TicketType {
	if s.Contents.Mode == SectorModeFlat {
		return s.Contents.Flat
	}
	var out []TicketType
	for _, b := range s.Contents.Batches {
		out = append(out, b.TicketTypes...)
	}
	out = append(out, s.Contents.Unbatched...)
	return out
}

// TicketKey identifies a ticket type for coupon override pricing.
// All components are stable generated ids; a sector or batch rename never
// changes the key. BatchID is uuid.Nil for flat ticket types.
type TicketKey struct {
	SectorID     uuid.UUID
	BatchID      uuid.UUID
	TicketTypeID uuid.UUID
}

// MarshalText lets TicketKey serve as a JSON map key.
func (k TicketKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *TicketKey) UnmarshalText(text []byte) error {
	parts := strings.Split(string(text), ":")
	if len(parts) != 3 {
		return fmt.Errorf("invalid ticket key %q", string(text))
	}
	sectorID, err := uuid.Parse(parts[0])
	if err != nil {
		return fmt.Errorf("invalid ticket key sector id: %w", err)
	}
	batchID := uuid.Nil
	if parts[1] != "" {
		if batchID, err = uuid.Parse(parts[1]); err != nil {
			return fmt.Errorf("invalid ticket key batch id: %w", err)
		}
	}
	typeID, err := uuid.Parse(parts[2])
	if err != nil {
		return fmt.Errorf("invalid ticket key type id: %w", err)
	}
	*k = TicketKey{SectorID: sectorID, BatchID: batchID, TicketTypeID: typeID}
	return nil
}

func (k TicketKey) String() string {
	batch := ""
	if k.BatchID != uuid.Nil {
		batch = k.BatchID.String()
	}
	return k.SectorID.String() + ":" + batch + ":" + k.TicketTypeID.String()
}

// Coupon (cupom) is a discount code with per-item override pricing.
type Coupon struct {
	ID           uuid.UUID             `json:"id"`
	Code         string                `json:"code"` // stored uppercase
	Description  string                `json:"description,omitempty"`
	MaxUses      *int                  `json:"max_uses,omitempty"`
	StartsAt     *time.Time            `json:"starts_at,omitempty"`
	EndsAt       *time.Time            `json:"ends_at,omitempty"`
	TicketPrices map[TicketKey]float64 `json:"ticket_prices"`
	// ProductPrices is keyed by product id; only products with
	// AcceptsCoupons set participate.
	ProductPrices map[uuid.UUID]float64 `json:"product_prices,omitempty"`
}

// ProductCategory classifies an add-on product.
type ProductCategory string

const (
	CategoryDrink   ProductCategory = "drink"
	CategoryFood    ProductCategory = "food"
	CategoryApparel ProductCategory = "apparel"
	CategoryGift    ProductCategory = "gift"
	CategoryOther   ProductCategory = "other"
)

func IsValidCategory(c ProductCategory) bool {
	switch c {
	case CategoryDrink, CategoryFood, CategoryApparel, CategoryGift, CategoryOther:
		return true
	}
	return false
}

// Product (produto) is a non-admission add-on sold alongside tickets.
type Product struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Price          float64         `json:"price"`
	Quantity       int             `json:"quantity"`
	Size           string          `json:"size,omitempty"`
	Category       ProductCategory `json:"category"`
	ImageURL       string          `json:"image_url,omitempty"`
	AcceptsCoupons bool            `json:"accepts_coupons"`
	// CouponPrices is keyed by coupon id; seeded from the base price when
	// AcceptsCoupons is first enabled.
	CouponPrices map[uuid.UUID]float64 `json:"coupon_prices,omitempty"`
}

// FeePlan is the selected fee arrangement for the event.
type FeePlan struct {
	Name            string  `json:"name"`
	BuyerFeePercent float64 `json:"buyer_fee_percent"`
	ProducerAbsorbs float64 `json:"producer_absorbs_percent"`
}

// EventConfiguration is the aggregate root a producer assembles before it is
// flattened into persisted rows.
type EventConfiguration struct {
	EventID  uuid.UUID `json:"event_id"`
	Sectors  []Sector  `json:"sectors"`
	Coupons  []Coupon  `json:"coupons"`
	Products []Product `json:"products"`
	FeePlan  FeePlan   `json:"fee_plan"`
	// Revision increments on every builder mutation so observers can tell
	// stale snapshots apart.
	Revision int64 `json:"revision"`
}

// NewEventConfiguration returns a configuration with a single empty sector,
// mirroring what a producer sees when the editor opens.
func NewEventConfiguration(eventID uuid.UUID) *EventConfiguration {
	return &EventConfiguration{
		EventID: eventID,
		Sectors: []Sector{newSector(1)},
	}
}

func newSector(ordinal int) Sector {
	return Sector{
		ID:   uuid.New(),
		Name: fmt.Sprintf("Setor %d", ordinal),
		Contents: SectorContents{
			Mode: SectorModeFlat,
			Flat: []TicketType{{ID: uuid.New()}},
		},
	}
}

func (c *EventConfiguration) sector(id uuid.UUID) *Sector {
	for i := range c.Sectors {
		if c.Sectors[i].ID == id {
			return &c.Sectors[i]
		}
	}
	return nil
}

func (c *EventConfiguration) coupon(id uuid.UUID) *Coupon {
	for i := range c.Coupons {
		if c.Coupons[i].ID == id {
			return &c.Coupons[i]
		}
	}
	return nil
}

func (c *EventConfiguration) product(id uuid.UUID) *Product {
	for i := range c.Products {
		if c.Products[i].ID == id {
			return &c.Products[i]
		}
	}
	return nil
}

// TicketKeys enumerates every ticket type currently in the tree with its
// stable composite key, in display order.
func (c *EventConfiguration) TicketKeys() []TicketKey {
	var keys []TicketKey
	for i := range c.Sectors {
		s := &c.Sectors[i]
		switch s.Contents.Mode {
		case SectorModeFlat:
			for _, tt := range s.Contents.Flat {
				keys = append(keys, TicketKey{SectorID: s.ID, TicketTypeID: tt.ID})
			}
		case SectorModeBatched:
			for _, b := range s.Contents.Batches {
				for _, tt := range b.TicketTypes {
					keys = append(keys, TicketKey{SectorID: s.ID, BatchID: b.ID, TicketTypeID: tt.ID})
				}
			}
			for _, tt := range s.Contents.Unbatched {
				keys = append(keys, TicketKey{SectorID: s.ID, TicketTypeID: tt.ID})
			}
		}
	}
	return keys
}

// TicketByKey resolves a composite key against the live tree.
func (c *EventConfiguration) TicketByKey(key TicketKey) *TicketType {
	s := c.sector(key.SectorID)
	if s == nil {
		return nil
	}
	if key.BatchID != uuid.Nil {
		for i := range s.Contents.Batches {
			b := &s.Contents.Batches[i]
			if b.ID != key.BatchID {
				continue
			}
			for j := range b.TicketTypes {
				if b.TicketTypes[j].ID == key.TicketTypeID {
					return &b.TicketTypes[j]
				}
			}
		}
		return nil
	}
	for i := range s.Contents.Flat {
		if s.Contents.Flat[i].ID == key.TicketTypeID {
			return &s.Contents.Flat[i]
		}
	}
	for i := range s.Contents.Unbatched {
		if s.Contents.Unbatched[i].ID == key.TicketTypeID {
			return &s.Contents.Unbatched[i]
		}
	}
	return nil
}
