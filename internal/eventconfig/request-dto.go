package eventconfig

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Submit payloads mirror the nested configuration. Ids are optional: a
// payload coming from a loaded configuration or a draft carries them, a
// hand-built payload may omit them and the server generates fresh ones.
// Coupon override keys that do not resolve against the submitted tree are
// dropped during conversion.

type TicketTypeRequest struct {
	ID        *uuid.UUID `json:"id"`
	Name      string     `json:"name" binding:"required,max=255"`
	Price     float64    `json:"price" binding:"min=0"`
	Quantity  int        `json:"quantity" binding:"min=0"`
	Unlimited bool       `json:"unlimited"`
}

type BatchRequest struct {
	ID          *uuid.UUID          `json:"id"`
	Name        string              `json:"name" binding:"required,max=255"`
	StartsAt    *time.Time          `json:"starts_at"`
	EndsAt      *time.Time          `json:"ends_at"`
	TicketTypes []TicketTypeRequest `json:"ticket_types" binding:"required,min=1,dive"`
}

type SectorRequest struct {
	ID          *uuid.UUID          `json:"id"`
	Name        string              `json:"name" binding:"required,max=255"`
	Capacity    *int                `json:"capacity" binding:"omitempty,min=1"`
	Mode        string              `json:"mode" binding:"omitempty,oneof=flat batched"`
	TicketTypes []TicketTypeRequest `json:"ticket_types" binding:"omitempty,dive"`
	Batches     []BatchRequest      `json:"batches" binding:"omitempty,dive"`
}

type CouponRequest struct {
	ID            *uuid.UUID         `json:"id"`
	Code          string             `json:"code" binding:"required,max=64"`
	Description   string             `json:"description" binding:"max=2000"`
	MaxUses       *int               `json:"max_uses" binding:"omitempty,min=1"`
	StartsAt      *time.Time         `json:"starts_at"`
	EndsAt        *time.Time         `json:"ends_at"`
	TicketPrices  map[string]float64 `json:"ticket_prices"`
	ProductPrices map[string]float64 `json:"product_prices"`
}

type ProductRequest struct {
	ID             *uuid.UUID         `json:"id"`
	Name           string             `json:"name" binding:"required,max=255"`
	Description    string             `json:"description" binding:"max=2000"`
	Price          float64            `json:"price" binding:"min=0"`
	Quantity       int                `json:"quantity" binding:"required,min=1"`
	Size           string             `json:"size" binding:"max=50"`
	Category       string             `json:"category" binding:"omitempty,oneof=drink food apparel gift other"`
	ImageURL       string             `json:"image_url" binding:"omitempty,url"`
	AcceptsCoupons bool               `json:"accepts_coupons"`
	CouponPrices   map[string]float64 `json:"coupon_prices"`
}

type FeePlanRequest struct {
	Name            string  `json:"name" binding:"required,max=100"`
	BuyerFeePercent float64 `json:"buyer_fee_percent" binding:"min=0,max=100"`
	ProducerAbsorbs float64 `json:"producer_absorbs_percent" binding:"min=0,max=100"`
}

type SubmitConfigurationRequest struct {
	Sectors  []SectorRequest  `json:"sectors" binding:"required,min=1,dive"`
	Coupons  []CouponRequest  `json:"coupons" binding:"omitempty,dive"`
	Products []ProductRequest `json:"products" binding:"omitempty,dive"`
	FeePlan  FeePlanRequest   `json:"fee_plan" binding:"required"`
}

// ToDomain converts the payload into the aggregate, generating ids where the
// payload omits them.
func (r *SubmitConfigurationRequest) ToDomain(eventID uuid.UUID) *EventConfiguration {
	cfg := &EventConfiguration{
		EventID: eventID,
		FeePlan: FeePlan{
			Name:            r.FeePlan.Name,
			BuyerFeePercent: r.FeePlan.BuyerFeePercent,
			ProducerAbsorbs: r.FeePlan.ProducerAbsorbs,
		},
	}

	for _, sr := range r.Sectors {
		sector := Sector{
			ID:       orNewID(sr.ID),
			Name:     sr.Name,
			Capacity: sr.Capacity,
		}
		mode := SectorMode(sr.Mode)
		if mode == "" {
			if len(sr.Batches) > 0 {
				mode = SectorModeBatched
			} else {
				mode = SectorModeFlat
			}
		}
		sector.Contents.Mode = mode
		switch mode {
		case SectorModeFlat:
			for _, tr := range sr.TicketTypes {
				sector.Contents.Flat = append(sector.Contents.Flat, tr.toDomain())
			}
		case SectorModeBatched:
			for _, br := range sr.Batches {
				batch := Batch{
					ID:       orNewID(br.ID),
					Name:     br.Name,
					StartsAt: br.StartsAt,
					EndsAt:   br.EndsAt,
				}
				for _, tr := range br.TicketTypes {
					batch.TicketTypes = append(batch.TicketTypes, tr.toDomain())
				}
				sector.Contents.Batches = append(sector.Contents.Batches, batch)
			}
			// Ticket types sent alongside batches are unbatched leftovers.
			for _, tr := range sr.TicketTypes {
				sector.Contents.Unbatched = append(sector.Contents.Unbatched, tr.toDomain())
			}
		}
		cfg.Sectors = append(cfg.Sectors, sector)
	}

	for _, pr := range r.Products {
		p := Product{
			ID:             orNewID(pr.ID),
			Name:           pr.Name,
			Description:    pr.Description,
			Price:          pr.Price,
			Quantity:       pr.Quantity,
			Size:           pr.Size,
			Category:       ProductCategory(pr.Category),
			ImageURL:       pr.ImageURL,
			AcceptsCoupons: pr.AcceptsCoupons,
		}
		if p.Category == "" {
			p.Category = CategoryOther
		}
		cfg.Products = append(cfg.Products, p)
	}

	for _, cr := range r.Coupons {
		coupon := Coupon{
			ID:            orNewID(cr.ID),
			Code:          strings.ToUpper(strings.TrimSpace(cr.Code)),
			Description:   cr.Description,
			MaxUses:       cr.MaxUses,
			StartsAt:      cr.StartsAt,
			EndsAt:        cr.EndsAt,
			TicketPrices:  make(map[TicketKey]float64),
			ProductPrices: make(map[uuid.UUID]float64),
		}
		for raw, price := range cr.TicketPrices {
			var key TicketKey
			if err := key.UnmarshalText([]byte(raw)); err != nil {
				continue
			}
			if cfg.TicketByKey(key) == nil {
				continue
			}
			coupon.TicketPrices[key] = round2(price)
		}
		for raw, price := range cr.ProductPrices {
			productID, err := uuid.Parse(raw)
			if err != nil || cfg.product(productID) == nil {
				continue
			}
			coupon.ProductPrices[productID] = round2(price)
		}
		cfg.Coupons = append(cfg.Coupons, coupon)
	}

	// Mirror coupon product overrides into the accepting products.
	for i := range cfg.Products {
		p := &cfg.Products[i]
		if !p.AcceptsCoupons {
			continue
		}
		p.CouponPrices = make(map[uuid.UUID]float64)
		for ci := range cfg.Coupons {
			if price, ok := cfg.Coupons[ci].ProductPrices[p.ID]; ok {
				p.CouponPrices[cfg.Coupons[ci].ID] = price
			}
		}
	}

	return cfg
}

func (r TicketTypeRequest) toDomain() TicketType {
	return TicketType{
		ID:        orNewID(r.ID),
		Name:      r.Name,
		Price:     r.Price,
		Quantity:  r.Quantity,
		Unlimited: r.Unlimited,
	}
}

func orNewID(id *uuid.UUID) uuid.UUID {
	if id != nil && *id != uuid.Nil {
		return *id
	}
	return uuid.New()
}
