package eventconfig

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// round2 keeps prices at two decimal places, the precision persisted rows use.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// AddCoupon creates a coupon whose override map is seeded so the coupon is
// price-neutral until edited: every existing ticket type maps to its current
// price, and every coupon-accepting product maps to its base price. When
// copyFrom is given the maps are deep-copied from that coupon instead.
func (b *Builder) AddCoupon(code string, copyFrom *uuid.UUID) (*Coupon, error) {
	c := Coupon{
		ID:            uuid.New(),
		Code:          strings.ToUpper(strings.TrimSpace(code)),
		TicketPrices:  make(map[TicketKey]float64),
		ProductPrices: make(map[uuid.UUID]float64),
	}

	if copyFrom != nil {
		src := b.config.coupon(*copyFrom)
		if src == nil {
			return nil, ErrCouponNotFound
		}
		for k, v := range src.TicketPrices {
			c.TicketPrices[k] = v
		}
		for k, v := range src.ProductPrices {
			c.ProductPrices[k] = v
		}
	} else {
		for _, key := range b.config.TicketKeys() {
			if tt := b.config.TicketByKey(key); tt != nil {
				c.TicketPrices[key] = round2(tt.Price)
			}
		}
		for _, p := range b.config.Products {
			if p.AcceptsCoupons {
				c.ProductPrices[p.ID] = round2(p.Price)
			}
		}
	}

	b.config.Coupons = append(b.config.Coupons, c)

	// Accepting products also track prices per coupon; seed the new coupon
	// into each of them with the product's base price.
	for i := range b.config.Products {
		p := &b.config.Products[i]
		if !p.AcceptsCoupons {
			continue
		}
		if p.CouponPrices == nil {
			p.CouponPrices = make(map[uuid.UUID]float64)
		}
		if _, ok := p.CouponPrices[c.ID]; !ok {
			p.CouponPrices[c.ID] = round2(p.Price)
		}
	}

	b.notify()
	return &b.config.Coupons[len(b.config.Coupons)-1], nil
}

// RemoveCoupon deletes a coupon and its entries in product price maps.
func (b *Builder) RemoveCoupon(couponID uuid.UUID) error {
	for i := range b.config.Coupons {
		if b.config.Coupons[i].ID != couponID {
			continue
		}
		b.config.Coupons = append(b.config.Coupons[:i], b.config.Coupons[i+1:]...)
		for j := range b.config.Products {
			delete(b.config.Products[j].CouponPrices, couponID)
		}
		b.notify()
		return nil
	}
	return ErrCouponNotFound
}

// UpdateCoupon edits code, description, usage cap and validity window.
func (b *Builder) UpdateCoupon(couponID uuid.UUID, code, description string, maxUses *int, startsAt, endsAt *time.Time) error {
	c := b.config.coupon(couponID)
	if c == nil {
		return ErrCouponNotFound
	}
	c.Code = strings.ToUpper(strings.TrimSpace(code))
	c.Description = description
	c.MaxUses = maxUses
	c.StartsAt = startsAt
	c.EndsAt = endsAt
	b.notify()
	return nil
}

// ApplyPercentDiscount recomputes every override as
// round2(livePrice * (1 - percent/100)). It reads from the live ticket and
// product prices, not from the coupon's previous overrides, so repeated
// application is idempotent rather than cumulative. Entries whose ticket no
// longer exists are dropped.
func (b *Builder) ApplyPercentDiscount(couponID uuid.UUID, percent float64) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("discount percent must be between 0 and 100, got %.2f", percent)
	}
	c := b.config.coupon(couponID)
	if c == nil {
		return ErrCouponNotFound
	}
	factor := 1 - percent/100

	prices := make(map[TicketKey]float64, len(c.TicketPrices))
	for key := range c.TicketPrices {
		if tt := b.config.TicketByKey(key); tt != nil {
			prices[key] = round2(tt.Price * factor)
		}
	}
	c.TicketPrices = prices

	for productID := range c.ProductPrices {
		p := b.config.product(productID)
		if p == nil {
			delete(c.ProductPrices, productID)
			continue
		}
		c.ProductPrices[productID] = round2(p.Price * factor)
	}

	b.notify()
	return nil
}

// SetTicketOverride manually edits one override. The price is clamped at
// zero; there is deliberately no upper bound, a coupon may price a ticket
// above its original price.
func (b *Builder) SetTicketOverride(couponID uuid.UUID, key TicketKey, price float64) error {
	c := b.config.coupon(couponID)
	if c == nil {
		return ErrCouponNotFound
	}
	if b.config.TicketByKey(key) == nil {
		return ErrTicketTypeNotFound
	}
	if price < 0 {
		price = 0
	}
	if c.TicketPrices == nil {
		c.TicketPrices = make(map[TicketKey]float64)
	}
	c.TicketPrices[key] = round2(price)
	b.notify()
	return nil
}

// SetProductOverride manually edits one product override, clamped at zero.
func (b *Builder) SetProductOverride(couponID, productID uuid.UUID, price float64) error {
	c := b.config.coupon(couponID)
	if c == nil {
		return ErrCouponNotFound
	}
	p := b.config.product(productID)
	if p == nil {
		return ErrProductNotFound
	}
	if !p.AcceptsCoupons {
		return fmt.Errorf("product %s does not accept coupons", p.Name)
	}
	if price < 0 {
		price = 0
	}
	if c.ProductPrices == nil {
		c.ProductPrices = make(map[uuid.UUID]float64)
	}
	c.ProductPrices[productID] = round2(price)
	if p.CouponPrices == nil {
		p.CouponPrices = make(map[uuid.UUID]float64)
	}
	p.CouponPrices[couponID] = round2(price)
	b.notify()
	return nil
}

// pruneCouponOverrides drops override entries whose ticket type left the
// tree (sector, batch or ticket removal).
func (b *Builder) pruneCouponOverrides() {
	live := make(map[TicketKey]bool)
	for _, key := range b.config.TicketKeys() {
		live[key] = true
	}
	for i := range b.config.Coupons {
		c := &b.config.Coupons[i]
		for key := range c.TicketPrices {
			if !live[key] {
				delete(c.TicketPrices, key)
			}
		}
	}
}

// rekeyCouponOverrides rebuilds override keys after a mode toggle moved
// ticket types between containers. Prices follow the ticket type id, which
// is stable across the toggle; entries for vanished ticket types are
// dropped.
func (b *Builder) rekeyCouponOverrides() {
	liveByType := make(map[uuid.UUID]TicketKey)
	for _, key := range b.config.TicketKeys() {
		liveByType[key.TicketTypeID] = key
	}
	for i := range b.config.Coupons {
		c := &b.config.Coupons[i]
		rekeyed := make(map[TicketKey]float64, len(c.TicketPrices))
		for key, price := range c.TicketPrices {
			if newKey, ok := liveByType[key.TicketTypeID]; ok {
				rekeyed[newKey] = price
			}
		}
		c.TicketPrices = rekeyed
	}
}
