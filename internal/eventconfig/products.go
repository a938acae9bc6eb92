package eventconfig

import (
	"github.com/google/uuid"
)

// AddProduct appends a product with blank required fields and coupons
// disabled.
func (b *Builder) AddProduct() *Product {
	p := Product{
		ID:       uuid.New(),
		Category: CategoryOther,
	}
	b.config.Products = append(b.config.Products, p)
	b.notify()
	return &b.config.Products[len(b.config.Products)-1]
}

// RemoveProduct deletes a product and its entries in coupon price maps.
func (b *Builder) RemoveProduct(productID uuid.UUID) error {
	for i := range b.config.Products {
		if b.config.Products[i].ID != productID {
			continue
		}
		b.config.Products = append(b.config.Products[:i], b.config.Products[i+1:]...)
		for j := range b.config.Coupons {
			delete(b.config.Coupons[j].ProductPrices, productID)
		}
		b.notify()
		return nil
	}
	return ErrProductNotFound
}

// UpdateProduct edits the product's editable fields. Price is clamped at
// zero. The coupon flag is handled by SetAcceptsCoupons, which owns the
// seeding behavior.
func (b *Builder) UpdateProduct(productID uuid.UUID, name, description string, price float64, quantity int, size string, category ProductCategory, imageURL string) error {
	p := b.config.product(productID)
	if p == nil {
		return ErrProductNotFound
	}
	if price < 0 {
		price = 0
	}
	if !IsValidCategory(category) {
		category = CategoryOther
	}
	p.Name = name
	p.Description = description
	p.Price = price
	p.Quantity = quantity
	p.Size = size
	p.Category = category
	p.ImageURL = imageURL
	b.notify()
	return nil
}

// SetAcceptsCoupons toggles per-coupon pricing for a product. On the
// false-to-true transition the product's map and every coupon's product map
// are seeded with the product's current base price, so an un-edited entry is
// price-neutral. Entries a producer already edited are left alone, which
// keeps a disable/enable round trip lossless.
func (b *Builder) SetAcceptsCoupons(productID uuid.UUID, accepts bool) error {
	p := b.config.product(productID)
	if p == nil {
		return ErrProductNotFound
	}
	if accepts && !p.AcceptsCoupons {
		if p.CouponPrices == nil {
			p.CouponPrices = make(map[uuid.UUID]float64)
		}
		for i := range b.config.Coupons {
			c := &b.config.Coupons[i]
			if _, ok := p.CouponPrices[c.ID]; !ok {
				p.CouponPrices[c.ID] = round2(p.Price)
			}
			if c.ProductPrices == nil {
				c.ProductPrices = make(map[uuid.UUID]float64)
			}
			if _, ok := c.ProductPrices[p.ID]; !ok {
				c.ProductPrices[p.ID] = round2(p.Price)
			}
		}
	}
	p.AcceptsCoupons = accepts
	b.notify()
	return nil
}
