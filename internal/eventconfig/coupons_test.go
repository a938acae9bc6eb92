package eventconfig

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCouponSeedsLivePrices(t *testing.T) {
	cfg, b, key := pistaConfig(t, 120)

	beer := b.AddProduct()
	require.NoError(t, b.UpdateProduct(beer.ID, "Chopp", "", 18, 500, "", CategoryDrink, ""))
	require.NoError(t, b.SetAcceptsCoupons(beer.ID, true))

	shirt := b.AddProduct()
	require.NoError(t, b.UpdateProduct(shirt.ID, "Camiseta", "", 80, 100, "M", CategoryApparel, ""))

	coupon, err := b.AddCoupon("promo10", nil)
	require.NoError(t, err)

	// Code is normalized to uppercase.
	assert.Equal(t, "PROMO10", coupon.Code)

	// A fresh coupon is price-neutral: overrides equal the live prices.
	assert.Equal(t, 120.0, coupon.TicketPrices[key])
	assert.Equal(t, 18.0, coupon.ProductPrices[beer.ID])

	// Only coupon-accepting products participate.
	_, hasShirt := coupon.ProductPrices[shirt.ID]
	assert.False(t, hasShirt)

	// The accepting product mirrors the coupon price.
	assert.Equal(t, 18.0, cfg.Products[0].CouponPrices[coupon.ID])
}

func TestAddCouponCopyFrom(t *testing.T) {
	_, b, key := pistaConfig(t, 100)

	src, err := b.AddCoupon("BASE", nil)
	require.NoError(t, err)
	srcID := src.ID
	require.NoError(t, b.SetTicketOverride(srcID, key, 75))

	copied, err := b.AddCoupon("COPIA", &srcID)
	require.NoError(t, err)
	assert.Equal(t, 75.0, copied.TicketPrices[key])

	// Deep copy: mutating the copy leaves the source untouched.
	require.NoError(t, b.SetTicketOverride(copied.ID, key, 50))
	assert.Equal(t, 75.0, b.Config().coupon(srcID).TicketPrices[key])
}

func TestAddCouponCopyFromMissing(t *testing.T) {
	_, b, _ := pistaConfig(t, 100)
	missing := uuid.New()

	_, err := b.AddCoupon("COPIA", &missing)
	assert.ErrorIs(t, err, ErrCouponNotFound)
}

func TestApplyPercentDiscountIsIdempotent(t *testing.T) {
	_, b, key := pistaConfig(t, 100)

	coupon, err := b.AddCoupon("PROMO", nil)
	require.NoError(t, err)

	require.NoError(t, b.ApplyPercentDiscount(coupon.ID, 10))
	assert.Equal(t, 90.0, coupon.TicketPrices[key])

	// Reapplying recomputes from the live price, it does not compound.
	require.NoError(t, b.ApplyPercentDiscount(coupon.ID, 10))
	assert.Equal(t, 90.0, coupon.TicketPrices[key])
}

func TestApplyPercentDiscountReadsLivePrices(t *testing.T) {
	cfg, b, key := pistaConfig(t, 100)

	coupon, err := b.AddCoupon("PROMO", nil)
	require.NoError(t, err)
	couponID := coupon.ID

	// Producer raises the ticket price after creating the coupon.
	require.NoError(t, b.UpdateTicketType(key.SectorID, nil, key.TicketTypeID, "Inteira", 200, 100, false))

	require.NoError(t, b.ApplyPercentDiscount(couponID, 25))
	assert.Equal(t, 150.0, cfg.coupon(couponID).TicketPrices[key])
}

func TestApplyPercentDiscountRounds(t *testing.T) {
	_, b, key := pistaConfig(t, 99.99)

	coupon, err := b.AddCoupon("PROMO", nil)
	require.NoError(t, err)

	require.NoError(t, b.ApplyPercentDiscount(coupon.ID, 33))
	assert.Equal(t, 66.99, coupon.TicketPrices[key])
}

func TestApplyPercentDiscountRejectsOutOfRange(t *testing.T) {
	_, b, _ := pistaConfig(t, 100)
	coupon, err := b.AddCoupon("PROMO", nil)
	require.NoError(t, err)

	assert.Error(t, b.ApplyPercentDiscount(coupon.ID, -1))
	assert.Error(t, b.ApplyPercentDiscount(coupon.ID, 101))
}

func TestSetTicketOverrideClampsAtZeroNoUpperBound(t *testing.T) {
	_, b, key := pistaConfig(t, 100)
	coupon, err := b.AddCoupon("PROMO", nil)
	require.NoError(t, err)

	require.NoError(t, b.SetTicketOverride(coupon.ID, key, -5))
	assert.Equal(t, 0.0, coupon.TicketPrices[key])

	// A coupon may price a ticket above its original price.
	require.NoError(t, b.SetTicketOverride(coupon.ID, key, 999))
	assert.Equal(t, 999.0, coupon.TicketPrices[key])
}

func TestSetTicketOverrideUnknownTicket(t *testing.T) {
	_, b, key := pistaConfig(t, 100)
	coupon, err := b.AddCoupon("PROMO", nil)
	require.NoError(t, err)

	bad := TicketKey{SectorID: key.SectorID, TicketTypeID: uuid.New()}
	assert.ErrorIs(t, b.SetTicketOverride(coupon.ID, bad, 50), ErrTicketTypeNotFound)
}

func TestSetProductOverrideRequiresAcceptingProduct(t *testing.T) {
	_, b, _ := pistaConfig(t, 100)
	coupon, err := b.AddCoupon("PROMO", nil)
	require.NoError(t, err)

	p := b.AddProduct()
	require.NoError(t, b.UpdateProduct(p.ID, "Copo", "", 10, 50, "", CategoryGift, ""))

	assert.Error(t, b.SetProductOverride(coupon.ID, p.ID, 5))

	require.NoError(t, b.SetAcceptsCoupons(p.ID, true))
	require.NoError(t, b.SetProductOverride(coupon.ID, p.ID, 5))
	assert.Equal(t, 5.0, coupon.ProductPrices[p.ID])
	assert.Equal(t, 5.0, b.Config().product(p.ID).CouponPrices[coupon.ID])
}

func TestRemoveCouponCleansProductMaps(t *testing.T) {
	cfg, b, _ := pistaConfig(t, 100)
	p := b.AddProduct()
	require.NoError(t, b.UpdateProduct(p.ID, "Chopp", "", 18, 500, "", CategoryDrink, ""))
	require.NoError(t, b.SetAcceptsCoupons(p.ID, true))

	coupon, err := b.AddCoupon("PROMO", nil)
	require.NoError(t, err)
	require.Contains(t, cfg.Products[0].CouponPrices, coupon.ID)

	require.NoError(t, b.RemoveCoupon(coupon.ID))
	assert.Empty(t, cfg.Coupons)
	assert.NotContains(t, cfg.Products[0].CouponPrices, coupon.ID)
}

func TestOverridesSurviveRename(t *testing.T) {
	cfg, b, key := pistaConfig(t, 100)
	coupon, err := b.AddCoupon("PROMO", nil)
	require.NoError(t, err)
	require.NoError(t, b.SetTicketOverride(coupon.ID, key, 60))

	// Renaming sector and ticket must not orphan the override.
	require.NoError(t, b.UpdateSector(key.SectorID, "Pista Premium", nil))
	require.NoError(t, b.UpdateTicketType(key.SectorID, nil, key.TicketTypeID, "Inteira VIP", 100, 100, false))

	assert.Equal(t, 60.0, cfg.coupon(coupon.ID).TicketPrices[key])
}

func TestOverridesFollowTicketAcrossToggle(t *testing.T) {
	cfg, b, key := pistaConfig(t, 100)
	coupon, err := b.AddCoupon("PROMO", nil)
	require.NoError(t, err)
	couponID := coupon.ID
	require.NoError(t, b.SetTicketOverride(couponID, key, 60))

	require.NoError(t, b.ToggleBatches(key.SectorID))

	s := cfg.sector(key.SectorID)
	require.Len(t, s.Contents.Batches, 1)
	newKey := TicketKey{
		SectorID:     key.SectorID,
		BatchID:      s.Contents.Batches[0].ID,
		TicketTypeID: key.TicketTypeID,
	}

	c := cfg.coupon(couponID)
	assert.Equal(t, 60.0, c.TicketPrices[newKey])
	assert.NotContains(t, c.TicketPrices, key)
}

func TestRemoveTicketTypePrunesOverrides(t *testing.T) {
	cfg, b, key := pistaConfig(t, 100)
	second, err := b.AddTicketType(key.SectorID, nil)
	require.NoError(t, err)
	require.NoError(t, b.UpdateTicketType(key.SectorID, nil, second.ID, "Meia", 50, 100, false))

	coupon, err := b.AddCoupon("PROMO", nil)
	require.NoError(t, err)
	couponID := coupon.ID
	secondKey := TicketKey{SectorID: key.SectorID, TicketTypeID: second.ID}
	require.Contains(t, coupon.TicketPrices, secondKey)

	require.NoError(t, b.RemoveTicketType(key.SectorID, nil, second.ID))

	c := cfg.coupon(couponID)
	assert.NotContains(t, c.TicketPrices, secondKey)
	assert.Contains(t, c.TicketPrices, key)
}

// An end-to-end walk: Pista sector, Inteira ticket, PROMO coupon with a 10%
// discount, then the sector switches to batches and the discount survives.
func TestCouponDiscountScenario(t *testing.T) {
	cfg, b, key := pistaConfig(t, 100)

	coupon, err := b.AddCoupon("PROMO", nil)
	require.NoError(t, err)
	couponID := coupon.ID
	require.NoError(t, b.ApplyPercentDiscount(couponID, 10))
	assert.Equal(t, 90.0, cfg.coupon(couponID).TicketPrices[key])

	require.NoError(t, b.ToggleBatches(key.SectorID))
	batchID := cfg.sector(key.SectorID).Contents.Batches[0].ID
	newKey := TicketKey{SectorID: key.SectorID, BatchID: batchID, TicketTypeID: key.TicketTypeID}
	assert.Equal(t, 90.0, cfg.coupon(couponID).TicketPrices[newKey])

	// Discounts keep working against the relocated ticket.
	require.NoError(t, b.ApplyPercentDiscount(couponID, 20))
	assert.Equal(t, 80.0, cfg.coupon(couponID).TicketPrices[newKey])
}
