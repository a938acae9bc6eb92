package eventconfig

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddProductDefaults(t *testing.T) {
	_, b, _ := pistaConfig(t, 100)

	p := b.AddProduct()
	assert.Equal(t, CategoryOther, p.Category)
	assert.False(t, p.AcceptsCoupons)
	assert.Nil(t, p.CouponPrices)
}

func TestUpdateProductClampsAndValidatesCategory(t *testing.T) {
	cfg, b, _ := pistaConfig(t, 100)
	p := b.AddProduct()

	require.NoError(t, b.UpdateProduct(p.ID, "Chopp", "500ml", -2, 100, "", ProductCategory("beverage"), ""))

	got := cfg.product(p.ID)
	assert.Equal(t, 0.0, got.Price)
	// Unknown categories fall back to other.
	assert.Equal(t, CategoryOther, got.Category)
}

func TestUpdateProductUnknownID(t *testing.T) {
	_, b, _ := pistaConfig(t, 100)
	err := b.UpdateProduct(uuid.New(), "Chopp", "", 10, 1, "", CategoryDrink, "")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestSetAcceptsCouponsSeedsBothMaps(t *testing.T) {
	cfg, b, _ := pistaConfig(t, 100)

	coupon, err := b.AddCoupon("PROMO", nil)
	require.NoError(t, err)
	couponID := coupon.ID

	p := b.AddProduct()
	require.NoError(t, b.UpdateProduct(p.ID, "Chopp", "", 18, 500, "", CategoryDrink, ""))
	require.NoError(t, b.SetAcceptsCoupons(p.ID, true))

	got := cfg.product(p.ID)
	assert.True(t, got.AcceptsCoupons)
	assert.Equal(t, 18.0, got.CouponPrices[couponID])
	assert.Equal(t, 18.0, cfg.coupon(couponID).ProductPrices[p.ID])
}

func TestSetAcceptsCouponsKeepsEditedEntries(t *testing.T) {
	cfg, b, _ := pistaConfig(t, 100)

	coupon, err := b.AddCoupon("PROMO", nil)
	require.NoError(t, err)
	couponID := coupon.ID

	p := b.AddProduct()
	require.NoError(t, b.UpdateProduct(p.ID, "Chopp", "", 18, 500, "", CategoryDrink, ""))
	require.NoError(t, b.SetAcceptsCoupons(p.ID, true))
	require.NoError(t, b.SetProductOverride(couponID, p.ID, 12))

	// Disable and re-enable: the edited price survives the round trip.
	require.NoError(t, b.SetAcceptsCoupons(p.ID, false))
	require.NoError(t, b.SetAcceptsCoupons(p.ID, true))

	assert.Equal(t, 12.0, cfg.product(p.ID).CouponPrices[couponID])
}

func TestRemoveProductCleansCouponMaps(t *testing.T) {
	cfg, b, _ := pistaConfig(t, 100)

	p := b.AddProduct()
	require.NoError(t, b.UpdateProduct(p.ID, "Chopp", "", 18, 500, "", CategoryDrink, ""))
	require.NoError(t, b.SetAcceptsCoupons(p.ID, true))
	productID := p.ID

	coupon, err := b.AddCoupon("PROMO", nil)
	require.NoError(t, err)
	require.Contains(t, coupon.ProductPrices, productID)

	require.NoError(t, b.RemoveProduct(productID))
	assert.Empty(t, cfg.Products)
	assert.NotContains(t, cfg.coupon(coupon.ID).ProductPrices, productID)
}
