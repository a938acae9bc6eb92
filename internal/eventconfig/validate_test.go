package eventconfig

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) *EventConfiguration {
	t.Helper()
	cfg, _, _ := pistaConfig(t, 100)
	return cfg
}

func TestValidateAcceptsMinimalConfig(t *testing.T) {
	assert.NoError(t, validConfig(t).Validate())
}

func TestValidateRequiresSector(t *testing.T) {
	cfg := &EventConfiguration{EventID: uuid.New()}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one sector")
}

func TestValidateRequiresTicketName(t *testing.T) {
	cfg := validConfig(t)
	cfg.Sectors[0].Contents.Flat[0].Name = "  "

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ticket type name is required")
}

func TestValidateQuantityUnlessUnlimited(t *testing.T) {
	cfg := validConfig(t)
	cfg.Sectors[0].Contents.Flat[0].Quantity = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quantity must be positive")

	cfg.Sectors[0].Contents.Flat[0].Unlimited = true
	assert.NoError(t, cfg.Validate())
}

func TestValidateModeArmExclusivity(t *testing.T) {
	cfg := validConfig(t)
	cfg.Sectors[0].Contents.Batches = []Batch{{ID: uuid.New(), Name: "Lote 1"}}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flat sector must not carry batches")
}

func TestValidateBlankCouponCodeBlocksSubmission(t *testing.T) {
	cfg := validConfig(t)
	cfg.Coupons = append(cfg.Coupons, Coupon{ID: uuid.New(), Code: "   "})

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "coupon code is required")
}

func TestValidateDuplicateCouponCodes(t *testing.T) {
	cfg := validConfig(t)
	cfg.Coupons = append(cfg.Coupons,
		Coupon{ID: uuid.New(), Code: "PROMO"},
		Coupon{ID: uuid.New(), Code: "PROMO"},
	)

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate coupon code")
}

func TestValidateDuplicateCouponCodesIgnoreCase(t *testing.T) {
	cfg := validConfig(t)
	cfg.Coupons = append(cfg.Coupons,
		Coupon{ID: uuid.New(), Code: "promo"},
		Coupon{ID: uuid.New(), Code: "PROMO"},
	)

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate coupon code")
}

func TestValidateDuplicateTicketTypeID(t *testing.T) {
	cfg := validConfig(t)
	reused := cfg.Sectors[0].Contents.Flat[0].ID
	cfg.Sectors[0].Contents.Flat = append(cfg.Sectors[0].Contents.Flat,
		TicketType{ID: reused, Name: "Meia", Price: 50, Quantity: 100})

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ticket type id already used")
}

func TestValidateDuplicateSectorID(t *testing.T) {
	cfg := validConfig(t)
	clone := cfg.Sectors[0]
	clone.Name = "Camarote"
	cfg.Sectors = append(cfg.Sectors, clone)

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sector id already used")
}

func TestValidateCouponWindow(t *testing.T) {
	cfg := validConfig(t)
	starts := timePtr(t, "2026-10-02T00:00:00Z")
	ends := timePtr(t, "2026-10-01T00:00:00Z")
	cfg.Coupons = append(cfg.Coupons, Coupon{ID: uuid.New(), Code: "PROMO", StartsAt: starts, EndsAt: ends})

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ends before it starts")
}

func TestValidateProductRules(t *testing.T) {
	cfg := validConfig(t)
	cfg.Products = append(cfg.Products, Product{ID: uuid.New(), Name: "", Price: -1, Quantity: 0, Category: "cerveja"})

	err := cfg.Validate()
	require.Error(t, err)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 4)
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := validConfig(t)
	cfg.Sectors[0].Name = ""
	cfg.Sectors[0].Contents.Flat[0].Name = ""
	cfg.Coupons = append(cfg.Coupons, Coupon{ID: uuid.New(), Code: ""})

	err := cfg.Validate()
	require.Error(t, err)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.GreaterOrEqual(t, len(verrs), 3)
}
