package eventconfig

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submitPayload() SubmitConfigurationRequest {
	return SubmitConfigurationRequest{
		Sectors: []SectorRequest{{
			Name: "Pista",
			TicketTypes: []TicketTypeRequest{
				{Name: "Inteira", Price: 120, Quantity: 500},
			},
		}},
		FeePlan: FeePlanRequest{Name: "padrao", BuyerFeePercent: 10},
	}
}

func TestToDomainNormalizesCouponCodes(t *testing.T) {
	req := submitPayload()
	req.Coupons = []CouponRequest{{Code: "  promo10 "}}

	cfg := req.ToDomain(uuid.New())
	require.Len(t, cfg.Coupons, 1)
	assert.Equal(t, "PROMO10", cfg.Coupons[0].Code)
}

func TestToDomainCouponCodesCollideIgnoringCase(t *testing.T) {
	req := submitPayload()
	req.Coupons = []CouponRequest{{Code: "promo"}, {Code: "PROMO"}}

	cfg := req.ToDomain(uuid.New())
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate coupon code")
}

func TestToDomainGeneratesMissingIDs(t *testing.T) {
	req := submitPayload()

	cfg := req.ToDomain(uuid.New())
	require.Len(t, cfg.Sectors, 1)
	assert.NotEqual(t, uuid.Nil, cfg.Sectors[0].ID)
	require.Len(t, cfg.Sectors[0].Contents.Flat, 1)
	assert.NotEqual(t, uuid.Nil, cfg.Sectors[0].Contents.Flat[0].ID)
}

func TestToDomainDropsUnresolvableOverrideKeys(t *testing.T) {
	req := submitPayload()
	req.Coupons = []CouponRequest{{
		Code: "PROMO",
		TicketPrices: map[string]float64{
			"not-a-key": 10,
			uuid.NewString() + "::" + uuid.NewString(): 20,
		},
	}}

	cfg := req.ToDomain(uuid.New())
	require.Len(t, cfg.Coupons, 1)
	assert.Empty(t, cfg.Coupons[0].TicketPrices)
}
