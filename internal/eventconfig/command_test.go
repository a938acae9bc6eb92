package eventconfig

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyAddSector(t *testing.T) {
	cfg := NewEventConfiguration(uuid.New())

	require.NoError(t, Apply(cfg, Command{Op: OpAddSector}))
	assert.Len(t, cfg.Sectors, 2)
	assert.Equal(t, int64(1), cfg.Revision)
}

func TestApplyUpdateTicketType(t *testing.T) {
	cfg := NewEventConfiguration(uuid.New())
	sectorID := cfg.Sectors[0].ID
	ticketID := cfg.Sectors[0].Contents.Flat[0].ID

	cmd := Command{
		Op:           OpUpdateTicketType,
		SectorID:     &sectorID,
		TicketTypeID: &ticketID,
		Name:         "Inteira",
		Price:        120,
		Quantity:     500,
	}
	require.NoError(t, Apply(cfg, cmd))
	assert.Equal(t, "Inteira", cfg.Sectors[0].Contents.Flat[0].Name)
	assert.Equal(t, 120.0, cfg.Sectors[0].Contents.Flat[0].Price)
}

func TestApplySetTicketOverrideParsesKey(t *testing.T) {
	cfg, b, key := pistaConfig(t, 100)
	coupon, err := b.AddCoupon("PROMO", nil)
	require.NoError(t, err)
	couponID := coupon.ID

	text, err := key.MarshalText()
	require.NoError(t, err)

	cmd := Command{
		Op:        OpSetTicketOverride,
		CouponID:  &couponID,
		TicketKey: string(text),
		Price:     60,
	}
	require.NoError(t, Apply(cfg, cmd))
	assert.Equal(t, 60.0, cfg.coupon(couponID).TicketPrices[key])
}

func TestApplyMissingRequiredIDs(t *testing.T) {
	cfg := NewEventConfiguration(uuid.New())

	assert.Error(t, Apply(cfg, Command{Op: OpRemoveSector}))
	assert.Error(t, Apply(cfg, Command{Op: OpUpdateTicketType, SectorID: &cfg.Sectors[0].ID}))
	assert.Error(t, Apply(cfg, Command{Op: OpApplyDiscount}))
}

func TestApplyUnknownOp(t *testing.T) {
	cfg := NewEventConfiguration(uuid.New())
	err := Apply(cfg, Command{Op: "explode"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command op")
}

func TestApplyBuilderErrorsPropagate(t *testing.T) {
	cfg := NewEventConfiguration(uuid.New())
	sectorID := cfg.Sectors[0].ID

	err := Apply(cfg, Command{Op: OpRemoveSector, SectorID: &sectorID})
	assert.ErrorIs(t, err, ErrLastSector)
}
