package eventconfig

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func timePtr(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return &parsed
}

// pistaConfig builds a one-sector configuration with a single priced ticket,
// the smallest tree most coupon tests need.
func pistaConfig(t *testing.T, price float64) (*EventConfiguration, *Builder, TicketKey) {
	t.Helper()
	cfg := NewEventConfiguration(uuid.New())
	b := NewBuilder(cfg)
	sectorID := cfg.Sectors[0].ID
	ticketID := cfg.Sectors[0].Contents.Flat[0].ID
	require.NoError(t, b.UpdateSector(sectorID, "Pista", nil))
	require.NoError(t, b.UpdateTicketType(sectorID, nil, ticketID, "Inteira", price, 100, false))
	return cfg, b, TicketKey{SectorID: sectorID, TicketTypeID: ticketID}
}
