package eventconfig

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEventConfiguration(t *testing.T) {
	eventID := uuid.New()
	cfg := NewEventConfiguration(eventID)

	assert.Equal(t, eventID, cfg.EventID)
	require.Len(t, cfg.Sectors, 1)
	assert.Equal(t, "Setor 1", cfg.Sectors[0].Name)
	assert.Equal(t, SectorModeFlat, cfg.Sectors[0].Contents.Mode)
	require.Len(t, cfg.Sectors[0].Contents.Flat, 1)
	assert.Empty(t, cfg.Sectors[0].Contents.Flat[0].Name)
}

func TestAddSectorNumbersSequentially(t *testing.T) {
	b := NewBuilder(NewEventConfiguration(uuid.New()))

	second := b.AddSector()
	third := b.AddSector()

	assert.Equal(t, "Setor 2", second.Name)
	assert.Equal(t, "Setor 3", third.Name)
	require.Len(t, second.Contents.Flat, 1)
}

func TestRemoveSectorKeepsLast(t *testing.T) {
	cfg := NewEventConfiguration(uuid.New())
	b := NewBuilder(cfg)

	err := b.RemoveSector(cfg.Sectors[0].ID)
	assert.ErrorIs(t, err, ErrLastSector)

	second := b.AddSector()
	require.NoError(t, b.RemoveSector(second.ID))
	assert.Len(t, cfg.Sectors, 1)
}

func TestRemoveSectorUnknownID(t *testing.T) {
	b := NewBuilder(NewEventConfiguration(uuid.New()))
	b.AddSector()

	err := b.RemoveSector(uuid.New())
	assert.ErrorIs(t, err, ErrSectorNotFound)
}

func TestToggleBatchesWrapsFlatTickets(t *testing.T) {
	cfg := NewEventConfiguration(uuid.New())
	b := NewBuilder(cfg)
	sectorID := cfg.Sectors[0].ID
	ticketID := cfg.Sectors[0].Contents.Flat[0].ID
	require.NoError(t, b.UpdateTicketType(sectorID, nil, ticketID, "Inteira", 100, 50, false))

	require.NoError(t, b.ToggleBatches(sectorID))

	s := cfg.Sectors[0]
	assert.Equal(t, SectorModeBatched, s.Contents.Mode)
	assert.Empty(t, s.Contents.Flat)
	require.Len(t, s.Contents.Batches, 1)
	assert.Equal(t, "Lote 1", s.Contents.Batches[0].Name)
	require.Len(t, s.Contents.Batches[0].TicketTypes, 1)
	assert.Equal(t, ticketID, s.Contents.Batches[0].TicketTypes[0].ID)
	assert.Equal(t, 100.0, s.Contents.Batches[0].TicketTypes[0].Price)
}

func TestToggleBatchesBackConcatenates(t *testing.T) {
	cfg := NewEventConfiguration(uuid.New())
	b := NewBuilder(cfg)
	sectorID := cfg.Sectors[0].ID
	first := cfg.Sectors[0].Contents.Flat[0].ID

	require.NoError(t, b.ToggleBatches(sectorID))
	batch2, err := b.AddBatch(sectorID)
	require.NoError(t, err)
	secondTicket := batch2.TicketTypes[0].ID

	require.NoError(t, b.ToggleBatches(sectorID))

	s := cfg.Sectors[0]
	assert.Equal(t, SectorModeFlat, s.Contents.Mode)
	assert.Empty(t, s.Contents.Batches)
	require.Len(t, s.Contents.Flat, 2)
	// Batch order is preserved.
	assert.Equal(t, first, s.Contents.Flat[0].ID)
	assert.Equal(t, secondTicket, s.Contents.Flat[1].ID)
}

func TestToggleBatchesBackIncludesUnbatched(t *testing.T) {
	cfg := NewEventConfiguration(uuid.New())
	b := NewBuilder(cfg)
	sectorID := cfg.Sectors[0].ID
	require.NoError(t, b.ToggleBatches(sectorID))

	leftover := TicketType{ID: uuid.New(), Name: "Legado", Price: 40, Quantity: 10}
	cfg.Sectors[0].Contents.Unbatched = append(cfg.Sectors[0].Contents.Unbatched, leftover)

	require.NoError(t, b.ToggleBatches(sectorID))

	s := cfg.Sectors[0]
	require.Len(t, s.Contents.Flat, 2)
	assert.Equal(t, leftover.ID, s.Contents.Flat[1].ID)
}

func TestAddBatchNamesSequentially(t *testing.T) {
	cfg := NewEventConfiguration(uuid.New())
	b := NewBuilder(cfg)
	sectorID := cfg.Sectors[0].ID
	require.NoError(t, b.ToggleBatches(sectorID))

	batch, err := b.AddBatch(sectorID)
	require.NoError(t, err)
	assert.Equal(t, "Lote 2", batch.Name)
	require.Len(t, batch.TicketTypes, 1)
}

func TestAddBatchOnFlatSector(t *testing.T) {
	cfg := NewEventConfiguration(uuid.New())
	b := NewBuilder(cfg)

	_, err := b.AddBatch(cfg.Sectors[0].ID)
	assert.Error(t, err)
}

func TestRemoveBatchKeepsLast(t *testing.T) {
	cfg := NewEventConfiguration(uuid.New())
	b := NewBuilder(cfg)
	sectorID := cfg.Sectors[0].ID
	require.NoError(t, b.ToggleBatches(sectorID))
	firstBatch := cfg.Sectors[0].Contents.Batches[0].ID

	err := b.RemoveBatch(sectorID, firstBatch)
	assert.ErrorIs(t, err, ErrLastBatch)

	second, err := b.AddBatch(sectorID)
	require.NoError(t, err)
	require.NoError(t, b.RemoveBatch(sectorID, second.ID))
	assert.Len(t, cfg.Sectors[0].Contents.Batches, 1)
}

func TestRemoveTicketTypeKeepsLast(t *testing.T) {
	cfg := NewEventConfiguration(uuid.New())
	b := NewBuilder(cfg)
	sectorID := cfg.Sectors[0].ID
	first := cfg.Sectors[0].Contents.Flat[0].ID

	err := b.RemoveTicketType(sectorID, nil, first)
	assert.ErrorIs(t, err, ErrLastTicketType)

	second, err := b.AddTicketType(sectorID, nil)
	require.NoError(t, err)
	require.NoError(t, b.RemoveTicketType(sectorID, nil, second.ID))
	assert.Len(t, cfg.Sectors[0].Contents.Flat, 1)
}

func TestRemoveTicketTypeKeepsLastInBatch(t *testing.T) {
	cfg := NewEventConfiguration(uuid.New())
	b := NewBuilder(cfg)
	sectorID := cfg.Sectors[0].ID
	require.NoError(t, b.ToggleBatches(sectorID))
	batchID := cfg.Sectors[0].Contents.Batches[0].ID
	only := cfg.Sectors[0].Contents.Batches[0].TicketTypes[0].ID

	err := b.RemoveTicketType(sectorID, &batchID, only)
	assert.ErrorIs(t, err, ErrLastTicketType)
}

func TestUpdateTicketTypeClampsNegativePrice(t *testing.T) {
	cfg := NewEventConfiguration(uuid.New())
	b := NewBuilder(cfg)
	sectorID := cfg.Sectors[0].ID
	ticketID := cfg.Sectors[0].Contents.Flat[0].ID

	require.NoError(t, b.UpdateTicketType(sectorID, nil, ticketID, "Inteira", -10, 100, false))
	assert.Equal(t, 0.0, cfg.Sectors[0].Contents.Flat[0].Price)
}

func TestBuilderNotifiesOnEveryMutation(t *testing.T) {
	cfg := NewEventConfiguration(uuid.New())
	b := NewBuilder(cfg)

	var calls int
	var lastSectors []Sector
	b.OnSectorsChanged(func(sectors []Sector) {
		calls++
		lastSectors = sectors
	})

	b.AddSector()
	require.NoError(t, b.UpdateSector(cfg.Sectors[0].ID, "Pista", nil))

	assert.Equal(t, 2, calls)
	assert.Len(t, lastSectors, 2)
	assert.Equal(t, int64(2), cfg.Revision)
}

func TestUpdateBatchWindow(t *testing.T) {
	cfg := NewEventConfiguration(uuid.New())
	b := NewBuilder(cfg)
	sectorID := cfg.Sectors[0].ID
	require.NoError(t, b.ToggleBatches(sectorID))
	batchID := cfg.Sectors[0].Contents.Batches[0].ID

	starts := timePtr(t, "2026-10-01T00:00:00Z")
	require.NoError(t, b.UpdateBatch(sectorID, batchID, "Pré-venda", &TimeRange{Value: starts}, nil))

	batch := cfg.Sectors[0].Contents.Batches[0]
	assert.Equal(t, "Pré-venda", batch.Name)
	require.NotNil(t, batch.StartsAt)
	assert.True(t, batch.StartsAt.Equal(*starts))
	assert.Nil(t, batch.EndsAt)

	// nil TimeRange leaves the window untouched, nil Value clears it.
	require.NoError(t, b.UpdateBatch(sectorID, batchID, "Pré-venda", nil, nil))
	assert.NotNil(t, cfg.Sectors[0].Contents.Batches[0].StartsAt)

	require.NoError(t, b.UpdateBatch(sectorID, batchID, "Pré-venda", &TimeRange{}, nil))
	assert.Nil(t, cfg.Sectors[0].Contents.Batches[0].StartsAt)
}
