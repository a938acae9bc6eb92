package eventconfig

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSectorNotFound     = errors.New("sector not found")
	ErrBatchNotFound      = errors.New("batch not found")
	ErrTicketTypeNotFound = errors.New("ticket type not found")
	ErrCouponNotFound     = errors.New("coupon not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrLastSector         = errors.New("cannot remove the last sector")
	ErrLastBatch          = errors.New("cannot remove the last batch")
	ErrLastTicketType     = errors.New("cannot remove the last ticket type")
)

// Builder mutates a caller-owned EventConfiguration. Every mutation bumps the
// aggregate revision and pushes the full sector list to the registered
// observer, so the parent aggregate always sees the latest tree without
// polling.
type Builder struct {
	config   *EventConfiguration
	onChange func([]Sector)
}

func NewBuilder(config *EventConfiguration) *Builder {
	return &Builder{config: config}
}

// Config returns the aggregate owned by the caller.
func (b *Builder) Config() *EventConfiguration {
	return b.config
}

// OnSectorsChanged registers the push-notification boundary. The callback
// receives the full sector list after every mutation.
func (b *Builder) OnSectorsChanged(fn func([]Sector)) {
	b.onChange = fn
}

func (b *Builder) notify() {
	b.config.Revision++
	if b.onChange != nil {
		b.onChange(b.config.Sectors)
	}
}

// AddSector appends a sector pre-populated with one empty ticket type.
func (b *Builder) AddSector() *Sector {
	s := newSector(len(b.config.Sectors) + 1)
	b.config.Sectors = append(b.config.Sectors, s)
	b.notify()
	return &b.config.Sectors[len(b.config.Sectors)-1]
}

// RemoveSector deletes a sector. Removing the last remaining sector is
// refused so the configuration never degenerates to zero sectors.
func (b *Builder) RemoveSector(sectorID uuid.UUID) error {
	if len(b.config.Sectors) <= 1 {
		return ErrLastSector
	}
	for i := range b.config.Sectors {
		if b.config.Sectors[i].ID != sectorID {
			continue
		}
		b.config.Sectors = append(b.config.Sectors[:i], b.config.Sectors[i+1:]...)
		b.pruneCouponOverrides()
		b.notify()
		return nil
	}
	return ErrSectorNotFound
}

// UpdateSector sets the display name and optional capacity. Coupon override
// keys are id-based, so a rename never orphans existing overrides.
func (b *Builder) UpdateSector(sectorID uuid.UUID, name string, capacity *int) error {
	s := b.config.sector(sectorID)
	if s == nil {
		return ErrSectorNotFound
	}
	s.Name = name
	s.Capacity = capacity
	b.notify()
	return nil
}

// ToggleBatches switches a sector between flat and batched inventory.
// Already-entered ticket types are preserved: flat types are wrapped into a
// first batch, and batched types are concatenated back into a flat list in
// batch order (unbatched leftovers last).
func (b *Builder) ToggleBatches(sectorID uuid.UUID) error {
	s := b.config.sector(sectorID)
	if s == nil {
		return ErrSectorNotFound
	}
	switch s.Contents.Mode {
	case SectorModeFlat:
		s.Contents = SectorContents{
			Mode: SectorModeBatched,
			Batches: []Batch{{
				ID:          uuid.New(),
				Name:        "Lote 1",
				TicketTypes: s.Contents.Flat,
			}},
		}
	case SectorModeBatched:
		var flat []TicketType
		for _, batch := range s.Contents.Batches {
			flat = append(flat, batch.TicketTypes...)
		}
		flat = append(flat, s.Contents.Unbatched...)
		if len(flat) == 0 {
			flat = []TicketType{{ID: uuid.New()}}
		}
		s.Contents = SectorContents{Mode: SectorModeFlat, Flat: flat}
	}
	b.rekeyCouponOverrides()
	b.notify()
	return nil
}

// AddBatch appends an empty-named batch with one empty ticket type to a
// batched sector.
func (b *Builder) AddBatch(sectorID uuid.UUID) (*Batch, error) {
	s := b.config.sector(sectorID)
	if s == nil {
		return nil, ErrSectorNotFound
	}
	if s.Contents.Mode != SectorModeBatched {
		return nil, fmt.Errorf("sector %s does not use batches", s.Name)
	}
	batch := Batch{
		ID:          uuid.New(),
		Name:        fmt.Sprintf("Lote %d", len(s.Contents.Batches)+1),
		TicketTypes: []TicketType{{ID: uuid.New()}},
	}
	s.Contents.Batches = append(s.Contents.Batches, batch)
	b.notify()
	return &s.Contents.Batches[len(s.Contents.Batches)-1], nil
}

// RemoveBatch deletes a batch; the last batch of a batched sector stays.
func (b *Builder) RemoveBatch(sectorID, batchID uuid.UUID) error {
	s := b.config.sector(sectorID)
	if s == nil {
		return ErrSectorNotFound
	}
	if len(s.Contents.Batches) <= 1 {
		return ErrLastBatch
	}
	for i := range s.Contents.Batches {
		if s.Contents.Batches[i].ID != batchID {
			continue
		}
		s.Contents.Batches = append(s.Contents.Batches[:i], s.Contents.Batches[i+1:]...)
		b.pruneCouponOverrides()
		b.notify()
		return nil
	}
	return ErrBatchNotFound
}

// UpdateBatch sets the batch display name and validity window.
func (b *Builder) UpdateBatch(sectorID, batchID uuid.UUID, name string, startsAt, endsAt *TimeRange) error {
	batch, err := b.findBatch(sectorID, batchID)
	if err != nil {
		return err
	}
	batch.Name = name
	if startsAt != nil {
		batch.StartsAt = startsAt.Value
	}
	if endsAt != nil {
		batch.EndsAt = endsAt.Value
	}
	b.notify()
	return nil
}

// AddTicketType appends an empty ticket type to the targeted container:
// the sector's flat list, or the given batch when batchID is non-nil.
func (b *Builder) AddTicketType(sectorID uuid.UUID, batchID *uuid.UUID) (*TicketType, error) {
	s := b.config.sector(sectorID)
	if s == nil {
		return nil, ErrSectorNotFound
	}
	tt := TicketType{ID: uuid.New()}
	if batchID != nil {
		batch, err := b.findBatch(sectorID, *batchID)
		if err != nil {
			return nil, err
		}
		batch.TicketTypes = append(batch.TicketTypes, tt)
		b.notify()
		return &batch.TicketTypes[len(batch.TicketTypes)-1], nil
	}
	if s.Contents.Mode != SectorModeFlat {
		return nil, fmt.Errorf("sector %s uses batches; a batch id is required", s.Name)
	}
	s.Contents.Flat = append(s.Contents.Flat, tt)
	b.notify()
	return &s.Contents.Flat[len(s.Contents.Flat)-1], nil
}

// RemoveTicketType deletes a ticket type; the last ticket type of its
// container is kept.
func (b *Builder) RemoveTicketType(sectorID uuid.UUID, batchID *uuid.UUID, typeID uuid.UUID) error {
	s := b.config.sector(sectorID)
	if s == nil {
		return ErrSectorNotFound
	}
	var container *[]TicketType
	if batchID != nil {
		batch, err := b.findBatch(sectorID, *batchID)
		if err != nil {
			return err
		}
		container = &batch.TicketTypes
	} else {
		container = &s.Contents.Flat
	}
	if len(*container) <= 1 {
		return ErrLastTicketType
	}
	for i := range *container {
		if (*container)[i].ID != typeID {
			continue
		}
		*container = append((*container)[:i], (*container)[i+1:]...)
		b.pruneCouponOverrides()
		b.notify()
		return nil
	}
	return ErrTicketTypeNotFound
}

// UpdateTicketType edits name, price and quantity in place. Price is clamped
// at zero.
func (b *Builder) UpdateTicketType(sectorID uuid.UUID, batchID *uuid.UUID, typeID uuid.UUID, name string, price float64, quantity int, unlimited bool) error {
	s := b.config.sector(sectorID)
	if s == nil {
		return ErrSectorNotFound
	}
	var tt *TicketType
	if batchID != nil {
		batch, err := b.findBatch(sectorID, *batchID)
		if err != nil {
			return err
		}
		for i := range batch.TicketTypes {
			if batch.TicketTypes[i].ID == typeID {
				tt = &batch.TicketTypes[i]
				break
			}
		}
	} else {
		for i := range s.Contents.Flat {
			if s.Contents.Flat[i].ID == typeID {
				tt = &s.Contents.Flat[i]
				break
			}
		}
	}
	if tt == nil {
		return ErrTicketTypeNotFound
	}
	if price < 0 {
		price = 0
	}
	tt.Name = name
	tt.Price = price
	tt.Quantity = quantity
	tt.Unlimited = unlimited
	b.notify()
	return nil
}

func (b *Builder) findBatch(sectorID, batchID uuid.UUID) (*Batch, error) {
	s := b.config.sector(sectorID)
	if s == nil {
		return nil, ErrSectorNotFound
	}
	for i := range s.Contents.Batches {
		if s.Contents.Batches[i].ID == batchID {
			return &s.Contents.Batches[i], nil
		}
	}
	return nil, ErrBatchNotFound
}

// TimeRange wraps an optional timestamp so callers can distinguish "leave
// unchanged" (nil TimeRange) from "clear" (nil Value).
type TimeRange struct {
	Value *time.Time
}
