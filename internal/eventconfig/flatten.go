package eventconfig

import (
	"sort"

	"github.com/google/uuid"
)

// Flatten decomposes the nested configuration into the normalized rows the
// persistence layer expects. In-memory ids double as row ids, so join rows
// can be emitted in the same pass. Join rows are only emitted for non-zero
// override prices.
func Flatten(c *EventConfiguration, ownerID uuid.UUID) *RowSet {
	rows := &RowSet{}

	ticketPos := 0
	for si := range c.Sectors {
		s := &c.Sectors[si]
		rows.Sectors = append(rows.Sectors, SectorRow{
			ID:       s.ID,
			EventID:  c.EventID,
			Name:     s.Name,
			Capacity: s.Capacity,
			Batched:  s.Contents.Mode == SectorModeBatched,
			Position: si,
		})

		emit := func(tt TicketType, batchID *uuid.UUID) {
			rows.Tickets = append(rows.Tickets, TicketRow{
				ID:         tt.ID,
				EventID:    c.EventID,
				SectorID:   s.ID,
				SectorName: s.Name,
				BatchID:    batchID,
				Name:       tt.Name,
				Price:      round2(tt.Price),
				Quantity:   tt.Quantity,
				Unlimited:  tt.Unlimited,
				Position:   ticketPos,
				CreatedBy:  ownerID,
			})
			ticketPos++
		}

		switch s.Contents.Mode {
		case SectorModeFlat:
			for _, tt := range s.Contents.Flat {
				emit(tt, nil)
			}
		case SectorModeBatched:
			for bi := range s.Contents.Batches {
				b := &s.Contents.Batches[bi]
				rows.Batches = append(rows.Batches, BatchRow{
					ID:       b.ID,
					EventID:  c.EventID,
					SectorID: s.ID,
					Name:     b.Name,
					StartsAt: b.StartsAt,
					EndsAt:   b.EndsAt,
					Position: bi,
				})
				batchID := b.ID
				for _, tt := range b.TicketTypes {
					emit(tt, &batchID)
				}
			}
			for _, tt := range s.Contents.Unbatched {
				emit(tt, nil)
			}
		}
	}

	for ci := range c.Coupons {
		coupon := &c.Coupons[ci]
		rows.Coupons = append(rows.Coupons, CouponRow{
			ID:          coupon.ID,
			EventID:     c.EventID,
			Code:        coupon.Code,
			Description: coupon.Description,
			MaxUses:     coupon.MaxUses,
			StartsAt:    coupon.StartsAt,
			EndsAt:      coupon.EndsAt,
			Position:    ci,
			CreatedBy:   ownerID,
		})
		for _, key := range sortedTicketKeys(coupon.TicketPrices) {
			price := coupon.TicketPrices[key]
			if price == 0 {
				continue
			}
			rows.TicketPrices = append(rows.TicketPrices, CouponTicketPriceRow{
				ID:       uuid.New(),
				CouponID: coupon.ID,
				TicketID: key.TicketTypeID,
				Price:    price,
			})
		}
		for _, productID := range sortedProductKeys(coupon.ProductPrices) {
			price := coupon.ProductPrices[productID]
			if price == 0 {
				continue
			}
			rows.ProductPrices = append(rows.ProductPrices, CouponProductPriceRow{
				ID:        uuid.New(),
				CouponID:  coupon.ID,
				ProductID: productID,
				Price:     price,
			})
		}
	}

	for pi := range c.Products {
		p := &c.Products[pi]
		rows.Products = append(rows.Products, ProductRow{
			ID:             p.ID,
			EventID:        c.EventID,
			Name:           p.Name,
			Description:    p.Description,
			Price:          round2(p.Price),
			Quantity:       p.Quantity,
			Size:           p.Size,
			Category:       string(p.Category),
			ImageURL:       p.ImageURL,
			AcceptsCoupons: p.AcceptsCoupons,
			Position:       pi,
			CreatedBy:      ownerID,
		})
	}

	return rows
}

// Unflatten regroups persisted rows back into the nested configuration.
// Ticket rows group by sector; sectors holding any batch become batched, and
// their null-batch ticket rows land in the unbatched list rather than being
// rejected (a partial migration can legally leave both shapes in place).
func Unflatten(eventID uuid.UUID, rows *RowSet) (*EventConfiguration, error) {
	c := &EventConfiguration{EventID: eventID}

	batchesBySector := make(map[uuid.UUID][]BatchRow)
	for _, br := range rows.Batches {
		batchesBySector[br.SectorID] = append(batchesBySector[br.SectorID], br)
	}

	ticketsBySector := make(map[uuid.UUID][]TicketRow)
	for _, tr := range rows.Tickets {
		ticketsBySector[tr.SectorID] = append(ticketsBySector[tr.SectorID], tr)
	}

	sectorRows := append([]SectorRow(nil), rows.Sectors...)
	sort.SliceStable(sectorRows, func(i, j int) bool { return sectorRows[i].Position < sectorRows[j].Position })

	// keyByTicket lets coupon join rows recover their composite key.
	keyByTicket := make(map[uuid.UUID]TicketKey)

	for _, sr := range sectorRows {
		sector := Sector{ID: sr.ID, Name: sr.Name, Capacity: sr.Capacity}

		batchRows := batchesBySector[sr.ID]
		sort.SliceStable(batchRows, func(i, j int) bool { return batchRows[i].Position < batchRows[j].Position })

		ticketRows := ticketsBySector[sr.ID]
		sort.SliceStable(ticketRows, func(i, j int) bool { return ticketRows[i].Position < ticketRows[j].Position })

		if sr.Batched || len(batchRows) > 0 {
			sector.Contents.Mode = SectorModeBatched
			byBatch := make(map[uuid.UUID][]TicketType)
			for _, tr := range ticketRows {
				tt := rowToTicketType(tr)
				if tr.BatchID != nil {
					byBatch[*tr.BatchID] = append(byBatch[*tr.BatchID], tt)
					keyByTicket[tt.ID] = TicketKey{SectorID: sr.ID, BatchID: *tr.BatchID, TicketTypeID: tt.ID}
				} else {
					sector.Contents.Unbatched = append(sector.Contents.Unbatched, tt)
					keyByTicket[tt.ID] = TicketKey{SectorID: sr.ID, TicketTypeID: tt.ID}
				}
			}
			for _, br := range batchRows {
				sector.Contents.Batches = append(sector.Contents.Batches, Batch{
					ID:          br.ID,
					Name:        br.Name,
					StartsAt:    br.StartsAt,
					EndsAt:      br.EndsAt,
					TicketTypes: byBatch[br.ID],
				})
			}
		} else {
			sector.Contents.Mode = SectorModeFlat
			for _, tr := range ticketRows {
				tt := rowToTicketType(tr)
				sector.Contents.Flat = append(sector.Contents.Flat, tt)
				keyByTicket[tt.ID] = TicketKey{SectorID: sr.ID, TicketTypeID: tt.ID}
			}
		}

		c.Sectors = append(c.Sectors, sector)
	}

	couponRows := append([]CouponRow(nil), rows.Coupons...)
	sort.SliceStable(couponRows, func(i, j int) bool { return couponRows[i].Position < couponRows[j].Position })

	couponIdx := make(map[uuid.UUID]int)
	for _, cr := range couponRows {
		coupon := Coupon{
			ID:            cr.ID,
			Code:          cr.Code,
			Description:   cr.Description,
			MaxUses:       cr.MaxUses,
			StartsAt:      cr.StartsAt,
			EndsAt:        cr.EndsAt,
			TicketPrices:  make(map[TicketKey]float64),
			ProductPrices: make(map[uuid.UUID]float64),
		}
		couponIdx[cr.ID] = len(c.Coupons)
		c.Coupons = append(c.Coupons, coupon)
	}

	for _, jr := range rows.TicketPrices {
		idx, ok := couponIdx[jr.CouponID]
		if !ok {
			continue
		}
		key, ok := keyByTicket[jr.TicketID]
		if !ok {
			// Orphan join row, ticket was deleted out of band.
			continue
		}
		c.Coupons[idx].TicketPrices[key] = jr.Price
	}

	productRows := append([]ProductRow(nil), rows.Products...)
	sort.SliceStable(productRows, func(i, j int) bool { return productRows[i].Position < productRows[j].Position })

	productIdx := make(map[uuid.UUID]int)
	for _, pr := range productRows {
		p := Product{
			ID:             pr.ID,
			Name:           pr.Name,
			Description:    pr.Description,
			Price:          pr.Price,
			Quantity:       pr.Quantity,
			Size:           pr.Size,
			Category:       ProductCategory(pr.Category),
			ImageURL:       pr.ImageURL,
			AcceptsCoupons: pr.AcceptsCoupons,
		}
		if p.AcceptsCoupons {
			p.CouponPrices = make(map[uuid.UUID]float64)
		}
		productIdx[pr.ID] = len(c.Products)
		c.Products = append(c.Products, p)
	}

	for _, jr := range rows.ProductPrices {
		ci, okC := couponIdx[jr.CouponID]
		pi, okP := productIdx[jr.ProductID]
		if !okC || !okP {
			continue
		}
		c.Coupons[ci].ProductPrices[jr.ProductID] = jr.Price
		p := &c.Products[pi]
		if p.CouponPrices == nil {
			p.CouponPrices = make(map[uuid.UUID]float64)
		}
		p.CouponPrices[jr.CouponID] = jr.Price
	}

	return c, nil
}

func rowToTicketType(tr TicketRow) TicketType {
	return TicketType{
		ID:        tr.ID,
		Name:      tr.Name,
		Price:     tr.Price,
		Quantity:  tr.Quantity,
		Unlimited: tr.Unlimited,
	}
}

func sortedTicketKeys(m map[TicketKey]float64) []TicketKey {
	keys := make([]TicketKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

func sortedProductKeys(m map[uuid.UUID]float64) []uuid.UUID {
	keys := make([]uuid.UUID, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}
