package eventconfig

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ValidationError describes one submission-blocking problem.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the full set of problems found in one pass; submission
// reports all of them at once instead of stopping at the first.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Field + ": " + e.Message
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

// Validate checks the aggregate against the submission rules. It returns nil
// when the configuration can be persisted.
func (c *EventConfiguration) Validate() error {
	var errs ValidationErrors

	if len(c.Sectors) == 0 {
		errs = append(errs, ValidationError{Field: "sectors", Message: "at least one sector is required"})
	}

	// Every entity id becomes a primary key when flattened, so a repeated
	// id anywhere in the tree must be caught here, not as a raw constraint
	// violation during the save.
	dup := newDupChecker()

	totalTickets := 0
	for si := range c.Sectors {
		s := &c.Sectors[si]
		prefix := fmt.Sprintf("sectors[%d]", si)
		errs = append(errs, dup.check("sector", s.ID, prefix)...)
		if strings.TrimSpace(s.Name) == "" {
			errs = append(errs, ValidationError{Field: prefix + ".name", Message: "sector name is required"})
		}
		switch s.Contents.Mode {
		case SectorModeFlat:
			if len(s.Contents.Batches) > 0 || len(s.Contents.Unbatched) > 0 {
				errs = append(errs, ValidationError{Field: prefix, Message: "flat sector must not carry batches"})
			}
			for ti, tt := range s.Contents.Flat {
				tPrefix := fmt.Sprintf("%s.ticket_types[%d]", prefix, ti)
				errs = append(errs, dup.check("ticket type", tt.ID, tPrefix)...)
				errs = append(errs, validateTicketType(tPrefix, tt)...)
				totalTickets++
			}
		case SectorModeBatched:
			if len(s.Contents.Flat) > 0 {
				errs = append(errs, ValidationError{Field: prefix, Message: "batched sector must not carry a flat ticket list"})
			}
			for bi, batch := range s.Contents.Batches {
				bPrefix := fmt.Sprintf("%s.batches[%d]", prefix, bi)
				errs = append(errs, dup.check("batch", batch.ID, bPrefix)...)
				if batch.StartsAt != nil && batch.EndsAt != nil && batch.EndsAt.Before(*batch.StartsAt) {
					errs = append(errs, ValidationError{Field: bPrefix, Message: "batch window ends before it starts"})
				}
				for ti, tt := range batch.TicketTypes {
					tPrefix := fmt.Sprintf("%s.ticket_types[%d]", bPrefix, ti)
					errs = append(errs, dup.check("ticket type", tt.ID, tPrefix)...)
					errs = append(errs, validateTicketType(tPrefix, tt)...)
					totalTickets++
				}
			}
			for ti, tt := range s.Contents.Unbatched {
				tPrefix := fmt.Sprintf("%s.unbatched[%d]", prefix, ti)
				errs = append(errs, dup.check("ticket type", tt.ID, tPrefix)...)
				errs = append(errs, validateTicketType(tPrefix, tt)...)
				totalTickets++
			}
		default:
			errs = append(errs, ValidationError{Field: prefix, Message: fmt.Sprintf("unknown sector mode %q", s.Contents.Mode)})
		}
	}
	if len(c.Sectors) > 0 && totalTickets == 0 {
		errs = append(errs, ValidationError{Field: "sectors", Message: "at least one ticket type is required"})
	}

	seenCodes := make(map[string]bool)
	for ci, coupon := range c.Coupons {
		prefix := fmt.Sprintf("coupons[%d]", ci)
		errs = append(errs, dup.check("coupon", coupon.ID, prefix)...)
		// Codes live uppercase; compare case-insensitively so a payload
		// carrying "promo" and "PROMO" cannot sneak in two rows under the
		// (event_id, code) unique index.
		code := strings.ToUpper(strings.TrimSpace(coupon.Code))
		if code == "" {
			errs = append(errs, ValidationError{Field: prefix + ".code", Message: "coupon code is required"})
			continue
		}
		if seenCodes[code] {
			errs = append(errs, ValidationError{Field: prefix + ".code", Message: fmt.Sprintf("duplicate coupon code %q", code)})
		}
		seenCodes[code] = true
		if coupon.MaxUses != nil && *coupon.MaxUses <= 0 {
			errs = append(errs, ValidationError{Field: prefix + ".max_uses", Message: "usage cap must be positive"})
		}
		if coupon.StartsAt != nil && coupon.EndsAt != nil && coupon.EndsAt.Before(*coupon.StartsAt) {
			errs = append(errs, ValidationError{Field: prefix, Message: "coupon window ends before it starts"})
		}
	}

	for pi, p := range c.Products {
		prefix := fmt.Sprintf("products[%d]", pi)
		errs = append(errs, dup.check("product", p.ID, prefix)...)
		if strings.TrimSpace(p.Name) == "" {
			errs = append(errs, ValidationError{Field: prefix + ".name", Message: "product name is required"})
		}
		if p.Price < 0 {
			errs = append(errs, ValidationError{Field: prefix + ".price", Message: "product price must not be negative"})
		}
		if p.Quantity <= 0 {
			errs = append(errs, ValidationError{Field: prefix + ".quantity", Message: "product quantity must be positive"})
		}
		if !IsValidCategory(p.Category) {
			errs = append(errs, ValidationError{Field: prefix + ".category", Message: fmt.Sprintf("unknown category %q", p.Category)})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// dupChecker tracks entity ids per kind across the whole tree.
type dupChecker struct {
	seen map[string]map[uuid.UUID]string
}

func newDupChecker() *dupChecker {
	return &dupChecker{seen: make(map[string]map[uuid.UUID]string)}
}

func (d *dupChecker) check(kind string, id uuid.UUID, field string) ValidationErrors {
	if id == uuid.Nil {
		return nil
	}
	byID := d.seen[kind]
	if byID == nil {
		byID = make(map[uuid.UUID]string)
		d.seen[kind] = byID
	}
	if prev, ok := byID[id]; ok {
		return ValidationErrors{{Field: field + ".id", Message: fmt.Sprintf("%s id already used by %s", kind, prev)}}
	}
	byID[id] = field
	return nil
}

func validateTicketType(prefix string, tt TicketType) ValidationErrors {
	var errs ValidationErrors
	if strings.TrimSpace(tt.Name) == "" {
		errs = append(errs, ValidationError{Field: prefix + ".name", Message: "ticket type name is required"})
	}
	if tt.Price < 0 {
		errs = append(errs, ValidationError{Field: prefix + ".price", Message: "ticket price must not be negative"})
	}
	if !tt.Unlimited && tt.Quantity <= 0 {
		errs = append(errs, ValidationError{Field: prefix + ".quantity", Message: "ticket quantity must be positive unless unlimited"})
	}
	return errs
}
