package eventconfig

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CommandOp enumerates the builder mutations reachable from the draft API.
type CommandOp string

const (
	OpAddSector          CommandOp = "add_sector"
	OpRemoveSector       CommandOp = "remove_sector"
	OpUpdateSector       CommandOp = "update_sector"
	OpToggleBatches      CommandOp = "toggle_batches"
	OpAddBatch           CommandOp = "add_batch"
	OpRemoveBatch        CommandOp = "remove_batch"
	OpUpdateBatch        CommandOp = "update_batch"
	OpAddTicketType      CommandOp = "add_ticket_type"
	OpRemoveTicketType   CommandOp = "remove_ticket_type"
	OpUpdateTicketType   CommandOp = "update_ticket_type"
	OpAddCoupon          CommandOp = "add_coupon"
	OpRemoveCoupon       CommandOp = "remove_coupon"
	OpUpdateCoupon       CommandOp = "update_coupon"
	OpApplyDiscount      CommandOp = "apply_percent_discount"
	OpSetTicketOverride  CommandOp = "set_ticket_override"
	OpSetProductOverride CommandOp = "set_product_override"
	OpAddProduct         CommandOp = "add_product"
	OpRemoveProduct      CommandOp = "remove_product"
	OpUpdateProduct      CommandOp = "update_product"
	OpSetAcceptsCoupons  CommandOp = "set_accepts_coupons"
)

// Command is one edit step applied to a draft configuration. Only the fields
// relevant to the op are read.
type Command struct {
	Op CommandOp `json:"op" binding:"required"`

	SectorID     *uuid.UUID `json:"sector_id,omitempty"`
	BatchID      *uuid.UUID `json:"batch_id,omitempty"`
	TicketTypeID *uuid.UUID `json:"ticket_type_id,omitempty"`
	CouponID     *uuid.UUID `json:"coupon_id,omitempty"`
	ProductID    *uuid.UUID `json:"product_id,omitempty"`
	CopyFrom     *uuid.UUID `json:"copy_from,omitempty"`

	Name        string     `json:"name,omitempty"`
	Description string     `json:"description,omitempty"`
	Code        string     `json:"code,omitempty"`
	Price       float64    `json:"price,omitempty"`
	Percent     float64    `json:"percent,omitempty"`
	Quantity    int        `json:"quantity,omitempty"`
	Unlimited   bool       `json:"unlimited,omitempty"`
	Capacity    *int       `json:"capacity,omitempty"`
	MaxUses     *int       `json:"max_uses,omitempty"`
	Size        string     `json:"size,omitempty"`
	Category    string     `json:"category,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	Accepts     bool       `json:"accepts,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	TicketKey   string     `json:"ticket_key,omitempty"`
}

// Apply runs one command against the configuration through a Builder. The
// configuration is mutated in place; the bumped revision tells callers the
// state advanced.
func Apply(c *EventConfiguration, cmd Command) error {
	b := NewBuilder(c)

	requireSector := func() (uuid.UUID, error) {
		if cmd.SectorID == nil {
			return uuid.Nil, fmt.Errorf("%s requires sector_id", cmd.Op)
		}
		return *cmd.SectorID, nil
	}

	switch cmd.Op {
	case OpAddSector:
		b.AddSector()
		return nil
	case OpRemoveSector:
		id, err := requireSector()
		if err != nil {
			return err
		}
		return b.RemoveSector(id)
	case OpUpdateSector:
		id, err := requireSector()
		if err != nil {
			return err
		}
		return b.UpdateSector(id, cmd.Name, cmd.Capacity)
	case OpToggleBatches:
		id, err := requireSector()
		if err != nil {
			return err
		}
		return b.ToggleBatches(id)
	case OpAddBatch:
		id, err := requireSector()
		if err != nil {
			return err
		}
		_, err = b.AddBatch(id)
		return err
	case OpRemoveBatch:
		id, err := requireSector()
		if err != nil {
			return err
		}
		if cmd.BatchID == nil {
			return fmt.Errorf("%s requires batch_id", cmd.Op)
		}
		return b.RemoveBatch(id, *cmd.BatchID)
	case OpUpdateBatch:
		id, err := requireSector()
		if err != nil {
			return err
		}
		if cmd.BatchID == nil {
			return fmt.Errorf("%s requires batch_id", cmd.Op)
		}
		return b.UpdateBatch(id, *cmd.BatchID, cmd.Name, &TimeRange{Value: cmd.StartsAt}, &TimeRange{Value: cmd.EndsAt})
	case OpAddTicketType:
		id, err := requireSector()
		if err != nil {
			return err
		}
		_, err = b.AddTicketType(id, cmd.BatchID)
		return err
	case OpRemoveTicketType:
		id, err := requireSector()
		if err != nil {
			return err
		}
		if cmd.TicketTypeID == nil {
			return fmt.Errorf("%s requires ticket_type_id", cmd.Op)
		}
		return b.RemoveTicketType(id, cmd.BatchID, *cmd.TicketTypeID)
	case OpUpdateTicketType:
		id, err := requireSector()
		if err != nil {
			return err
		}
		if cmd.TicketTypeID == nil {
			return fmt.Errorf("%s requires ticket_type_id", cmd.Op)
		}
		return b.UpdateTicketType(id, cmd.BatchID, *cmd.TicketTypeID, cmd.Name, cmd.Price, cmd.Quantity, cmd.Unlimited)
	case OpAddCoupon:
		_, err := b.AddCoupon(cmd.Code, cmd.CopyFrom)
		return err
	case OpRemoveCoupon:
		if cmd.CouponID == nil {
			return fmt.Errorf("%s requires coupon_id", cmd.Op)
		}
		return b.RemoveCoupon(*cmd.CouponID)
	case OpUpdateCoupon:
		if cmd.CouponID == nil {
			return fmt.Errorf("%s requires coupon_id", cmd.Op)
		}
		return b.UpdateCoupon(*cmd.CouponID, cmd.Code, cmd.Description, cmd.MaxUses, cmd.StartsAt, cmd.EndsAt)
	case OpApplyDiscount:
		if cmd.CouponID == nil {
			return fmt.Errorf("%s requires coupon_id", cmd.Op)
		}
		return b.ApplyPercentDiscount(*cmd.CouponID, cmd.Percent)
	case OpSetTicketOverride:
		if cmd.CouponID == nil {
			return fmt.Errorf("%s requires coupon_id", cmd.Op)
		}
		var key TicketKey
		if err := key.UnmarshalText([]byte(cmd.TicketKey)); err != nil {
			return err
		}
		return b.SetTicketOverride(*cmd.CouponID, key, cmd.Price)
	case OpSetProductOverride:
		if cmd.CouponID == nil || cmd.ProductID == nil {
			return fmt.Errorf("%s requires coupon_id and product_id", cmd.Op)
		}
		return b.SetProductOverride(*cmd.CouponID, *cmd.ProductID, cmd.Price)
	case OpAddProduct:
		b.AddProduct()
		return nil
	case OpRemoveProduct:
		if cmd.ProductID == nil {
			return fmt.Errorf("%s requires product_id", cmd.Op)
		}
		return b.RemoveProduct(*cmd.ProductID)
	case OpUpdateProduct:
		if cmd.ProductID == nil {
			return fmt.Errorf("%s requires product_id", cmd.Op)
		}
		return b.UpdateProduct(*cmd.ProductID, cmd.Name, cmd.Description, cmd.Price, cmd.Quantity, cmd.Size, ProductCategory(cmd.Category), cmd.ImageURL)
	case OpSetAcceptsCoupons:
		if cmd.ProductID == nil {
			return fmt.Errorf("%s requires product_id", cmd.Op)
		}
		return b.SetAcceptsCoupons(*cmd.ProductID, cmd.Accepts)
	default:
		return fmt.Errorf("unknown command op %q", cmd.Op)
	}
}
