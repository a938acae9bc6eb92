package eventconfig

// ConfigurationResponse wraps the nested configuration with a few derived
// counts the producer console displays.
type ConfigurationResponse struct {
	Configuration *EventConfiguration `json:"configuration"`
	SectorCount   int                 `json:"sector_count"`
	TicketCount   int                 `json:"ticket_count"`
	CouponCount   int                 `json:"coupon_count"`
	ProductCount  int                 `json:"product_count"`
}

func NewConfigurationResponse(cfg *EventConfiguration) *ConfigurationResponse {
	ticketCount := 0
	for i := range cfg.Sectors {
		ticketCount += len(cfg.Sectors[i].TicketTypes())
	}
	return &ConfigurationResponse{
		Configuration: cfg,
		SectorCount:   len(cfg.Sectors),
		TicketCount:   ticketCount,
		CouponCount:   len(cfg.Coupons),
		ProductCount:  len(cfg.Products),
	}
}
