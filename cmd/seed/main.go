package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"ingresso/internal/eventconfig"
	"ingresso/internal/events"
	"ingresso/internal/favorites"
	"ingresso/internal/shared/config"
	"ingresso/internal/shared/database"
	"ingresso/internal/users"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Ingresso Database Seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	// Clean database
	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	// Seed data
	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"coupon_ticket_prices",
		"coupon_product_prices",
		"event_products",
		"event_coupons",
		"event_tickets",
		"event_batches",
		"event_sectors",
		"favorites",
		"events",
		"users",
	}

	for _, table := range tables {
		if err := s.db.PostgreSQL.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			// Table may not exist on a fresh database
			log.Printf("Warning: could not truncate %s: %v", table, err)
		}
	}
	return nil
}

func (s *Seeder) SeedAll() error {
	producer, buyer, err := s.seedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	fmt.Println("  👤 Users seeded")

	event, err := s.seedEvent(producer.ID)
	if err != nil {
		return fmt.Errorf("failed to seed events: %w", err)
	}
	fmt.Println("  🎫 Events seeded")

	if err := s.seedConfiguration(event.ID, producer.ID); err != nil {
		return fmt.Errorf("failed to seed configuration: %w", err)
	}
	fmt.Println("  🏟️  Ticket configuration seeded")

	if err := s.seedFavorites(buyer.ID, event.ID); err != nil {
		return fmt.Errorf("failed to seed favorites: %w", err)
	}
	fmt.Println("  ⭐ Favorites seeded")

	return nil
}

func (s *Seeder) seedUsers() (*users.User, *users.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	producer := &users.User{
		FirstName: "Paula",
		LastName:  "Moreira",
		Email:     "producer@ingresso.dev",
		Password:  string(hash),
		Role:      users.RoleProducer,
	}
	buyer := &users.User{
		FirstName: "Bruno",
		LastName:  "Silva",
		Email:     "buyer@ingresso.dev",
		Password:  string(hash),
		Role:      users.RoleBuyer,
	}
	admin := &users.User{
		FirstName: "Ana",
		LastName:  "Costa",
		Email:     "admin@ingresso.dev",
		Password:  string(hash),
		Role:      users.RoleAdmin,
	}

	for _, u := range []*users.User{producer, buyer, admin} {
		if err := s.db.PostgreSQL.Create(u).Error; err != nil {
			return nil, nil, err
		}
	}
	return producer, buyer, nil
}

func (s *Seeder) seedEvent(producerID uuid.UUID) (*events.Event, error) {
	event := &events.Event{
		Name:        "Festival de Verão",
		Description: "Three stages, two nights, open air.",
		Venue:       "Parque Villa-Lobos",
		City:        "São Paulo",
		DateTime:    time.Now().AddDate(0, 2, 0),
		Status:      events.StatusDraft,
		CreatedBy:   producerID,
	}
	if err := s.db.PostgreSQL.Create(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

// seedConfiguration assembles a full ticket configuration through the
// builder, the same code path the draft API uses.
func (s *Seeder) seedConfiguration(eventID, producerID uuid.UUID) error {
	b := eventconfig.NewBuilder(eventconfig.NewEventConfiguration(eventID))
	cfg := b.Config()

	// Sector 1: Pista, batched with two price tiers.
	pista := &cfg.Sectors[0]
	pistaID := pista.ID
	if err := b.UpdateSector(pistaID, "Pista", nil); err != nil {
		return err
	}
	firstTicket := pista.Contents.Flat[0].ID
	if err := b.UpdateTicketType(pistaID, nil, firstTicket, "Inteira", 120.0, 500, false); err != nil {
		return err
	}
	half, err := b.AddTicketType(pistaID, nil)
	if err != nil {
		return err
	}
	if err := b.UpdateTicketType(pistaID, nil, half.ID, "Meia", 60.0, 200, false); err != nil {
		return err
	}
	if err := b.ToggleBatches(pistaID); err != nil {
		return err
	}
	second, err := b.AddBatch(pistaID)
	if err != nil {
		return err
	}
	late, err := b.AddTicketType(pistaID, &second.ID)
	if err != nil {
		return err
	}
	if err := b.UpdateTicketType(pistaID, &second.ID, late.ID, "Inteira 2º lote", 150.0, 300, false); err != nil {
		return err
	}

	// Sector 2: Camarote, flat pricing, unlimited entry.
	camarote := b.AddSector()
	if err := b.UpdateSector(camarote.ID, "Camarote", nil); err != nil {
		return err
	}
	vip := camarote.Contents.Flat[0].ID
	if err := b.UpdateTicketType(camarote.ID, nil, vip, "VIP", 350.0, 0, true); err != nil {
		return err
	}

	// Bar products, coupons apply to the beer but not the shirt.
	beer := b.AddProduct()
	if err := b.UpdateProduct(beer.ID, "Chopp artesanal", "500ml", 18.0, 1000, "", eventconfig.CategoryDrink, ""); err != nil {
		return err
	}
	if err := b.SetAcceptsCoupons(beer.ID, true); err != nil {
		return err
	}
	shirt := b.AddProduct()
	if err := b.UpdateProduct(shirt.ID, "Camiseta oficial", "", 80.0, 300, "M", eventconfig.CategoryApparel, ""); err != nil {
		return err
	}

	// Promo coupon: 10% off everything.
	promo, err := b.AddCoupon("PROMO10", nil)
	if err != nil {
		return err
	}
	if err := b.ApplyPercentDiscount(promo.ID, 10); err != nil {
		return err
	}

	if verrs := cfg.Validate(); verrs != nil {
		return fmt.Errorf("seed configuration is invalid: %v", verrs)
	}

	repo := eventconfig.NewRepository(s.db.GetPostgreSQL())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := repo.SaveRows(ctx, eventID, eventconfig.Flatten(cfg, producerID)); err != nil {
		return err
	}

	// Mirror what the service does on first submission.
	return s.db.PostgreSQL.Model(&events.Event{}).
		Where("id = ?", eventID).
		Updates(map[string]interface{}{"configured": true, "status": events.StatusPublished}).Error
}

func (s *Seeder) seedFavorites(buyerID, eventID uuid.UUID) error {
	return s.db.PostgreSQL.Create(&favorites.Favorite{
		UserID:  buyerID,
		EventID: eventID,
	}).Error
}
