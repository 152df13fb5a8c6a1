package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"techrent/internal/config"
	"techrent/internal/database"
	"techrent/internal/domain/auth"
	"techrent/internal/domain/booking"
	"techrent/internal/domain/catalog"
	"techrent/internal/domain/employee"
	"techrent/internal/domain/rental"
	"techrent/internal/server"
)

type seedItem struct {
	category  string
	kind      string
	model     string
	rateCents int64
	available bool
}

var categories = []catalog.Category{
	{Name: "Cameras", Description: "Mirrorless and cinema bodies"},
	{Name: "Lenses", Description: "Primes and zooms for every mount we stock"},
	{Name: "Audio", Description: "Recorders, lavaliers and shotgun mics"},
	{Name: "Lighting", Description: "LED panels, COB lights and modifiers"},
	{Name: "Drones", Description: "Aerial platforms with spare batteries"},
}

var items = []seedItem{
	{"Cameras", "Camera", "Sony A7 III", 4999, true},
	{"Cameras", "Camera", "Canon EOS R6", 5999, true},
	{"Cameras", "Cinema camera", "Blackmagic Pocket 6K", 8999, true},
	{"Lenses", "Lens", "Sony FE 24-70mm f/2.8 GM", 3499, true},
	{"Lenses", "Lens", "Canon RF 50mm f/1.2L", 2999, true},
	{"Audio", "Recorder", "Zoom H6", 1999, true},
	{"Audio", "Microphone", "Rode NTG5", 1799, false},
	{"Lighting", "LED panel", "Aputure Amaran 200x", 2499, true},
	{"Drones", "Drone", "DJI Mavic 3", 9999, true},
}

var staff = []employee.Employee{
	{Name: "Dana Kim", Title: "Rental manager", Email: "dana@techrent.example"},
	{Name: "Marat Sadykov", Title: "Equipment technician"},
	{Name: "Lena Ivanova", Title: "Customer support"},
}

func main() {
	reset := flag.Bool("reset", true, "delete existing rows first")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	db, err := database.Connect(cfg.DatabaseURL, zap.NewNop())
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	if err := database.Migrate(ctx, db, server.Models()...); err != nil {
		log.Fatal("migrate failed:", err)
	}

	if *reset {
		log.Println("Cleaning old data...")
		for _, table := range []string{"booking_status_events", "bookings", "equipment", "categories", "employees", "user_roles", "users"} {
			if err := db.Exec("DELETE FROM " + table).Error; err != nil {
				log.Fatalf("clean %s: %v", table, err)
			}
		}
	}

	users := auth.NewRepository(db)
	log.Println("Creating users...")
	admin := createUser(ctx, users, "Admin", "admin@techrent.example", "admin12345", rental.RoleAdmin)
	client := createUser(ctx, users, "Asel", "asel@techrent.example", "client12345", rental.RoleUser)
	createUser(ctx, users, "Bekzat", "bekzat@techrent.example", "client12345", rental.RoleUser)

	log.Println("Creating catalog...")
	byName := make(map[string]int64, len(categories))
	for i := range categories {
		if err := db.Create(&categories[i]).Error; err != nil {
			log.Fatalf("category %s: %v", categories[i].Name, err)
		}
		byName[categories[i].Name] = categories[i].ID
	}

	equipment := make([]catalog.Equipment, 0, len(items))
	for _, it := range items {
		e := catalog.Equipment{
			CategoryID:  byName[it.category],
			Type:        it.kind,
			Model:       it.model,
			DailyRate:   rental.Cents(it.rateCents),
			IsAvailable: it.available,
		}
		if err := db.Create(&e).Error; err != nil {
			log.Fatalf("equipment %s: %v", it.model, err)
		}
		equipment = append(equipment, e)
	}

	log.Println("Creating employees...")
	for i := range staff {
		if err := db.Create(&staff[i]).Error; err != nil {
			log.Fatalf("employee %s: %v", staff[i].Name, err)
		}
	}

	log.Println("Creating bookings...")
	seedBookings(ctx, db, client, admin, equipment)

	log.Printf("Seed completed: %d categories, %d items, %d employees", len(categories), len(equipment), len(staff))
	log.Println("Admin: admin@techrent.example / admin12345")
	log.Println("Client: asel@techrent.example / client12345")
}

func createUser(ctx context.Context, repo *auth.Repository, name, email, password string, role rental.Role) string {
	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatal(err)
	}
	u := &auth.User{ID: uuid.NewString(), Email: email, PasswordHash: hash, Name: name, CreatedAt: time.Now().UTC()}
	if err := repo.Create(ctx, u, role); err != nil {
		log.Fatalf("user %s: %v", email, err)
	}
	return u.ID
}

// seedBookings books the first two items for the client, one pending and one approved.
func seedBookings(ctx context.Context, db *gorm.DB, clientID, adminID string, equipment []catalog.Equipment) {
	repo := booking.NewRepository(db)
	today := rental.Today(time.Now(), time.UTC)
	now := time.Now().UTC()

	for i, e := range equipment[:2] {
		start := today.AddDays(3 + i*7)
		end := start.AddDays(2)
		quote, err := rental.ComputeTotal(start, end, e.DailyRate)
		if err != nil {
			log.Fatal(err)
		}
		b := &booking.Booking{
			ID:          uuid.NewString(),
			UserID:      clientID,
			EquipmentID: e.ID,
			StartDate:   start,
			EndDate:     end,
			Status:      rental.StatusPending,
			TotalPrice:  quote.Total,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := repo.Create(ctx, b); err != nil {
			log.Fatalf("booking for %s: %v", e.Model, err)
		}
		if i == 1 {
			if err := repo.UpdateStatus(ctx, b.ID, rental.StatusPending, rental.StatusApproved, adminID, now); err != nil {
				log.Fatalf("approve booking: %v", err)
			}
		}
	}
}
