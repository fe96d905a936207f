package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/hamrorooms/rooms-api/config"
	"github.com/hamrorooms/rooms-api/internal/domain/entity"
	"github.com/hamrorooms/rooms-api/pkg/helpers"
	"github.com/hamrorooms/rooms-api/pkg/slug"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	dsn := cfg.PostgresDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "admin@hamrorooms.com"
	password := "password123"
	name := "Site Admin"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var adminID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, name, role, is_verified)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (email) DO UPDATE SET role = EXCLUDED.role, is_verified = TRUE
		RETURNING id
	`, email, hash, name, entity.RoleAdmin).Scan(&adminID)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s password=%s\n", adminID, email, password)

	address := "Baneshwor, Kathmandu"
	var listingID string
	err = db.QueryRow(`
		INSERT INTO listings (owner_id, city, address, phone, rent, parking, water, floor, room_type, slug, verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE)
		ON CONFLICT (slug) DO UPDATE SET updated_at = now()
		RETURNING id
	`, adminID, "Kathmandu", address, "9800000000", 8000, "yes", "yes", "2nd", "single room", slug.Make(address)).Scan(&listingID)
	if err != nil {
		log.Fatalf("failed to seed listing: %v", err)
	}
	fmt.Printf("seeded listing: id=%s address=%q slug=%s\n", listingID, address, slug.Make(address))
}
