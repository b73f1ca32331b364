package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"go-commerce-api/config"
	"go-commerce-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@example.com"
	password := "Demo1234!"
	name := "Demo User"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var userID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, full_name, profile_image)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET full_name = EXCLUDED.full_name
		RETURNING id
	`, email, hash, name, "").Scan(&userID)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", userID, email, password)

	var categoryID int64
	if err := db.QueryRow(`
		INSERT INTO categories (title, description)
		VALUES ('Smartphones', 'Phones and accessories')
		RETURNING id
	`).Scan(&categoryID); err != nil {
		log.Fatalf("failed to seed category: %v", err)
	}

	var brandID int64
	if err := db.QueryRow(`
		INSERT INTO brands (title, description)
		VALUES ('Acme', 'Acme Electronics')
		RETURNING id
	`).Scan(&brandID); err != nil {
		log.Fatalf("failed to seed brand: %v", err)
	}
	fmt.Printf("seeded category=%d brand=%d\n", categoryID, brandID)

	var productID int64
	if err := db.QueryRow(`
		INSERT INTO products (title, description, price, discount_percentage, rating, stock, brand_id, category_id, images)
		VALUES ('Acme Phone X', 'Flagship phone', 699.99, 10, 4.5, 25, $1, $2, '{}')
		RETURNING id
	`, brandID, categoryID).Scan(&productID); err != nil {
		log.Fatalf("failed to seed product: %v", err)
	}
	fmt.Printf("seeded product=%d\n", productID)
}
