//go:build ignore

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// Dev utility: wipes all domain data while keeping tenants and users.
// Run with: go run scripts/reset_db.go

func main() {
	fmt.Println("========================================")
	fmt.Println("   Reset Database for Testing")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("WARNING: This will DELETE ALL DOMAIN DATA!")
	fmt.Println()
	fmt.Println("This will:")
	fmt.Println("  - Delete all orders and ledger entries")
	fmt.Println("  - Delete all cylinders and handovers")
	fmt.Println("  - Delete all wallets and payments")
	fmt.Println("  - Delete all customers")
	fmt.Println("  - Reset all ID sequences")
	fmt.Println()
	fmt.Print("Type 'yes' to confirm: ")

	var confirm string
	fmt.Scanln(&confirm)

	if confirm != "yes" {
		fmt.Println("Reset cancelled.")
		return
	}

	godotenv.Load()

	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPassword := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "lpg_db")

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		dbUser, dbPassword, dbHost, dbPort, dbName)

	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer pool.Close()

	ctx := context.Background()
	fmt.Println()
	fmt.Println("Resetting database...")

	statements := []string{
		"TRUNCATE order_items, orders RESTART IDENTITY CASCADE",
		"TRUNCATE ledger_entries RESTART IDENTITY CASCADE",
		"TRUNCATE online_payments RESTART IDENTITY CASCADE",
		"TRUNCATE handover_compensations RESTART IDENTITY CASCADE",
		"TRUNCATE handover_requests RESTART IDENTITY CASCADE",
		"TRUNCATE cylinders RESTART IDENTITY CASCADE",
		"TRUNCATE employee_wallets CASCADE",
		"TRUNCATE customers RESTART IDENTITY CASCADE",
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			log.Fatalf("Failed: %s: %v", stmt, err)
		}
	}

	fmt.Println("Done. Tenants and users were kept.")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
