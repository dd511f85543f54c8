// Command main runs the database seeder for Kindred.
package main

import (
	"flag"
	"log"

	"kindred/internal/config"
	"kindred/internal/database"
	"kindred/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 50, "Number of users to create")
	premiumRate := flag.Float64("premium", 0.2, "Fraction of users on an active premium plan")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Println("===============")
	log.Printf("Target: %d users, premium=%.0f%%, clean=%v\n", *numUsers, *premiumRate*100, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run seeder
	s := seed.NewSeeder(db)
	if err := s.Seed(seed.Options{
		NumUsers:    *numUsers,
		ShouldClean: *shouldClean,
		PremiumRate: *premiumRate,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! Your database is now populated with test data.")
}
