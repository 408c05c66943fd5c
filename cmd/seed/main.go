// Command seed inserts a fixed set of sample farms through the store layer,
// for local development and demos. It targets postgres by default and can
// seed a local SQLite file instead with -sqlite.
//
// Usage:
//
//	go run ./cmd/seed -database-url "postgres://..."
//	go run ./cmd/seed -sqlite dev.db
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fieldwatch/pest-alert-service/internal/domain"
	"github.com/fieldwatch/pest-alert-service/internal/store"
)

var sampleFarms = []domain.Farm{
	{Name: "North Ridge Orchard", Latitude: 38.5449, Longitude: -121.7405},
	{Name: "Willow Creek Vineyard", Latitude: 36.7783, Longitude: -119.4179},
	{Name: "Delta Greenhouse", Latitude: 37.6819, Longitude: -121.7680},
	{Name: "Coastal Berry Farm", Latitude: 36.9741, Longitude: -122.0308},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	databaseURL := flag.String("database-url", os.Getenv("DATABASE_URL"), "postgres DSN (defaults to DATABASE_URL)")
	sqlitePath := flag.String("sqlite", "", "seed a local SQLite file instead of postgres")
	flag.Parse()

	var dialector gorm.Dialector
	switch {
	case *sqlitePath != "":
		dialector = sqlite.Open(*sqlitePath)
	case *databaseURL != "":
		dialector = postgres.Open(*databaseURL)
	default:
		flag.Usage()
		return fmt.Errorf("missing target: set -database-url, DATABASE_URL, or -sqlite")
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	ctx := context.Background()
	st := store.New(db)
	if err := st.AutoMigrate(ctx); err != nil {
		return err
	}

	for _, farm := range sampleFarms {
		if err := st.CreateFarm(ctx, &farm); err != nil {
			return fmt.Errorf("seed farm %q: %w", farm.Name, err)
		}
		fmt.Printf("created farm %d: %s (%.4f, %.4f)\n", farm.ID, farm.Name, farm.Latitude, farm.Longitude)
	}

	return nil
}
