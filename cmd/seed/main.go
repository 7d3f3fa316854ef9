// Command seed populates the database with demo data for local development.
package main

import (
	"flag"
	"log/slog"
	"os"

	"larder/internal/config"
	"larder/internal/database"
	"larder/internal/middleware"
	"larder/internal/seed"
)

func main() {
	opts := seed.DefaultOptions()
	flag.IntVar(&opts.Users, "users", opts.Users, "number of extra accounts besides admin")
	flag.IntVar(&opts.ProductsPerSeed, "products", opts.ProductsPerSeed, "number of catalog products")
	flag.IntVar(&opts.ListsPerUser, "lists", opts.ListsPerUser, "shopping lists per user")
	flag.IntVar(&opts.PurchasesPerUser, "purchases", opts.PurchasesPerUser, "historical purchases per user")
	flag.BoolVar(&opts.Clean, "clean", false, "wipe existing data before seeding")
	flag.BoolVar(&opts.SkipBcrypt, "fast", false, "store plaintext passwords to speed up seeding (dev only)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		middleware.Logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.Env == "production" || cfg.Env == "prod" {
		middleware.Logger.Error("Refusing to seed a production database")
		os.Exit(1)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		middleware.Logger.Error("Failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := seed.Run(db, opts); err != nil {
		middleware.Logger.Error("Seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
