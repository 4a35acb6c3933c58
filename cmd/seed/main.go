package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/prismnews/prism-backend/internal/app"
)

// Loads the development fixture dataset. Refuses to touch production.
func main() {
	clear := flag.Bool("clear", false, "delete all data instead of seeding")
	flag.Parse()

	_ = godotenv.Load()

	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if a.Cfg.AppEnv == "production" {
		a.Log.Error("Refusing to run seeder against production")
		os.Exit(1)
	}

	ctx := context.Background()
	if *clear {
		if err := a.Services.Seeder.Clear(ctx); err != nil {
			a.Log.Error("Clear failed", "error", err)
			os.Exit(1)
		}
		return
	}
	if err := a.Services.Seeder.Seed(ctx); err != nil {
		a.Log.Error("Seed failed", "error", err)
		os.Exit(1)
	}
}
