package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/prismnews/prism-backend/internal/app"
)

func main() {
	// Missing .env is fine in containers; env comes from the runtime there.
	_ = godotenv.Load()

	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	a.Log.Info("Starting server", "port", a.Cfg.Port, "env", a.Cfg.AppEnv)
	if err := a.Run(); err != nil {
		a.Log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
