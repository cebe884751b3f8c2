package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/m1haww/call-recorder-sub000/internal/config"
	"github.com/m1haww/call-recorder-sub000/internal/devserver"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	srv, store := devserver.NewServer(cfg)

	if os.Getenv("SEED_DEMO") == "1" {
		userID := store.SeedDemo()
		log.Printf("seeded demo user %s", userID)
	}

	log.Printf("stub backend listening on :%s", cfg.Port)
	if err := srv.Run(); err != nil {
		log.Fatalf("server stopped with error: %v", err)
	}
}
