package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"asset-tracking-api/internal"
	"asset-tracking-api/internal/config"
	"asset-tracking-api/internal/service"
	"asset-tracking-api/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Store error: %v", err)
	}

	srv := internal.NewServer(service.New(st), cfg)

	log.Println("Starting Asset Tracking API server...")
	log.Printf("Listening on %s", cfg.ListenAddr)

	log.Fatal(http.ListenAndServe(cfg.ListenAddr, srv.Router))
}

// openStore picks the backing store from configuration: a Postgres store
// when DB_DSN is set, otherwise an in-memory store loaded with the
// default fixture.
func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.DBDSN != "" {
		log.Println("Using Postgres store")
		pg, err := store.NewPostgresStore(cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		seed, err := store.DefaultSeed()
		if err != nil {
			return nil, err
		}
		if err := pg.Seed(context.Background(), seed); err != nil {
			return nil, err
		}
		return pg, nil
	}

	log.Println("Using in-memory store")
	mem, err := store.NewMemoryStore()
	if err != nil {
		return nil, err
	}
	seed, err := store.DefaultSeed()
	if err != nil {
		return nil, err
	}
	if err := mem.Seed(seed); err != nil {
		return nil, err
	}
	return mem, nil
}
