package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"asset-tracking-api/internal/service"
	"asset-tracking-api/internal/store"
	"asset-tracking-api/pkg/reporter"
)

func main() {
	outPath := "statistics.xlsx"
	dsn := os.Getenv("DB_DSN")

	for _, arg := range os.Args[1:] {
		if strings.HasPrefix(arg, "--out=") {
			outPath = strings.TrimPrefix(arg, "--out=")
		} else if strings.HasPrefix(arg, "--dsn=") {
			dsn = strings.TrimPrefix(arg, "--dsn=")
		} else {
			fmt.Println("Usage: export_excel [--out=statistics.xlsx] [--dsn=postgres://...]")
			os.Exit(1)
		}
	}

	st, err := openStore(dsn)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	svc := service.New(st)
	rep, err := svc.Statistics(context.Background(), time.Now())
	if err != nil {
		log.Fatalf("Failed to build report: %v", err)
	}

	file, err := os.Create(outPath)
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}
	defer file.Close()

	if err := reporter.Write(rep, file); err != nil {
		log.Fatalf("Failed to write workbook: %v", err)
	}

	fmt.Printf("Wrote %s: %d assets across %d offices\n", outPath, rep.TotalAssets, len(rep.ByOffice))
}

func openStore(dsn string) (store.Store, error) {
	if dsn != "" {
		return store.NewPostgresStore(dsn)
	}
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
