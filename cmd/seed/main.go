package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"subscription-api/internal/config"
	pg "subscription-api/internal/infra/db/postgres"
	"subscription-api/internal/usecase"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	schemaPath := flag.String("schema", "migrations/001_init.sql", "path to schema DDL")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// Apply schema first; the DDL is idempotent.
	ddl, err := os.ReadFile(*schemaPath)
	if err != nil {
		log.Fatalf("read schema: %v", err)
	}
	if _, err := pool.Exec(ctx, string(ddl)); err != nil {
		log.Fatalf("apply schema: %v", err)
	}

	planUC := usecase.NewPlanUseCase(pg.NewPlanRepo(pool))

	// If plans already exist, do nothing
	plans, err := planUC.List(ctx, false)
	if err != nil {
		log.Fatalf("list plans: %v", err)
	}
	if len(plans) > 0 {
		fmt.Printf("%d plans already present. No changes.\n", len(plans))
		for _, p := range plans {
			fmt.Printf("  - %s (days=%d, price=%s)\n", p.Name, p.DurationDays, p.Price)
		}
		return
	}

	seed := []struct {
		Name     string
		Desc     string
		Price    string
		Days     int
		Features string
	}{
		{"Basic", "Entry tier", "9.99", 30, `{"max_projects": 3}`},
		{"Pro", "For professionals", "29.99", 30, `{"max_projects": 25, "priority_support": true}`},
		{"Annual Pro", "Pro, billed yearly", "299.00", 365, `{"max_projects": 25, "priority_support": true}`},
	}

	for _, s := range seed {
		price, err := decimal.NewFromString(s.Price)
		if err != nil {
			log.Fatalf("parse price %q: %v", s.Price, err)
		}
		p, err := planUC.Create(ctx, s.Name, s.Desc, price, s.Days, s.Features)
		if err != nil {
			log.Fatalf("create plan %q: %v", s.Name, err)
		}
		fmt.Printf("seeded: %s (id=%s, days=%d, price=%s)\n", p.Name, p.ID, p.DurationDays, p.Price)
	}

	fmt.Println("Seeding complete.")
}
