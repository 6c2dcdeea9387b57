package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"projectnest/internal/config"
	pg "projectnest/internal/infra/db/postgres"
	"projectnest/internal/infra/logging"
	"projectnest/internal/usecase"
)

func main() {
	// ---- Config ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	migrate := flag.Bool("migrate", true, "apply migrations before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.Log, false)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if *migrate {
		if err := pg.Migrate(cfg.Database.URL, logger); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	// Connect Postgres
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	catalog := usecase.NewCatalogUseCase(pg.NewArticleRepo(pool), pg.NewPostgresPackRepo(pool), logger)

	// Seed is a no-op for tables that already hold rows.
	res, err := catalog.Seed(ctx)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	if res.Packs == 0 && res.Articles == 0 {
		fmt.Println("Catalog already populated. No changes.")
	} else {
		fmt.Printf("seeded: %d packs, %d articles\n", res.Packs, res.Articles)
	}

	packs, err := catalog.ListPacks(ctx)
	if err != nil {
		log.Fatalf("list packs: %v", err)
	}
	for _, p := range packs {
		limit := "unlimited"
		if p.PdfLimit != nil {
			limit = fmt.Sprintf("%d", *p.PdfLimit)
		}
		fmt.Printf("  - %s (id=%d, pdfs=%s, price=%d INR)\n", p.Name, p.ID, limit, p.Price)
	}
}
