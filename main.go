package main

import (
	"context"
	"database/sql"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/texloop/textile-engine/pkg/adapters/feed"
	"github.com/texloop/textile-engine/pkg/config"
	"github.com/texloop/textile-engine/pkg/database"
	"github.com/texloop/textile-engine/pkg/logging"
	"github.com/texloop/textile-engine/pkg/repositories"
	"github.com/texloop/textile-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting textile-engine",
		zap.String("version", cfg.Version),
		zap.String("env", cfg.Env))

	ctx := context.Background()
	dsn := cfg.Database.ConnectionString()

	migDB, err := sql.Open("pgx", dsn)
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(migDB, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = migDB.Close()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            dsn,
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	dictionaryRepo := repositories.NewDictionaryRepository(db)
	unknownRepo := repositories.NewUnknownTermRepository(db)
	textileRepo := repositories.NewTextileRepository(db)

	cache := services.NewDictionaryCache(dictionaryRepo, logger)
	usageSink := services.NewRepositoryUsageSink(dictionaryRepo, logger)
	normalizer := services.NewNormalizer(cache, usageSink, logger)
	tracker := services.NewUnknownTracker(unknownRepo, cfg.Scraper.UnknownContextCap, logger)
	textileNormalizer := services.NewTextileNormalizer(normalizer, tracker, logger)
	composition := services.NewCompositionParser(normalizer)
	scraper := services.NewScrapeService(textileNormalizer, composition, textileRepo, logger)

	sources, err := feed.LoadSources(cfg.SourcesPath)
	if err != nil {
		logger.Fatal("Failed to load source registry", zap.Error(err))
	}

	for _, src := range sources {
		client := feed.NewShopifyClient(src, cfg.Scraper.DescriptionMaxLen, logger)

		summary, err := scraper.Run(ctx, client, cfg.Scraper.FetchLimit)
		if err != nil {
			// Feed unreachable: skip this source, keep the run going for
			// the others.
			logger.Error("Scrape aborted for source",
				zap.String("source", src.Name),
				zap.Error(err))
			continue
		}

		for _, productErr := range summary.Errors {
			logger.Warn("Product error",
				zap.String("source", summary.Source),
				zap.String("product_id", productErr.ProductID),
				zap.String("error", productErr.Message))
		}
		logger.Info("Source done",
			zap.String("source", summary.Source),
			zap.Int("fetched", summary.TotalFetched),
			zap.Int("saved", summary.TotalSaved),
			zap.Int("errors", summary.TotalErrors))
	}
}
