// Command seed loads a deterministic demo marketplace into the catalog
// database. Running it twice is safe.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sudhanshu9000/BazzarNet1.1/internal/config"
	rediscache "github.com/Sudhanshu9000/BazzarNet1.1/internal/repository/redis"
	"github.com/Sudhanshu9000/BazzarNet1.1/internal/seed"
	"github.com/Sudhanshu9000/BazzarNet1.1/migrations"
	pkgconfig "github.com/Sudhanshu9000/BazzarNet1.1/pkg/config"
	"github.com/Sudhanshu9000/BazzarNet1.1/pkg/database"
	"github.com/Sudhanshu9000/BazzarNet1.1/pkg/logger"
)

func main() {
	opts := seed.DefaultOptions()
	flag.IntVar(&opts.Stores, "stores", opts.Stores, "number of stores")
	flag.IntVar(&opts.ProductsPerStore, "products", opts.ProductsPerStore, "products per store")
	flag.IntVar(&opts.Customers, "customers", opts.Customers, "number of customers")
	flag.Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed")
	flag.Parse()

	if err := pkgconfig.LoadDotEnv(".env"); err != nil {
		slog.Error("failed to read .env", slog.String("error", err.Error()))
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log := logger.New(config.ServiceName+"-seed", cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, opts, log); err != nil {
		log.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, opts seed.Options, log *slog.Logger) error {
	pool, err := database.NewPostgresPool(ctx, cfg.Postgres(), log)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
		return err
	}

	start := time.Now()
	ds := seed.Generate(opts, start.UTC())
	if err := seed.Load(ctx, pool, ds); err != nil {
		return err
	}

	if err := invalidateStoreCache(ctx, cfg, ds.Pincodes(), log); err != nil {
		log.Warn("store cache not invalidated", slog.String("error", err.Error()))
	}

	log.Info("seed complete",
		slog.Int("stores", len(ds.Stores)),
		slog.Int("products", len(ds.Products)),
		slog.Int("customers", len(ds.Customers)),
		slog.Int("orders", len(ds.Orders)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// invalidateStoreCache drops cached pincode lookups so new stores show up
// before the cache TTL expires.
func invalidateStoreCache(ctx context.Context, cfg *config.Config, pincodes []string, log *slog.Logger) error {
	ttl := cfg.StoreCacheTTL()
	if ttl <= 0 {
		return nil
	}
	client, err := database.NewRedisClient(ctx, cfg.Redis(), log)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	cache := rediscache.NewStoreCache(nil, client, ttl, log)
	for _, pin := range pincodes {
		if err := cache.Invalidate(ctx, pin); err != nil {
			return err
		}
	}
	return nil
}
