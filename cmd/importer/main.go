package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"sushi-orders/internal/config"
	"sushi-orders/internal/db"
	"sushi-orders/internal/importer"
	"sushi-orders/internal/logger"
	"sushi-orders/internal/repository/product"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to a product CSV (id,key,name,description,price,stock)")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "importer: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New("importer", cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "importer: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, db.PoolOptions{})
	if err != nil {
		log.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	// One transaction, so a bad row leaves the catalog untouched. The timeout
	// is off because large catalogs outlive TX_TIMEOUT.
	tx := db.NewTransactor(pool, log, cfg.TxMaxRetries, 0)
	repo := product.NewPostgres(pool, log)

	start := time.Now()
	var count int
	err = tx.WithTx(ctx, db.ReadCommitted, func(ctx context.Context) error {
		f, err := os.Open(filePath)
		if err != nil {
			return fmt.Errorf("open file: %w", err)
		}
		defer f.Close()

		count, err = importer.NewCSVImporter(f, repo).Run(ctx)
		return err
	})
	if err != nil {
		log.Fatal("import failed", zap.Error(err))
	}

	log.Info("catalog imported",
		zap.Int("products", count),
		zap.String("file", filePath),
		zap.Duration("elapsed", time.Since(start).Truncate(time.Millisecond)))
}
