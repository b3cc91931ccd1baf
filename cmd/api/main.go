package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"sushi-orders/internal/clock"
	"sushi-orders/internal/config"
	"sushi-orders/internal/db"
	"sushi-orders/internal/document"
	"sushi-orders/internal/httpserver"
	"sushi-orders/internal/logger"
	"sushi-orders/internal/metrics"
	"sushi-orders/internal/migrate"
	cartrepo "sushi-orders/internal/repository/cart"
	invoicerepo "sushi-orders/internal/repository/invoice"
	orderrepo "sushi-orders/internal/repository/order"
	productrepo "sushi-orders/internal/repository/product"
	windowrepo "sushi-orders/internal/repository/window"
	cartsvc "sushi-orders/internal/service/cart"
	ordersvc "sushi-orders/internal/service/order"
	productsvc "sushi-orders/internal/service/product"
	reportsvc "sushi-orders/internal/service/report"
	windowsvc "sushi-orders/internal/service/window"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log, err := logger.New("api", cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbpool, err := db.Connect(ctx, cfg.DBConnString, db.PoolOptions{MaxConns: cfg.DBMaxConns})
	if err != nil {
		return fmt.Errorf("connect to db: %w", err)
	}
	defer dbpool.Close()

	if cfg.AutoMigrate {
		if err := migrate.Apply(ctx, dbpool); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		log.Info("migrations applied")
	}

	m := metrics.New()
	clk := clock.NewSystem()
	tx := db.NewTransactor(dbpool, log, cfg.TxMaxRetries, cfg.TxTimeout)

	productRepo := productrepo.NewPostgres(dbpool, log)
	cartRepo := cartrepo.NewPostgres(dbpool, log)
	orderRepo := orderrepo.NewPostgres(dbpool, log)
	invoiceRepo := invoicerepo.NewPostgres(dbpool, log)
	windowRepo := windowrepo.NewPostgres(dbpool, log)

	store, err := document.NewFileStore(cfg.DocumentDir, cfg.DocumentBaseURL)
	if err != nil {
		return err
	}
	locker, closeLocker := newLocker(ctx, cfg, log)
	defer closeLocker()

	documents := document.NewService(document.Deps{
		Invoices: invoiceRepo,
		Orders:   orderRepo,
		Renderer: document.NewPDFRenderer(cfg.ShopName),
		Store:    store,
		Locker:   locker,
		LockTTL:  cfg.RenderLockTTL,
		Metrics:  m,
		Logger:   log,
	})
	dispatcher := document.NewDispatcher(documents, cfg.RenderWorkers, cfg.RenderQueueSize, cfg.RenderTimeout, m, log)

	orders := ordersvc.New(ordersvc.Deps{
		Carts:    cartRepo,
		Orders:   orderRepo,
		Invoices: invoiceRepo,
		Tx:       tx,
		Clock:    clk,
		Render:   dispatcher,
		Metrics:  m,
		Logger:   log,
	})

	srv := httpserver.New(httpserver.Options{
		Addr:           cfg.HTTPAddr,
		RequestTimeout: cfg.RequestTimeout,
		CORSOrigins:    cfg.CORSOrigins,
		DocumentDir:    cfg.DocumentDir,
	}, httpserver.Deps{
		Products:  productsvc.New(productRepo),
		Carts:     cartsvc.New(cartRepo, productRepo, tx, log),
		Orders:    orders,
		Documents: documents,
		Reports:   reportsvc.New(windowRepo, orderRepo, tx, clk, log),
		Windows:   windowsvc.New(windowRepo, clk, log),
		Metrics:   m,
		DB:        dbpool,
	}, log)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return dispatcher.Run(ctx)
	})

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		log.Info("server stopped")
		return nil
	})

	return g.Wait()
}

// newLocker shares render locks through redis when REDIS_ADDR is set and falls
// back to an in-process lock otherwise.
func newLocker(ctx context.Context, cfg config.Config, log *zap.Logger) (document.Locker, func()) {
	if cfg.RedisAddr == "" {
		return document.NewLocalLocker(), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unreachable, using in-process render locks", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		_ = client.Close()
		return document.NewLocalLocker(), func() {}
	}

	log.Info("render locks shared through redis", zap.String("addr", cfg.RedisAddr))
	return document.NewRedisLocker(client), func() { _ = client.Close() }
}
