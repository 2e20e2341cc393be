package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	s3blob "github.com/efreitasn/tradedesk/internal/blob/s3"
	"github.com/efreitasn/tradedesk/internal/cache/redis"
	"github.com/efreitasn/tradedesk/internal/config"
	"github.com/efreitasn/tradedesk/internal/domain"
	"github.com/efreitasn/tradedesk/internal/handler"
	"github.com/efreitasn/tradedesk/internal/market"
	"github.com/efreitasn/tradedesk/internal/metrics"
	"github.com/efreitasn/tradedesk/internal/orderentry"
	"github.com/efreitasn/tradedesk/internal/service"
	"github.com/efreitasn/tradedesk/internal/session"
	"github.com/efreitasn/tradedesk/internal/store"
	"github.com/efreitasn/tradedesk/internal/store/postgres"
	"github.com/efreitasn/tradedesk/internal/stream"
	"github.com/efreitasn/tradedesk/internal/synth"
)

const sessionSweepInterval = time.Minute

func main() {
	configPath := flag.String("config", "", "Path to a TOML config file")
	healthcheck := flag.Bool("healthcheck", false, "Run health check against running server")
	flag.Parse()

	// Handle -healthcheck flag: HTTP GET to localhost:PORT/healthz, exit 0/1.
	if *healthcheck {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		os.Exit(checkHealth(fmt.Sprintf("http://localhost:%s/healthz", port)))
	}

	// Load configuration.
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up slog logger with configured level.
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// checkHealth returns the process exit code for a health check against url.
func checkHealth(url string) int {
	resp, err := http.Get(url)
	if err != nil {
		return 1
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 1
	}
	return 0
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	// Market backend.
	src := synth.NewSource(cfg.Seed)
	backend := market.NewBackend(src, market.Latency{
		Instruments: cfg.Latency.Instruments,
		Candles:     cfg.Latency.Candles,
		Portfolio:   cfg.Latency.Portfolio,
		Orders:      cfg.Latency.Orders,
		Submit:      cfg.Latency.Submit,
	}, m, logger)

	// Stores. Redis and PostgreSQL replace the in-memory stores when
	// configured.
	checks := make(map[string]handler.HealthCheck)

	memSessions := store.NewSessionStore()
	var sessionStore domain.SessionStore = memSessions
	if cfg.Redis.Addr != "" {
		rc, err := redis.New(ctx, redis.ClientConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rc.Close()
		sessionStore = redis.NewSessionStore(rc)
		checks["redis"] = rc.Ping
		memSessions = nil
		logger.Info("sessions stored in redis", slog.String("addr", cfg.Redis.Addr))
	}

	var orderRepo domain.OrderRepository = store.NewOrderStore()
	if cfg.Postgres.DSN != "" {
		pg, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			MaxConns: cfg.Postgres.MaxConns,
		})
		if err != nil {
			return err
		}
		defer pg.Close()
		if err := pg.RunMigrations(ctx); err != nil {
			return err
		}
		orderRepo = postgres.NewOrderStore(pg.Pool())
		checks["postgres"] = pg.Pool().Ping
		logger.Info("orders stored in postgres")
	}

	var blobs domain.BlobWriter
	if cfg.S3.Bucket != "" {
		sc, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.Bucket,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
		if err != nil {
			return err
		}
		blobs = s3blob.NewWriter(sc)
		checks["s3"] = sc.Health
		logger.Info("candle archive enabled", slog.String("bucket", sc.Bucket()))
	}

	// Services.
	balances := orderentry.Balances{Instrument: cfg.InstrumentBalance, Quote: cfg.QuoteBalance}
	marketSvc := service.NewMarketService(backend)
	orderSvc := service.NewOrderService(marketSvc, backend, backend, orderRepo, balances, m, logger)
	sessions := session.NewManager(sessionStore, session.Options{
		TTL:         cfg.SessionTTL,
		LoginDelay:  cfg.Latency.Auth,
		SignupDelay: cfg.Latency.Signup,
	}, m, logger)

	// Price stream.
	hub := stream.NewHub(cfg.CORSOrigins, m, logger)
	instruments, err := backend.FetchInstruments(ctx)
	if err != nil {
		return err
	}
	ticker := stream.NewTicker(instruments, cfg.TickInterval, src, hub, logger)

	// Router.
	router := handler.NewRouter(handler.Services{
		Market:    marketSvc,
		Portfolio: service.NewPortfolioService(backend),
		Orders:    orderSvc,
		Entry:     service.NewEntryService(marketSvc, balances),
		Funds:     service.NewFundsService(store.NewTransferStore(), logger),
		Archive:   service.NewArchiveService(marketSvc, blobs, logger),
		Dashboard: service.NewDashboard(backend, orderSvc),
		Sessions:  sessions,
		Stream:    hub.HandleWS,
		Metrics:   m.Handler(),
		Observer:  m,
		Checks:    checks,
	}, cfg.CORSOrigins, logger)

	// Configure HTTP server.
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	if memSessions != nil {
		memSessions.Start(gctx, sessionSweepInterval)
	}
	g.Go(func() error { return hub.Run(gctx) })
	g.Go(func() error { return ticker.Run(gctx) })
	g.Go(func() error {
		logger.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received")

		// Graceful shutdown: stop HTTP server; the other workers follow gctx.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})

	return g.Wait()
}
