package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/jackc/pgx/v5/pgxpool"

	adminpkg "pulsemarket/internal/admin"
	adminhandler "pulsemarket/internal/admin/handler"
	"pulsemarket/internal/business"
	businessadapters "pulsemarket/internal/business/adapters"
	businesshandler "pulsemarket/internal/business/handler"
	businessmetrics "pulsemarket/internal/business/metrics"
	"pulsemarket/internal/interest"
	interesthandler "pulsemarket/internal/interest/handler"
	interestmetrics "pulsemarket/internal/interest/metrics"
	"pulsemarket/internal/jwt_token"
	"pulsemarket/internal/marketplace"
	marketplacehandler "pulsemarket/internal/marketplace/handler"
	marketplacemetrics "pulsemarket/internal/marketplace/metrics"
	"pulsemarket/internal/platform/config"
	"pulsemarket/internal/platform/httpserver"
	kafkaconsumer "pulsemarket/internal/platform/kafka/consumer"
	kafkaproducer "pulsemarket/internal/platform/kafka/producer"
	"pulsemarket/internal/platform/logger"
	platformmetrics "pulsemarket/internal/platform/metrics"
	platformredis "pulsemarket/internal/platform/redis"
	"pulsemarket/internal/ratelimit"
	ratelimitmetrics "pulsemarket/internal/ratelimit/metrics"
	"pulsemarket/internal/registry"
	"pulsemarket/internal/scoring"
	scoringadapters "pulsemarket/internal/scoring/adapters"
	scoringhandler "pulsemarket/internal/scoring/handler"
	scoringmetrics "pulsemarket/internal/scoring/metrics"
	"pulsemarket/internal/scoring/ports"
	httptransport "pulsemarket/internal/transport/http"
	"pulsemarket/pkg/platform/audit"
	auditconsumer "pulsemarket/pkg/platform/audit/consumer"
	"pulsemarket/pkg/platform/audit/outbox"
	auditpublisher "pulsemarket/pkg/platform/audit/publisher"
	auditmemory "pulsemarket/pkg/platform/audit/store/memory"
	auditpostgres "pulsemarket/pkg/platform/audit/store/postgres"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := openDatabase(ctx, cfg.Database, log)
	if db != nil {
		defer db.Close()
	}

	pool := openPgxPool(ctx, cfg.Database, log)
	if pool != nil {
		defer pool.Close()
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Audit: store, publisher, and the Kafka relay + materializer when
	// both Postgres and Kafka are configured.
	var auditStore audit.Store
	if db != nil {
		auditStore = auditpostgres.New(db)
	} else {
		auditStore = auditmemory.NewInMemoryStore()
	}
	auditor := auditpublisher.NewPublisher(auditStore,
		auditpublisher.WithAsyncBuffer(256),
		auditpublisher.WithLogger(log),
	)
	defer func() { _ = auditor.Close() }()

	if db != nil && len(cfg.Kafka.Seeds) > 0 {
		startAuditStream(ctx, cfg.Kafka, db, log)
	}

	// Verification oracles and the company registry fall back to
	// deterministic local providers when no endpoint is configured.
	var documents ports.DocumentVerifier = scoringadapters.LocalDocumentVerifier{}
	if cfg.Oracles.DocumentURL != "" {
		documents = scoringadapters.NewDocumentClient(cfg.Oracles.DocumentURL, cfg.Oracles.Timeout)
	}
	var videos ports.VideoVerifier = scoringadapters.LocalVideoVerifier{}
	if cfg.Oracles.VideoURL != "" {
		videos = scoringadapters.NewVideoClient(cfg.Oracles.VideoURL, cfg.Oracles.Timeout)
	}
	var bank ports.BankAggregator = scoringadapters.LocalBankAggregator{}
	if cfg.Oracles.BankURL != "" {
		bank = scoringadapters.NewBankClient(cfg.Oracles.BankURL, cfg.Oracles.Timeout)
	}

	var registryProvider registry.Provider = registry.NewStaticProvider()
	if cfg.Registry.BaseURL != "" {
		registryProvider = registry.NewHTTPClient(cfg.Registry.BaseURL, cfg.Registry.Timeout)
	}
	registryProvider = registry.NewCachedProvider(registryProvider, cfg.Registry.CacheTTL)

	// Stores: Postgres when configured, in-memory otherwise.
	var (
		identities business.IdentityStore
		evidence   business.EvidenceStore
		scoreStore scoring.Store
		edgeStore  interest.Store
	)
	if db != nil {
		identities = business.NewPostgresIdentityStore(db)
		evidence = business.NewPostgresEvidenceStore(db)
		scoreStore = scoring.NewPostgresStore(db)
		edgeStore = interest.NewPostgresStore(db)
	} else {
		identities = business.NewInMemoryIdentityStore()
		evidence = business.NewInMemoryEvidenceStore()
		scoreStore = scoring.NewInMemoryStore()
		edgeStore = interest.NewInMemoryStore()
	}

	var listings marketplace.ListingStore = marketplace.NewInMemoryListingStore()
	if pool != nil {
		listings = marketplace.NewPostgresListingStore(pool)
	}
	var snapshots marketplace.SnapshotStore = marketplace.NewInMemorySnapshotStore()
	if redisClient != nil {
		snapshots = marketplace.NewRedisSnapshotStore(redisClient.Client)
	}

	// Services.
	scoringService := scoring.NewService(scoring.ServiceConfig{
		Identities:     identities,
		Evidence:       evidence,
		Documents:      documents,
		Videos:         videos,
		Bank:           bank,
		Store:          scoreStore,
		Auditor:        auditor,
		Logger:         log,
		Metrics:        scoringmetrics.New(),
		OracleTimeout:  cfg.Oracles.Timeout,
		MaxRetries:     cfg.Scoring.MaxRetries,
		ProfitScaleMax: cfg.Scoring.ProfitScaleMax,
	})

	businessService := business.NewService(
		identities,
		evidence,
		businessadapters.NewRegistryAdapter(registryProvider),
		scoring.NewSummaryAdapter(scoreStore),
		auditor,
		log,
		businessmetrics.New(),
	)

	mpMetrics := marketplacemetrics.New()
	interestService := interest.NewService(edgeStore, listingCounter{listings}, auditor, log, interestmetrics.New())
	marketplaceService := marketplace.NewService(
		listings, snapshots, interestService, auditor, log, mpMetrics, cfg.Redis.SnapshotTTL,
	)
	scoringService.Subscribe(marketplace.NewIndexUpdater(listings, auditor, log, mpMetrics))

	adminService := adminpkg.NewService(
		businessService, scoringService, marketplaceService, interestService,
		auditStore, auditor, log,
	)

	jwtService := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, "pulsemarket", "pulsemarket-api")

	var limitStore ratelimit.BucketStore
	if redisClient != nil {
		limitStore = ratelimit.NewRedisBucketStore(redisClient.Client)
	}
	limiter := ratelimit.NewLimiter(limitStore, ratelimit.Limits{
		Read:   cfg.RateLimit.ReadLimit,
		Write:  cfg.RateLimit.WriteLimit,
		Window: cfg.RateLimit.Window,
	}, log, ratelimitmetrics.New())
	rateLimitMW := ratelimit.NewMiddleware(limiter, log, ratelimit.WithDisabled(cfg.RateLimit.Disabled))

	healthChecks := map[string]func(ctx context.Context) error{}
	if db != nil {
		healthChecks["postgres"] = db.PingContext
	}
	if redisClient != nil {
		healthChecks["redis"] = redisClient.Health
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:         log,
		Metrics:        platformmetrics.New(),
		TokenValidator: jwttoken.NewJWTServiceAdapter(jwtService),
		AdminTokenHash: cfg.Server.AdminTokenHash,
		RateLimit:      rateLimitMW,
		Business:       businesshandler.New(businessService, log),
		Scoring:        scoringhandler.New(scoringService, log),
		Marketplace:    marketplacehandler.New(marketplaceService, log),
		Interest:       interesthandler.New(interestService, log),
		Admin:          adminhandler.New(adminService, log),
		HealthChecks:   healthChecks,
	})

	srv := httpserver.New(cfg.Server.Addr, router)
	go func() {
		log.Info("server listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

// listingCounter lets the interest service report marketplace totals
// without holding the whole marketplace service.
type listingCounter struct {
	listings marketplace.ListingStore
}

func (c listingCounter) CountListings(ctx context.Context) (int, error) {
	return c.listings.Count(ctx)
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) *sql.DB {
	if cfg.URL == "" {
		log.Warn("no database configured, using in-memory stores")
		return nil
	}
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		log.Error("database open failed", "error", err)
		os.Exit(1)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		log.Error("database ping failed", "error", err)
		os.Exit(1)
	}
	return db
}

func openPgxPool(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) *pgxpool.Pool {
	if cfg.URL == "" {
		return nil
	}
	pool, err := pgxpool.New(ctx, cfg.URL)
	if err != nil {
		log.Error("pgx pool open failed", "error", err)
		os.Exit(1)
	}
	return pool
}

// startAuditStream runs the outbox relay into Kafka and the consumer
// that materializes the stream back into audit_events.
func startAuditStream(ctx context.Context, cfg config.KafkaConfig, db *sql.DB, log *slog.Logger) {
	producer, err := kafkaproducer.New(ctx, cfg.Seeds, cfg.AuditTopic, log)
	if err != nil {
		log.Error("kafka producer setup failed", "error", err)
		os.Exit(1)
	}

	relay := outbox.New(db, producer, log)
	go func() {
		if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("audit outbox relay stopped", "error", err)
		}
		producer.Close()
	}()

	router := auditconsumer.NewRouter(log, nil)
	router.Register(cfg.AuditTopic, auditconsumer.NewEventsHandler(auditpostgres.New(db), log))
	cons, err := kafkaconsumer.New(cfg.Seeds, cfg.ConsumerGroup, []string{cfg.AuditTopic}, router, log)
	if err != nil {
		log.Error("kafka consumer setup failed", "error", err)
		os.Exit(1)
	}
	go func() {
		if err := cons.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("audit consumer stopped", "error", err)
		}
		cons.Close()
	}()
}
