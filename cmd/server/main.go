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

	"ouvidoria/internal/audit"
	"ouvidoria/internal/jwttoken"
	mhandler "ouvidoria/internal/manifestation/handler"
	mservice "ouvidoria/internal/manifestation/service"
	mstore "ouvidoria/internal/manifestation/store"
	"ouvidoria/internal/notification"
	"ouvidoria/internal/platform/config"
	"ouvidoria/internal/platform/httpserver"
	"ouvidoria/internal/platform/logger"
	"ouvidoria/internal/platform/metrics"
	"ouvidoria/internal/platform/redis"
	"ouvidoria/internal/protocol"
	rhandler "ouvidoria/internal/response/handler"
	rservice "ouvidoria/internal/response/service"
	rstore "ouvidoria/internal/response/store"
	"ouvidoria/internal/submission"
	shandler "ouvidoria/internal/submission/handler"
	"ouvidoria/internal/submission/draftstore"
	httptransport "ouvidoria/internal/transport/http"
)

const shutdownTimeout = 10 * time.Second

// main wires dependencies and owns the process lifecycle. Every backing
// service degrades to an in-process fallback when unconfigured, so a bare
// `go run ./cmd/server` serves the full API.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	checks := map[string]httptransport.HealthChecker{}

	// Storage: Postgres when a DSN is configured, in-memory otherwise.
	var (
		manifestations mstore.Store
		responses      rstore.Store
	)
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return err
		}
		manifestations = mstore.NewPostgresStore(db)
		responses = rstore.NewPostgresStore(db)
		checks["postgres"] = pingChecker{db}
		log.Info("using postgres storage")
	} else {
		manifestations = mstore.NewInMemoryStore()
		responses = rstore.NewInMemoryStore()
		log.Warn("POSTGRES_DSN not set, using in-memory storage")
	}

	// Draft store: Redis when configured, in-memory with the same TTL
	// semantics otherwise.
	var drafts draftstore.Store
	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		drafts = draftstore.NewRedisStore(redisClient.Client, cfg.DraftTTL)
		checks["redis"] = redisClient
		log.Info("using redis draft store")
	} else {
		drafts = draftstore.NewInMemoryStore(cfg.DraftTTL)
		log.Warn("REDIS_URL not set, drafts held in process memory")
	}

	// Audit trail: Kafka when brokers are configured, otherwise events stay
	// in process memory.
	var publisher audit.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err := audit.NewKafkaPublisher(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			return err
		}
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Info("publishing audit events to kafka", "topic", cfg.Kafka.Topic)
	} else {
		publisher = audit.NewMemoryPublisher()
		log.Warn("KAFKA_BROKERS not set, audit events held in process memory")
	}

	m := metrics.New()
	jwtService := jwttoken.NewService(cfg.JWTSigningKey, cfg.JWTIssuer)

	pipeline := submission.NewPipeline(manifestations, protocol.NewGenerator(), publisher, m, log, cfg.MaxAttachmentBytes)
	manifestationService := mservice.NewService(manifestations, responses, notification.NewService(responses), publisher, m, log)
	ledger := rservice.NewLedger(responses, manifestations, publisher, m, log)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:         log,
		Metrics:        m,
		JWT:            jwtService,
		Manifestations: mhandler.New(manifestationService, log),
		Responses:      rhandler.New(ledger, log),
		Submissions:    shandler.New(pipeline, drafts, log),
		Checks:         checks,
	})

	srv := httpserver.New(cfg.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting ouvidoria server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// pingChecker adapts *sql.DB to the health check interface.
type pingChecker struct {
	db *sql.DB
}

func (p pingChecker) Health(ctx context.Context) error {
	return p.db.PingContext(ctx)
}
