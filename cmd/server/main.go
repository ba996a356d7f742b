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

	"golang.org/x/sync/errgroup"

	"certvault/internal/audit"
	"certvault/internal/certificate"
	"certvault/internal/identity"
	"certvault/internal/institution"
	"certvault/internal/platform/config"
	"certvault/internal/platform/httpserver"
	"certvault/internal/platform/logger"
	"certvault/internal/platform/metrics"
	"certvault/internal/platform/postgres"
	"certvault/internal/platform/redis"
	transporthttp "certvault/internal/transport/http"
	"certvault/internal/verification"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "server error:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	db, err := postgres.Open(cfg.PostgresURL)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	if db != nil {
		defer db.Close()
	}

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Store wiring: Postgres when configured, in-memory otherwise. The
	// in-memory mode exists for development and tests, not production.
	var (
		identityStore    identity.Store
		institutionStore institution.Store
		certStore        certificate.Store
		recordStore      verification.Store
		auditStore       audit.Store
		txRunner         verification.TxRunner
	)
	if db != nil {
		identityStore = identity.NewPostgres(db)
		institutionStore = institution.NewPostgres(db)
		certStore = certificate.NewPostgres(db)
		recordStore = verification.NewPostgres(db)
		auditStore = audit.NewPostgres(db)
		txRunner = newPostgresTxRunner(db)
	} else {
		log.Warn("no postgres configured, using in-memory stores")
		memCerts := certificate.NewInMemory()
		memRecords := verification.NewInMemory()
		memAudit := audit.NewInMemory()
		memInstitutions := institution.NewInMemoryStore()
		if err := institution.Seed(ctx, memInstitutions); err != nil {
			return fmt.Errorf("seed institutions: %w", err)
		}
		identityStore = identity.NewInMemoryStore()
		institutionStore = memInstitutions
		certStore = memCerts
		recordStore = memRecords
		auditStore = memAudit
		txRunner = verification.NewInMemoryTxRunner(memCerts, memRecords, memAudit)
	}

	var revocations identity.RevocationStore = identity.NewInMemoryRevocationStore()
	if redisClient != nil {
		revocations = identity.NewRedisRevocationStore(redisClient.Client)
	}

	tokens := identity.NewTokenService(cfg.JWTSigningKey)
	identitySvc := identity.NewService(identityStore, revocations, tokens, cfg.TokenTTL, m)
	institutionSvc := institution.NewService(institutionStore)
	certSvc := certificate.NewService(certStore, identitySvc, institutionSvc, auditStore, cfg.ScoreMax, m, log)
	verifySvc := verification.NewService(txRunner, certStore, recordStore,
		verification.NewHashComparator(), cfg.VerificationLatency, cfg.LegacyVerifyRule,
		verification.NewMetrics(), log)

	router := transporthttp.NewRouter(transporthttp.Deps{
		Auth:           transporthttp.NewAuthHandler(identitySvc, log),
		Institutions:   transporthttp.NewInstitutionsHandler(institutionSvc),
		Certificates:   transporthttp.NewCertificatesHandler(certSvc),
		Verifications:  transporthttp.NewVerificationsHandler(verifySvc),
		TokenValidator: identity.NewMiddlewareValidator(tokens),
		Revocations:    revocations,
		Metrics:        m,
		Logger:         log,
		Health: func() error {
			if db != nil {
				if err := db.PingContext(ctx); err != nil {
					return fmt.Errorf("postgres: %w", err)
				}
			}
			if redisClient != nil {
				if err := redisClient.Health(ctx); err != nil {
					return fmt.Errorf("redis: %w", err)
				}
			}
			return nil
		},
	})

	server := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err := audit.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic)
		if err != nil {
			return fmt.Errorf("connect kafka: %w", err)
		}
		defer publisher.Close()

		worker := audit.NewWorker(auditStore, publisher, 5*time.Second, m, log)
		g.Go(func() error {
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
		log.Info("audit publisher running", "topic", cfg.Kafka.AuditTopic)
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
