package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	rediscache "github.com/vncsmyrnk/election/internal/adapters/cache/redis"
	"github.com/vncsmyrnk/election/internal/adapters/faceauth"
	"github.com/vncsmyrnk/election/internal/adapters/handler/http"
	"github.com/vncsmyrnk/election/internal/adapters/oauth/google"
	"github.com/vncsmyrnk/election/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/election/internal/config"
	"github.com/vncsmyrnk/election/internal/core/ports"
	"github.com/vncsmyrnk/election/internal/core/services"
	"github.com/vncsmyrnk/election/internal/platform/metrics"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server stopped", "event", "server_failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.Postgres.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	var cache ports.ResultsCache
	redisClient, err := rediscache.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		cache = rediscache.NewResultsCache(redisClient, cfg.ResultsTTL)
	}

	images, err := faceauth.NewDirImageStore(cfg.ImageDir)
	if err != nil {
		return err
	}

	// Initialize Repositories
	elections := postgres.NewElectionRepository(db)
	districts := postgres.NewDistrictRepository(db)
	registry := postgres.NewRegistryRepository(db)
	candidacies := postgres.NewCandidacyRepository(db)
	votes := postgres.NewVoteRepository(db)
	parties := postgres.NewPartyRepository(db)
	citizens := postgres.NewCitizenRepository(db)
	admins := postgres.NewAdminRepository(db)
	locker := postgres.NewElectionLocker(db)

	// Initialize Services
	opts := []services.Option{
		services.WithLogger(logger),
		services.WithMetrics(metrics.New(reg)),
	}
	authService := services.NewAuthService(admins, citizens, google.NewVerifier(), faceauth.NewClient(cfg.FaceServiceURL, cfg.FaceThreshold, images), services.AuthConfig{
		JWTSecret:      []byte(cfg.JWTSecret),
		GoogleClientID: cfg.GoogleClientID,
		AdminEmails:    cfg.AdminEmails,
		AdminTokenTTL:  cfg.AdminTokenTTL,
		VoterTokenTTL:  cfg.VoterTokenTTL,
	}, opts...)
	electionService := services.NewElectionService(elections, registry, candidacies, districts, locker, opts...)
	registryService := services.NewRegistryService(elections, registry, districts, locker, opts...)
	candidacyService := services.NewCandidacyService(registry, candidacies, parties, citizens, locker, opts...)
	partyService := services.NewPartyService(parties, citizens, opts...)
	citizenService := services.NewCitizenService(citizens, districts, images, opts...)
	voteService := services.NewVoteService(elections, registry, candidacies, votes, citizens, parties, services.NewVoterKeyer([]byte(cfg.VoterKeySecret)), opts...)
	tallyService := services.NewTallyService(elections, registry, candidacies, votes, cache, opts...)

	// Initialize Handlers
	handler := http.NewHandler(authService, http.Handlers{
		Auth:        http.NewAuthHandler(authService, cfg.RedirectURL, cfg.CookieDomain, cfg.SameSite(), cfg.AdminTokenTTL, cfg.VoterTokenTTL),
		Session:     http.NewSessionHandler(citizenService),
		Elections:   http.NewElectionHandler(electionService),
		Registry:    http.NewRegistryHandler(registryService),
		Candidacies: http.NewCandidacyHandler(candidacyService),
		Parties:     http.NewPartyHandler(partyService),
		Citizens:    http.NewCitizenHandler(citizenService),
		Votes:       http.NewVoteHandler(voteService),
		Results:     http.NewResultsHandler(tallyService),
	}, reg)

	go services.NewElectionCloser(electionService, cfg.CloserInterval, logger).Run(ctx)

	server := &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "event", "server_started", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}
	logger.Info("gracefully shutting down", "event", "server_stopping")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
