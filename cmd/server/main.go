package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"race-registry/internal/catalog"
	"race-registry/internal/config"
	apphttp "race-registry/internal/http"
	"race-registry/internal/metrics"
	"race-registry/internal/raceinfo"
	"race-registry/internal/repository/csvfile"
	"race-registry/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		logger.Fatalf("auth jwt secret is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat := catalog.Default()
	races := raceinfo.Default()

	accountRepo := csvfile.NewAccountRepository(cfg.Data.Dir)
	participantRepo := csvfile.NewParticipantRepository(cfg.Data.Dir, cat.Distances())

	if err := accountRepo.Init(ctx); err != nil {
		logger.Fatalf("init account repository: %v", err)
	}
	if err := participantRepo.Init(ctx); err != nil {
		logger.Fatalf("init participant repository: %v", err)
	}

	accountService := service.NewAccountService(accountRepo)
	registrationService := service.NewRegistrationService(participantRepo, cat, logger)

	m := metrics.New()
	go refreshOccupancy(ctx, registrationService, m, logger)

	var authLimiter *apphttp.RateLimiter
	if cfg.RateLimit.Enabled {
		authLimiter = apphttp.NewAuthRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)
		defer authLimiter.Stop()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(
		accountService,
		registrationService,
		races,
		m,
		logger,
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute,
		authLimiter,
	)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

// refreshOccupancy keeps the occupancy gauges current between stats requests.
func refreshOccupancy(ctx context.Context, registrations service.RegistrationService, m *metrics.Metrics, logger *logrus.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats, err := registrations.Statistics(ctx)
			if err != nil {
				logger.Warnf("refresh occupancy: %v", err)
				continue
			}
			for distance, s := range stats {
				m.SetOccupancy(distance, s.Occupancy, s.Capacity)
			}
		}
	}
}
