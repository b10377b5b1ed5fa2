package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/emrekip/wellbeing-survey/internal/cache/redis"
	"github.com/emrekip/wellbeing-survey/internal/config"
	"github.com/emrekip/wellbeing-survey/internal/db/gormdb"
	"github.com/emrekip/wellbeing-survey/internal/gateway"
	"github.com/emrekip/wellbeing-survey/internal/handler"
	campaignRepo "github.com/emrekip/wellbeing-survey/internal/repository/gorm/campaign"
	participantRepo "github.com/emrekip/wellbeing-survey/internal/repository/gorm/participant"
	surveyRepo "github.com/emrekip/wellbeing-survey/internal/repository/gorm/survey"
	routes "github.com/emrekip/wellbeing-survey/internal/router"
	"github.com/emrekip/wellbeing-survey/internal/scheduler"
	"github.com/emrekip/wellbeing-survey/internal/server"
	"github.com/emrekip/wellbeing-survey/internal/service"
)

func main() {
	// Base context for the whole application lifetime.
	rootCtx := context.Background()

	// Load configuration from environment/.env.
	cfg := config.New()

	// Init cache.
	cache := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := cache.Ping(rootCtx); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}

	// Init DB.
	dsn := cfg.PostgresDSN()
	db, err := gormdb.New(dsn)
	if err != nil {
		log.Fatalf("failed to connect db: %v", err)
	}

	// Init delivery gateway. The mock keeps the full send/confirm flow
	// usable without a live provider.
	var gw gateway.Gateway
	if cfg.SMS.UseMock {
		log.Println("[Main] Using mock SMS gateway")
		mock := gateway.NewMock(cfg.SMS.MockDeliveryDelay)
		defer mock.Close()
		gw = mock
	} else {
		client := gateway.NewHTTPClient(cfg.SMS.ProviderURL, cfg.SMS.ProviderKey, cfg.SMS.FromNumber)
		if err := client.Health(rootCtx); err != nil {
			log.Fatalf("failed to ping SMS provider: %v", err)
		}
		gw = client
	}

	// Init repositories.
	participants := participantRepo.NewRepository(db)
	campaigns := campaignRepo.NewRepository(db)
	instances := surveyRepo.NewInstanceRepository(db)
	responses := surveyRepo.NewResponseRepository(db)

	// Init engine services.
	dispatchSvc := service.NewDispatchService(
		instances,
		participants,
		campaigns,
		gw,
		cache,
		cfg.Worker.MaxWorkers,
		cfg.Worker.PerMessageTimeout,
	)

	reconcileSvc := service.NewReconcileService(
		participants,
		campaigns,
		instances,
		responses,
		gw,
		cache,
		cfg.App.BaseURL,
		cfg.Survey.RequireSingleActiveCampaign,
	)

	analyticsSvc := service.NewAnalyticsService(participants, campaigns, responses, cache)
	rosterSvc := service.NewRosterService(participants, campaigns, dispatchSvc)

	// Cron
	cron := scheduler.NewSchedulerService(
		dispatchSvc,
		dispatchSvc,
		cfg.Scheduler.DispatchInterval,
		cfg.Scheduler.PurgeInterval,
		cfg.Scheduler.JobTimeout,
		cfg.Scheduler.RetentionDays,
	)

	// HTTP dependencies & server wiring.
	deps := routes.AppDeps{
		Home:      handler.NewHomeHandler(),
		Webhook:   handler.NewWebhookHandler(reconcileSvc),
		Survey:    handler.NewSurveyHandler(dispatchSvc, cron),
		Admin:     handler.NewAdminHandler(rosterSvc),
		Analytics: handler.NewAnalyticsHandler(analyticsSvc),
	}

	// Init Server
	addr := fmt.Sprintf("%s:%s", cfg.API.Host, cfg.API.Port)
	srv := server.New(addr, deps)

	// Create a context that is cancelled on SIGINT/SIGTERM (Ctrl+C, docker stop etc.).
	ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start the HTTP server in a separate goroutine so we can listen for signals.
	go func() {
		log.Printf("HTTP server listening on %s", addr)

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Start the scheduler after everything is wired up.
	if err := cron.Start(); err != nil {
		log.Fatalf("Scheduler error: %v", err)
	}
	log.Println("[Main] Scheduler started.")

	// Block until we receive a shutdown signal.
	<-ctx.Done()
	log.Println("[Main] Shutdown signal received, starting graceful shutdown...")

	// Give components some time to shut down cleanly.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Stop the scheduler (waits for an in-flight job to finish or timeout).
	log.Println("[Main] Stopping scheduler...")
	if err := cron.Stop(); err != nil {
		log.Printf("[Main] Scheduler stop failed: %v", err)
	} else {
		log.Println("[Main] Scheduler stopped.")
	}

	// Gracefully shut down the HTTP server.
	log.Println("[Main] Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Main] HTTP server graceful shutdown failed: %v", err)
	} else {
		log.Println("[Main] HTTP server stopped.")
	}

	log.Println("[Main] Shutdown complete.")
}
