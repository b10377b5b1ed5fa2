package main

import (
	"context"
	"log"
	"time"

	"github.com/emrekip/wellbeing-survey/internal/config"
	"github.com/emrekip/wellbeing-survey/internal/db/gormdb"
	"github.com/emrekip/wellbeing-survey/internal/domain/campaign"
	"github.com/emrekip/wellbeing-survey/internal/domain/participant"
	campaignRepo "github.com/emrekip/wellbeing-survey/internal/repository/gorm/campaign"
	participantRepo "github.com/emrekip/wellbeing-survey/internal/repository/gorm/participant"
	surveyRepo "github.com/emrekip/wellbeing-survey/internal/repository/gorm/survey"
	"gorm.io/gorm"
)

func main() {
	ctx := context.Background()

	// Load application configuration (DB, Redis, etc.) from env/.env.
	cfg := config.New()

	// Open a Postgres connection through our GORM adapter.
	gormAdapter, err := gormdb.New(cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("[Seed] Failed to connect to database: %v", err)
	}

	log.Printf("[Seed] Connected to database %q", cfg.DB.Name)

	// 1) AutoMigrate: make sure all engine tables exist, including the
	// unique dispatch-key index on survey_instances.
	rawDB := gormAdapter.Conn().(*gorm.DB)

	err = rawDB.AutoMigrate(
		&participantRepo.ParticipantModel{},
		&campaignRepo.CampaignModel{},
		&surveyRepo.InstanceModel{},
		&surveyRepo.ResponseModel{},
	)
	if err != nil {
		log.Fatalf("[Seed] AutoMigrate failed: %v", err)
	}
	log.Println("[Seed] Tables are up to date (AutoMigrate completed).")

	// 2) Seed a sample participant and campaign when the roster is empty,
	// so a fresh install can exercise the full dispatch/reply loop.
	participants := participantRepo.NewRepository(gormAdapter)
	campaigns := campaignRepo.NewRepository(gormAdapter)

	existing, err := participants.List(ctx)
	if err != nil {
		log.Fatalf("[Seed] Failed to list participants: %v", err)
	}
	if len(existing) > 0 {
		log.Printf("[Seed] Roster already has %d participants; nothing to do.", len(existing))
		return
	}

	p, err := participant.New("Sample User", "+1234567890")
	if err != nil {
		log.Fatalf("[Seed] Failed to build sample participant: %v", err)
	}
	if err := participants.Save(ctx, p); err != nil {
		log.Fatalf("[Seed] Failed to save sample participant: %v", err)
	}
	log.Printf("[Seed] Created participant %s (%s)", p.Name, p.PhoneNumber)

	now := time.Now()
	c, err := campaign.New("Sample Campaign", "", now, now.AddDate(0, 0, 30))
	if err != nil {
		log.Fatalf("[Seed] Failed to build sample campaign: %v", err)
	}
	if err := campaigns.Save(ctx, c); err != nil {
		log.Fatalf("[Seed] Failed to save sample campaign: %v", err)
	}
	log.Printf("[Seed] Created campaign %q running %s..%s",
		c.Name, c.StartDate.Format("2006-01-02"), c.EndDate.Format("2006-01-02"))

	log.Println("[Seed] Done.")
}
