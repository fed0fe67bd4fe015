// The worker schedules periodic ingestion of new feedback comments from
// the external feedback API into the comment collection.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/lega0208/upd-new-sub004/internal/config"
	"github.com/lega0208/upd-new-sub004/internal/ingest"
	"github.com/lega0208/upd-new-sub004/internal/logging"
	"github.com/lega0208/upd-new-sub004/internal/observability"
	"github.com/lega0208/upd-new-sub004/internal/relevance/text"
	"github.com/lega0208/upd-new-sub004/internal/storage/typesense"
)

func main() {
	cfg := config.LoadConfig()
	log := logging.New(logging.Config{Level: cfg.LogLevel, JSON: cfg.LogJSON})

	observability.InitTracer(cfg, log)
	defer observability.ShutdownTracer(log)

	client := ingest.NewClient(ingest.APIConfig{
		BaseURL:      cfg.FeedbackAPIURL,
		TokenURL:     cfg.FeedbackTokenURL,
		ClientID:     cfg.FeedbackClientID,
		ClientSecret: cfg.FeedbackClientSecret,
	}, log)
	store := typesense.NewStore(cfg, log)
	normalizer := text.NewNormalizer(text.DefaultDictionaries())

	job := ingest.NewJob(client, store, normalizer, log, cfg.IngestWindowDays)
	run := job.Runner()

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.IngestSchedule, func() {
		if err := run(context.Background()); err != nil {
			log.Error("ingestion run failed", "err", err)
		}
	}); err != nil {
		log.Error("invalid ingestion schedule", "schedule", cfg.IngestSchedule, "err", err)
		os.Exit(1)
	}
	scheduler.Start()
	log.Info("feedback ingestion worker started", "schedule", cfg.IngestSchedule)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	<-scheduler.Stop().Done()
}
