package ingest

import (
	"context"
	"time"

	"github.com/lega0208/upd-new-sub004/internal/logging"
	"github.com/lega0208/upd-new-sub004/internal/models"
	"github.com/lega0208/upd-new-sub004/internal/pipeline"
	"github.com/lega0208/upd-new-sub004/internal/relevance/text"
)

// sourceFeedbackAPI names the external feedback API within the pipeline.
const sourceFeedbackAPI = "feedbackAPI"

// Inserter is the bulk-insert side of the comment store.
type Inserter interface {
	InsertComments(ctx context.Context, comments []models.RawComment) error
}

// Fetcher supplies raw comments for a date window.
type Fetcher interface {
	Problems(ctx context.Context, start, end time.Time) ([]models.RawComment, error)
}

// Job assembles the feedback ingestion pipeline: fetch the last window
// of problem reports, normalize them so Words is persisted alongside the
// raw record, and bulk-insert.
type Job struct {
	client     Fetcher
	store      Inserter
	normalizer *text.Normalizer
	log        logging.Logger
	windowDays int
	now        func() time.Time
}

// NewJob builds an ingestion job fetching windowDays of history per run.
func NewJob(client Fetcher, store Inserter, normalizer *text.Normalizer, log logging.Logger, windowDays int) *Job {
	if windowDays <= 0 {
		windowDays = 1
	}
	return &Job{
		client:     client,
		store:      store,
		normalizer: normalizer,
		log:        log,
		windowDays: windowDays,
		now:        time.Now,
	}
}

// Runner returns the runnable pipeline closure for one ingestion run.
func (j *Job) Runner() func(context.Context) error {
	sources := map[string]pipeline.Source[models.RawComment]{
		sourceFeedbackAPI: func(ctx context.Context) ([]models.RawComment, error) {
			end := j.now().UTC()
			start := end.AddDate(0, 0, -j.windowDays)
			return j.client.Problems(ctx, start, end)
		},
	}

	// Rejected comments are stored too, they are raw records; scoring
	// skips them later because Words stays nil.
	transform := func(_ context.Context, source string, items []models.RawComment, run *pipeline.RunContext) ([]models.RawComment, error) {
		normalized := j.normalizer.Normalize(items)
		withWords := 0
		for _, c := range normalized {
			if len(c.Words) > 0 {
				withWords++
			}
		}
		run.Set("fetched:"+source, len(normalized))
		run.Set("scoreable:"+source, withWords)
		return normalized, nil
	}

	insert := func(ctx context.Context, items []models.RawComment) error {
		return j.store.InsertComments(ctx, items)
	}

	onComplete := func(_ context.Context, run *pipeline.RunContext) error {
		fetched, _ := run.Get("fetched:" + sourceFeedbackAPI)
		scoreable, _ := run.Get("scoreable:" + sourceFeedbackAPI)
		j.log.Info("feedback ingestion run finished", "fetched", fetched, "scoreable", scoreable)
		return nil
	}

	return pipeline.Assemble(pipeline.NewIndependent(sources, transform, insert, onComplete, j.log))
}
