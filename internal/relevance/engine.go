// Package relevance ranks recent free-text feedback. Given a date range
// and an optional page/task/project filter it loads raw comments,
// normalizes them, scores words and comments per language partition and
// memoizes the result behind a composite query fingerprint.
package relevance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lega0208/upd-new-sub004/internal/logging"
	"github.com/lega0208/upd-new-sub004/internal/models"
	"github.com/lega0208/upd-new-sub004/internal/relevance/ranking"
	"github.com/lega0208/upd-new-sub004/internal/relevance/text"
)

// Cache namespaces, each with its own TTL.
const (
	nsComments     = "comments"
	nsMostRelevant = "mostRelevant"
)

// EntityFilter narrows a comment load to one page, task or project.
type EntityFilter struct {
	Type string
	ID   string
}

// CommentStore is the storage collaborator: filter-by-date-range-and-
// entity-id is all the engine requires of it.
type CommentStore interface {
	CommentsByRange(ctx context.Context, start, end time.Time, filter *EntityFilter) ([]models.RawComment, error)
}

// Options tunes the engine.
type Options struct {
	CommentsTTL           time.Duration
	MostRelevantTTL       time.Duration
	CommentScoreThreshold float64
	WordScoreThreshold    float64
	DefaultStrength       float64
}

// Engine computes the most relevant recent comments and words for a
// query. All collaborators are injected; tests supply in-memory fakes.
type Engine struct {
	store      CommentStore
	cache      Cache
	normalizer *text.Normalizer
	log        logging.Logger
	opts       Options
}

// NewEngine builds an Engine. Zero option fields fall back to defaults.
func NewEngine(store CommentStore, cache Cache, normalizer *text.Normalizer, log logging.Logger, opts Options) *Engine {
	if opts.CommentsTTL <= 0 {
		opts.CommentsTTL = 12 * time.Hour
	}
	if opts.MostRelevantTTL <= 0 {
		opts.MostRelevantTTL = 24 * time.Hour
	}
	if opts.DefaultStrength <= 0 {
		opts.DefaultStrength = ranking.DefaultNormalizationStrength
	}
	return &Engine{
		store:      store,
		cache:      cache,
		normalizer: normalizer,
		log:        log,
		opts:       opts,
	}
}

// MostRelevant returns the ranked words and comments for both language
// partitions. The full scored set is cached; score thresholds are applied
// only to the returned copy so they can be re-evaluated without
// recomputation. Overview queries (no filter) are computed fresh every
// time and never written to cache.
func (e *Engine) MostRelevant(ctx context.Context, q RelevanceQuery) (*models.RelevanceResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if q.NormalizationStrength <= 0 {
		q.NormalizationStrength = e.opts.DefaultStrength
	}

	overview := q.Overview()
	key := q.CacheKey(nsMostRelevant)
	if !overview {
		if cached, err := e.cache.Get(ctx, key); err != nil {
			e.log.Warn("relevance cache read failed, recomputing", "key", key, "err", err)
		} else if res, ok := cached.(*models.RelevanceResult); ok {
			return e.applyThresholds(res), nil
		}
	}

	comments, err := e.loadComments(ctx, q, overview)
	if err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}

	partitions := splitByLang(e.normalizer.Normalize(comments))

	// Language partitions are independent; score them concurrently.
	var res models.RelevanceResult
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		res.EN = scorePartition(partitions[models.LangEN], q.NormalizationStrength)
	}()
	go func() {
		defer wg.Done()
		res.FR = scorePartition(partitions[models.LangFR], q.NormalizationStrength)
	}()
	wg.Wait()

	if !overview {
		if err := e.cache.Set(ctx, key, &res, e.opts.MostRelevantTTL); err != nil {
			e.log.Warn("relevance cache write failed", "key", key, "err", err)
		}
	}
	return e.applyThresholds(&res), nil
}

// loadComments fetches the raw comments for the query window, memoized
// under the comments namespace. The memo key drops the normalization
// strength: it does not affect what is loaded.
func (e *Engine) loadComments(ctx context.Context, q RelevanceQuery, overview bool) ([]models.RawComment, error) {
	memo := q
	memo.NormalizationStrength = 0
	key := memo.CacheKey(nsComments)

	if !overview {
		if cached, err := e.cache.Get(ctx, key); err != nil {
			e.log.Warn("comments cache read failed, reloading", "key", key, "err", err)
		} else if comments, ok := cached.([]models.RawComment); ok {
			return comments, nil
		}
	}

	var filter *EntityFilter
	if q.Type != "" {
		filter = &EntityFilter{Type: q.Type, ID: q.ID}
	}
	comments, err := e.store.CommentsByRange(ctx, q.Start, q.End, filter)
	if err != nil {
		return nil, err
	}

	if !overview {
		if err := e.cache.Set(ctx, key, comments, e.opts.CommentsTTL); err != nil {
			e.log.Warn("comments cache write failed", "key", key, "err", err)
		}
	}
	return comments, nil
}

func scorePartition(comments []models.RawComment, strength float64) models.LanguageResult {
	words := ranking.ScoreWords(comments)
	return models.LanguageResult{
		Comments: ranking.ScoreComments(comments, words, strength),
		Words:    words,
	}
}

func splitByLang(comments []models.RawComment) map[string][]models.RawComment {
	partitions := make(map[string][]models.RawComment, 2)
	for _, c := range comments {
		switch c.Lang {
		case models.LangEN, models.LangFR:
			partitions[c.Lang] = append(partitions[c.Lang], c)
		}
	}
	return partitions
}

// applyThresholds filters the cached result down to the display set.
func (e *Engine) applyThresholds(res *models.RelevanceResult) *models.RelevanceResult {
	return &models.RelevanceResult{
		EN: e.filterResult(res.EN),
		FR: e.filterResult(res.FR),
	}
}

func (e *Engine) filterResult(lr models.LanguageResult) models.LanguageResult {
	out := models.LanguageResult{
		Comments: make([]models.ScoredComment, 0, len(lr.Comments)),
		Words:    make([]models.WordScore, 0, len(lr.Words)),
	}
	for _, c := range lr.Comments {
		if c.TfIdfNormalized >= e.opts.CommentScoreThreshold {
			out.Comments = append(out.Comments, c)
		}
	}
	for _, w := range lr.Words {
		if w.Score >= e.opts.WordScoreThreshold {
			out.Words = append(out.Words, w)
		}
	}
	return out
}
