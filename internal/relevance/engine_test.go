package relevance

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lega0208/upd-new-sub004/internal/logging"
	"github.com/lega0208/upd-new-sub004/internal/models"
	"github.com/lega0208/upd-new-sub004/internal/relevance/text"
)

type fakeStore struct {
	comments []models.RawComment
	calls    int
	filters  []*EntityFilter
	err      error
}

func (f *fakeStore) CommentsByRange(_ context.Context, _, _ time.Time, filter *EntityFilter) ([]models.RawComment, error) {
	f.calls++
	f.filters = append(f.filters, filter)
	return f.comments, f.err
}

type recordingCache struct {
	data    map[string]any
	gets    []string
	sets    []string
	failGet bool
	failSet bool
}

func newRecordingCache() *recordingCache {
	return &recordingCache{data: make(map[string]any)}
}

func (c *recordingCache) Get(_ context.Context, key string) (any, error) {
	c.gets = append(c.gets, key)
	if c.failGet {
		return nil, errors.New("cache down")
	}
	return c.data[key], nil
}

func (c *recordingCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.sets = append(c.sets, key)
	if c.failSet {
		return errors.New("cache down")
	}
	c.data[key] = value
	return nil
}

func testComments() []models.RawComment {
	date := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	return []models.RawComment{
		{ID: "1", Date: date, Lang: "en", Comment: "I can't find my NOA", Page: "p1"},
		{ID: "2", Date: date, Lang: "en", Comment: "Great site, thanks!", Page: "p1"},
		{ID: "3", Date: date, Lang: "fr", Comment: "Je n'arrive pas à payer l'impôt", Page: "p1"},
		{ID: "4", Date: date, Lang: "en", Comment: "check bit.ly/win123 now", Page: "p1"},
	}
}

func newTestEngine(store CommentStore, cache Cache, opts Options) *Engine {
	n := text.NewNormalizer(text.DefaultDictionaries())
	return NewEngine(store, cache, n, logging.Discard(), opts)
}

func pageQuery() RelevanceQuery {
	return RelevanceQuery{Start: day(1), End: day(28), Type: FilterPage, ID: "p1"}
}

func TestMostRelevantScoresBothLanguages(t *testing.T) {
	store := &fakeStore{comments: testComments()}
	eng := newTestEngine(store, newRecordingCache(), Options{})

	res, err := eng.MostRelevant(context.Background(), pageQuery())
	require.NoError(t, err)

	// Comments 1 and 2 are scoreable English; the spam one is not.
	require.Len(t, res.EN.Comments, 2)
	require.Len(t, res.EN.Words, 5)
	require.Len(t, res.FR.Comments, 1)
	require.Len(t, res.FR.Words, 3)

	// Every English word occurs exactly once, so all scores are equal.
	for _, w := range res.EN.Words[1:] {
		assert.Equal(t, res.EN.Words[0].Score, w.Score)
	}
	for _, sc := range res.EN.Comments {
		assert.Nil(t, sc.Words)
		assert.Positive(t, sc.TfIdf)
		assert.Positive(t, sc.TfIdfNormalized)
	}

	require.Len(t, store.filters, 1)
	require.NotNil(t, store.filters[0])
	assert.Equal(t, EntityFilter{Type: FilterPage, ID: "p1"}, *store.filters[0])
}

func TestMostRelevantContractErrorBeforeAnyIO(t *testing.T) {
	store := &fakeStore{comments: testComments()}
	cache := newRecordingCache()
	eng := newTestEngine(store, cache, Options{})

	_, err := eng.MostRelevant(context.Background(), RelevanceQuery{
		Start: day(1), End: day(28), Type: FilterPage,
	})
	assert.ErrorIs(t, err, ErrFilterContract)
	assert.Zero(t, store.calls)
	assert.Empty(t, cache.gets)
	assert.Empty(t, cache.sets)
}

func TestMostRelevantCachesFilteredQueries(t *testing.T) {
	store := &fakeStore{comments: testComments()}
	cache := newRecordingCache()
	eng := newTestEngine(store, cache, Options{})

	_, err := eng.MostRelevant(context.Background(), pageQuery())
	require.NoError(t, err)
	assert.Equal(t, 1, store.calls)
	// Both the raw load and the scored result were written.
	require.Len(t, cache.sets, 2)
	assert.True(t, strings.HasPrefix(cache.sets[0], "comments:"))
	assert.True(t, strings.HasPrefix(cache.sets[1], "mostRelevant:"))
	// The raw-load key does not depend on the normalization strength.
	assert.NotContains(t, cache.sets[0], ":n")
	assert.Contains(t, cache.sets[1], ":n")

	res, err := eng.MostRelevant(context.Background(), pageQuery())
	require.NoError(t, err)
	assert.Equal(t, 1, store.calls, "second identical query must be served from cache")
	assert.Len(t, res.EN.Comments, 2)
}

func TestMostRelevantOverviewNeverCached(t *testing.T) {
	store := &fakeStore{comments: testComments()}
	cache := newRecordingCache()
	eng := newTestEngine(store, cache, Options{})

	q := RelevanceQuery{Start: day(1), End: day(28)}
	for i := 0; i < 2; i++ {
		res, err := eng.MostRelevant(context.Background(), q)
		require.NoError(t, err)
		assert.NotEmpty(t, res.EN.Comments)
	}
	assert.Equal(t, 2, store.calls)
	assert.Empty(t, cache.gets)
	assert.Empty(t, cache.sets)
	require.Len(t, store.filters, 2)
	assert.Nil(t, store.filters[0])
}

func TestMostRelevantCacheFailureDegradesToMiss(t *testing.T) {
	store := &fakeStore{comments: testComments()}
	cache := newRecordingCache()
	cache.failGet = true
	cache.failSet = true
	eng := newTestEngine(store, cache, Options{})

	res, err := eng.MostRelevant(context.Background(), pageQuery())
	require.NoError(t, err)
	assert.NotEmpty(t, res.EN.Comments)
	assert.Equal(t, 1, store.calls)

	// Still broken on the next call: recompute, don't fail.
	_, err = eng.MostRelevant(context.Background(), pageQuery())
	require.NoError(t, err)
	assert.Equal(t, 2, store.calls)
}

func TestMostRelevantStoreErrorPropagates(t *testing.T) {
	store := &fakeStore{err: errors.New("typesense unreachable")}
	eng := newTestEngine(store, newRecordingCache(), Options{})

	_, err := eng.MostRelevant(context.Background(), pageQuery())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "typesense unreachable")
}

func TestMostRelevantThresholdsApplyToDisplayOnly(t *testing.T) {
	store := &fakeStore{comments: testComments()}
	cache := newRecordingCache()
	eng := newTestEngine(store, cache, Options{
		CommentScoreThreshold: 1000,
		WordScoreThreshold:    1000,
	})

	res, err := eng.MostRelevant(context.Background(), pageQuery())
	require.NoError(t, err)
	assert.Empty(t, res.EN.Comments)
	assert.Empty(t, res.EN.Words)

	// The cached entry holds the unfiltered scored set.
	require.Len(t, cache.sets, 2)
	cached, ok := cache.data[cache.sets[1]].(*models.RelevanceResult)
	require.True(t, ok)
	assert.Len(t, cached.EN.Comments, 2)
	assert.Len(t, cached.EN.Words, 5)
}
