// Package typesense adapts the Typesense feedback collection to the
// engine's storage contract: filter comments by date range and optional
// entity id, and bulk-insert preprocessed comments.
package typesense

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/typesense/typesense-go/v3/typesense"
	"github.com/typesense/typesense-go/v3/typesense/api"

	"github.com/lega0208/upd-new-sub004/internal/config"
	"github.com/lega0208/upd-new-sub004/internal/logging"
	"github.com/lega0208/upd-new-sub004/internal/models"
	"github.com/lega0208/upd-new-sub004/internal/relevance"
)

// pageLimit is the maximum page size Typesense allows.
const pageLimit = 250

// commentDocument is the collection schema shape. Dates are stored as
// unix seconds so filter_by range expressions work.
type commentDocument struct {
	ID       string   `json:"id"`
	Date     int64    `json:"date"`
	URL      string   `json:"url"`
	Lang     string   `json:"lang"`
	Comment  string   `json:"comment"`
	Theme    string   `json:"theme,omitempty"`
	Page     string   `json:"page,omitempty"`
	Tasks    []string `json:"tasks,omitempty"`
	Projects []string `json:"projects,omitempty"`
	Words    []string `json:"words,omitempty"`
}

// Store implements relevance.CommentStore and the ingestion inserter on
// top of a Typesense collection.
type Store struct {
	client     *typesense.Client
	collection string
	log        logging.Logger
}

// NewStore connects to the configured Typesense server.
func NewStore(cfg *config.Config, log logging.Logger) *Store {
	client := typesense.NewClient(
		typesense.WithServer(fmt.Sprintf("%s://%s:%s", cfg.TypesenseProtocol, cfg.TypesenseHost, cfg.TypesensePort)),
		typesense.WithAPIKey(cfg.TypesenseAPIKey),
	)
	return &Store{
		client:     client,
		collection: cfg.FeedbackCollection,
		log:        log,
	}
}

// CommentsByRange returns all comments in [start, end), optionally
// narrowed to one page, task or project, in submission order.
func (s *Store) CommentsByRange(ctx context.Context, start, end time.Time, filter *relevance.EntityFilter) ([]models.RawComment, error) {
	filterBy, err := buildFilter(start, end, filter)
	if err != nil {
		return nil, err
	}

	var comments []models.RawComment
	page := 1
	for {
		searchParams := &api.SearchCollectionParams{
			Q:        stringPtr("*"),
			QueryBy:  stringPtr("comment"),
			FilterBy: &filterBy,
			SortBy:   stringPtr("date:asc"),
			Page:     intPtr(page),
			PerPage:  intPtr(pageLimit),
		}

		result, err := s.client.Collection(s.collection).Documents().Search(ctx, searchParams)
		if err != nil {
			return nil, fmt.Errorf("search %s: %w", s.collection, err)
		}

		hits := 0
		if result.Hits != nil {
			hits = len(*result.Hits)
			for _, hit := range *result.Hits {
				if hit.Document == nil {
					continue
				}
				doc, err := decodeDocument(*hit.Document)
				if err != nil {
					s.log.Warn("skipping undecodable comment document", "err", err)
					continue
				}
				comments = append(comments, doc)
			}
		}
		if hits < pageLimit {
			break
		}
		page++
	}
	return comments, nil
}

// InsertComments bulk-upserts comments into the collection.
func (s *Store) InsertComments(ctx context.Context, comments []models.RawComment) error {
	if len(comments) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(comments))
	for _, c := range comments {
		docs = append(docs, toDocument(c))
	}

	action := api.Upsert
	batchSize := 100
	params := &api.ImportDocumentsParams{Action: &action, BatchSize: &batchSize}
	responses, err := s.client.Collection(s.collection).Documents().Import(ctx, docs, params)
	if err != nil {
		return fmt.Errorf("import into %s: %w", s.collection, err)
	}

	failed := 0
	for _, r := range responses {
		if !r.Success {
			failed++
			s.log.Warn("comment import rejected", "err", r.Error)
		}
	}
	if failed > 0 {
		return fmt.Errorf("import into %s: %d of %d documents rejected", s.collection, failed, len(docs))
	}
	return nil
}

// buildFilter renders the filter_by expression for a query window.
func buildFilter(start, end time.Time, filter *relevance.EntityFilter) (string, error) {
	expr := fmt.Sprintf("date:>=%d && date:<%d", start.UTC().Unix(), end.UTC().Unix())
	if filter == nil {
		return expr, nil
	}
	switch filter.Type {
	case relevance.FilterPage:
		return fmt.Sprintf("%s && page:=%s", expr, filter.ID), nil
	case relevance.FilterTask:
		return fmt.Sprintf("%s && tasks:=%s", expr, filter.ID), nil
	case relevance.FilterProject:
		return fmt.Sprintf("%s && projects:=%s", expr, filter.ID), nil
	default:
		return "", fmt.Errorf("%w: %q", relevance.ErrInvalidFilterType, filter.Type)
	}
}

func toDocument(c models.RawComment) commentDocument {
	return commentDocument{
		ID:       c.ID,
		Date:     c.Date.UTC().Unix(),
		URL:      c.URL,
		Lang:     c.Lang,
		Comment:  c.Comment,
		Theme:    c.Theme,
		Page:     c.Page,
		Tasks:    c.Tasks,
		Projects: c.Projects,
		Words:    c.Words,
	}
}

func decodeDocument(raw map[string]interface{}) (models.RawComment, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return models.RawComment{}, err
	}
	var doc commentDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return models.RawComment{}, err
	}
	return models.RawComment{
		ID:       doc.ID,
		Date:     time.Unix(doc.Date, 0).UTC(),
		URL:      doc.URL,
		Lang:     doc.Lang,
		Comment:  doc.Comment,
		Theme:    doc.Theme,
		Page:     doc.Page,
		Tasks:    doc.Tasks,
		Projects: doc.Projects,
		Words:    doc.Words,
	}, nil
}

func stringPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}
