// The relevance command runs one most-relevant query against the
// feedback collection and prints the {en, fr} result as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/lega0208/upd-new-sub004/internal/config"
	"github.com/lega0208/upd-new-sub004/internal/logging"
	"github.com/lega0208/upd-new-sub004/internal/relevance"
	"github.com/lega0208/upd-new-sub004/internal/relevance/text"
	"github.com/lega0208/upd-new-sub004/internal/storage/typesense"
)

func main() {
	var (
		startFlag    = flag.String("start", "", "range start (YYYY-MM-DD, required)")
		endFlag      = flag.String("end", "", "range end (YYYY-MM-DD, required)")
		typeFlag     = flag.String("type", "", "filter type: page, task or project")
		idFlag       = flag.String("id", "", "filter id (required with -type)")
		strengthFlag = flag.Float64("strength", 0, "normalization strength (0 = configured default)")
	)
	flag.Parse()

	cfg := config.LoadConfig()
	log := logging.New(logging.Config{Level: cfg.LogLevel, JSON: cfg.LogJSON})

	start, err := time.Parse("2006-01-02", *startFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid -start date")
		os.Exit(2)
	}
	end, err := time.Parse("2006-01-02", *endFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid -end date")
		os.Exit(2)
	}

	store := typesense.NewStore(cfg, log)
	engine := relevance.NewEngine(
		store,
		relevance.NewMemoryCache(cfg.CacheMaxEntries),
		text.NewNormalizer(text.DefaultDictionaries()),
		log,
		relevance.Options{
			CommentsTTL:           time.Duration(cfg.CommentsTTLHours) * time.Hour,
			MostRelevantTTL:       time.Duration(cfg.MostRelevantTTLHours) * time.Hour,
			CommentScoreThreshold: cfg.CommentScoreThreshold,
			WordScoreThreshold:    cfg.WordScoreThreshold,
			DefaultStrength:       cfg.NormalizationStrength,
		},
	)

	result, err := engine.MostRelevant(context.Background(), relevance.RelevanceQuery{
		Start:                 start,
		End:                   end,
		Type:                  *typeFlag,
		ID:                    *idFlag,
		NormalizationStrength: *strengthFlag,
	})
	if err != nil {
		log.Error("relevance query failed", "err", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Error("encoding result failed", "err", err)
		os.Exit(1)
	}
}
