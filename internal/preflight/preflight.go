package preflight

import (
	"context"

	"prism/internal/config"
	"prism/internal/corpus"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes all applicable preflight checks for the given config.
// The cache check only runs when the cache is enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	layout := corpus.Layout{Root: cfg.Paths.DataDir}

	var results []Result
	results = append(results, CheckReadableDirectory("Data directory", cfg.Paths.DataDir))
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	results = append(results, CheckKeyFiles(layout, cfg.Corpus.Databases))
	results = append(results, CheckTrialLists(layout))

	if cfg.Cache.Enabled {
		results = append(results, CheckDirectoryAccess("Cache directory", cfg.Paths.CacheDir))
		results = append(results, CheckKeyCache(ctx, cfg))
	}
	return results
}

// Passed reports whether every result passed.
func Passed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
