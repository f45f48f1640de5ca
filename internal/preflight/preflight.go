package preflight

import (
	"context"

	"hitchcock/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Skipped bool   `json:"skipped"`
	Detail  string `json:"detail"`
}

// OK reports whether the check passed or was skipped.
func (r Result) OK() bool {
	return r.Passed || r.Skipped
}

// Options adjusts which checks RunAll performs.
type Options struct {
	// SkipLLM omits the network round trip to the LLM.
	SkipLLM bool
}

// RunAll executes the preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config, opts Options) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckDatabaseFile("Database", cfg.DatabasePath()),
	}

	if opts.SkipLLM {
		results = append(results, Result{Name: "LLM", Skipped: true, Detail: "skipped"})
	} else {
		results = append(results, CheckLLM(ctx, "LLM", cfg.GetLLM()))
	}
	return results
}

// Failed returns the results that neither passed nor were skipped.
func Failed(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if !result.OK() {
			failed = append(failed, result)
		}
	}
	return failed
}
