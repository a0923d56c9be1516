package stemmer

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of stemming one word.
type Result struct {
	Word      string `json:"word"`
	Stem      string `json:"stem"`
	Corrected string `json:"corrected"`
}

// BatchOptions controls StemAll.
type BatchOptions struct {
	// Workers caps the number of goroutines. Defaults to GOMAXPROCS.
	Workers int
	// ChunkSize is the number of words handed to a worker at a time. Default 256.
	ChunkSize int
}

// DefaultBatchOptions returns the default batch settings.
func DefaultBatchOptions() *BatchOptions {
	return &BatchOptions{
		Workers:   runtime.GOMAXPROCS(0),
		ChunkSize: 256,
	}
}

// StemAll stems every word in parallel. Results keep the input order. The
// only error returned is the context's, when it is cancelled before all
// chunks finish.
func StemAll(ctx context.Context, words []string, opts *BatchOptions) ([]Result, error) {
	if opts == nil {
		opts = DefaultBatchOptions()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunk := opts.ChunkSize
	if chunk <= 0 {
		chunk = 256
	}

	results := make([]Result, len(words))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for start := 0; start < len(words); start += chunk {
		end := min(start+chunk, len(words))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				stem := Stem(words[i])
				results[i] = Result{
					Word:      words[i],
					Stem:      stem,
					Corrected: Correct(words[i], stem),
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
