package fetch

import (
	"context"

	"github.com/fwojciec/distill"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one URL in a batch fetch.
type Result struct {
	URL     string
	Content string
	Err     error
}

// ContentAll fetches several URLs concurrently with bounded
// parallelism, one page handle per URL. Per-URL failures land in the
// corresponding Result rather than aborting the batch; only context
// cancellation stops the group. Results are positionally aligned with
// the input slice.
func (s *Service) ContentAll(ctx context.Context, urls []string, opts distill.FetchOptions, concurrency int) ([]Result, error) {
	if concurrency <= 0 {
		concurrency = 1
	}

	results := make([]Result, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, u := range urls {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			content, err := s.Content(gctx, u, opts)
			results[i] = Result{URL: u, Content: content, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
