// file: internals/helpers/mailer/batch.go
package mailer

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultBatchSize bounds concurrent sends per batch (provider rate limits).
const DefaultBatchSize = 5

type Message struct {
	To      string
	Subject string
	HTML    string
}

type Result struct {
	To  string
	Err error
}

// SendInBatches delivers msgs in batches of batchSize, concurrently within a
// batch, sequentially across batches. Every message gets a Result; one failed
// send never aborts the rest of its batch or later batches.
func SendInBatches(ctx context.Context, m Mailer, msgs []Message, batchSize int) []Result {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	results := make([]Result, len(msgs))
	for start := 0; start < len(msgs); start += batchSize {
		end := start + batchSize
		if end > len(msgs) {
			end = len(msgs)
		}
		g, gctx := errgroup.Group{}, ctx
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				results[i] = Result{
					To:  msgs[i].To,
					Err: m.Send(gctx, msgs[i].To, msgs[i].Subject, msgs[i].HTML),
				}
				return nil // per-message errors are captured, never propagated
			})
		}
		_ = g.Wait()
	}
	return results
}
