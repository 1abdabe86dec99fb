// File: pkg/scan/dispatch.go
package scan

import (
	"context"
	"errors"

	"projectdump/pkg/format"

	"golang.org/x/sync/errgroup"
)

// Dispatch runs req on s and collects its events into b. The producer is
// the session worker and the consumer is Collect; both are joined before
// returning. Events left after a terminal event are drained so the worker
// never blocks on a full channel.
func Dispatch(ctx context.Context, s *Session, req Request, b format.Builder, observe func(Event)) (string, error) {
	_, events, err := s.Start(ctx, req)
	if err != nil {
		return "", err
	}

	var (
		g   errgroup.Group
		doc string
	)
	g.Go(func() error {
		defer func() {
			for range events {
			}
		}()
		var cerr error
		doc, cerr = Collect(events, b, observe)
		return cerr
	})
	g.Go(s.Wait)

	if err := g.Wait(); err != nil {
		if errors.Is(err, ErrIncomplete) && ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}
	return doc, nil
}
