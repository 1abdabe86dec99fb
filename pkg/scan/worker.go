// File: pkg/scan/worker.go
package scan

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// worker is the background task of one scan. It owns out and closes it
// when the pipeline returns, so a consumer ranging over out always ends.
func worker(ctx context.Context, p *Pipeline, req Request, out chan<- Event, logger *zap.Logger) error {
	defer close(out)
	logger.Debug("Worker started", zap.String("scanID", req.ID), zap.String("root", req.Root))

	err := p.Run(ctx, req, out)
	switch {
	case errors.Is(err, context.Canceled):
		logger.Debug("Worker cancelled", zap.String("scanID", req.ID))
		return nil
	case err != nil:
		logger.Debug("Worker finished with error", zap.String("scanID", req.ID), zap.Error(err))
		return err
	}

	logger.Debug("Worker finished processing", zap.String("scanID", req.ID))
	return nil
}
