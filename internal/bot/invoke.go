package bot

import (
	"context"
	"time"

	"futuresbot/internal/metrics"
	"futuresbot/logger"
)

type operation struct {
	name    string
	success string
	failure string
}

// invoke runs one remote call. On failure it logs a single error entry and
// returns the zero value with an *OperationError.
func invoke[T any](ctx context.Context, b *Bot, op operation, fields logger.Fields, describe func(T) string, call func(context.Context) (T, error)) (T, error) {
	log := b.log.WithContext(ctx).WithComponent("bot").WithFields(fields).WithFields(logger.Fields{"operation": op.name})

	start := time.Now()
	result, err := call(ctx)
	logger.LogPerformanceEntry(log, "bot", op.name, time.Since(start), nil)

	if err != nil {
		kind := classify(err)
		log.WithFields(logger.Fields{"kind": string(kind)}).Errorf("%s: %s", op.failure, err)
		metrics.RecordOperation(b.log, op.name, "failure", string(kind))
		var zero T
		return zero, &OperationError{Op: op.name, Kind: kind, Err: err}
	}

	if describe != nil {
		log.Infof("%s: %s", op.success, describe(result))
	} else {
		log.Info(op.success)
	}
	metrics.RecordOperation(b.log, op.name, "success", "")
	return result, nil
}
