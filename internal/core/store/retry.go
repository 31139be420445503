package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/blueprintmfg/settings-portal/internal/api/metrics"
)

// fetchTable runs one table query under a hard per-attempt timeout with
// exponential-backoff retries. The loop is iterative with an explicit
// attempt counter. It never propagates an error: callers get the rows and
// ok=true, or nil and ok=false. Terminal failure on a critical table is
// reported through onCriticalFail (the load-error banner); a non-critical
// table degrades silently to empty.
//
// Worst-case latency is bounded by timeout*(retries+1) plus the sum of the
// backoff delays.
func fetchTable[T any](
	ctx context.Context,
	log zerolog.Logger,
	table string,
	opts Options,
	critical bool,
	query func(ctx context.Context) ([]T, error),
	onCriticalFail func(msg string),
) ([]T, bool) {
	attempts := opts.Retries + 1
	delay := opts.InitialDelay

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
		rows, err := query(attemptCtx)
		cancel()

		if err == nil {
			if rows == nil {
				rows = []T{}
			}
			return rows, true
		}
		lastErr = err

		if attempt == attempts {
			break
		}

		metrics.FetchRetriesTotal.WithLabelValues(table).Inc()
		log.Warn().Err(err).
			Str("table", table).
			Int("attempt", attempt).
			Dur("backoff", delay).
			Msg("table fetch failed, retrying")

		select {
		case <-ctx.Done():
			// Caller gone; stop retrying.
			lastErr = ctx.Err()
			attempt = attempts
		case <-time.After(delay):
		}
		delay *= 2
	}

	metrics.FetchFailuresTotal.WithLabelValues(table, boolLabel(critical)).Inc()
	if critical {
		log.Error().Err(lastErr).Str("table", table).Msg("table fetch failed after retries")
		onCriticalFail(fmt.Sprintf("failed to load %s", table))
	} else {
		log.Warn().Err(lastErr).Str("table", table).Msg("non-critical table fetch failed, continuing without it")
	}
	return nil, false
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
