package store

import (
	"context"
	"fmt"

	"github.com/blueprintmfg/settings-portal/internal/api/metrics"
	"github.com/blueprintmfg/settings-portal/internal/core/domain"
	"github.com/blueprintmfg/settings-portal/internal/core/ports"
)

// AddFeedback writes a new pending submission, then re-reads the whole
// collection: the row id is server-generated, so a full re-read is simpler
// than optimistic patching.
func (s *Store) AddFeedback(ctx context.Context, input ports.FeedbackInput) error {
	row := ports.FeedbackRow{
		Type:      input.Type,
		Name:      input.Name,
		Message:   input.Message,
		SKU:       input.SKU,
		LegNumber: input.LegNumber,
		Status:    string(domain.FeedbackPending),
		Date:      s.now().UTC(),
	}
	if err := s.gw.Feedback.Insert(ctx, row); err != nil {
		s.log.Error().Err(err).Str("type", input.Type).Msg("failed to submit feedback")
		return fmt.Errorf("add feedback: %w", err)
	}

	rows, err := s.gw.Feedback.Select(ctx)
	if err != nil {
		// The insert succeeded; a failed re-read only leaves the local
		// list stale until the next load.
		s.log.Warn().Err(err).Msg("failed to reload feedback after insert")
		return nil
	}

	s.mu.Lock()
	s.feedback = feedbackFromRows(rows)
	s.mu.Unlock()
	metrics.MutationsTotal.WithLabelValues("feedback", "create").Inc()
	return nil
}

func (s *Store) ResolveFeedback(ctx context.Context, id string) error {
	if err := s.gw.Feedback.UpdateStatus(ctx, id, string(domain.FeedbackResolved)); err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("failed to resolve feedback")
		return fmt.Errorf("resolve feedback: %w", err)
	}

	s.mu.Lock()
	for i := range s.feedback {
		if s.feedback[i].ID == id {
			s.feedback[i].Status = domain.FeedbackResolved
			break
		}
	}
	s.mu.Unlock()
	metrics.MutationsTotal.WithLabelValues("feedback", "update").Inc()
	return nil
}

func (s *Store) DeleteFeedback(ctx context.Context, id string) error {
	if err := s.gw.Feedback.Delete(ctx, id); err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("failed to delete feedback")
		return fmt.Errorf("delete feedback: %w", err)
	}

	s.mu.Lock()
	out := s.feedback[:0]
	for _, f := range s.feedback {
		if f.ID != id {
			out = append(out, f)
		}
	}
	s.feedback = out
	s.mu.Unlock()
	metrics.MutationsTotal.WithLabelValues("feedback", "delete").Inc()
	return nil
}
