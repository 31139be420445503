package store

import (
	"context"
	"fmt"

	"github.com/blueprintmfg/settings-portal/internal/api/metrics"
	"github.com/blueprintmfg/settings-portal/internal/core/domain"
)

// UpdateAppConfig upserts one configuration key (insert-or-replace).
func (s *Store) UpdateAppConfig(ctx context.Context, key, value string) error {
	if err := s.gw.Config.Upsert(ctx, key, value); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("failed to update app config")
		return fmt.Errorf("update app config: %w", err)
	}

	s.mu.Lock()
	s.appConfig[key] = value
	s.mu.Unlock()
	metrics.MutationsTotal.WithLabelValues("app_config", "update").Inc()
	return nil
}

// Profiles lists user profiles, newest first. Not part of the bulk load:
// the admin users tab fetches on demand.
func (s *Store) Profiles(ctx context.Context) ([]domain.Profile, error) {
	rows, err := s.gw.Profiles.Select(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	out := make([]domain.Profile, len(rows))
	for i, r := range rows {
		out[i] = domain.Profile{
			ID:        r.ID,
			Email:     r.Email,
			Role:      r.Role,
			Status:    domain.ProfileStatus(r.Status),
			FirstName: r.FirstName,
			LastName:  r.LastName,
			CreatedAt: r.CreatedAt,
		}
	}
	return out, nil
}

// UpdateProfileStatus approves or rejects a pending account.
func (s *Store) UpdateProfileStatus(ctx context.Context, id string, status domain.ProfileStatus) error {
	if err := s.gw.Profiles.UpdateStatus(ctx, id, string(status)); err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("failed to update profile status")
		return fmt.Errorf("update profile status: %w", err)
	}
	metrics.MutationsTotal.WithLabelValues("profile", "update").Inc()
	return nil
}

// History returns the most recent audit entries, newest first. Fetched on
// demand like Profiles.
func (s *Store) History(ctx context.Context, limit int64) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.gw.History.Select(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	out := make([]domain.HistoryEntry, len(rows))
	for i, r := range rows {
		out[i] = domain.HistoryEntry{
			ID:        r.ID,
			UserEmail: r.UserEmail,
			Action:    domain.HistoryAction(r.Action),
			Details:   r.Details,
			CreatedAt: r.CreatedAt,
		}
	}
	return out, nil
}

// DeleteHistory removes one audit entry.
func (s *Store) DeleteHistory(ctx context.Context, id string) error {
	if err := s.gw.History.Delete(ctx, id); err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("failed to delete history entry")
		return fmt.Errorf("delete history: %w", err)
	}
	metrics.MutationsTotal.WithLabelValues("history", "delete").Inc()
	return nil
}
