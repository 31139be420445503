package store

import (
	"context"
	"fmt"

	"github.com/blueprintmfg/settings-portal/internal/api/metrics"
	"github.com/blueprintmfg/settings-portal/internal/core/domain"
	"github.com/blueprintmfg/settings-portal/internal/core/ports"
)

// AddVote records "this setting is working" for the acting user. Guests
// are rejected before any remote call, as is a repeat vote for the same
// setting inside the cooldown window. The cooldown is evaluated against the
// already-loaded vote list; best-effort, not a server-enforced uniqueness.
func (s *Store) AddVote(ctx context.Context, settingID string) (domain.Vote, error) {
	user, ok := s.actor(ctx)
	if !ok {
		metrics.VotesRejectedTotal.WithLabelValues("login_required").Inc()
		return domain.Vote{}, domain.ErrLoginRequired
	}

	cutoff := s.now().Add(-s.votePeriod())
	s.mu.RLock()
	blocked := false
	for _, v := range s.votes {
		if v.UserID == user.ID && v.SettingID == settingID && v.CreatedAt.After(cutoff) {
			blocked = true
			break
		}
	}
	s.mu.RUnlock()
	if blocked {
		metrics.VotesRejectedTotal.WithLabelValues("cooldown").Inc()
		return domain.Vote{}, domain.ErrVoteCooldown
	}

	row := ports.VoteRow{
		UserID:    user.ID,
		SettingID: settingID,
		CreatedAt: s.now().UTC(),
	}
	inserted, err := s.gw.Votes.Insert(ctx, row)
	if err != nil {
		s.log.Error().Err(err).Str("setting_id", settingID).Msg("failed to record vote")
		return domain.Vote{}, fmt.Errorf("add vote: %w", err)
	}

	vote := domain.Vote{ID: inserted.ID, UserID: inserted.UserID, SettingID: inserted.SettingID, CreatedAt: inserted.CreatedAt}
	s.mu.Lock()
	s.votes = append(s.votes, vote)
	s.mu.Unlock()

	metrics.VotesRecordedTotal.Inc()
	s.log.Info().Str("setting_id", settingID).Str("user_id", user.ID).Msg("setting marked as working")
	return vote, nil
}
