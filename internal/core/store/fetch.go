package store

import (
	"context"
	"errors"

	"github.com/blueprintmfg/settings-portal/internal/api/metrics"
	"github.com/blueprintmfg/settings-portal/internal/core/domain"
	"github.com/blueprintmfg/settings-portal/internal/core/ports"
)

// ErrLoadFailed marks a bulk load whose critical tables could not be
// fetched; the banner message is in LoadError().
var ErrLoadFailed = errors.New("data load failed")

// FetchData is the bulk loader. Categories, settings, and fields are
// critical: a terminal failure on any of them surfaces the load-error
// banner. Feedback, votes, and app_config are best-effort. All six fetches
// run sequentially to avoid saturating the backend connection pool.
//
// Re-entrant calls while a load is in flight are no-ops, so an auth event
// and a manual refresh firing together issue exactly one set of queries.
func (s *Store) FetchData(ctx context.Context) error {
	if !s.fetching.CompareAndSwap(false, true) {
		s.log.Debug().Msg("data fetch already in flight, skipping")
		metrics.DataLoadsTotal.WithLabelValues("skipped").Inc()
		return nil
	}
	defer s.fetching.Store(false)

	s.ClearLoadError()

	// Critical tables.
	catRows, catsOK := fetchTable(ctx, s.log, "categories", s.opts, true, s.gw.Categories.Select, s.recordLoadError)
	settingRows, settingsOK := fetchTable(ctx, s.log, "settings", s.opts, true, s.gw.Settings.Select, s.recordLoadError)
	fieldRows, fieldsOK := fetchTable(ctx, s.log, "fields", s.opts, true, s.gw.Fields.Select, s.recordLoadError)

	// Non-critical tables: a failed slice stays empty, nothing blocks.
	feedbackRows, feedbackOK := fetchTable(ctx, s.log, "feedback", s.opts, false, s.gw.Feedback.Select, s.recordLoadError)
	voteRows, votesOK := fetchTable(ctx, s.log, "votes", s.opts, false, s.gw.Votes.Select, s.recordLoadError)
	configRows, configOK := fetchTable(ctx, s.log, "app_config", s.opts, false, s.gw.Config.Select, s.recordLoadError)

	s.mu.Lock()
	if catsOK {
		s.categories = categoriesFromRows(catRows)
	}
	if settingsOK {
		s.settings = settingsFromRows(settingRows)
	}
	if fieldsOK {
		s.fields = fieldsFromRows(fieldRows)
	}
	if feedbackOK {
		s.feedback = feedbackFromRows(feedbackRows)
	} else {
		s.feedback = []domain.Feedback{}
	}
	if votesOK {
		s.votes = votesFromRows(voteRows)
	} else {
		s.votes = []domain.Vote{}
	}
	if configOK {
		s.appConfig = configFromRows(configRows)
	} else {
		s.appConfig = map[string]string{}
	}
	s.mu.Unlock()

	if !catsOK || !settingsOK || !fieldsOK {
		metrics.DataLoadsTotal.WithLabelValues("error").Inc()
		return ErrLoadFailed
	}

	metrics.DataLoadsTotal.WithLabelValues("ok").Inc()
	s.log.Info().
		Int("settings", len(settingRows)).
		Int("fields", len(fieldRows)).
		Int("categories", len(catRows)).
		Msg("data loaded")
	return nil
}

// RefreshData is the user-facing alias for FetchData.
func (s *Store) RefreshData(ctx context.Context) error {
	return s.FetchData(ctx)
}

// --- Row → domain conversion (the single snake→camel boundary) ---

func settingsFromRows(rows []ports.SettingRow) []domain.Setting {
	out := make([]domain.Setting, len(rows))
	for i, r := range rows {
		out[i] = flattenSettingRow(r)
	}
	return out
}

func fieldsFromRows(rows []ports.FieldRow) []domain.Field {
	out := make([]domain.Field, len(rows))
	for i, r := range rows {
		out[i] = fieldFromRow(r)
	}
	return out
}

func categoriesFromRows(rows []ports.CategoryRow) []domain.Category {
	out := make([]domain.Category, len(rows))
	for i, r := range rows {
		out[i] = domain.Category{ID: r.ID, Name: r.Name}
	}
	return out
}

func feedbackFromRows(rows []ports.FeedbackRow) []domain.Feedback {
	out := make([]domain.Feedback, len(rows))
	for i, r := range rows {
		out[i] = domain.Feedback{
			ID:        r.ID,
			Type:      domain.FeedbackType(r.Type),
			Name:      r.Name,
			Message:   r.Message,
			SKU:       r.SKU,
			LegNumber: r.LegNumber,
			Status:    domain.FeedbackStatus(r.Status),
			Date:      r.Date,
		}
	}
	return out
}

func votesFromRows(rows []ports.VoteRow) []domain.Vote {
	out := make([]domain.Vote, len(rows))
	for i, r := range rows {
		out[i] = domain.Vote{ID: r.ID, UserID: r.UserID, SettingID: r.SettingID, CreatedAt: r.CreatedAt}
	}
	return out
}

func configFromRows(rows []ports.ConfigRow) map[string]string {
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Value
	}
	return out
}
