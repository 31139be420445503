package store

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/blueprintmfg/settings-portal/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub gateway
// ---------------------------------------------------------------------------

type stubSettingsTable struct {
	mu          sync.Mutex
	rows        []ports.SettingRow
	selectErr   error
	selectDelay time.Duration
	selectCalls atomic.Int32
}

func (t *stubSettingsTable) Select(_ context.Context) ([]ports.SettingRow, error) {
	t.selectCalls.Add(1)
	if t.selectDelay > 0 {
		time.Sleep(t.selectDelay)
	}
	if t.selectErr != nil {
		return nil, t.selectErr
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]ports.SettingRow, len(t.rows))
	copy(out, t.rows)
	return out, nil
}

func (t *stubSettingsTable) Insert(_ context.Context, row ports.SettingRow) (ports.SettingRow, error) {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	t.mu.Lock()
	t.rows = append(t.rows, row)
	t.mu.Unlock()
	return row, nil
}

func (t *stubSettingsTable) Update(_ context.Context, id string, row ports.SettingRow) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.rows {
		if t.rows[i].ID == id {
			row.ID = id
			t.rows[i] = row
			return nil
		}
	}
	return nil
}

func (t *stubSettingsTable) Delete(_ context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.rows[:0]
	for _, r := range t.rows {
		if r.ID != id {
			out = append(out, r)
		}
	}
	t.rows = out
	return nil
}

type stubFieldsTable struct {
	rows        []ports.FieldRow
	lastUpdates map[string]any
}

func (t *stubFieldsTable) Select(_ context.Context) ([]ports.FieldRow, error) {
	return t.rows, nil
}

func (t *stubFieldsTable) Insert(_ context.Context, row ports.FieldRow) (ports.FieldRow, error) {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	t.rows = append(t.rows, row)
	return row, nil
}

func (t *stubFieldsTable) Update(_ context.Context, _ string, updates map[string]any) error {
	t.lastUpdates = updates
	return nil
}

func (t *stubFieldsTable) Delete(_ context.Context, id string) error {
	out := t.rows[:0]
	for _, r := range t.rows {
		if r.ID != id {
			out = append(out, r)
		}
	}
	t.rows = out
	return nil
}

type stubCategoriesTable struct {
	rows        []ports.CategoryRow
	deleteCalls int

	// block, when set, stalls Select until the channel is closed.
	block       chan struct{}
	selectCalls atomic.Int32
}

func (t *stubCategoriesTable) Select(_ context.Context) ([]ports.CategoryRow, error) {
	t.selectCalls.Add(1)
	if t.block != nil {
		<-t.block
	}
	return t.rows, nil
}

func (t *stubCategoriesTable) Insert(_ context.Context, row ports.CategoryRow) (ports.CategoryRow, error) {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	t.rows = append(t.rows, row)
	return row, nil
}

func (t *stubCategoriesTable) Update(_ context.Context, id, name string) error {
	for i := range t.rows {
		if t.rows[i].ID == id {
			t.rows[i].Name = name
		}
	}
	return nil
}

func (t *stubCategoriesTable) Delete(_ context.Context, id string) error {
	t.deleteCalls++
	out := t.rows[:0]
	for _, r := range t.rows {
		if r.ID != id {
			out = append(out, r)
		}
	}
	t.rows = out
	return nil
}

type stubFeedbackTable struct {
	rows []ports.FeedbackRow
}

func (t *stubFeedbackTable) Select(_ context.Context) ([]ports.FeedbackRow, error) {
	return t.rows, nil
}

func (t *stubFeedbackTable) Insert(_ context.Context, row ports.FeedbackRow) error {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	t.rows = append(t.rows, row)
	return nil
}

func (t *stubFeedbackTable) UpdateStatus(_ context.Context, id, status string) error {
	for i := range t.rows {
		if t.rows[i].ID == id {
			t.rows[i].Status = status
		}
	}
	return nil
}

func (t *stubFeedbackTable) Delete(_ context.Context, id string) error {
	out := t.rows[:0]
	for _, r := range t.rows {
		if r.ID != id {
			out = append(out, r)
		}
	}
	t.rows = out
	return nil
}

type stubVotesTable struct {
	rows        []ports.VoteRow
	insertCalls int
}

func (t *stubVotesTable) Select(_ context.Context) ([]ports.VoteRow, error) {
	return t.rows, nil
}

func (t *stubVotesTable) Insert(_ context.Context, row ports.VoteRow) (ports.VoteRow, error) {
	t.insertCalls++
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	t.rows = append(t.rows, row)
	return row, nil
}

type stubConfigTable struct {
	rows []ports.ConfigRow
}

func (t *stubConfigTable) Select(_ context.Context) ([]ports.ConfigRow, error) {
	return t.rows, nil
}

func (t *stubConfigTable) Upsert(_ context.Context, key, value string) error {
	for i := range t.rows {
		if t.rows[i].Key == key {
			t.rows[i].Value = value
			return nil
		}
	}
	t.rows = append(t.rows, ports.ConfigRow{Key: key, Value: value})
	return nil
}

type stubProfilesTable struct {
	rows []ports.ProfileRow
}

func (t *stubProfilesTable) Select(_ context.Context) ([]ports.ProfileRow, error) {
	return t.rows, nil
}

func (t *stubProfilesTable) Find(_ context.Context, id string) (*ports.ProfileRow, error) {
	for i := range t.rows {
		if t.rows[i].ID == id {
			r := t.rows[i]
			return &r, nil
		}
	}
	return nil, nil
}

func (t *stubProfilesTable) Insert(_ context.Context, row ports.ProfileRow) error {
	t.rows = append(t.rows, row)
	return nil
}

func (t *stubProfilesTable) UpdateStatus(_ context.Context, id, status string) error {
	for i := range t.rows {
		if t.rows[i].ID == id {
			t.rows[i].Status = status
		}
	}
	return nil
}

type stubHistoryTable struct {
	rows      []ports.HistoryRow
	insertErr error
	lastLimit int64
}

func (t *stubHistoryTable) Select(_ context.Context, limit int64) ([]ports.HistoryRow, error) {
	t.lastLimit = limit
	return t.rows, nil
}

func (t *stubHistoryTable) Insert(_ context.Context, row ports.HistoryRow) error {
	if t.insertErr != nil {
		return t.insertErr
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	t.rows = append(t.rows, row)
	return nil
}

func (t *stubHistoryTable) Delete(_ context.Context, id string) error {
	out := t.rows[:0]
	for _, r := range t.rows {
		if r.ID != id {
			out = append(out, r)
		}
	}
	t.rows = out
	return nil
}

// stubGateway bundles one stub per table so tests can reach in and inspect.
type stubGateway struct {
	settings   *stubSettingsTable
	fields     *stubFieldsTable
	categories *stubCategoriesTable
	feedback   *stubFeedbackTable
	votes      *stubVotesTable
	config     *stubConfigTable
	profiles   *stubProfilesTable
	history    *stubHistoryTable
}

func newStubGateway() *stubGateway {
	return &stubGateway{
		settings:   &stubSettingsTable{},
		fields:     &stubFieldsTable{},
		categories: &stubCategoriesTable{},
		feedback:   &stubFeedbackTable{},
		votes:      &stubVotesTable{},
		config:     &stubConfigTable{},
		profiles:   &stubProfilesTable{},
		history:    &stubHistoryTable{},
	}
}

func (g *stubGateway) gateway() ports.Gateway {
	return ports.Gateway{
		Settings:   g.settings,
		Fields:     g.fields,
		Categories: g.categories,
		Feedback:   g.feedback,
		Votes:      g.votes,
		Config:     g.config,
		Profiles:   g.profiles,
		History:    g.history,
	}
}

// newTestStore builds a store with fast retry settings and a silent logger.
func newTestStore(g *stubGateway) *Store {
	return New(g.gateway(), zerolog.Nop(), Options{
		Timeout:      time.Second,
		Retries:      1,
		InitialDelay: time.Millisecond,
	})
}
