// Package store implements the application state store: the single owner of
// the in-memory entity collections mirrored from the backend gateway. Every
// mutation performs the remote write first and reconciles local state only
// on success. UI layers read snapshots and call mutation methods; they never
// touch store-owned state directly.
package store

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/blueprintmfg/settings-portal/internal/core/domain"
	"github.com/blueprintmfg/settings-portal/internal/core/ports"
)

const (
	defaultFetchTimeout = 15 * time.Second
	defaultRetries      = 3
	defaultInitialDelay = 500 * time.Millisecond
)

// Options tunes the fetch-with-retry behaviour of the bulk loader.
type Options struct {
	// Timeout is the hard per-attempt deadline for one table query.
	Timeout time.Duration
	// Retries is the number of additional attempts after the first.
	Retries int
	// InitialDelay is the first backoff; it doubles on every retry.
	InitialDelay time.Duration
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = defaultFetchTimeout
	}
	if o.Retries < 0 {
		o.Retries = defaultRetries
	}
	if o.InitialDelay <= 0 {
		o.InitialDelay = defaultInitialDelay
	}
	return o
}

// Store holds the in-memory application state. All collection access goes
// through the mutex; snapshot accessors return copies.
type Store struct {
	gw   ports.Gateway
	log  zerolog.Logger
	opts Options

	mu         sync.RWMutex
	settings   []domain.Setting
	fields     []domain.Field
	categories []domain.Category
	feedback   []domain.Feedback
	votes      []domain.Vote
	appConfig  map[string]string
	user       *domain.User
	loadErr    string

	legSearch        string
	skuSearch        string
	selectedCaseSize string

	// fetching is the in-flight guard: a second FetchData while one is
	// running is dropped.
	fetching atomic.Bool

	now func() time.Time
}

var _ ports.StateStore = (*Store)(nil)

// New builds a Store around the gateway. opts fields left zero fall back to
// the defaults above.
func New(gw ports.Gateway, log zerolog.Logger, opts Options) *Store {
	return &Store{
		gw:        gw,
		log:       log,
		opts:      opts.withDefaults(),
		appConfig: make(map[string]string),
		now:       time.Now,
	}
}

// --- Snapshots ---

func (s *Store) Settings() []domain.Setting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Setting, len(s.settings))
	for i, v := range s.settings {
		out[i] = v.Clone()
	}
	return out
}

func (s *Store) Fields() []domain.Field {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Field, len(s.fields))
	copy(out, s.fields)
	return out
}

func (s *Store) Categories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

func (s *Store) Feedback() []domain.Feedback {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Feedback, len(s.feedback))
	copy(out, s.feedback)
	return out
}

func (s *Store) Votes() []domain.Vote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Vote, len(s.votes))
	copy(out, s.votes)
	return out
}

func (s *Store) AppConfig() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.appConfig))
	for k, v := range s.appConfig {
		out[k] = v
	}
	return out
}

// votePeriod resolves the cooldown window from app_config, defaulting to
// domain.DefaultVotePeriodDays on absence or garbage.
func (s *Store) votePeriod() time.Duration {
	s.mu.RLock()
	raw := s.appConfig["vote_period_days"]
	s.mu.RUnlock()

	days := domain.DefaultVotePeriodDays
	if raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			days = n
		}
	}
	return time.Duration(days) * 24 * time.Hour
}

// --- Identity snapshot ---

func (s *Store) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) SetUser(user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user == nil {
		s.user = nil
		return
	}
	u := *user
	s.user = &u
}

func (s *Store) ClearUser() {
	s.SetUser(nil)
}

// --- Load-error banner state ---

func (s *Store) LoadError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

func (s *Store) ClearLoadError() {
	s.mu.Lock()
	s.loadErr = ""
	s.mu.Unlock()
}

func (s *Store) recordLoadError(msg string) {
	s.mu.Lock()
	// First failure wins; later tables don't overwrite the banner.
	if s.loadErr == "" {
		s.loadErr = msg
	}
	s.mu.Unlock()
}

// --- Search scratch state ---
// Held centrally so the navigation bar and the search page reset and read
// the same values.

func (s *Store) SetLegSearch(leg string) {
	s.mu.Lock()
	s.legSearch = leg
	s.mu.Unlock()
}

// SetSKUSearch records SKU text. Typing takes precedence over a case-size
// pick, so any selection is cleared.
func (s *Store) SetSKUSearch(sku string) {
	s.mu.Lock()
	s.skuSearch = sku
	if sku != "" {
		s.selectedCaseSize = ""
	}
	s.mu.Unlock()
}

func (s *Store) SetSelectedCaseSize(size string) {
	s.mu.Lock()
	s.selectedCaseSize = size
	s.mu.Unlock()
}

// ResetSearch clears all three search inputs atomically.
func (s *Store) ResetSearch() {
	s.mu.Lock()
	s.legSearch = ""
	s.skuSearch = ""
	s.selectedCaseSize = ""
	s.mu.Unlock()
}

func (s *Store) SearchState() (leg, sku, caseSize string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.legSearch, s.skuSearch, s.selectedCaseSize
}

// actor resolves who a mutation acts as: the request identity carried on
// the context when present, otherwise the reconciler's user snapshot.
// With several sessions resolved concurrently the snapshot holds whichever
// user resolved last, so request paths must carry their own identity.
func (s *Store) actor(ctx context.Context) (domain.Identity, bool) {
	if id, ok := domain.IdentityFrom(ctx); ok && id.ID != "" {
		return id, true
	}
	if u := s.User(); u != nil {
		return domain.Identity{ID: u.ID, Email: u.Email}, true
	}
	return domain.Identity{}, false
}

// userEmail returns the acting identity for audit entries.
func (s *Store) userEmail(ctx context.Context) string {
	if id, ok := s.actor(ctx); ok && id.Email != "" {
		return id.Email
	}
	return "unknown"
}
