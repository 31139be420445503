package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/blueprintmfg/settings-portal/internal/core/ports"
	"github.com/rs/zerolog"
)

func TestFetchData_LoadsAllCollections(t *testing.T) {
	g := newStubGateway()
	g.settings.rows = []ports.SettingRow{{ID: "s1", SKU: "A1", LegNumber: "7", CaseSize: "Small"}}
	g.fields.rows = []ports.FieldRow{{ID: "f1", Name: "Pressure", Key: "pressure", Type: "number", CategoryID: "c1"}}
	g.categories.rows = []ports.CategoryRow{{ID: "c1", Name: "Mechanical"}}
	g.config.rows = []ports.ConfigRow{{Key: "vote_period_days", Value: "14"}}
	s := newTestStore(g)

	if err := s.FetchData(context.Background()); err != nil {
		t.Fatalf("FetchData: %v", err)
	}
	if len(s.Settings()) != 1 || len(s.Fields()) != 1 || len(s.Categories()) != 1 {
		t.Fatalf("collections not loaded: %d settings, %d fields, %d categories",
			len(s.Settings()), len(s.Fields()), len(s.Categories()))
	}
	if s.AppConfig()["vote_period_days"] != "14" {
		t.Fatalf("app config not loaded: %v", s.AppConfig())
	}
	if s.LoadError() != "" {
		t.Fatalf("unexpected load error: %q", s.LoadError())
	}
}

func TestFetchData_ConcurrentCallsIssueOneQuerySet(t *testing.T) {
	g := newStubGateway()
	g.categories.block = make(chan struct{})
	s := newTestStore(g)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.FetchData(context.Background()); err != nil {
			t.Errorf("FetchData: %v", err)
		}
	}()

	// Wait until the first load is provably inside its first table query.
	for g.categories.selectCalls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}

	// Second trigger while in flight: dropped without issuing queries.
	if err := s.FetchData(context.Background()); err != nil {
		t.Fatalf("in-flight duplicate must be a silent no-op: %v", err)
	}

	close(g.categories.block)
	wg.Wait()

	if calls := g.categories.selectCalls.Load(); calls != 1 {
		t.Fatalf("expected exactly 1 categories query, got %d", calls)
	}
	if calls := g.settings.selectCalls.Load(); calls != 1 {
		t.Fatalf("expected exactly 1 settings query, got %d", calls)
	}
}

func TestFetchData_CriticalFailureSetsBanner(t *testing.T) {
	g := newStubGateway()
	g.settings.selectErr = errors.New("connection reset")
	s := newTestStore(g)

	err := s.FetchData(context.Background())
	if !errors.Is(err, ErrLoadFailed) {
		t.Fatalf("expected ErrLoadFailed, got %v", err)
	}
	if s.LoadError() != "failed to load settings" {
		t.Fatalf("unexpected banner: %q", s.LoadError())
	}

	// Categories and fields still loaded; settings stayed empty.
	if len(s.Settings()) != 0 {
		t.Fatalf("failed table must stay empty")
	}
}

func TestFetchData_NonCriticalFailureDegradesSilently(t *testing.T) {
	g := newStubGateway()

	// Votes select fails by wrapping the stub in a failing table.
	gw := g.gateway()
	gw.Votes = failingVotes{}
	s2 := New(gw, zerolog.Nop(), Options{Timeout: time.Second, Retries: 0, InitialDelay: time.Millisecond})

	if err := s2.FetchData(context.Background()); err != nil {
		t.Fatalf("non-critical failure must not fail the load: %v", err)
	}
	if s2.LoadError() != "" {
		t.Fatalf("non-critical failure must not set the banner: %q", s2.LoadError())
	}
	if len(s2.Votes()) != 0 {
		t.Fatalf("failed votes table must degrade to empty")
	}
}

type failingVotes struct{}

func (failingVotes) Select(context.Context) ([]ports.VoteRow, error) {
	return nil, errors.New("unavailable")
}

func (failingVotes) Insert(_ context.Context, row ports.VoteRow) (ports.VoteRow, error) {
	return row, nil
}

func TestFetchTable_RetriesThenSucceeds(t *testing.T) {
	attempts := 0
	query := func(context.Context) ([]int, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("transient")
		}
		return []int{1, 2}, nil
	}

	opts := Options{Timeout: time.Second, Retries: 3, InitialDelay: time.Millisecond}
	rows, ok := fetchTable(context.Background(), zerolog.Nop(), "numbers", opts, true, query, func(string) {
		t.Fatalf("critical failure callback must not fire on eventual success")
	})
	if !ok || len(rows) != 2 {
		t.Fatalf("expected success with 2 rows, got ok=%v rows=%v", ok, rows)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestFetchTable_TerminalFailureReportsBanner(t *testing.T) {
	query := func(context.Context) ([]int, error) {
		return nil, errors.New("down")
	}

	var banner string
	opts := Options{Timeout: time.Second, Retries: 1, InitialDelay: time.Millisecond}
	_, ok := fetchTable(context.Background(), zerolog.Nop(), "numbers", opts, true, query, func(msg string) {
		banner = msg
	})
	if ok {
		t.Fatalf("expected failure")
	}
	if banner != "failed to load numbers" {
		t.Fatalf("unexpected banner: %q", banner)
	}
}

func TestFetchTable_NilRowsBecomeEmptySlice(t *testing.T) {
	query := func(context.Context) ([]int, error) { return nil, nil }
	opts := Options{Timeout: time.Second, Retries: 0, InitialDelay: time.Millisecond}
	rows, ok := fetchTable(context.Background(), zerolog.Nop(), "numbers", opts, false, query, func(string) {})
	if !ok || rows == nil {
		t.Fatalf("expected non-nil empty slice, got ok=%v rows=%v", ok, rows)
	}
}
