package store

import (
	"context"
	"testing"
	"time"

	"github.com/blueprintmfg/settings-portal/internal/core/domain"
	"github.com/blueprintmfg/settings-portal/internal/core/ports"
)

func loadBrowseFixture(t *testing.T) (*stubGateway, *Store) {
	t.Helper()
	g := newStubGateway()
	g.settings.rows = []ports.SettingRow{
		{ID: "s1", SKU: "A1", LegNumber: "7", CaseSize: "Small"},
		{ID: "s2", SKU: "B2", LegNumber: "7", CaseSize: "Small"},
		{ID: "s3", SKU: "C3", LegNumber: "7", CaseSize: "Large"},
		{ID: "s4", SKU: "D4", LegNumber: "9", CaseSize: "Small"},
	}
	s := newTestStore(g)
	if err := s.FetchData(context.Background()); err != nil {
		t.Fatalf("FetchData: %v", err)
	}
	return g, s
}

func TestCaseSizesForLeg_DistinctSorted(t *testing.T) {
	_, s := loadBrowseFixture(t)

	sizes := s.CaseSizesForLeg("7")
	if len(sizes) != 2 || sizes[0] != "Large" || sizes[1] != "Small" {
		t.Fatalf("expected [Large Small], got %v", sizes)
	}
	if got := s.CaseSizesForLeg("none"); len(got) != 0 {
		t.Fatalf("unknown leg should yield nothing, got %v", got)
	}
}

func TestBrowseSettings_DrillDownByCaseSize(t *testing.T) {
	_, s := loadBrowseFixture(t)

	// Leg 7, Small: A1 and B2 only.
	results := s.BrowseSettings("7", "Small", "", ports.SortBySKU)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].SKU != "A1" || results[1].SKU != "B2" {
		t.Fatalf("wrong drill-down results: %v, %v", results[0].SKU, results[1].SKU)
	}
}

func TestBrowseSettings_SKUTextOverridesCaseSize(t *testing.T) {
	_, s := loadBrowseFixture(t)

	// SKU text wins even with a case size selected: C3 is Large.
	results := s.BrowseSettings("7", "Small", "c3", ports.SortBySKU)
	if len(results) != 1 || results[0].SKU != "C3" {
		t.Fatalf("sku text must override case-size filter, got %v", results)
	}
}

func TestBrowseSettings_LastWorkedSort(t *testing.T) {
	g, s := loadBrowseFixture(t)

	now := time.Now().UTC()
	g.votes.rows = []ports.VoteRow{
		{ID: "v1", UserID: "u1", SettingID: "s2", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "v2", UserID: "u2", SettingID: "s3", CreatedAt: now.Add(-1 * time.Hour)},
		{ID: "v3", UserID: "u1", SettingID: "s3", CreatedAt: now.Add(-5 * time.Hour)},
	}
	if err := s.FetchData(context.Background()); err != nil {
		t.Fatalf("FetchData: %v", err)
	}

	results := s.BrowseSettings("7", "", "", ports.SortByLastWorked)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	// Voted settings first, most recent vote first; unvoted last.
	if results[0].SKU != "C3" || results[1].SKU != "B2" || results[2].SKU != "A1" {
		t.Fatalf("wrong last_worked order: %s, %s, %s", results[0].SKU, results[1].SKU, results[2].SKU)
	}
	if results[0].LastWorked == nil || !results[0].LastWorked.Equal(now.Add(-1*time.Hour)) {
		t.Fatalf("lastWorked must be the most recent vote, got %v", results[0].LastWorked)
	}
	if results[2].LastWorked != nil {
		t.Fatalf("unvoted setting must have nil lastWorked")
	}
}

func TestBrowseSettings_UpdatedSort(t *testing.T) {
	g := newStubGateway()
	now := time.Now().UTC()
	g.settings.rows = []ports.SettingRow{
		{ID: "s1", SKU: "A1", LegNumber: "7", LastUpdated: now.Add(-time.Hour)},
		{ID: "s2", SKU: "B2", LegNumber: "7", LastUpdated: now},
	}
	s := newTestStore(g)
	if err := s.FetchData(context.Background()); err != nil {
		t.Fatalf("FetchData: %v", err)
	}

	results := s.BrowseSettings("7", "", "", ports.SortByUpdated)
	if results[0].SKU != "B2" {
		t.Fatalf("expected most recently updated first, got %s", results[0].SKU)
	}
}

func TestSettingDetail_GroupsFieldsByCategory(t *testing.T) {
	g := newStubGateway()
	g.settings.rows = []ports.SettingRow{
		{ID: "s1", SKU: "A1", LegNumber: "7", CaseSize: "Small", Data: map[string]any{"pressure": 5}},
	}
	g.categories.rows = []ports.CategoryRow{
		{ID: "c1", Name: "Mechanical"},
		{ID: "c2", Name: "Electrical"},
	}
	g.fields.rows = []ports.FieldRow{
		{ID: "f1", Name: "Pressure", Key: "pressure", Type: "number", CategoryID: "c1"},
		{ID: "f2", Name: "Voltage", Key: "voltage", Type: "number", CategoryID: "c2"},
	}
	s := newTestStore(g)
	if err := s.FetchData(context.Background()); err != nil {
		t.Fatalf("FetchData: %v", err)
	}

	detail, err := s.SettingDetail("s1")
	if err != nil {
		t.Fatalf("SettingDetail: %v", err)
	}
	if len(detail.Categories) != 2 {
		t.Fatalf("expected 2 category groups, got %d", len(detail.Categories))
	}

	mech := detail.Categories[0]
	if mech.Category.Name != "Mechanical" || len(mech.Fields) != 1 {
		t.Fatalf("wrong first group: %+v", mech)
	}
	if mech.Fields[0].Value != 5 {
		t.Fatalf("expected stored value 5, got %v", mech.Fields[0].Value)
	}

	// A field whose key the setting never stored comes back nil.
	elec := detail.Categories[1]
	if elec.Fields[0].Value != nil {
		t.Fatalf("missing key must yield nil, got %v", elec.Fields[0].Value)
	}
}

func TestSettingDetail_UnknownID(t *testing.T) {
	_, s := loadBrowseFixture(t)
	if _, err := s.SettingDetail("missing"); err != domain.ErrSettingNotFound {
		t.Fatalf("expected ErrSettingNotFound, got %v", err)
	}
}

func TestSearchState_SKUTextClearsCaseSizeSelection(t *testing.T) {
	g := newStubGateway()
	s := newTestStore(g)

	s.SetLegSearch("7")
	s.SetSelectedCaseSize("Small")
	s.SetSKUSearch("A1")

	leg, sku, caseSize := s.SearchState()
	if leg != "7" || sku != "A1" || caseSize != "" {
		t.Fatalf("typing a SKU must clear the case-size pick, got %q %q %q", leg, sku, caseSize)
	}

	s.ResetSearch()
	leg, sku, caseSize = s.SearchState()
	if leg != "" || sku != "" || caseSize != "" {
		t.Fatalf("reset must clear all inputs")
	}
}
