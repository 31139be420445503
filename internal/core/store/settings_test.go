package store

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/blueprintmfg/settings-portal/internal/core/domain"
	"github.com/blueprintmfg/settings-portal/internal/core/ports"
)

func TestSplitSettingAttrs_SeparatesFixedFromDynamic(t *testing.T) {
	attrs := map[string]any{
		"sku":         "A1",
		"legNumber":   "7",
		"caseSize":    "Small",
		"lastUpdated": "ignored",
		"pressure":    42.5,
		"torque":      "high",
	}

	sku, leg, size, data := splitSettingAttrs(attrs)
	if sku != "A1" || leg != "7" || size != "Small" {
		t.Fatalf("fixed columns wrong: %q %q %q", sku, leg, size)
	}
	if len(data) != 2 {
		t.Fatalf("expected 2 dynamic keys, got %d: %v", len(data), data)
	}
	if data["pressure"] != 42.5 || data["torque"] != "high" {
		t.Fatalf("dynamic data wrong: %v", data)
	}
}

func TestSplitFlatten_RoundTrip(t *testing.T) {
	attrs := map[string]any{
		"sku":       "B2",
		"legNumber": "3",
		"caseSize":  "Large",
		"speed":     100,
	}
	sku, leg, size, data := splitSettingAttrs(attrs)

	now := time.Now().UTC()
	row := ports.SettingRow{
		ID:          "s1",
		SKU:         sku,
		LegNumber:   leg,
		CaseSize:    size,
		LastUpdated: now,
		Data:        data,
	}

	setting := flattenSettingRow(row)
	if setting.SKU != "B2" || setting.LegNumber != "3" || setting.CaseSize != "Large" {
		t.Fatalf("flattened columns wrong: %+v", setting)
	}
	if setting.Value("speed") != 100 {
		t.Fatalf("dynamic value lost: %v", setting.Value("speed"))
	}
	if setting.Value("sku") != nil {
		t.Fatalf("fixed column leaked into dynamic data")
	}
}

func TestFlattenSettingRow_NilDataBecomesEmptyMap(t *testing.T) {
	setting := flattenSettingRow(ports.SettingRow{ID: "s1", SKU: "A1"})
	if setting.Data == nil {
		t.Fatalf("expected non-nil data map")
	}
}

func TestAddSetting_WritesRemoteAndLogsHistory(t *testing.T) {
	g := newStubGateway()
	s := newTestStore(g)
	s.SetUser(&domain.User{ID: "u1", Email: "tech@example.com"})

	setting, err := s.AddSetting(context.Background(), map[string]any{
		"sku":       "A1",
		"legNumber": "7",
		"caseSize":  "Small",
		"pressure":  5,
	})
	if err != nil {
		t.Fatalf("AddSetting: %v", err)
	}
	if setting.ID == "" {
		t.Fatalf("expected generated id")
	}
	if len(s.Settings()) != 1 {
		t.Fatalf("setting not mirrored into local state")
	}

	if len(g.history.rows) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(g.history.rows))
	}
	entry := g.history.rows[0]
	if entry.Action != string(domain.HistoryCreate) {
		t.Fatalf("expected create action, got %s", entry.Action)
	}
	if entry.UserEmail != "tech@example.com" {
		t.Fatalf("wrong audit identity: %s", entry.UserEmail)
	}
}

func TestUpdateSetting_HistoryDiffRecordsSKUChange(t *testing.T) {
	g := newStubGateway()
	s := newTestStore(g)

	created, err := s.AddSetting(context.Background(), map[string]any{
		"sku": "X", "legNumber": "1", "caseSize": "Small",
	})
	if err != nil {
		t.Fatalf("AddSetting: %v", err)
	}
	g.history.rows = nil

	if _, err := s.UpdateSetting(context.Background(), created.ID, map[string]any{
		"sku": "Y", "legNumber": "1", "caseSize": "Small",
	}); err != nil {
		t.Fatalf("UpdateSetting: %v", err)
	}

	if len(g.history.rows) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(g.history.rows))
	}
	changes, ok := g.history.rows[0].Details["changes"].(map[string]domain.FieldChange)
	if !ok {
		t.Fatalf("changes missing from details: %v", g.history.rows[0].Details)
	}
	ch, ok := changes["sku"]
	if !ok {
		t.Fatalf("sku change not recorded: %v", changes)
	}
	if ch.From != "X" || ch.To != "Y" {
		t.Fatalf("expected from X to Y, got %v -> %v", ch.From, ch.To)
	}
}

func TestUpdateSetting_ArrayValuesDiffWithoutPanic(t *testing.T) {
	g := newStubGateway()
	s := newTestStore(g)

	created, err := s.AddSetting(context.Background(), map[string]any{
		"sku": "A1", "legNumber": "7", "caseSize": "Small",
		"tolerances": []any{1.0, 2.0},
	})
	if err != nil {
		t.Fatalf("AddSetting: %v", err)
	}
	g.history.rows = nil

	if _, err := s.UpdateSetting(context.Background(), created.ID, map[string]any{
		"sku": "A1", "legNumber": "7", "caseSize": "Small",
		"tolerances": []any{1.0, 3.0},
	}); err != nil {
		t.Fatalf("UpdateSetting: %v", err)
	}

	if len(g.history.rows) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(g.history.rows))
	}
	changes, ok := g.history.rows[0].Details["changes"].(map[string]domain.FieldChange)
	if !ok {
		t.Fatalf("changes missing from details: %v", g.history.rows[0].Details)
	}
	ch, ok := changes["tolerances"]
	if !ok {
		t.Fatalf("array change not recorded: %v", changes)
	}
	if !reflect.DeepEqual(ch.From, []any{1.0, 2.0}) || !reflect.DeepEqual(ch.To, []any{1.0, 3.0}) {
		t.Fatalf("unexpected array diff: %v -> %v", ch.From, ch.To)
	}
}

func TestSettingDiff_EqualArraysProduceNoChange(t *testing.T) {
	old := domain.Setting{Data: map[string]any{"tolerances": []any{1.0, 2.0}}}
	upd := domain.Setting{Data: map[string]any{"tolerances": []any{1.0, 2.0}}}

	if changes := settingDiff(old, upd); len(changes) != 0 {
		t.Fatalf("equal arrays must not diff: %v", changes)
	}
}

func TestLogHistory_PrefersRequestIdentityOverSnapshot(t *testing.T) {
	g := newStubGateway()
	s := newTestStore(g)
	// Another session resolved last; the snapshot points at that user.
	s.SetUser(&domain.User{ID: "u-b", Email: "other@example.com"})

	ctx := domain.WithIdentity(context.Background(), domain.Identity{ID: "u-a", Email: "tech@example.com"})
	if _, err := s.AddSetting(ctx, map[string]any{"sku": "A1"}); err != nil {
		t.Fatalf("AddSetting: %v", err)
	}

	if len(g.history.rows) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(g.history.rows))
	}
	if got := g.history.rows[0].UserEmail; got != "tech@example.com" {
		t.Fatalf("audit entry attributed to %q, want the request identity", got)
	}
}

func TestSettingDiff_RemovedKeyReportsNilTo(t *testing.T) {
	old := domain.Setting{SKU: "A", Data: map[string]any{"speed": 10}}
	upd := domain.Setting{SKU: "A", Data: map[string]any{}}

	changes := settingDiff(old, upd)
	ch, ok := changes["speed"]
	if !ok {
		t.Fatalf("removed key not in diff: %v", changes)
	}
	if ch.From != 10 || ch.To != nil {
		t.Fatalf("expected from 10 to nil, got %v -> %v", ch.From, ch.To)
	}
}

func TestUpdateSetting_UnknownID(t *testing.T) {
	g := newStubGateway()
	s := newTestStore(g)

	_, err := s.UpdateSetting(context.Background(), "missing", map[string]any{"sku": "A"})
	if err != domain.ErrSettingNotFound {
		t.Fatalf("expected ErrSettingNotFound, got %v", err)
	}
}

func TestDeleteSetting_KeepsBackupInHistory(t *testing.T) {
	g := newStubGateway()
	s := newTestStore(g)

	created, err := s.AddSetting(context.Background(), map[string]any{
		"sku": "A1", "legNumber": "7", "caseSize": "Small", "pressure": 5,
	})
	if err != nil {
		t.Fatalf("AddSetting: %v", err)
	}
	g.history.rows = nil

	if err := s.DeleteSetting(context.Background(), created.ID); err != nil {
		t.Fatalf("DeleteSetting: %v", err)
	}
	if len(s.Settings()) != 0 {
		t.Fatalf("setting not removed from local state")
	}

	if len(g.history.rows) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(g.history.rows))
	}
	backup, ok := g.history.rows[0].Details["backup"].(domain.Setting)
	if !ok {
		t.Fatalf("backup snapshot missing: %v", g.history.rows[0].Details)
	}
	if backup.SKU != "A1" || backup.Value("pressure") != 5 {
		t.Fatalf("backup incomplete: %+v", backup)
	}
}

func TestAddSetting_HistoryFailureIsSwallowed(t *testing.T) {
	g := newStubGateway()
	g.history.insertErr = context.DeadlineExceeded
	s := newTestStore(g)

	if _, err := s.AddSetting(context.Background(), map[string]any{"sku": "A1"}); err != nil {
		t.Fatalf("history failure must not fail the mutation: %v", err)
	}
	if len(s.Settings()) != 1 {
		t.Fatalf("setting not mirrored despite successful write")
	}
}
