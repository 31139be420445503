package store

import (
	"context"
	"fmt"
	"reflect"

	"github.com/blueprintmfg/settings-portal/internal/api/metrics"
	"github.com/blueprintmfg/settings-portal/internal/core/domain"
	"github.com/blueprintmfg/settings-portal/internal/core/ports"
)

// fixedSettingKeys are the attributes stored as real columns; everything
// else in an input payload is dynamic-field data.
var fixedSettingKeys = map[string]struct{}{
	"id":          {},
	"sku":         {},
	"legNumber":   {},
	"caseSize":    {},
	"lastUpdated": {},
	"lastWorked":  {},
}

// splitSettingAttrs separates a flat attribute payload into the fixed
// columns and the residual dynamic-field mapping.
func splitSettingAttrs(attrs map[string]any) (sku, legNumber, caseSize string, data map[string]any) {
	sku = stringAttr(attrs, "sku")
	legNumber = stringAttr(attrs, "legNumber")
	caseSize = stringAttr(attrs, "caseSize")

	data = make(map[string]any)
	for k, v := range attrs {
		if _, fixed := fixedSettingKeys[k]; fixed {
			continue
		}
		data[k] = v
	}
	return sku, legNumber, caseSize, data
}

// flattenSettingRow converts a storage row into the uniform domain view:
// renamed fixed columns plus the nested data document carried as-is.
func flattenSettingRow(r ports.SettingRow) domain.Setting {
	data := r.Data
	if data == nil {
		data = map[string]any{}
	}
	return domain.Setting{
		ID:          r.ID,
		SKU:         r.SKU,
		LegNumber:   r.LegNumber,
		CaseSize:    r.CaseSize,
		LastUpdated: r.LastUpdated,
		Data:        data,
	}
}

func stringAttr(attrs map[string]any, key string) string {
	if v, ok := attrs[key].(string); ok {
		return v
	}
	return ""
}

// AddSetting writes a new setting and mirrors it into local state and the
// audit log.
func (s *Store) AddSetting(ctx context.Context, attrs map[string]any) (domain.Setting, error) {
	sku, legNumber, caseSize, data := splitSettingAttrs(attrs)

	row := ports.SettingRow{
		SKU:         sku,
		LegNumber:   legNumber,
		CaseSize:    caseSize,
		LastUpdated: s.now().UTC(),
		Data:        data,
	}

	inserted, err := s.gw.Settings.Insert(ctx, row)
	if err != nil {
		s.log.Error().Err(err).Str("sku", sku).Msg("failed to add setting")
		return domain.Setting{}, fmt.Errorf("add setting: %w", err)
	}

	setting := flattenSettingRow(inserted)
	s.mu.Lock()
	s.settings = append(s.settings, setting)
	s.mu.Unlock()

	s.logHistory(ctx, domain.HistoryCreate, map[string]any{
		"sku":       sku,
		"legNumber": legNumber,
		"caseSize":  caseSize,
		"data":      data,
	})
	metrics.MutationsTotal.WithLabelValues("setting", "create").Inc()

	return setting.Clone(), nil
}

// UpdateSetting writes the full replacement payload, patches local state,
// and appends a field-by-field diff (fixed columns plus every dynamic key)
// to the audit log.
func (s *Store) UpdateSetting(ctx context.Context, id string, attrs map[string]any) (domain.Setting, error) {
	s.mu.RLock()
	old, found := findSetting(s.settings, id)
	s.mu.RUnlock()
	if !found {
		return domain.Setting{}, domain.ErrSettingNotFound
	}

	sku, legNumber, caseSize, data := splitSettingAttrs(attrs)
	now := s.now().UTC()

	row := ports.SettingRow{
		SKU:         sku,
		LegNumber:   legNumber,
		CaseSize:    caseSize,
		LastUpdated: now,
		Data:        data,
	}
	if err := s.gw.Settings.Update(ctx, id, row); err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("failed to update setting")
		return domain.Setting{}, fmt.Errorf("update setting: %w", err)
	}

	updated := domain.Setting{
		ID:          id,
		SKU:         sku,
		LegNumber:   legNumber,
		CaseSize:    caseSize,
		LastUpdated: now,
		Data:        data,
	}
	s.mu.Lock()
	for i := range s.settings {
		if s.settings[i].ID == id {
			s.settings[i] = updated
			break
		}
	}
	s.mu.Unlock()

	changes := settingDiff(old, updated)
	s.logHistory(ctx, domain.HistoryUpdate, map[string]any{
		"id":        id,
		"sku":       sku,
		"legNumber": legNumber,
		"changes":   changes,
	})
	metrics.MutationsTotal.WithLabelValues("setting", "update").Inc()

	return updated.Clone(), nil
}

// DeleteSetting removes the record, keeping a full snapshot in the audit
// entry for manual recovery.
func (s *Store) DeleteSetting(ctx context.Context, id string) error {
	s.mu.RLock()
	old, found := findSetting(s.settings, id)
	s.mu.RUnlock()
	if !found {
		return domain.ErrSettingNotFound
	}

	if err := s.gw.Settings.Delete(ctx, id); err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("failed to delete setting")
		return fmt.Errorf("delete setting: %w", err)
	}

	s.mu.Lock()
	s.settings = removeSetting(s.settings, id)
	s.mu.Unlock()

	s.logHistory(ctx, domain.HistoryDelete, map[string]any{
		"sku":       old.SKU,
		"legNumber": old.LegNumber,
		"backup":    old,
	})
	metrics.MutationsTotal.WithLabelValues("setting", "delete").Inc()

	return nil
}

// settingDiff compares the fixed columns and every key in the new dynamic
// payload against the previous snapshot. Keys removed from the payload are
// reported with a nil "to".
func settingDiff(old, new domain.Setting) map[string]domain.FieldChange {
	changes := make(map[string]domain.FieldChange)
	if old.SKU != new.SKU {
		changes["sku"] = domain.FieldChange{From: old.SKU, To: new.SKU}
	}
	if old.LegNumber != new.LegNumber {
		changes["legNumber"] = domain.FieldChange{From: old.LegNumber, To: new.LegNumber}
	}
	if old.CaseSize != new.CaseSize {
		changes["caseSize"] = domain.FieldChange{From: old.CaseSize, To: new.CaseSize}
	}
	// Dynamic values can be JSON arrays or objects, so a plain != would
	// panic on uncomparable types.
	for key, nv := range new.Data {
		if ov := old.Value(key); !reflect.DeepEqual(ov, nv) {
			changes[key] = domain.FieldChange{From: ov, To: nv}
		}
	}
	for key, ov := range old.Data {
		if _, still := new.Data[key]; !still {
			changes[key] = domain.FieldChange{From: ov, To: nil}
		}
	}
	return changes
}

// logHistory mirrors a setting mutation into the audit log. Failures are
// logged and swallowed: the primary write already succeeded.
func (s *Store) logHistory(ctx context.Context, action domain.HistoryAction, details map[string]any) {
	row := ports.HistoryRow{
		UserEmail: s.userEmail(ctx),
		Action:    string(action),
		Details:   details,
		CreatedAt: s.now().UTC(),
	}
	if err := s.gw.History.Insert(ctx, row); err != nil {
		s.log.Warn().Err(err).Str("action", string(action)).Msg("failed to record history entry")
	}
}

func findSetting(settings []domain.Setting, id string) (domain.Setting, bool) {
	for _, st := range settings {
		if st.ID == id {
			return st.Clone(), true
		}
	}
	return domain.Setting{}, false
}

func removeSetting(settings []domain.Setting, id string) []domain.Setting {
	out := settings[:0]
	for _, st := range settings {
		if st.ID != id {
			out = append(out, st)
		}
	}
	return out
}
