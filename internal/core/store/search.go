package store

import (
	"sort"
	"strings"
	"time"

	"github.com/blueprintmfg/settings-portal/internal/core/domain"
	"github.com/blueprintmfg/settings-portal/internal/core/ports"
)

// CaseSizesForLeg returns the distinct, sorted case sizes recorded for a
// leg. This is the first step of the browse flow when neither a case size
// nor SKU text has been entered.
func (s *Store) CaseSizesForLeg(leg string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var sizes []string
	for _, st := range s.settings {
		if st.LegNumber != leg || st.CaseSize == "" {
			continue
		}
		if _, dup := seen[st.CaseSize]; dup {
			continue
		}
		seen[st.CaseSize] = struct{}{}
		sizes = append(sizes, st.CaseSize)
	}
	sort.Strings(sizes)
	return sizes
}

// BrowseSettings returns the settings matching a leg plus either SKU text
// (which takes precedence) or a chosen case size, each annotated with its
// most recent "working" vote. Sort orders: sku (lexical), updated (most
// recent first), last_worked (most recent vote first, unvoted last).
func (s *Store) BrowseSettings(leg, caseSize, sku string, sortBy ports.SettingSort) []ports.SettingSummary {
	s.mu.RLock()
	lastWorked := s.lastWorkedIndexLocked()

	skuNeedle := strings.ToLower(strings.TrimSpace(sku))
	var out []ports.SettingSummary
	for _, st := range s.settings {
		if leg != "" && st.LegNumber != leg {
			continue
		}
		if skuNeedle != "" {
			if !strings.Contains(strings.ToLower(st.SKU), skuNeedle) {
				continue
			}
		} else if caseSize != "" && st.CaseSize != caseSize {
			continue
		}
		summary := ports.SettingSummary{Setting: st.Clone()}
		if at, ok := lastWorked[st.ID]; ok {
			t := at
			summary.LastWorked = &t
		}
		out = append(out, summary)
	}
	s.mu.RUnlock()

	sortSummaries(out, sortBy)
	return out
}

// SettingDetail builds the category-tabbed view of one setting: every field
// of every category with the setting's value for its key (nil when absent).
func (s *Store) SettingDetail(id string) (*ports.SettingDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var setting *domain.Setting
	for i := range s.settings {
		if s.settings[i].ID == id {
			st := s.settings[i].Clone()
			setting = &st
			break
		}
	}
	if setting == nil {
		return nil, domain.ErrSettingNotFound
	}

	detail := &ports.SettingDetail{Setting: *setting}
	if at, ok := s.lastWorkedIndexLocked()[id]; ok {
		t := at
		detail.LastWorked = &t
	}

	for _, cat := range s.categories {
		group := ports.CategoryGroup{Category: cat}
		for _, f := range s.fields {
			if f.CategoryID != cat.ID {
				continue
			}
			group.Fields = append(group.Fields, ports.FieldValue{
				Field: f,
				Value: setting.Value(f.Key),
			})
		}
		detail.Categories = append(detail.Categories, group)
	}
	return detail, nil
}

// lastWorkedIndexLocked maps setting id → most recent vote time. Caller
// must hold at least a read lock.
func (s *Store) lastWorkedIndexLocked() map[string]time.Time {
	idx := make(map[string]time.Time)
	for _, v := range s.votes {
		if cur, ok := idx[v.SettingID]; !ok || v.CreatedAt.After(cur) {
			idx[v.SettingID] = v.CreatedAt
		}
	}
	return idx
}

func sortSummaries(items []ports.SettingSummary, sortBy ports.SettingSort) {
	switch sortBy {
	case ports.SortByUpdated:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].LastUpdated.After(items[j].LastUpdated)
		})
	case ports.SortByLastWorked:
		sort.SliceStable(items, func(i, j int) bool {
			li, lj := items[i].LastWorked, items[j].LastWorked
			switch {
			case li != nil && lj == nil:
				return true
			case li == nil && lj != nil:
				return false
			case li == nil && lj == nil:
				return items[i].SKU < items[j].SKU
			default:
				return li.After(*lj)
			}
		})
	default: // SortBySKU
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].SKU < items[j].SKU
		})
	}
}
