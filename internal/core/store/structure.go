package store

import (
	"context"
	"fmt"

	"github.com/blueprintmfg/settings-portal/internal/api/metrics"
	"github.com/blueprintmfg/settings-portal/internal/core/domain"
	"github.com/blueprintmfg/settings-portal/internal/core/ports"
)

func fieldFromRow(r ports.FieldRow) domain.Field {
	return domain.Field{
		ID:         r.ID,
		Name:       r.Name,
		Key:        r.Key,
		Type:       domain.FieldType(r.Type),
		CategoryID: r.CategoryID,
	}
}

// AddField registers a new dynamic field definition.
func (s *Store) AddField(ctx context.Context, input ports.FieldInput) (domain.Field, error) {
	row := ports.FieldRow{
		Name:       input.Name,
		Key:        input.Key,
		Type:       input.Type,
		CategoryID: input.CategoryID,
	}
	inserted, err := s.gw.Fields.Insert(ctx, row)
	if err != nil {
		s.log.Error().Err(err).Str("key", input.Key).Msg("failed to add field")
		return domain.Field{}, fmt.Errorf("add field: %w", err)
	}

	field := fieldFromRow(inserted)
	s.mu.Lock()
	s.fields = append(s.fields, field)
	s.mu.Unlock()
	metrics.MutationsTotal.WithLabelValues("field", "create").Inc()
	return field, nil
}

// UpdateField applies partial updates. The camel-case categoryId is mapped
// to the storage column name here, at the boundary.
func (s *Store) UpdateField(ctx context.Context, id string, updates ports.FieldUpdates) error {
	dbUpdates := make(map[string]any)
	if updates.Name != nil {
		dbUpdates["name"] = *updates.Name
	}
	if updates.Key != nil {
		dbUpdates["key"] = *updates.Key
	}
	if updates.Type != nil {
		dbUpdates["type"] = *updates.Type
	}
	if updates.CategoryID != nil {
		dbUpdates["category_id"] = *updates.CategoryID
	}
	if len(dbUpdates) == 0 {
		return nil
	}

	if err := s.gw.Fields.Update(ctx, id, dbUpdates); err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("failed to update field")
		return fmt.Errorf("update field: %w", err)
	}

	s.mu.Lock()
	for i := range s.fields {
		if s.fields[i].ID != id {
			continue
		}
		if updates.Name != nil {
			s.fields[i].Name = *updates.Name
		}
		if updates.Key != nil {
			s.fields[i].Key = *updates.Key
		}
		if updates.Type != nil {
			s.fields[i].Type = domain.FieldType(*updates.Type)
		}
		if updates.CategoryID != nil {
			s.fields[i].CategoryID = *updates.CategoryID
		}
		break
	}
	s.mu.Unlock()
	metrics.MutationsTotal.WithLabelValues("field", "update").Inc()
	return nil
}

// RemoveField deletes a field definition. Settings still carrying the key
// keep it as tolerated stale data.
func (s *Store) RemoveField(ctx context.Context, id string) error {
	if err := s.gw.Fields.Delete(ctx, id); err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("failed to delete field")
		return fmt.Errorf("remove field: %w", err)
	}

	s.mu.Lock()
	out := s.fields[:0]
	for _, f := range s.fields {
		if f.ID != id {
			out = append(out, f)
		}
	}
	s.fields = out
	s.mu.Unlock()
	metrics.MutationsTotal.WithLabelValues("field", "delete").Inc()
	return nil
}

func (s *Store) AddCategory(ctx context.Context, name string) (domain.Category, error) {
	inserted, err := s.gw.Categories.Insert(ctx, ports.CategoryRow{Name: name})
	if err != nil {
		s.log.Error().Err(err).Str("name", name).Msg("failed to add category")
		return domain.Category{}, fmt.Errorf("add category: %w", err)
	}

	cat := domain.Category{ID: inserted.ID, Name: inserted.Name}
	s.mu.Lock()
	s.categories = append(s.categories, cat)
	s.mu.Unlock()
	metrics.MutationsTotal.WithLabelValues("category", "create").Inc()
	return cat, nil
}

func (s *Store) UpdateCategory(ctx context.Context, id, name string) error {
	if err := s.gw.Categories.Update(ctx, id, name); err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("failed to update category")
		return fmt.Errorf("update category: %w", err)
	}

	s.mu.Lock()
	for i := range s.categories {
		if s.categories[i].ID == id {
			s.categories[i].Name = name
			break
		}
	}
	s.mu.Unlock()
	metrics.MutationsTotal.WithLabelValues("category", "update").Inc()
	return nil
}

// DeleteCategory fails fast, before any remote call, while any loaded
// field still references the category. This is a client-side guard against
// orphaning fields, not a server-enforced constraint.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	s.mu.RLock()
	inUse := false
	for _, f := range s.fields {
		if f.CategoryID == id {
			inUse = true
			break
		}
	}
	s.mu.RUnlock()
	if inUse {
		return domain.ErrCategoryInUse
	}

	if err := s.gw.Categories.Delete(ctx, id); err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("failed to delete category")
		return fmt.Errorf("delete category: %w", err)
	}

	s.mu.Lock()
	out := s.categories[:0]
	for _, c := range s.categories {
		if c.ID != id {
			out = append(out, c)
		}
	}
	s.categories = out
	s.mu.Unlock()
	metrics.MutationsTotal.WithLabelValues("category", "delete").Inc()
	return nil
}
