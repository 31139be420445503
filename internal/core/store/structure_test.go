package store

import (
	"context"
	"testing"

	"github.com/blueprintmfg/settings-portal/internal/core/domain"
	"github.com/blueprintmfg/settings-portal/internal/core/ports"
)

func TestDeleteCategory_InUseRejectedWithoutRemoteCall(t *testing.T) {
	g := newStubGateway()
	s := newTestStore(g)

	cat, err := s.AddCategory(context.Background(), "Mechanical")
	if err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	if _, err := s.AddField(context.Background(), ports.FieldInput{
		Name: "Pressure", Key: "pressure", Type: "number", CategoryID: cat.ID,
	}); err != nil {
		t.Fatalf("AddField: %v", err)
	}

	err = s.DeleteCategory(context.Background(), cat.ID)
	if err != domain.ErrCategoryInUse {
		t.Fatalf("expected ErrCategoryInUse, got %v", err)
	}
	if g.categories.deleteCalls != 0 {
		t.Fatalf("guard must fire before the remote call, got %d calls", g.categories.deleteCalls)
	}
	if len(s.Categories()) != 1 {
		t.Fatalf("category must survive a rejected delete")
	}
}

func TestDeleteCategory_SucceedsAfterFieldsMoved(t *testing.T) {
	g := newStubGateway()
	s := newTestStore(g)

	catA, _ := s.AddCategory(context.Background(), "Mechanical")
	catB, _ := s.AddCategory(context.Background(), "Electrical")
	field, err := s.AddField(context.Background(), ports.FieldInput{
		Name: "Pressure", Key: "pressure", Type: "number", CategoryID: catA.ID,
	})
	if err != nil {
		t.Fatalf("AddField: %v", err)
	}

	if err := s.UpdateField(context.Background(), field.ID, ports.FieldUpdates{CategoryID: &catB.ID}); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}
	if err := s.DeleteCategory(context.Background(), catA.ID); err != nil {
		t.Fatalf("delete after moving fields should succeed: %v", err)
	}
	if len(s.Categories()) != 1 {
		t.Fatalf("expected 1 remaining category, got %d", len(s.Categories()))
	}
}

func TestUpdateField_MapsCategoryColumnName(t *testing.T) {
	g := newStubGateway()
	s := newTestStore(g)

	field, err := s.AddField(context.Background(), ports.FieldInput{
		Name: "Pressure", Key: "pressure", Type: "number", CategoryID: "c1",
	})
	if err != nil {
		t.Fatalf("AddField: %v", err)
	}

	newCat := "c2"
	if err := s.UpdateField(context.Background(), field.ID, ports.FieldUpdates{CategoryID: &newCat}); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}
	if g.fields.lastUpdates["category_id"] != "c2" {
		t.Fatalf("expected snake_case column in remote update, got %v", g.fields.lastUpdates)
	}
	if _, leaked := g.fields.lastUpdates["categoryId"]; leaked {
		t.Fatalf("camel-case key leaked into storage update")
	}
}

func TestUpdateField_NoUpdatesIsNoOp(t *testing.T) {
	g := newStubGateway()
	s := newTestStore(g)

	if err := s.UpdateField(context.Background(), "f1", ports.FieldUpdates{}); err != nil {
		t.Fatalf("empty update should be a no-op: %v", err)
	}
	if g.fields.lastUpdates != nil {
		t.Fatalf("no remote call expected for empty update")
	}
}

func TestRemoveField_LeavesSettingDataIntact(t *testing.T) {
	g := newStubGateway()
	s := newTestStore(g)

	field, _ := s.AddField(context.Background(), ports.FieldInput{
		Name: "Pressure", Key: "pressure", Type: "number", CategoryID: "c1",
	})
	created, err := s.AddSetting(context.Background(), map[string]any{"sku": "A1", "pressure": 5})
	if err != nil {
		t.Fatalf("AddSetting: %v", err)
	}

	if err := s.RemoveField(context.Background(), field.ID); err != nil {
		t.Fatalf("RemoveField: %v", err)
	}

	settings := s.Settings()
	if len(settings) != 1 || settings[0].ID != created.ID {
		t.Fatalf("setting missing after field removal")
	}
	if settings[0].Value("pressure") != 5 {
		t.Fatalf("orphaned key must be tolerated, got %v", settings[0].Value("pressure"))
	}
}
