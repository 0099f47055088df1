package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/erazemk/propkeeper/internal/db"
	"github.com/erazemk/propkeeper/internal/model"
)

func ptr[T any](v T) *T { return &v }

// fixture holds a project with one scene-bound acquisition.
type fixture struct {
	project     *model.Project
	scene       *model.Scene
	acquisition *model.Acquisition
}

func newFixture(t *testing.T, database *sql.DB) fixture {
	t.Helper()
	ctx := context.Background()

	project, err := AddProject(ctx, database, "Night Shoot")
	if err != nil {
		t.Fatalf("AddProject: %v", err)
	}
	scene, err := AddScene(ctx, database, "Kitchen")
	if err != nil {
		t.Fatalf("AddScene: %v", err)
	}
	acquisition, err := AddAcquisition(ctx, database, project.ID, &scene.ID, "Flea market run")
	if err != nil {
		t.Fatalf("AddAcquisition: %v", err)
	}
	return fixture{project: project, scene: scene, acquisition: acquisition}
}

func TestAddAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database)

	item, err := AddItem(ctx, database, model.NewItem{
		ProjectID:     f.project.ID,
		Name:          "Kettle",
		Description:   ptr("copper"),
		Acquired:      ptr(true),
		AcquisitionID: &f.acquisition.ID,
		Quantity:      ptr(int64(2)),
	})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if item.ID == 0 {
		t.Fatal("expected generated id")
	}
	if item.Name != "Kettle" {
		t.Errorf("expected name 'Kettle', got %q", item.Name)
	}
	if item.Description == nil || *item.Description != "copper" {
		t.Errorf("expected description 'copper', got %v", item.Description)
	}
	if item.Acquired == nil || !*item.Acquired {
		t.Errorf("expected acquired true, got %v", item.Acquired)
	}
	if item.Quantity == nil || *item.Quantity != 2 {
		t.Errorf("expected quantity 2, got %v", item.Quantity)
	}
	if item.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	got, err := GetItemByID(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetItemByID: %v", err)
	}
	if got == nil || got.Name != "Kettle" {
		t.Fatalf("expected stored item, got %+v", got)
	}
}

func TestAddItemOptionalFieldsNull(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database)

	item, err := AddItem(ctx, database, model.NewItem{ProjectID: f.project.ID, Name: "Widget"})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if item.Description != nil || item.Acquired != nil || item.AcquisitionID != nil || item.Quantity != nil {
		t.Errorf("expected optional fields to be nil, got %+v", item)
	}
}

func TestAddItemUnknownProject(t *testing.T) {
	database := db.NewTestDB(t)

	_, err := AddItem(context.Background(), database, model.NewItem{ProjectID: 999, Name: "Ghost"})
	if !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}
}

func TestGetItemByIDMissing(t *testing.T) {
	database := db.NewTestDB(t)

	item, err := GetItemByID(context.Background(), database, 999999)
	if err != nil {
		t.Fatalf("GetItemByID: %v", err)
	}
	if item != nil {
		t.Errorf("expected nil for missing item, got %+v", item)
	}
}

func TestListItemsByScope(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database)

	other, _ := AddProject(ctx, database, "Day Shoot")
	otherAcq, _ := AddAcquisition(ctx, database, other.ID, nil, "Rental")

	AddItem(ctx, database, model.NewItem{ProjectID: f.project.ID, Name: "Chair", AcquisitionID: &f.acquisition.ID})
	AddItem(ctx, database, model.NewItem{ProjectID: f.project.ID, Name: "Table"})
	AddItem(ctx, database, model.NewItem{ProjectID: other.ID, Name: "Rug", AcquisitionID: &otherAcq.ID})

	projectItems, err := GetProjectItems(ctx, database, f.project.ID)
	if err != nil {
		t.Fatalf("GetProjectItems: %v", err)
	}
	if len(projectItems) != 2 {
		t.Errorf("expected 2 project items, got %d", len(projectItems))
	}

	acqItems, err := GetAcquisitionItems(ctx, database, f.acquisition.ID)
	if err != nil {
		t.Fatalf("GetAcquisitionItems: %v", err)
	}
	if len(acqItems) != 1 || acqItems[0].Name != "Chair" {
		t.Errorf("expected only 'Chair' in acquisition, got %+v", acqItems)
	}

	sceneItems, err := GetSceneItems(ctx, database, f.scene.ID)
	if err != nil {
		t.Fatalf("GetSceneItems: %v", err)
	}
	if len(sceneItems) != 1 || sceneItems[0].Name != "Chair" {
		t.Errorf("expected only 'Chair' in scene, got %+v", sceneItems)
	}

	none, err := GetProjectItems(ctx, database, 12345)
	if err != nil {
		t.Fatalf("GetProjectItems: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", none)
	}
}

func TestUpdateItemPartial(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database)

	item, _ := AddItem(ctx, database, model.NewItem{
		ProjectID:   f.project.ID,
		Name:        "Lamp",
		Description: ptr("brass"),
		Quantity:    ptr(int64(1)),
	})

	updated, err := UpdateItem(ctx, database, item.ID, model.ItemPatch{Quantity: model.Some(int64(5))})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if updated.Quantity == nil || *updated.Quantity != 5 {
		t.Errorf("expected quantity 5, got %v", updated.Quantity)
	}
	if updated.Name != "Lamp" {
		t.Errorf("expected name unchanged, got %q", updated.Name)
	}
	if updated.Description == nil || *updated.Description != "brass" {
		t.Errorf("expected description unchanged, got %v", updated.Description)
	}

	updated, err = UpdateItem(ctx, database, item.ID, model.ItemPatch{Acquired: model.Some(false), Name: model.Some("Floor lamp")})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if updated.Acquired == nil || *updated.Acquired {
		t.Errorf("expected acquired false, got %v", updated.Acquired)
	}
	if updated.Name != "Floor lamp" {
		t.Errorf("expected renamed item, got %q", updated.Name)
	}
}

func TestUpdateItemClearsNullFields(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database)

	item, _ := AddItem(ctx, database, model.NewItem{
		ProjectID:     f.project.ID,
		Name:          "Lamp",
		Description:   ptr("old"),
		AcquisitionID: &f.acquisition.ID,
		Quantity:      ptr(int64(2)),
	})

	updated, err := UpdateItem(ctx, database, item.ID, model.ItemPatch{
		Name:          model.Some("Lamp2"),
		Description:   model.Null[string](),
		AcquisitionID: model.Null[int64](),
	})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if updated.Description != nil {
		t.Errorf("expected description cleared, got %q", *updated.Description)
	}
	if updated.AcquisitionID != nil {
		t.Errorf("expected acquisition cleared, got %d", *updated.AcquisitionID)
	}
	if updated.Quantity == nil || *updated.Quantity != 2 {
		t.Errorf("expected quantity unchanged, got %v", updated.Quantity)
	}

	items, err := GetAcquisitionItems(ctx, database, f.acquisition.ID)
	if err != nil {
		t.Fatalf("GetAcquisitionItems: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected item detached from acquisition, got %d items", len(items))
	}
}

func TestUpdateItemMissing(t *testing.T) {
	database := db.NewTestDB(t)

	item, err := UpdateItem(context.Background(), database, 42, model.ItemPatch{Name: model.Some("x")})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if item != nil {
		t.Errorf("expected nil for missing item, got %+v", item)
	}
}

func TestRemoveItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database)

	item, _ := AddItem(ctx, database, model.NewItem{ProjectID: f.project.ID, Name: "Delete Me"})
	if err := RemoveItem(ctx, database, item.ID); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}

	got, _ := GetItemByID(ctx, database, item.ID)
	if got != nil {
		t.Error("expected item to be gone after removal")
	}

	if err := RemoveItem(ctx, database, item.ID); err != nil {
		t.Errorf("expected removing a missing item to succeed, got %v", err)
	}
}
