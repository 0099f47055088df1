package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/erazemk/propkeeper/internal/model"
)

var itemColumns = []string{
	"id", "project_id", "name", "description", "acquired", "acquisition_id", "quantity", "created_at",
}

func qualified(alias string, columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = alias + "." + c
	}
	return out
}

func scanItem(row rowScanner) (model.Item, error) {
	var item model.Item
	var description sql.NullString
	var acquired sql.NullBool
	var acquisitionID, quantity sql.NullInt64
	err := row.Scan(&item.ID, &item.ProjectID, &item.Name, &description, &acquired,
		&acquisitionID, &quantity, timestamp{&item.CreatedAt})
	if err != nil {
		return model.Item{}, err
	}
	item.Description = stringPtr(description)
	item.Acquired = boolPtr(acquired)
	item.AcquisitionID = int64Ptr(acquisitionID)
	item.Quantity = int64Ptr(quantity)
	return item, nil
}

// GetProjectItems returns all items that belong to a project.
func GetProjectItems(ctx context.Context, db *sql.DB, projectID int64) ([]model.Item, error) {
	items, err := queryRows(ctx, db, "get_project_items", "items",
		psql.Select(itemColumns...).From("items").
			Where(sq.Eq{"project_id": projectID}).
			OrderBy("id"),
		scanItem,
	)
	if err != nil {
		return nil, fmt.Errorf("listing project items: %w", err)
	}
	return items, nil
}

// GetAcquisitionItems returns all items that belong to an acquisition.
func GetAcquisitionItems(ctx context.Context, db *sql.DB, acquisitionID int64) ([]model.Item, error) {
	items, err := queryRows(ctx, db, "get_acquisition_items", "items",
		psql.Select(itemColumns...).From("items").
			Where(sq.Eq{"acquisition_id": acquisitionID}).
			OrderBy("id"),
		scanItem,
	)
	if err != nil {
		return nil, fmt.Errorf("listing acquisition items: %w", err)
	}
	return items, nil
}

// GetSceneItems returns all items whose acquisition belongs to the scene.
func GetSceneItems(ctx context.Context, db *sql.DB, sceneID int64) ([]model.Item, error) {
	items, err := queryRows(ctx, db, "get_scene_items", "items",
		psql.Select(qualified("i", itemColumns)...).From("items i").
			Join("acquisitions a ON a.id = i.acquisition_id").
			Where(sq.Eq{"a.scene_id": sceneID}).
			OrderBy("i.id"),
		scanItem,
	)
	if err != nil {
		return nil, fmt.Errorf("listing scene items: %w", err)
	}
	return items, nil
}

// GetItemByID returns an item by ID, or nil if it does not exist.
func GetItemByID(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item, err := queryRow(ctx, db, "get_item_by_id", "items",
		psql.Select(itemColumns...).From("items").Where(sq.Eq{"id": id}),
		scanItem,
	)
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// AddItem inserts an item and returns the stored row, including its generated ID.
func AddItem(ctx context.Context, db *sql.DB, item model.NewItem) (*model.Item, error) {
	stored, err := queryRow(ctx, db, "add_item", "items",
		psql.Insert("items").SetMap(map[string]any{
			"project_id":     item.ProjectID,
			"name":           item.Name,
			"description":    item.Description,
			"acquired":       item.Acquired,
			"acquisition_id": item.AcquisitionID,
			"quantity":       item.Quantity,
		}).Suffix("RETURNING "+strings.Join(itemColumns, ", ")),
		scanItem,
	)
	if err != nil {
		return nil, fmt.Errorf("adding item: %w", err)
	}
	return stored, nil
}

// UpdateItem writes the set fields of patch, storing NULL for null fields, and returns the updated row,
// or nil if no item has the given ID.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, patch model.ItemPatch) (*model.Item, error) {
	set := map[string]any{}
	if patch.Name.Set {
		set["name"] = patch.Name.Value
	}
	if patch.Description.Set {
		set["description"] = patch.Description.Value
	}
	if patch.Quantity.Set {
		set["quantity"] = patch.Quantity.Value
	}
	if patch.AcquisitionID.Set {
		set["acquisition_id"] = patch.AcquisitionID.Value
	}
	if patch.Acquired.Set {
		set["acquired"] = patch.Acquired.Value
	}
	if len(set) == 0 {
		return GetItemByID(ctx, db, id)
	}

	item, err := queryRow(ctx, db, "update_item", "items",
		psql.Update("items").SetMap(set).
			Where(sq.Eq{"id": id}).
			Suffix("RETURNING "+strings.Join(itemColumns, ", ")),
		scanItem,
	)
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}
	return item, nil
}

// RemoveItem deletes an item. Removing a missing item is not an error.
func RemoveItem(ctx context.Context, db *sql.DB, id int64) error {
	if _, err := execStmt(ctx, db, "remove_item", "items",
		psql.Delete("items").Where(sq.Eq{"id": id}),
	); err != nil {
		return fmt.Errorf("removing item: %w", err)
	}
	return nil
}
