package model

import "time"

// Item is a tracked prop or piece of set dressing. It always belongs to a
// project and optionally to one of that project's acquisitions.
type Item struct {
	ID            int64     `json:"id"`
	ProjectID     int64     `json:"project_id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	Acquired      *bool     `json:"acquired"`
	AcquisitionID *int64    `json:"acquisition_id"`
	Quantity      *int64    `json:"quantity"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewItem holds the fields accepted when creating an item.
type NewItem struct {
	ProjectID     int64
	Name          string
	Description   *string
	Acquired      *bool
	AcquisitionID *int64
	Quantity      *int64
}

// Field is one value of a partial update. A field that was not supplied has
// Set false; an explicit null has Set true and a nil Value.
type Field[T any] struct {
	Set   bool
	Value *T
}

// Some returns a supplied field holding v.
func Some[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: &v}
}

// Null returns a supplied field that clears the column.
func Null[T any]() Field[T] {
	return Field[T]{Set: true}
}

// IsNull reports whether the field was supplied as an explicit null.
func (f Field[T]) IsNull() bool {
	return f.Set && f.Value == nil
}

// ItemPatch holds a partial item update. Unset fields are left unchanged and
// null fields are cleared.
type ItemPatch struct {
	Name          Field[string]
	Description   Field[string]
	Quantity      Field[int64]
	AcquisitionID Field[int64]
	Acquired      Field[bool]
}

// HasTruthyField reports whether at least one field carries a non-empty,
// non-zero or true value.
func (p ItemPatch) HasTruthyField() bool {
	switch {
	case p.Name.Value != nil && *p.Name.Value != "":
		return true
	case p.Description.Value != nil && *p.Description.Value != "":
		return true
	case p.Quantity.Value != nil && *p.Quantity.Value != 0:
		return true
	case p.AcquisitionID.Value != nil && *p.AcquisitionID.Value != 0:
		return true
	case p.Acquired.Value != nil && *p.Acquired.Value:
		return true
	}
	return false
}

// ItemScope selects which grouping an item listing is filtered by.
type ItemScope string

// Item list scopes.
const (
	ScopeProject     ItemScope = "project_id"
	ScopeAcquisition ItemScope = "acquisition_id"
	ScopeScene       ItemScope = "scene_id"
)
