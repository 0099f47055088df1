package api

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/erazemk/propkeeper/internal/logging"
	"github.com/erazemk/propkeeper/internal/model"
	"github.com/erazemk/propkeeper/internal/sanitize"
	"github.com/erazemk/propkeeper/internal/store"
	"github.com/erazemk/propkeeper/internal/validation"
)

const itemsPath = "/api/items"

const (
	msgOneScope         = "ONE of 'project_id', 'acquisition_id', 'scene_id',  is required"
	msgCreateRequired   = "project_id and name are required"
	msgUpdateRequired   = "Minimum one of the following properties is required: name, description, quantity, acquisition_id, acquired"
	msgInvalidReference = "referenced project or acquisition does not exist"
	msgInvalidBody      = "invalid request body"
)

type itemKey struct{}

// ItemsHandler handles item CRUD endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

type createItemRequest struct {
	ProjectID     int64   `json:"project_id" validate:"required"`
	Name          string  `json:"name" validate:"required"`
	Description   *string `json:"description"`
	Acquired      *bool   `json:"acquired"`
	AcquisitionID *int64  `json:"acquisition_id"`
	Quantity      *int64  `json:"quantity"`
}

// updateItemRequest keeps raw values so an explicit null can be told apart
// from an absent key.
type updateItemRequest map[string]json.RawMessage

// patchField decodes key from req. Absent keys are unset, null clears.
func patchField[T any](req updateItemRequest, key string) (model.Field[T], error) {
	raw, ok := req[key]
	if !ok {
		return model.Field[T]{}, nil
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return model.Null[T](), nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return model.Field[T]{}, badRequest(fmt.Sprintf("%s has an invalid type", key))
	}
	return model.Some(v), nil
}

func (req updateItemRequest) patch() (model.ItemPatch, error) {
	var p model.ItemPatch
	var err error
	if p.Name, err = patchField[string](req, "name"); err != nil {
		return p, err
	}
	if p.Description, err = patchField[string](req, "description"); err != nil {
		return p, err
	}
	if p.Quantity, err = patchField[int64](req, "quantity"); err != nil {
		return p, err
	}
	if p.AcquisitionID, err = patchField[int64](req, "acquisition_id"); err != nil {
		return p, err
	}
	if p.Acquired, err = patchField[bool](req, "acquired"); err != nil {
		return p, err
	}
	return p, nil
}

// List handles GET /api/items. Exactly one of project_id, acquisition_id and
// scene_id must be given; acquisition_id wins over scene_id over project_id.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()

	supplied := 0
	for _, scope := range []model.ItemScope{model.ScopeProject, model.ScopeAcquisition, model.ScopeScene} {
		if q.Get(string(scope)) != "" {
			supplied++
		}
	}
	if supplied != 1 {
		return badRequest(msgOneScope)
	}

	var items []model.Item
	var err error
	switch {
	case q.Get(string(model.ScopeAcquisition)) != "":
		id, perr := scopeID(q, model.ScopeAcquisition)
		if perr != nil {
			return perr
		}
		items, err = store.GetAcquisitionItems(r.Context(), h.DB, id)
	case q.Get(string(model.ScopeScene)) != "":
		id, perr := scopeID(q, model.ScopeScene)
		if perr != nil {
			return perr
		}
		items, err = store.GetSceneItems(r.Context(), h.DB, id)
	default:
		id, perr := scopeID(q, model.ScopeProject)
		if perr != nil {
			return perr
		}
		items, err = store.GetProjectItems(r.Context(), h.DB, id)
	}
	if err != nil {
		return err
	}

	jsonResponse(w, http.StatusOK, sanitize.Items(items))
	return nil
}

func scopeID(q url.Values, scope model.ItemScope) (int64, error) {
	id, err := strconv.ParseInt(q.Get(string(scope)), 10, 64)
	if err != nil {
		return 0, badRequest(fmt.Sprintf("%s must be an integer", scope))
	}
	return id, nil
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) error {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		return badRequest(msgInvalidBody)
	}
	if err := validation.Struct(req); err != nil {
		return badRequest(msgCreateRequired)
	}

	item, err := store.AddItem(r.Context(), h.DB, model.NewItem{
		ProjectID:     req.ProjectID,
		Name:          req.Name,
		Description:   req.Description,
		Acquired:      req.Acquired,
		AcquisitionID: req.AcquisitionID,
		Quantity:      req.Quantity,
	})
	if errors.Is(err, store.ErrInvalidReference) {
		return badRequest(msgInvalidReference)
	}
	if err != nil {
		return err
	}

	logging.Ctx(r.Context()).Info().
		Int64("item_id", item.ID).
		Int64("project_id", item.ProjectID).
		Msg("item created")

	w.Header().Set("Location", fmt.Sprintf("%s/%d", itemsPath, item.ID))
	jsonResponse(w, http.StatusCreated, sanitize.Item(*item))
	return nil
}

// ResolveItem loads the item named by the {item_id} path parameter into the
// request context. Unknown ids are reported as 400 for compatibility with
// existing clients.
func (h *ItemsHandler) ResolveItem(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "item_id")
		missing := badRequest(fmt.Sprintf("item with id %s not found", raw))

		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, r, missing)
			return
		}

		item, err := store.GetItemByID(r.Context(), h.DB, id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if item == nil {
			writeError(w, r, missing)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), itemKey{}, item)))
	})
}

// resolvedItem returns the item stored by ResolveItem.
func resolvedItem(ctx context.Context) *model.Item {
	item, _ := ctx.Value(itemKey{}).(*model.Item)
	return item
}

// Get handles GET /api/items/{item_id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) error {
	jsonResponse(w, http.StatusOK, sanitize.Item(*resolvedItem(r.Context())))
	return nil
}

// Update handles PATCH /api/items/{item_id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) error {
	item := resolvedItem(r.Context())

	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		return badRequest(msgInvalidBody)
	}

	patch, err := req.patch()
	if err != nil {
		return err
	}
	if !patch.HasTruthyField() {
		return badRequest(msgUpdateRequired)
	}
	if patch.Name.IsNull() {
		return badRequest("name cannot be null")
	}

	updated, err := store.UpdateItem(r.Context(), h.DB, item.ID, patch)
	if errors.Is(err, store.ErrInvalidReference) {
		return badRequest(msgInvalidReference)
	}
	if err != nil {
		return err
	}
	if updated == nil {
		return badRequest(fmt.Sprintf("item with id %s not found", chi.URLParam(r, "item_id")))
	}

	logging.Ctx(r.Context()).Info().Int64("item_id", item.ID).Msg("item updated")
	jsonResponse(w, http.StatusOK, sanitize.Item(*updated))
	return nil
}

// Delete handles DELETE /api/items/{item_id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	item := resolvedItem(r.Context())

	if err := store.RemoveItem(r.Context(), h.DB, item.ID); err != nil {
		return err
	}

	logging.Ctx(r.Context()).Info().Int64("item_id", item.ID).Msg("item removed")
	jsonResponse(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("item with id: %s removed", chi.URLParam(r, "item_id")),
	})
	return nil
}
