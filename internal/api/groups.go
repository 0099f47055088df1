package api

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/erazemk/propkeeper/internal/logging"
	"github.com/erazemk/propkeeper/internal/store"
	"github.com/erazemk/propkeeper/internal/validation"
)

// GroupsHandler handles projects, scenes and acquisitions.
type GroupsHandler struct {
	DB *sql.DB
}

type createGroupRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type createAcquisitionRequest struct {
	ProjectID int64  `json:"project_id" validate:"required"`
	SceneID   *int64 `json:"scene_id"`
	Name      string `json:"name" validate:"required,max=200"`
}

// validate runs struct validation and turns failures into a 400.
func validate(req any) error {
	err := validation.Struct(req)
	var verr *validation.Error
	if errors.As(err, &verr) {
		return badRequest(verr.Error())
	}
	return err
}

// ListProjects handles GET /api/projects.
func (h *GroupsHandler) ListProjects(w http.ResponseWriter, r *http.Request) error {
	projects, err := store.GetProjects(r.Context(), h.DB)
	if err != nil {
		return err
	}
	jsonResponse(w, http.StatusOK, projects)
	return nil
}

// CreateProject handles POST /api/projects.
func (h *GroupsHandler) CreateProject(w http.ResponseWriter, r *http.Request) error {
	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		return badRequest(msgInvalidBody)
	}
	if err := validate(req); err != nil {
		return err
	}

	project, err := store.AddProject(r.Context(), h.DB, req.Name)
	if err != nil {
		return err
	}

	logging.Ctx(r.Context()).Info().Int64("project_id", project.ID).Msg("project created")
	jsonResponse(w, http.StatusCreated, project)
	return nil
}

// ListScenes handles GET /api/scenes.
func (h *GroupsHandler) ListScenes(w http.ResponseWriter, r *http.Request) error {
	scenes, err := store.GetScenes(r.Context(), h.DB)
	if err != nil {
		return err
	}
	jsonResponse(w, http.StatusOK, scenes)
	return nil
}

// CreateScene handles POST /api/scenes.
func (h *GroupsHandler) CreateScene(w http.ResponseWriter, r *http.Request) error {
	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		return badRequest(msgInvalidBody)
	}
	if err := validate(req); err != nil {
		return err
	}

	scene, err := store.AddScene(r.Context(), h.DB, req.Name)
	if err != nil {
		return err
	}

	logging.Ctx(r.Context()).Info().Int64("scene_id", scene.ID).Msg("scene created")
	jsonResponse(w, http.StatusCreated, scene)
	return nil
}

// ListAcquisitions handles GET /api/acquisitions.
func (h *GroupsHandler) ListAcquisitions(w http.ResponseWriter, r *http.Request) error {
	acquisitions, err := store.GetAcquisitions(r.Context(), h.DB)
	if err != nil {
		return err
	}
	jsonResponse(w, http.StatusOK, acquisitions)
	return nil
}

// CreateAcquisition handles POST /api/acquisitions.
func (h *GroupsHandler) CreateAcquisition(w http.ResponseWriter, r *http.Request) error {
	var req createAcquisitionRequest
	if err := decodeJSON(r, &req); err != nil {
		return badRequest(msgInvalidBody)
	}
	if err := validate(req); err != nil {
		return err
	}

	acquisition, err := store.AddAcquisition(r.Context(), h.DB, req.ProjectID, req.SceneID, req.Name)
	if errors.Is(err, store.ErrInvalidReference) {
		return badRequest("referenced project or scene does not exist")
	}
	if err != nil {
		return err
	}

	logging.Ctx(r.Context()).Info().
		Int64("acquisition_id", acquisition.ID).
		Int64("project_id", acquisition.ProjectID).
		Msg("acquisition created")
	jsonResponse(w, http.StatusCreated, acquisition)
	return nil
}
