package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/propkeeper/internal/model"
)

var (
	projectColumns     = []string{"id", "name", "created_at"}
	sceneColumns       = []string{"id", "name", "created_at"}
	acquisitionColumns = []string{"id", "project_id", "scene_id", "name", "created_at"}
)

func scanProject(row rowScanner) (model.Project, error) {
	var p model.Project
	err := row.Scan(&p.ID, &p.Name, timestamp{&p.CreatedAt})
	return p, err
}

func scanScene(row rowScanner) (model.Scene, error) {
	var s model.Scene
	err := row.Scan(&s.ID, &s.Name, timestamp{&s.CreatedAt})
	return s, err
}

func scanAcquisition(row rowScanner) (model.Acquisition, error) {
	var a model.Acquisition
	var sceneID sql.NullInt64
	if err := row.Scan(&a.ID, &a.ProjectID, &sceneID, &a.Name, timestamp{&a.CreatedAt}); err != nil {
		return model.Acquisition{}, err
	}
	a.SceneID = int64Ptr(sceneID)
	return a, nil
}

// AddProject creates a project.
func AddProject(ctx context.Context, db *sql.DB, name string) (*model.Project, error) {
	p, err := queryRow(ctx, db, "add_project", "projects",
		psql.Insert("projects").Columns("name").Values(name).
			Suffix("RETURNING "+strings.Join(projectColumns, ", ")),
		scanProject,
	)
	if err != nil {
		return nil, fmt.Errorf("adding project: %w", err)
	}
	return p, nil
}

// GetProjects returns all projects ordered by name.
func GetProjects(ctx context.Context, db *sql.DB) ([]model.Project, error) {
	projects, err := queryRows(ctx, db, "get_projects", "projects",
		psql.Select(projectColumns...).From("projects").OrderBy("name", "id"),
		scanProject,
	)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

// AddScene creates a scene.
func AddScene(ctx context.Context, db *sql.DB, name string) (*model.Scene, error) {
	s, err := queryRow(ctx, db, "add_scene", "scenes",
		psql.Insert("scenes").Columns("name").Values(name).
			Suffix("RETURNING "+strings.Join(sceneColumns, ", ")),
		scanScene,
	)
	if err != nil {
		return nil, fmt.Errorf("adding scene: %w", err)
	}
	return s, nil
}

// GetScenes returns all scenes ordered by name.
func GetScenes(ctx context.Context, db *sql.DB) ([]model.Scene, error) {
	scenes, err := queryRows(ctx, db, "get_scenes", "scenes",
		psql.Select(sceneColumns...).From("scenes").OrderBy("name", "id"),
		scanScene,
	)
	if err != nil {
		return nil, fmt.Errorf("listing scenes: %w", err)
	}
	return scenes, nil
}

// AddAcquisition creates an acquisition inside a project, optionally tied to a scene.
func AddAcquisition(ctx context.Context, db *sql.DB, projectID int64, sceneID *int64, name string) (*model.Acquisition, error) {
	a, err := queryRow(ctx, db, "add_acquisition", "acquisitions",
		psql.Insert("acquisitions").
			Columns("project_id", "scene_id", "name").
			Values(projectID, sceneID, name).
			Suffix("RETURNING "+strings.Join(acquisitionColumns, ", ")),
		scanAcquisition,
	)
	if err != nil {
		return nil, fmt.Errorf("adding acquisition: %w", err)
	}
	return a, nil
}

// GetAcquisitions returns all acquisitions ordered by project and name.
func GetAcquisitions(ctx context.Context, db *sql.DB) ([]model.Acquisition, error) {
	acquisitions, err := queryRows(ctx, db, "get_acquisitions", "acquisitions",
		psql.Select(acquisitionColumns...).From("acquisitions").OrderBy("project_id", "name", "id"),
		scanAcquisition,
	)
	if err != nil {
		return nil, fmt.Errorf("listing acquisitions: %w", err)
	}
	return acquisitions, nil
}
