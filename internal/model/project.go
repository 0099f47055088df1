package model

import "time"

// Project is the top-level grouping that owns items and acquisitions.
type Project struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Scene groups acquisitions. Items are reachable from a scene only through
// their acquisition.
type Scene struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Acquisition is a sub-grouping within a project, optionally tied to a scene.
type Acquisition struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	SceneID   *int64    `json:"scene_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
