package sys

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Code is a redeemable promo code attached to a project.
type Code struct {
	Code    string `json:"code"`
	Expired bool   `json:"expired"`
}

// Project is one configured game/project a report can be filed against.
type Project struct {
	Key           string `json:"-"`
	Name          string `json:"name"`
	DisplayName   string `json:"display_name"`
	IconURL       string `json:"icon_url"`
	Universe      int64  `json:"universe"`
	TrelloBoardID string `json:"trello_board_id"`
	Codes         []Code `json:"codes"`
}

// ProjectMap is the closed set of projects loaded once at startup and
// passed by reference. Ordering is stable (sorted by key) so command
// choices do not reshuffle between restarts.
type ProjectMap struct {
	Terminology string
	byKey       map[string]Project
	keys        []string
}

type projectsFile struct {
	Terminology string             `json:"terminology"`
	Projects    map[string]Project `json:"projects"`
}

// LoadProjects reads and validates the project definitions file.
func LoadProjects(path string) (*ProjectMap, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file projectsFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if len(file.Projects) == 0 {
		return nil, fmt.Errorf(MsgConfigProjectsEmpty, path)
	}

	pm := &ProjectMap{
		Terminology: file.Terminology,
		byKey:       make(map[string]Project, len(file.Projects)),
	}
	if pm.Terminology == "" {
		pm.Terminology = "project"
	}

	for key, p := range file.Projects {
		if key == "" {
			return nil, fmt.Errorf("project with empty key in %s", path)
		}
		if p.Name == "" {
			return nil, fmt.Errorf("project %q has no name", key)
		}
		if p.DisplayName == "" {
			p.DisplayName = p.Name
		}
		p.Key = key
		pm.byKey[key] = p
		pm.keys = append(pm.keys, key)
	}
	sort.Strings(pm.keys)

	return pm, nil
}

// Get looks up a project by key.
func (pm *ProjectMap) Get(key string) (Project, bool) {
	p, ok := pm.byKey[key]
	return p, ok
}

// Keys returns the project keys in stable order.
func (pm *ProjectMap) Keys() []string {
	return pm.keys
}

// Len returns the number of configured projects.
func (pm *ProjectMap) Len() int {
	return len(pm.byKey)
}

// DisplayName resolves a project key to its display name, falling back
// to a generic label for unknown keys.
func (pm *ProjectMap) DisplayName(key string) string {
	if p, ok := pm.byKey[key]; ok {
		return p.DisplayName
	}
	return "unknown " + pm.Terminology
}
