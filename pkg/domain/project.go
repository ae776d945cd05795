package domain

import "time"

// ProjectStatus controls public visibility of a project.
type ProjectStatus string

const (
	ProjectDraft     ProjectStatus = "draft"
	ProjectPublished ProjectStatus = "published"
	ProjectArchived  ProjectStatus = "archived"
)

// ProjectStatuses lists the statuses in display order.
var ProjectStatuses = []ProjectStatus{ProjectDraft, ProjectPublished, ProjectArchived}

// ValidProjectStatus returns true if s is a known project status.
func ValidProjectStatus(s ProjectStatus) bool {
	for _, v := range ProjectStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Project is a portfolio entry owned by a user.
type Project struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	RepoURL     string        `json:"repo_url,omitempty"`
	LiveURL     string        `json:"live_url,omitempty"`
	Status      ProjectStatus `json:"status"`
	Skills      []Skill       `json:"skills,omitempty"`
	CreatedAt   *time.Time    `json:"created_at,omitempty"`
	UpdatedAt   *time.Time    `json:"updated_at,omitempty"`
}

// SkillIDs returns the IDs of the skills attached to p.
func (p Project) SkillIDs() []int64 {
	ids := make([]int64, 0, len(p.Skills))
	for _, s := range p.Skills {
		ids = append(ids, s.ID)
	}
	return ids
}

// ProjectInput is the create/update payload for a project.
type ProjectInput struct {
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	RepoURL     *string       `json:"repo_url"`
	LiveURL     *string       `json:"live_url"`
	Status      ProjectStatus `json:"status"`
	SkillIDs    []int64       `json:"skill_ids"`
}
