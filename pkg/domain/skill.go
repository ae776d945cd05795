package domain

import (
	"sort"
	"strings"
)

// UncategorizedSkills is the group label for skills without a category.
const UncategorizedSkills = "Uncategorized"

// Skill is a public, admin-managed skill.
type Skill struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Level    int    `json:"level,omitempty"`
}

// DisplayLevel returns the level, defaulting to 1.
func (s Skill) DisplayLevel() int {
	if s.Level <= 0 {
		return 1
	}
	return s.Level
}

// SkillInput is the admin create/update payload for a skill.
type SkillInput struct {
	Name     string  `json:"name"`
	Category *string `json:"category"`
	Level    int     `json:"level"`
}

// SkillGroup is a category with its skills.
type SkillGroup struct {
	Category string
	Skills   []Skill
}

// GroupSkills groups skills by category, sorted by category name.
// Skills keep their relative order within a group.
func GroupSkills(skills []Skill) []SkillGroup {
	idx := map[string]int{}
	var groups []SkillGroup
	for _, s := range skills {
		key := strings.TrimSpace(s.Category)
		if key == "" {
			key = UncategorizedSkills
		}
		i, ok := idx[key]
		if !ok {
			i = len(groups)
			idx[key] = i
			groups = append(groups, SkillGroup{Category: key})
		}
		groups[i].Skills = append(groups[i].Skills, s)
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Category < groups[b].Category
	})
	return groups
}
