package domain

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		raw  string
		want Role
	}{
		{"admin", RoleAdmin},
		{"user", RoleUser},
		{"", RoleUnknown},
		{"Admin", RoleUnknown},
		{"superuser", RoleUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := ParseRole(tt.raw); got != tt.want {
				t.Errorf("ParseRole(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
	if RoleUnknown.IsAdmin() || RoleNone.IsAdmin() || !RoleAdmin.IsAdmin() {
		t.Error("only RoleAdmin should be admin")
	}
}

func TestGroupSkills(t *testing.T) {
	groups := GroupSkills([]Skill{
		{ID: 1, Name: "Go", Category: "Backend"},
		{ID: 2, Name: "Vim"},
		{ID: 3, Name: "React", Category: "Frontend"},
		{ID: 4, Name: "Python", Category: "Backend"},
	})
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}
	wantOrder := []string{"Backend", "Frontend", UncategorizedSkills}
	for i, g := range groups {
		if g.Category != wantOrder[i] {
			t.Errorf("groups[%d].Category = %q, want %q", i, g.Category, wantOrder[i])
		}
	}
	if len(groups[0].Skills) != 2 || groups[0].Skills[1].Name != "Python" {
		t.Errorf("Backend skills = %+v", groups[0].Skills)
	}
}

func TestMessageStatusNext(t *testing.T) {
	if got := MessageNew.Next(); got != MessageInProgress {
		t.Errorf("new.Next() = %q", got)
	}
	if got := MessageResolved.Next(); got != MessageNew {
		t.Errorf("resolved.Next() = %q", got)
	}
	if got := MessageStatus("bogus").Next(); got != MessageNew {
		t.Errorf("bogus.Next() = %q", got)
	}
}

func TestValidProjectStatus(t *testing.T) {
	for _, s := range ProjectStatuses {
		if !ValidProjectStatus(s) {
			t.Errorf("ValidProjectStatus(%q) = false", s)
		}
	}
	if ValidProjectStatus("deleted") {
		t.Error("ValidProjectStatus(deleted) = true")
	}
}
