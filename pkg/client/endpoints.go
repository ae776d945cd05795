package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/naveenspark/folio/pkg/domain"
)

func idPath(prefix string, id int64) string {
	return prefix + "/" + strconv.FormatInt(id, 10)
}

// --- Auth ---

// Register creates an account. It does not sign in.
func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) error {
	if err := c.post(ctx, "/auth/register", req, nil); err != nil {
		return fmt.Errorf("client.Register: %w", err)
	}
	return nil
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (*domain.TokenResponse, error) {
	var tok domain.TokenResponse
	if err := c.post(ctx, "/auth/login", req, &tok); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &tok, nil
}

// --- Profile ---

// GetProfile returns the caller's profile; the server creates one if missing.
func (c *Client) GetProfile(ctx context.Context) (*domain.Profile, error) {
	var p domain.Profile
	if err := c.get(ctx, "/profile/me", nil, &p); err != nil {
		return nil, fmt.Errorf("client.GetProfile: %w", err)
	}
	return &p, nil
}

// UpdateProfile replaces the caller's profile fields and returns the stored profile.
func (c *Client) UpdateProfile(ctx context.Context, upd domain.ProfileUpdate) (*domain.Profile, error) {
	var p domain.Profile
	if err := c.put(ctx, "/profile/me", upd, &p); err != nil {
		return nil, fmt.Errorf("client.UpdateProfile: %w", err)
	}
	return &p, nil
}

// --- Projects ---

// ListProjects lists projects, optionally filtered by status.
func (c *Client) ListProjects(ctx context.Context, status domain.ProjectStatus) ([]domain.Project, error) {
	var projects []domain.Project
	if err := c.get(ctx, "/projects", map[string]string{"status": string(status)}, &projects); err != nil {
		return nil, fmt.Errorf("client.ListProjects: %w", err)
	}
	return projects, nil
}

// GetProject fetches a single project by ID.
func (c *Client) GetProject(ctx context.Context, id int64) (*domain.Project, error) {
	var p domain.Project
	if err := c.get(ctx, idPath("/projects", id), nil, &p); err != nil {
		return nil, fmt.Errorf("client.GetProject: %w", err)
	}
	return &p, nil
}

// CreateProject creates a project.
func (c *Client) CreateProject(ctx context.Context, in domain.ProjectInput) (*domain.Project, error) {
	var p domain.Project
	if err := c.post(ctx, "/projects", in, &p); err != nil {
		return nil, fmt.Errorf("client.CreateProject: %w", err)
	}
	return &p, nil
}

// UpdateProject updates a project by ID.
func (c *Client) UpdateProject(ctx context.Context, id int64, in domain.ProjectInput) (*domain.Project, error) {
	var p domain.Project
	if err := c.put(ctx, idPath("/projects", id), in, &p); err != nil {
		return nil, fmt.Errorf("client.UpdateProject: %w", err)
	}
	return &p, nil
}

// DeleteProject deletes a project by ID.
func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	if err := c.delete(ctx, idPath("/projects", id)); err != nil {
		return fmt.Errorf("client.DeleteProject: %w", err)
	}
	return nil
}

// --- Skills ---

// ListSkills returns the public skill list.
func (c *Client) ListSkills(ctx context.Context) ([]domain.Skill, error) {
	var skills []domain.Skill
	if err := c.get(ctx, "/skills", nil, &skills); err != nil {
		return nil, fmt.Errorf("client.ListSkills: %w", err)
	}
	return skills, nil
}

// CreateSkill creates a skill. Admin only.
func (c *Client) CreateSkill(ctx context.Context, in domain.SkillInput) (*domain.Skill, error) {
	var s domain.Skill
	if err := c.post(ctx, "/skills", in, &s); err != nil {
		return nil, fmt.Errorf("client.CreateSkill: %w", err)
	}
	return &s, nil
}

// UpdateSkill updates a skill by ID. Admin only.
func (c *Client) UpdateSkill(ctx context.Context, id int64, in domain.SkillInput) (*domain.Skill, error) {
	var s domain.Skill
	if err := c.put(ctx, idPath("/skills", id), in, &s); err != nil {
		return nil, fmt.Errorf("client.UpdateSkill: %w", err)
	}
	return &s, nil
}

// DeleteSkill deletes a skill by ID. Admin only.
func (c *Client) DeleteSkill(ctx context.Context, id int64) error {
	if err := c.delete(ctx, idPath("/skills", id)); err != nil {
		return fmt.Errorf("client.DeleteSkill: %w", err)
	}
	return nil
}

// --- Contact ---

// SubmitContactMessage posts a message through the public contact endpoint.
func (c *Client) SubmitContactMessage(ctx context.Context, msg domain.ContactSubmission) (*domain.ContactMessage, error) {
	var created domain.ContactMessage
	if err := c.post(ctx, "/contact/messages", msg, &created); err != nil {
		return nil, fmt.Errorf("client.SubmitContactMessage: %w", err)
	}
	return &created, nil
}

// ListContactMessages returns the inbox. Admin only.
func (c *Client) ListContactMessages(ctx context.Context) ([]domain.ContactMessage, error) {
	var msgs []domain.ContactMessage
	if err := c.get(ctx, "/contact/messages", nil, &msgs); err != nil {
		return nil, fmt.Errorf("client.ListContactMessages: %w", err)
	}
	return msgs, nil
}

// UpdateContactMessage sets a message's triage status. Admin only.
func (c *Client) UpdateContactMessage(ctx context.Context, id int64, status domain.MessageStatus) error {
	if err := c.put(ctx, idPath("/contact/messages", id), domain.MessageStatusUpdate{Status: status}, nil); err != nil {
		return fmt.Errorf("client.UpdateContactMessage: %w", err)
	}
	return nil
}

// --- Admin ---

// ListUsers returns all registered users. Admin only.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.get(ctx, "/admin/users", nil, &users); err != nil {
		return nil, fmt.Errorf("client.ListUsers: %w", err)
	}
	return users, nil
}
