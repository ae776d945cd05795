package apitest

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/naveenspark/folio/pkg/domain"
	"github.com/naveenspark/folio/pkg/token"
)

type ctxKey struct{}

func caller(r *http.Request) *account {
	a, _ := r.Context().Value(ctxKey{}).(*account)
	return a
}

// authenticate verifies the bearer token. Bad or expired tokens get 401;
// non-admins on admin routes get 403.
func (s *Server) authenticate(admin bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return handlerFunc(func(w http.ResponseWriter, r *http.Request) error {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				return fail(http.StatusUnauthorized, "Not authenticated")
			}
			var claims token.Claims
			_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
				return s.secret, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil {
				return fail(http.StatusUnauthorized, "Could not validate credentials")
			}

			s.mu.Lock()
			a := s.accounts[claims.Subject]
			s.mu.Unlock()
			if a == nil {
				return fail(http.StatusUnauthorized, "Could not validate credentials")
			}
			if admin && claims.Role() != domain.RoleAdmin {
				return fail(http.StatusForbidden, "Admin privileges required")
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, a)))
			return nil
		})
	}
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) error {
	var req domain.RegisterRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.accounts[req.Username]; taken {
		return fail(http.StatusBadRequest, "Username already registered")
	}
	a := &account{id: s.id(), email: req.Email, username: req.Username, password: req.Password, role: domain.RoleUser, created: time.Now().UTC()}
	s.accounts[a.username] = a
	WriteJSON(w, http.StatusCreated, userOf(a))
	return nil
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) error {
	var req domain.LoginRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	s.mu.Lock()
	a := s.accounts[req.Username]
	s.mu.Unlock()
	if a == nil || a.password != req.Password {
		return fail(http.StatusUnauthorized, "Incorrect username or password")
	}
	WriteJSON(w, http.StatusOK, domain.TokenResponse{
		AccessToken: s.Mint(a.username, string(a.role), time.Now().Add(time.Hour)),
		TokenType:   "bearer",
	})
	return nil
}

func userOf(a *account) domain.User {
	created := a.created
	return domain.User{ID: a.id, Email: a.email, Username: a.username, Role: string(a.role), CreatedAt: &created}
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) error {
	a := caller(r)
	s.mu.Lock()
	p, ok := s.profiles[a.id]
	if !ok {
		p = &domain.Profile{ID: s.id(), UserID: a.id, DisplayName: a.username, Socials: map[string]string{}}
		s.profiles[a.id] = p
	}
	out := *p
	s.mu.Unlock()
	WriteJSON(w, http.StatusOK, out)
	return nil
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) error {
	var upd domain.ProfileUpdate
	if err := decode(r, &upd); err != nil {
		return err
	}
	a := caller(r)
	s.mu.Lock()
	p, ok := s.profiles[a.id]
	if !ok {
		p = &domain.Profile{ID: s.id(), UserID: a.id}
		s.profiles[a.id] = p
	}
	p.DisplayName = deref(upd.DisplayName)
	p.Headline = deref(upd.Headline)
	p.Bio = deref(upd.Bio)
	p.Location = deref(upd.Location)
	p.Website = deref(upd.Website)
	p.Socials = upd.Socials
	out := *p
	s.mu.Unlock()
	WriteJSON(w, http.StatusOK, out)
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) error {
	status := domain.ProjectStatus(r.URL.Query().Get("status"))
	if status != "" && !domain.ValidProjectStatus(status) {
		return fail(http.StatusUnprocessableEntity, "invalid status")
	}
	out := []domain.Project{}
	for _, p := range s.Projects() {
		if status == "" || p.Status == status {
			out = append(out, p)
		}
	}
	WriteJSON(w, http.StatusOK, out)
	return nil
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	p, ok := s.projects[id]
	var out domain.Project
	if ok {
		out = *p
	}
	s.mu.Unlock()
	if !ok {
		return fail(http.StatusNotFound, "Project not found")
	}
	WriteJSON(w, http.StatusOK, out)
	return nil
}

// applyProject copies in onto p; the caller holds s.mu.
func (s *Server) applyProject(p *domain.Project, in domain.ProjectInput) error {
	if len(strings.TrimSpace(in.Title)) < 2 {
		return fail(http.StatusUnprocessableEntity, "title too short")
	}
	if in.Status == "" {
		in.Status = domain.ProjectDraft
	}
	if !domain.ValidProjectStatus(in.Status) {
		return fail(http.StatusUnprocessableEntity, "invalid status")
	}
	p.Title = in.Title
	p.Description = deref(in.Description)
	p.RepoURL = deref(in.RepoURL)
	p.LiveURL = deref(in.LiveURL)
	p.Status = in.Status
	if in.SkillIDs != nil {
		p.Skills = nil
		for _, sid := range in.SkillIDs {
			sk, ok := s.skills[sid]
			if !ok {
				return fail(http.StatusBadRequest, "Unknown skill")
			}
			p.Skills = append(p.Skills, *sk)
		}
	}
	now := time.Now().UTC()
	p.UpdatedAt = &now
	return nil
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) error {
	var in domain.ProjectInput
	if err := decode(r, &in); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &domain.Project{}
	if err := s.applyProject(p, in); err != nil {
		return err
	}
	p.ID = s.id()
	p.CreatedAt = p.UpdatedAt
	s.projects[p.ID] = p
	WriteJSON(w, http.StatusCreated, *p)
	return nil
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	var in domain.ProjectInput
	if err := decode(r, &in); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return fail(http.StatusNotFound, "Project not found")
	}
	if err := s.applyProject(p, in); err != nil {
		return err
	}
	WriteJSON(w, http.StatusOK, *p)
	return nil
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return fail(http.StatusNotFound, "Project not found")
	}
	delete(s.projects, id)
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) listSkills(w http.ResponseWriter, _ *http.Request) error {
	s.mu.Lock()
	out := make([]domain.Skill, 0, len(s.skills))
	for _, sk := range s.skills {
		out = append(out, *sk)
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	WriteJSON(w, http.StatusOK, out)
	return nil
}

func skillFrom(in domain.SkillInput) (domain.Skill, error) {
	if len(strings.TrimSpace(in.Name)) < 2 {
		return domain.Skill{}, fail(http.StatusUnprocessableEntity, "name too short")
	}
	if in.Level < 1 || in.Level > 5 {
		return domain.Skill{}, fail(http.StatusUnprocessableEntity, "level must be between 1 and 5")
	}
	return domain.Skill{Name: in.Name, Category: deref(in.Category), Level: in.Level}, nil
}

func (s *Server) createSkill(w http.ResponseWriter, r *http.Request) error {
	var in domain.SkillInput
	if err := decode(r, &in); err != nil {
		return err
	}
	sk, err := skillFrom(in)
	if err != nil {
		return err
	}
	s.mu.Lock()
	sk.ID = s.id()
	s.skills[sk.ID] = &sk
	s.mu.Unlock()
	WriteJSON(w, http.StatusCreated, sk)
	return nil
}

func (s *Server) updateSkill(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	var in domain.SkillInput
	if err := decode(r, &in); err != nil {
		return err
	}
	sk, err := skillFrom(in)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.skills[id]; !ok {
		return fail(http.StatusNotFound, "Skill not found")
	}
	sk.ID = id
	s.skills[id] = &sk
	WriteJSON(w, http.StatusOK, sk)
	return nil
}

func (s *Server) deleteSkill(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.skills[id]; !ok {
		return fail(http.StatusNotFound, "Skill not found")
	}
	delete(s.skills, id)
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) submitMessage(w http.ResponseWriter, r *http.Request) error {
	var in domain.ContactSubmission
	if err := decode(r, &in); err != nil {
		return err
	}
	if len(in.SenderName) < 2 || !strings.Contains(in.SenderEmail, "@") || len(in.Message) < 10 {
		return fail(http.StatusUnprocessableEntity, "invalid message")
	}
	s.mu.Lock()
	m := &domain.ContactMessage{
		ID:          s.id(),
		SenderName:  in.SenderName,
		SenderEmail: in.SenderEmail,
		Subject:     deref(in.Subject),
		Message:     in.Message,
		Status:      domain.MessageNew,
		CreatedAt:   time.Now().UTC(),
	}
	s.messages[m.ID] = m
	out := *m
	s.mu.Unlock()
	WriteJSON(w, http.StatusCreated, out)
	return nil
}

func (s *Server) listMessages(w http.ResponseWriter, _ *http.Request) error {
	WriteJSON(w, http.StatusOK, s.Messages())
	return nil
}

func (s *Server) updateMessage(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	var upd domain.MessageStatusUpdate
	if err := decode(r, &upd); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.messages[id]
	if !ok {
		return fail(http.StatusNotFound, "Message not found")
	}
	m.Status = upd.Status
	WriteJSON(w, http.StatusOK, *m)
	return nil
}

func (s *Server) listUsers(w http.ResponseWriter, _ *http.Request) error {
	s.mu.Lock()
	out := make([]domain.User, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, userOf(a))
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	WriteJSON(w, http.StatusOK, out)
	return nil
}
