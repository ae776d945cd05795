// Package apitest is an in-memory portfolio backend for tests. It speaks the
// same routes and JSON shapes as the real API and records every request.
package apitest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/naveenspark/folio/pkg/domain"
	"github.com/naveenspark/folio/pkg/token"
)

// Request is one recorded call.
type Request struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   []byte
}

// JSON decodes the recorded body into v.
func (r Request) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

type account struct {
	id       int64
	email    string
	username string
	password string
	role     domain.Role
	created  time.Time
}

// Server is the fake backend. Create it with New.
type Server struct {
	*httptest.Server

	secret []byte

	mu        sync.Mutex
	requests  []Request
	overrides map[string]http.HandlerFunc
	nextID    int64
	accounts  map[string]*account
	profiles  map[int64]*domain.Profile
	projects  map[int64]*domain.Project
	skills    map[int64]*domain.Skill
	messages  map[int64]*domain.ContactMessage
}

// New starts a server that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		secret:    []byte("apitest-secret"),
		overrides: map[string]http.HandlerFunc{},
		accounts:  map[string]*account{},
		profiles:  map[int64]*domain.Profile{},
		projects:  map[int64]*domain.Project{},
		skills:    map[int64]*domain.Skill{},
		messages:  map[int64]*domain.ContactMessage{},
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

// AddUser creates an account and returns its ID.
func (s *Server) AddUser(username, password string, role domain.Role) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.id()
	s.accounts[username] = &account{
		id:       id,
		email:    username + "@example.com",
		username: username,
		password: password,
		role:     role,
		created:  time.Now().UTC(),
	}
	return id
}

// AddSkill seeds a skill.
func (s *Server) AddSkill(name, category string, level int) domain.Skill {
	s.mu.Lock()
	defer s.mu.Unlock()
	sk := &domain.Skill{ID: s.id(), Name: name, Category: category, Level: level}
	s.skills[sk.ID] = sk
	return *sk
}

// AddProject seeds a project.
func (s *Server) AddProject(title string, status domain.ProjectStatus) domain.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	p := &domain.Project{ID: s.id(), Title: title, Status: status, CreatedAt: &now, UpdatedAt: &now}
	s.projects[p.ID] = p
	return *p
}

// AddMessage seeds a contact message.
func (s *Server) AddMessage(name, email, body string) domain.ContactMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	m := &domain.ContactMessage{ID: s.id(), SenderName: name, SenderEmail: email, Message: body, Status: domain.MessageNew, CreatedAt: now}
	s.messages[m.ID] = m
	return *m
}

// Mint signs a token for username with the given role claim and expiry.
// An empty role omits the claim; a zero exp omits expiry.
func (s *Server) Mint(username, role string, exp time.Time) string {
	claims := token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: username, IssuedAt: jwt.NewNumericDate(time.Now())},
		RawRole:          role,
	}
	if !exp.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return signed
}

// Override replaces the handler for one method and path, e.g. to force an error.
func (s *Server) Override(method, path string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[method+" "+path] = h
}

// Requests returns every recorded request in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Count returns how many requests matched method and path.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Reset forgets recorded requests.
func (s *Server) Reset() {
	s.mu.Lock()
	s.requests = nil
	s.mu.Unlock()
}

// Profile returns the stored profile for username.
func (s *Server) Profile(username string) (domain.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[username]
	if !ok {
		return domain.Profile{}, false
	}
	p, ok := s.profiles[a.id]
	if !ok {
		return domain.Profile{}, false
	}
	return *p, true
}

// Projects returns the stored projects sorted by ID.
func (s *Server) Projects() []domain.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Messages returns the stored contact messages sorted by ID.
func (s *Server) Messages() []domain.ContactMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ContactMessage, 0, len(s.messages))
	for _, m := range s.messages {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// WriteDetail writes a FastAPI-style {"detail": ...} error body.
func WriteDetail(w http.ResponseWriter, status int, detail any) {
	WriteJSON(w, status, map[string]any{"detail": detail})
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// httpError is returned by handlers and rendered as a detail body.
type httpError struct {
	status int
	detail string
}

func (e *httpError) Error() string { return e.detail }

func fail(status int, detail string) error { return &httpError{status: status, detail: detail} }

// handlerFunc lets handlers return errors instead of writing them.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (h handlerFunc) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	err := h(w, r)
	if err == nil {
		return
	}
	var he *httpError
	if errors.As(err, &he) {
		WriteDetail(w, he.status, he.detail)
		return
	}
	WriteDetail(w, http.StatusInternalServerError, "Internal Server Error")
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Auth:   r.Header.Get("Authorization"),
			Body:   body,
		})
		override := s.overrides[r.Method+" "+r.URL.Path]
		s.mu.Unlock()

		if override != nil {
			override(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)

	r.Post("/auth/register", handlerFunc(s.register).ServeHTTP)
	r.Post("/auth/login", handlerFunc(s.login).ServeHTTP)

	r.Get("/skills", handlerFunc(s.listSkills).ServeHTTP)
	r.Post("/contact/messages", handlerFunc(s.submitMessage).ServeHTTP)
	r.Get("/projects", handlerFunc(s.listProjects).ServeHTTP)
	r.Get("/projects/{id}", handlerFunc(s.getProject).ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate(false))
		r.Get("/profile/me", handlerFunc(s.getProfile).ServeHTTP)
		r.Put("/profile/me", handlerFunc(s.updateProfile).ServeHTTP)
		r.Post("/projects", handlerFunc(s.createProject).ServeHTTP)
		r.Put("/projects/{id}", handlerFunc(s.updateProject).ServeHTTP)
		r.Delete("/projects/{id}", handlerFunc(s.deleteProject).ServeHTTP)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate(true))
		r.Post("/skills", handlerFunc(s.createSkill).ServeHTTP)
		r.Put("/skills/{id}", handlerFunc(s.updateSkill).ServeHTTP)
		r.Delete("/skills/{id}", handlerFunc(s.deleteSkill).ServeHTTP)
		r.Get("/contact/messages", handlerFunc(s.listMessages).ServeHTTP)
		r.Put("/contact/messages/{id}", handlerFunc(s.updateMessage).ServeHTTP)
		r.Get("/admin/users", handlerFunc(s.listUsers).ServeHTTP)
	})
	return r
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, fail(http.StatusUnprocessableEntity, "invalid id")
	}
	return id, nil
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fail(http.StatusUnprocessableEntity, "invalid body")
	}
	return nil
}
