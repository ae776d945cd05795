// Package session holds the signed-in state of the dashboard: the access
// credential, the cached profile and the loading flag.
//
// The credential lives in memory only. All state changes go through Store
// methods, which are safe to call from concurrent tea.Cmd goroutines.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/naveenspark/folio/internal/notify"
	"github.com/naveenspark/folio/pkg/client"
	"github.com/naveenspark/folio/pkg/domain"
	"github.com/naveenspark/folio/pkg/token"
)

// ExpiredReason is the logout reason used when the API rejects the credential.
const ExpiredReason = "Your session expired. Please sign in again."

var errNoAccessToken = errors.New("login response carried no access token")

// API is the part of the gateway the store needs.
type API interface {
	Configure(tokens client.TokenSource, onUnauthorized client.UnauthorizedHandler)
	Login(ctx context.Context, req domain.LoginRequest) (*domain.TokenResponse, error)
	Register(ctx context.Context, req domain.RegisterRequest) error
	GetProfile(ctx context.Context) (*domain.Profile, error)
}

// State is an immutable snapshot for guards and views.
type State struct {
	Authenticated bool
	Role          domain.Role
	Profile       *domain.Profile
	Loading       bool
}

// Store is the session store.
type Store struct {
	api    API
	sink   notify.Sink
	logger *slog.Logger
	now    func() time.Time

	mu         sync.RWMutex
	credential string
	profile    *domain.Profile
	loading    bool
	refreshing bool
	// reconciled is the credential Reconcile last fetched for.
	reconciled string
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates an empty session and registers it with api as both the token
// source and the unauthorized handler.
func New(api API, sink notify.Sink, opts ...Option) *Store {
	if sink == nil {
		sink = notify.Discard
	}
	s := &Store{
		api:    api,
		sink:   sink,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.register()
	return s
}

func (s *Store) register() {
	s.api.Configure(s, s)
}

func (s *Store) validLocked() bool {
	return s.credential != "" && !token.IsExpiredAt(s.credential, s.now())
}

// Token implements client.TokenSource. An expired credential is not sent.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.validLocked() {
		return ""
	}
	return s.credential
}

// IsAuthenticated reports whether a credential is held and not yet expired.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validLocked()
}

// Role returns the credential's role claim, or RoleNone without a decodable credential.
func (s *Store) Role() domain.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return token.RoleOf(s.credential)
}

// Loading reports whether a login or registration is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Profile returns a copy of the cached profile, or nil.
func (s *Store) Profile() *domain.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProfile(s.profile)
}

// State returns a consistent snapshot of the session.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		Authenticated: s.validLocked(),
		Role:          token.RoleOf(s.credential),
		Profile:       cloneProfile(s.profile),
		Loading:       s.loading,
	}
}

// begin claims the loading flag. It fails if another login or registration
// is already running.
func (s *Store) begin(op string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		s.logger.Info("session_busy", "op", op)
		return false
	}
	s.loading = true
	return true
}

func (s *Store) end() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

// Login exchanges credentials for an access token, then fetches the profile
// once. A profile failure does not fail the login.
func (s *Store) Login(ctx context.Context, username, password string) bool {
	if !s.begin("login") {
		return false
	}
	defer s.end()

	resp, err := s.api.Login(ctx, domain.LoginRequest{Username: username, Password: password})
	if err == nil && (resp == nil || resp.AccessToken == "") {
		err = errNoAccessToken
	}
	if err != nil {
		s.logger.Warn("login_failed", "username", username, "error", err)
		s.sink.Notify(notify.New(notify.Error, "Login failed", client.Message(err, "Unable to sign in.")))
		return false
	}

	s.mu.Lock()
	s.credential = resp.AccessToken
	s.profile = nil
	s.reconciled = ""
	s.mu.Unlock()
	s.register()

	s.logger.Info("login", "username", username, "role", s.Role())
	s.sink.Notify(notify.New(notify.Success, "Welcome back", "You are signed in."))
	s.RefreshProfile(ctx)
	return true
}

// Register creates an account. It never signs in.
func (s *Store) Register(ctx context.Context, email, username, password string) bool {
	if !s.begin("register") {
		return false
	}
	defer s.end()

	err := s.api.Register(ctx, domain.RegisterRequest{Email: email, Username: username, Password: password})
	if err != nil {
		s.logger.Warn("register_failed", "username", username, "error", err)
		s.sink.Notify(notify.New(notify.Error, "Registration failed", client.Message(err, "Unable to register.")))
		return false
	}
	s.logger.Info("register", "username", username)
	s.sink.Notify(notify.New(notify.Success, "Account created", "You can now sign in."))
	return true
}

// Logout clears the credential and profile together. A non-empty reason is
// shown to the user.
func (s *Store) Logout(reason string) {
	s.mu.Lock()
	had := s.credential != ""
	s.credential = ""
	s.profile = nil
	s.mu.Unlock()
	s.register()

	s.logger.Info("logout", "had_credential", had, "reason", reason)
	if reason != "" {
		s.sink.Notify(notify.New(notify.Error, "Signed out", reason))
	}
}

// RefreshProfile fetches the profile and replaces the cached copy. It does
// nothing without a valid credential, and failures are logged only.
func (s *Store) RefreshProfile(ctx context.Context) {
	s.mu.RLock()
	cred, ok := s.credential, s.validLocked()
	s.mu.RUnlock()
	if !ok {
		s.logger.Debug("profile_refresh_skipped", "reason", "unauthenticated")
		return
	}

	p, err := s.api.GetProfile(ctx)
	if err != nil {
		s.logger.Warn("profile_refresh_failed", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// A logout or new login while the request was out wins.
	if s.credential != cred {
		s.logger.Debug("profile_refresh_discarded")
		return
	}
	s.profile = cloneProfile(p)
}

// SetProfile replaces the cached profile with one returned by an update.
func (s *Store) SetProfile(p *domain.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.credential == "" {
		return
	}
	s.profile = cloneProfile(p)
}

// NeedsProfile reports whether Reconcile would fetch.
func (s *Store) NeedsProfile() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.needsProfileLocked()
}

func (s *Store) needsProfileLocked() bool {
	return s.validLocked() && s.profile == nil && !s.loading && !s.refreshing &&
		s.reconciled != s.credential
}

// Reconcile fetches the profile when a valid credential is held without
// one. It reports whether a fetch was made. It fetches at most once per
// credential, so a failing profile endpoint is not retried in a loop.
func (s *Store) Reconcile(ctx context.Context) bool {
	s.mu.Lock()
	if !s.needsProfileLocked() {
		s.mu.Unlock()
		return false
	}
	s.refreshing = true
	s.reconciled = s.credential
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.refreshing = false
		s.mu.Unlock()
	}()
	s.RefreshProfile(ctx)
	return true
}

// HandleUnauthorized implements client.UnauthorizedHandler. A 401 ends a held
// session; a 403 only tells the user.
func (s *Store) HandleUnauthorized(err *client.APIError) {
	switch err.Status {
	case 401:
		s.mu.RLock()
		held := s.credential != ""
		s.mu.RUnlock()
		if !held {
			s.logger.Debug("unauthorized_anonymous", "message", err.Message)
			return
		}
		s.Logout(ExpiredReason)
	case 403:
		s.logger.Info("forbidden", "message", err.Message)
		s.sink.Notify(notify.New(notify.Error, "Access denied", "You do not have permission to perform this action."))
	}
}

func cloneProfile(p *domain.Profile) *domain.Profile {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Socials != nil {
		cp.Socials = make(map[string]string, len(p.Socials))
		for k, v := range p.Socials {
			cp.Socials[k] = v
		}
	}
	return &cp
}
