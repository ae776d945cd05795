package session_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenspark/folio/internal/apitest"
	"github.com/naveenspark/folio/internal/notify"
	"github.com/naveenspark/folio/internal/session"
	"github.com/naveenspark/folio/pkg/client"
	"github.com/naveenspark/folio/pkg/domain"
)

func newStore(t *testing.T, opts ...session.Option) (*session.Store, *apitest.Server, *client.Client, *notify.Recorder) {
	t.Helper()
	srv := apitest.New(t)
	c := client.New(srv.URL)
	rec := &notify.Recorder{}
	return session.New(c, rec, opts...), srv, c, rec
}

func TestLogin_Success(t *testing.T) {
	store, srv, _, rec := newStore(t)
	srv.AddUser("ada", "secret", domain.RoleAdmin)

	ok := store.Login(context.Background(), "ada", "secret")

	require.True(t, ok)
	st := store.State()
	assert.True(t, st.Authenticated)
	assert.False(t, st.Loading)
	assert.Equal(t, domain.RoleAdmin, st.Role)
	require.NotNil(t, st.Profile)
	assert.Equal(t, "ada", st.Profile.DisplayName)
	assert.Equal(t, 1, srv.Count(http.MethodGet, "/profile/me"))
	assert.Equal(t, []string{"Welcome back"}, rec.Titles())
}

func TestLogin_FetchesProfileExactlyOnce(t *testing.T) {
	store, srv, _, _ := newStore(t)
	tok := srv.Mint("ada", "user", time.Now().Add(time.Hour))
	srv.AddUser("ada", "x", domain.RoleUser)
	srv.Override(http.MethodPost, "/auth/login", func(w http.ResponseWriter, _ *http.Request) {
		apitest.WriteJSON(w, http.StatusOK, map[string]string{"access_token": tok})
	})

	require.True(t, store.Login(context.Background(), "ada", "x"))
	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, 1, srv.Count(http.MethodGet, "/profile/me"))
	assert.False(t, store.Reconcile(context.Background()), "profile already cached")
	assert.Equal(t, 1, srv.Count(http.MethodGet, "/profile/me"))
}

func TestLogin_Failure(t *testing.T) {
	store, srv, _, rec := newStore(t)
	srv.AddUser("ada", "secret", domain.RoleUser)

	ok := store.Login(context.Background(), "ada", "wrong")

	assert.False(t, ok)
	st := store.State()
	assert.False(t, st.Authenticated)
	assert.False(t, st.Loading)
	assert.Nil(t, st.Profile)
	assert.Equal(t, 0, srv.Count(http.MethodGet, "/profile/me"))
	events := rec.Events()
	require.Len(t, events, 1, "a rejected login must not also report a sign-out")
	assert.Equal(t, "Login failed", events[0].Title)
	assert.Equal(t, "Incorrect username or password", events[0].Message)
	assert.Equal(t, notify.Error, events[0].Kind)
}

func TestLogin_MissingAccessToken(t *testing.T) {
	store, srv, _, rec := newStore(t)
	srv.Override(http.MethodPost, "/auth/login", func(w http.ResponseWriter, _ *http.Request) {
		apitest.WriteJSON(w, http.StatusOK, map[string]string{"token_type": "bearer"})
	})

	assert.False(t, store.Login(context.Background(), "ada", "secret"))
	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, 0, srv.Count(http.MethodGet, "/profile/me"))
	assert.Equal(t, []string{"Login failed"}, rec.Titles())
}

func TestLogin_ProfileFailureStillSignsIn(t *testing.T) {
	store, srv, _, _ := newStore(t)
	srv.AddUser("ada", "secret", domain.RoleUser)
	srv.Override(http.MethodGet, "/profile/me", func(w http.ResponseWriter, _ *http.Request) {
		apitest.WriteDetail(w, http.StatusInternalServerError, "boom")
	})

	require.True(t, store.Login(context.Background(), "ada", "secret"))
	assert.True(t, store.IsAuthenticated())
	assert.Nil(t, store.Profile())
	assert.True(t, store.NeedsProfile())
}

func TestLogin_ConcurrentCallRejected(t *testing.T) {
	store, srv, _, _ := newStore(t)
	srv.AddUser("ada", "secret", domain.RoleUser)
	release := make(chan struct{})
	entered := make(chan struct{})
	tok := srv.Mint("ada", "user", time.Now().Add(time.Hour))
	srv.Override(http.MethodPost, "/auth/login", func(w http.ResponseWriter, _ *http.Request) {
		close(entered)
		<-release
		apitest.WriteJSON(w, http.StatusOK, map[string]string{"access_token": tok})
	})

	var wg sync.WaitGroup
	var first bool
	wg.Add(1)
	go func() {
		defer wg.Done()
		first = store.Login(context.Background(), "ada", "secret")
	}()

	<-entered
	assert.True(t, store.Loading())
	assert.False(t, store.Login(context.Background(), "ada", "secret"))
	assert.False(t, store.Register(context.Background(), "a@b.co", "ada", "secret"))
	close(release)
	wg.Wait()

	assert.True(t, first)
	assert.False(t, store.Loading())
	assert.Equal(t, 1, srv.Count(http.MethodPost, "/auth/login"))
}

func TestRegister(t *testing.T) {
	store, srv, _, rec := newStore(t)

	assert.True(t, store.Register(context.Background(), "ada@example.com", "ada", "secret1"))
	assert.False(t, store.IsAuthenticated(), "registration never signs in")
	assert.False(t, store.Register(context.Background(), "ada@example.com", "ada", "secret1"))
	assert.False(t, store.Loading())
	assert.Equal(t, []string{"Account created", "Registration failed"}, rec.Titles())
	assert.Equal(t, "Username already registered", rec.Events()[1].Message)
	assert.Equal(t, 2, srv.Count(http.MethodPost, "/auth/register"))
}

func TestUnauthorized_LogsOut(t *testing.T) {
	store, srv, c, rec := newStore(t)
	srv.AddUser("ada", "secret", domain.RoleUser)
	require.True(t, store.Login(context.Background(), "ada", "secret"))
	require.NotNil(t, store.Profile())

	srv.Override(http.MethodGet, "/projects", func(w http.ResponseWriter, _ *http.Request) {
		apitest.WriteDetail(w, http.StatusUnauthorized, "Token expired")
	})
	_, err := c.ListProjects(context.Background(), "")

	require.Error(t, err)
	assert.True(t, client.IsStatus(err, http.StatusUnauthorized))
	st := store.State()
	assert.False(t, st.Authenticated)
	assert.Nil(t, st.Profile)
	assert.Equal(t, domain.RoleNone, st.Role)
	events := rec.Events()
	last := events[len(events)-1]
	assert.Equal(t, "Signed out", last.Title)
	assert.Equal(t, session.ExpiredReason, last.Message)
}

func TestForbidden_KeepsSession(t *testing.T) {
	store, srv, c, rec := newStore(t)
	srv.AddUser("bob", "secret", domain.RoleUser)
	require.True(t, store.Login(context.Background(), "bob", "secret"))

	_, err := c.ListUsers(context.Background())

	assert.True(t, client.IsStatus(err, http.StatusForbidden))
	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, "Access denied", rec.Events()[len(rec.Events())-1].Title)
}

func TestRefreshProfile_Unauthenticated(t *testing.T) {
	store, srv, _, _ := newStore(t)

	store.RefreshProfile(context.Background())
	store.RefreshProfile(context.Background())
	assert.False(t, store.Reconcile(context.Background()))

	assert.Empty(t, srv.Requests())
}

func TestExpiry_EvaluatedOnEveryRead(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	store, srv, _, _ := newStore(t, session.WithClock(func() time.Time { return clock() }))
	srv.AddUser("ada", "secret", domain.RoleUser)
	tok := srv.Mint("ada", "user", now.Add(time.Minute))
	srv.Override(http.MethodPost, "/auth/login", func(w http.ResponseWriter, _ *http.Request) {
		apitest.WriteJSON(w, http.StatusOK, map[string]string{"access_token": tok})
	})
	require.True(t, store.Login(context.Background(), "ada", "secret"))
	assert.Equal(t, tok, store.Token())

	clock = func() time.Time { return now.Add(time.Minute) }

	assert.False(t, store.IsAuthenticated())
	assert.Empty(t, store.Token(), "expired credentials are not sent")
	assert.Equal(t, domain.RoleUser, store.Role(), "role still decodes from the held credential")
	assert.False(t, store.NeedsProfile())
}

func TestLogout(t *testing.T) {
	store, srv, _, rec := newStore(t)
	srv.AddUser("ada", "secret", domain.RoleUser)
	require.True(t, store.Login(context.Background(), "ada", "secret"))

	store.Logout("")
	assert.False(t, store.IsAuthenticated())
	assert.Nil(t, store.Profile())
	assert.Equal(t, []string{"Welcome back"}, rec.Titles(), "silent logout")

	store.Logout("Bye")
	assert.Equal(t, "Signed out", rec.Titles()[len(rec.Titles())-1])
}

func TestReconcile(t *testing.T) {
	store, srv, _, _ := newStore(t)
	srv.AddUser("ada", "secret", domain.RoleUser)
	srv.Override(http.MethodGet, "/profile/me", func(w http.ResponseWriter, _ *http.Request) {
		apitest.WriteDetail(w, http.StatusServiceUnavailable, "down")
	})
	require.True(t, store.Login(context.Background(), "ada", "secret"))
	require.Nil(t, store.Profile())

	srv.Override(http.MethodGet, "/profile/me", nil)
	assert.True(t, store.Reconcile(context.Background()))
	require.NotNil(t, store.Profile())
	assert.False(t, store.Reconcile(context.Background()))
	assert.Equal(t, 2, srv.Count(http.MethodGet, "/profile/me"))
}

func TestSetProfile_CopiesInput(t *testing.T) {
	store, srv, _, _ := newStore(t)
	srv.AddUser("ada", "secret", domain.RoleUser)
	require.True(t, store.Login(context.Background(), "ada", "secret"))

	p := &domain.Profile{DisplayName: "Ada L", Socials: map[string]string{"github": "ada"}}
	store.SetProfile(p)
	p.Socials["github"] = "changed"

	got := store.Profile()
	assert.Equal(t, "Ada L", got.DisplayName)
	assert.Equal(t, "ada", got.Socials["github"])
}

func TestSetProfile_IgnoredWhenSignedOut(t *testing.T) {
	store, _, _, _ := newStore(t)
	store.SetProfile(&domain.Profile{DisplayName: "x"})
	assert.Nil(t, store.Profile())
}

func TestReconcile_OncePerCredential(t *testing.T) {
	store, srv, _, _ := newStore(t)
	srv.AddUser("ada", "secret", domain.RoleUser)
	srv.Override(http.MethodGet, "/profile/me", func(w http.ResponseWriter, _ *http.Request) {
		apitest.WriteDetail(w, http.StatusServiceUnavailable, "down")
	})
	require.True(t, store.Login(context.Background(), "ada", "secret"))

	assert.True(t, store.Reconcile(context.Background()))
	assert.False(t, store.Reconcile(context.Background()))
	assert.False(t, store.NeedsProfile())
	assert.Equal(t, 2, srv.Count(http.MethodGet, "/profile/me"))
}

func TestReconcile_ResetByNewLogin(t *testing.T) {
	store, srv, _, _ := newStore(t)
	tok := srv.Mint("ada", "user", time.Now().Add(time.Hour))
	srv.AddUser("ada", "x", domain.RoleUser)
	srv.Override(http.MethodPost, "/auth/login", func(w http.ResponseWriter, _ *http.Request) {
		apitest.WriteJSON(w, http.StatusOK, map[string]string{"access_token": tok})
	})
	srv.Override(http.MethodGet, "/profile/me", func(w http.ResponseWriter, _ *http.Request) {
		apitest.WriteDetail(w, http.StatusServiceUnavailable, "down")
	})

	require.True(t, store.Login(context.Background(), "ada", "x"))
	assert.True(t, store.Reconcile(context.Background()))
	assert.False(t, store.NeedsProfile())

	// Same credential string issued again.
	require.True(t, store.Login(context.Background(), "ada", "x"))
	assert.True(t, store.NeedsProfile())
	assert.True(t, store.Reconcile(context.Background()))
	assert.Equal(t, 4, srv.Count(http.MethodGet, "/profile/me"))
}
