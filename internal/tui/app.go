package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/folio/internal/notify"
	"github.com/naveenspark/folio/internal/route"
	"github.com/naveenspark/folio/internal/session"
	"github.com/naveenspark/folio/pkg/client"
)

// deps is what every view needs to talk to the API and report outcomes.
type deps struct {
	api    *client.Client
	store  *session.Store
	events notify.Sink
}

// navigateMsg asks the app to show path, subject to the route guards.
type navigateMsg struct {
	path string
}

func navigate(path string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{path: path} }
}

// sessionChangedMsg is sent after a background profile reconcile.
type sessionChangedMsg struct{}

type toastTickMsg time.Time

func toastTickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

// Options configures NewApp.
type Options struct {
	// StartPath is the first path to show; "/" when empty.
	StartPath string
	Version   string
	// Banner is shown above every view, e.g. for missing configuration.
	Banner string
}

// App is the root Bubbletea model.
type App struct {
	deps
	queue       *notify.Recorder
	toasts      notify.Stack
	route       route.Route
	banner      string
	version     string
	reconciling bool
	start       tea.Cmd

	login    loginModel
	register registerModel
	contact  contactModel
	home     homeModel
	projects projectsModel
	skills   skillsModel
	profile  profileModel
	inbox    inboxModel
	users    usersModel

	width  int
	height int
	frame  int // logo shimmer animation frame
}

// NewApp creates the dashboard. queue must be the sink the store was built
// with; the app drains it into the toast stack after every message.
func NewApp(api *client.Client, store *session.Store, queue *notify.Recorder, opts Options) App {
	a := App{
		deps:    deps{api: api, store: store, events: queue},
		queue:   queue,
		banner:  opts.Banner,
		version: opts.Version,
	}
	start := opts.StartPath
	if start == "" {
		start = route.Root
	}
	a, a.start = a.enter(route.Resolve(start, store.State()))
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.start, shimmerTickCmd(), toastTickCmd())
}

// enter shows the resolved route with a fresh view model.
func (a App) enter(res route.Resolution) (App, tea.Cmd) {
	a.route = res.Route
	st := a.store.State()
	var cmd tea.Cmd
	switch res.Route.Path {
	case route.Login:
		a.login = newLoginModel(a.deps, res.From)
		cmd = a.login.Init()
	case route.Register:
		a.register = newRegisterModel(a.deps)
		cmd = a.register.Init()
	case route.Contact:
		a.contact = newContactModel(a.deps)
		cmd = a.contact.Init()
	case route.Dashboard:
		a.home = newHomeModel(a.deps)
		cmd = a.home.Init()
	case route.Projects:
		a.projects = newProjectsModel(a.deps)
		cmd = a.projects.Init()
	case route.Skills:
		a.skills = newSkillsModel(a.deps, st.Role.IsAdmin())
		cmd = a.skills.Init()
	case route.Profile:
		a.profile = newProfileModel(a.deps, st.Profile)
		cmd = a.profile.Init()
	case route.Inbox:
		a.inbox = newInboxModel(a.deps)
		cmd = a.inbox.Init()
	case route.Users:
		a.users = newUsersModel(a.deps)
		cmd = a.users.Init()
	}
	if a.width > 0 {
		a, _ = a.updateView(a.bodySize())
	}
	return a, cmd
}

// chrome is header(2) + banner(1) + tabs(1) + help(1).
const chrome = 5

func (a App) bodySize() tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: a.width, Height: a.height - chrome}
}

func (a App) reconcile() tea.Cmd {
	store := a.store
	return func() tea.Msg {
		store.Reconcile(context.Background())
		return sessionChangedMsg{}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	a, cmd := a.update(msg)
	cmds := []tea.Cmd{cmd}

	for _, e := range a.queue.Drain() {
		a.toasts.Push(e)
	}

	// The session may have changed underneath the current view (sign-out,
	// expired credential); re-run its guard.
	if res := route.Resolve(a.route.Path, a.store.State()); res.Route.Path != a.route.Path {
		var c tea.Cmd
		a, c = a.enter(res)
		cmds = append(cmds, c)
	}

	if !a.reconciling && a.store.NeedsProfile() {
		a.reconciling = true
		cmds = append(cmds, a.reconcile())
	}
	return a, tea.Batch(cmds...)
}

func (a App) update(msg tea.Msg) (App, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a.updateView(a.bodySize())

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case toastTickMsg:
		a.toasts.Expire(time.Time(msg))
		return a, toastTickCmd()

	case navigateMsg:
		return a.enter(route.Resolve(msg.path, a.store.State()))

	case sessionChangedMsg:
		a.reconciling = false

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.isEditing() {
			if next, cmd, ok := a.handleGlobalKey(msg); ok {
				return next, cmd
			}
		}
	}
	return a.updateView(msg)
}

func (a App) handleGlobalKey(msg tea.KeyMsg) (App, tea.Cmd, bool) {
	key := msg.String()
	switch key {
	case "q":
		return a, tea.Quit, true
	case "x":
		if a.store.IsAuthenticated() {
			a.store.Logout("")
			return a, navigate(route.Login), true
		}
	}
	if n, err := strconv.Atoi(key); err == nil {
		tabs := navTabs(a.store.State())
		if n >= 1 && n <= len(tabs) {
			if tabs[n-1].Path == a.route.Path {
				return a, nil, true
			}
			return a, navigate(tabs[n-1].Path), true
		}
	}
	return a, nil, false
}

// updateView forwards msg to the current view.
func (a App) updateView(msg tea.Msg) (App, tea.Cmd) {
	var cmd tea.Cmd
	switch a.route.Path {
	case route.Login:
		a.login, cmd = a.login.Update(msg)
	case route.Register:
		a.register, cmd = a.register.Update(msg)
	case route.Contact:
		a.contact, cmd = a.contact.Update(msg)
	case route.Dashboard:
		a.home, cmd = a.home.Update(msg)
	case route.Projects:
		a.projects, cmd = a.projects.Update(msg)
	case route.Skills:
		a.skills, cmd = a.skills.Update(msg)
	case route.Profile:
		a.profile, cmd = a.profile.Update(msg)
	case route.Inbox:
		a.inbox, cmd = a.inbox.Update(msg)
	case route.Users:
		a.users, cmd = a.users.Update(msg)
	}
	return a, cmd
}

func (a App) isEditing() bool {
	switch a.route.Path {
	case route.Login:
		return a.login.active
	case route.Register:
		return a.register.active
	case route.Contact:
		return a.contact.active
	case route.Projects:
		return a.projects.editing()
	case route.Skills:
		return a.skills.editing()
	case route.Profile:
		return a.profile.active
	}
	return false
}

// navTabs lists the routes reachable with the number keys.
func navTabs(st session.State) []route.Route {
	var paths []string
	switch {
	case !st.Authenticated:
		paths = []string{route.Contact, route.Login, route.Register}
	case st.Role.IsAdmin():
		paths = []string{route.Dashboard, route.Projects, route.Skills, route.Profile, route.Inbox, route.Users, route.Contact}
	default:
		paths = []string{route.Dashboard, route.Projects, route.Skills, route.Profile, route.Inbox, route.Contact}
	}
	tabs := make([]route.Route, 0, len(paths))
	for _, p := range paths {
		if r, ok := route.Lookup(p); ok {
			tabs = append(tabs, r)
		}
	}
	return tabs
}

func (a App) helpKeys() string {
	var keys string
	switch a.route.Path {
	case route.Login:
		keys = a.login.helpKeys()
	case route.Register:
		keys = a.register.helpKeys()
	case route.Contact:
		keys = a.contact.helpKeys()
	case route.Dashboard:
		keys = a.home.helpKeys()
	case route.Projects:
		keys = a.projects.helpKeys()
	case route.Skills:
		keys = a.skills.helpKeys()
	case route.Profile:
		keys = a.profile.helpKeys()
	case route.Inbox:
		keys = a.inbox.helpKeys()
	case route.Users:
		keys = a.users.helpKeys()
	}
	if a.isEditing() {
		return keys
	}
	global := helpEntry("1-9", "tabs")
	if a.store.IsAuthenticated() {
		global += "  " + helpEntry("x", "sign out")
	}
	return keys + "  " + global + "  " + helpEntry("q", "quit")
}

func (a App) viewBody() string {
	switch a.route.Path {
	case route.Login:
		return a.login.View()
	case route.Register:
		return a.register.View()
	case route.Contact:
		return a.contact.View()
	case route.Dashboard:
		return a.home.View()
	case route.Projects:
		return a.projects.View()
	case route.Skills:
		return a.skills.View()
	case route.Profile:
		return a.profile.View()
	case route.Inbox:
		return a.inbox.View()
	case route.Users:
		return a.users.View()
	}
	return ""
}

func center(s string, width int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}

func (a App) View() string {
	st := a.store.State()

	logo := center(renderShimmerLogo(a.frame), a.width)
	var status string
	if st.Authenticated {
		name := "Your profile"
		if st.Profile != nil && st.Profile.DisplayName != "" {
			name = st.Profile.DisplayName
		}
		status = selectedStyle.Render(name) + " " + RoleBadge(st.Role)
	} else {
		status = dimStyle.Render("not signed in")
	}
	header := logo + "\n" + center(status, a.width)

	banner := ""
	if a.banner != "" {
		banner = bannerStyle.Render(a.banner)
	}

	tabs := navTabs(st)
	labels := make([]string, 0, len(tabs))
	for i, t := range tabs {
		key := fmt.Sprintf("%d", i+1)
		if t.Path == a.route.Path {
			labels = append(labels, accentStyle.Render(key)+" "+selectedStyle.Underline(true).Render(t.Title))
		} else {
			labels = append(labels, metaStyle.Render(key)+" "+dimStyle.Render(t.Title))
		}
	}
	tabBar := center(strings.Join(labels, "   "), a.width)

	body := a.viewBody()

	var toastCol string
	if items := a.toasts.Items(); len(items) > 0 {
		cards := make([]string, 0, len(items))
		for _, e := range items {
			cards = append(cards, renderToast(e, a.width))
		}
		toastCol = lipgloss.JoinVertical(lipgloss.Right, cards...)
		if a.width > 0 {
			toastCol = lipgloss.PlaceHorizontal(a.width, lipgloss.Right, toastCol)
		}
	}

	bodyHeight := a.height - chrome
	if toastCol != "" {
		bodyHeight -= lipgloss.Height(toastCol)
	}
	body = strings.TrimRight(truncateToHeight(body, bodyHeight), "\n")
	if toastCol != "" {
		body += "\n" + toastCol
	}

	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s", header, banner, tabBar, body, a.helpKeys())
}
