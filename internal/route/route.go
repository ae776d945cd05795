// Package route maps dashboard paths to views and decides, from a session
// snapshot, whether a path may be shown or must redirect.
package route

import (
	"strings"

	"github.com/naveenspark/folio/internal/session"
)

// Paths.
const (
	Root      = "/"
	Login     = "/login"
	Register  = "/register"
	Contact   = "/contact"
	Dashboard = "/dashboard"
	Projects  = "/dashboard/projects"
	Skills    = "/dashboard/skills"
	Profile   = "/dashboard/profile"
	Inbox     = "/dashboard/contact-inbox"
	Users     = "/dashboard/admin/users"
)

// Access is who may see a route.
type Access int

const (
	Public Access = iota
	Authenticated
	AdminOnly
)

// Route is one entry of the route table.
type Route struct {
	Path   string
	Title  string
	Access Access
}

// Table lists every renderable route in navigation order.
var Table = []Route{
	{Path: Dashboard, Title: "Dashboard", Access: Authenticated},
	{Path: Projects, Title: "Projects", Access: Authenticated},
	{Path: Skills, Title: "Skills", Access: Authenticated},
	{Path: Profile, Title: "Profile", Access: Authenticated},
	{Path: Inbox, Title: "Inbox", Access: Authenticated},
	{Path: Users, Title: "Users", Access: AdminOnly},
	{Path: Contact, Title: "Contact", Access: Public},
	{Path: Login, Title: "Sign in", Access: Public},
	{Path: Register, Title: "Register", Access: Public},
}

// Lookup finds the route for path.
func Lookup(path string) (Route, bool) {
	path = Clean(path)
	for _, r := range Table {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

// Clean normalizes a user-supplied path: leading slash, no trailing slash.
func Clean(path string) string {
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = Root
		}
	}
	return path
}

// Redirect sends the user to To, remembering where they were going.
type Redirect struct {
	To   string
	From string
}

// Decision is a guard result. A nil Redirect means render.
type Decision struct {
	Redirect *Redirect
}

// Allowed reports whether the guarded view may render.
func (d Decision) Allowed() bool { return d.Redirect == nil }

var render = Decision{}

// RequireAuth sends anonymous users to the login view.
func RequireAuth(st session.State, from string) Decision {
	if !st.Authenticated {
		return Decision{Redirect: &Redirect{To: Login, From: from}}
	}
	return render
}

// RequireAdmin sends anonymous users to the login view and non-admins to
// the dashboard.
func RequireAdmin(st session.State, from string) Decision {
	if d := RequireAuth(st, from); !d.Allowed() {
		return d
	}
	if !st.Role.IsAdmin() {
		return Decision{Redirect: &Redirect{To: Dashboard, From: from}}
	}
	return render
}

// Guard applies the guard matching r's access level.
func Guard(r Route, st session.State) Decision {
	switch r.Access {
	case Authenticated:
		return RequireAuth(st, r.Path)
	case AdminOnly:
		return RequireAdmin(st, r.Path)
	default:
		return render
	}
}

// maxHops bounds redirect chains. The table never needs more than two.
const maxHops = 4

// Resolution is where a navigation ends up.
type Resolution struct {
	Route Route
	// From is the path a guard turned away, if any.
	From string
}

// Resolve follows redirects from path until a route may render. "/" and
// unknown paths go to the dashboard.
func Resolve(path string, st session.State) Resolution {
	path = Clean(path)
	var from string
	for range maxHops {
		r, ok := Lookup(path)
		if !ok {
			path = Dashboard
			continue
		}
		d := Guard(r, st)
		if d.Allowed() {
			return Resolution{Route: r, From: from}
		}
		if from == "" {
			from = d.Redirect.From
		}
		path = d.Redirect.To
	}
	login, _ := Lookup(Login)
	return Resolution{Route: login, From: from}
}
