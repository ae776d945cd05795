package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/folio/internal/notify"
	"github.com/naveenspark/folio/pkg/domain"
)

// Shimmer animation for the header logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "F O L I O" as a slow wave from deep teal to
// bright cyan.
func renderShimmerLogo(frame int) string {
	const text = "FOLIO"
	n := len(text)
	t := float64(frame)

	var out strings.Builder
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)
		phase := t*0.1 - x*3.0 + math.Sin(t*0.023)*2.0

		b := math.Pow(math.Sin(phase)*0.5+0.5, 1.3)
		b = b*0.75 + math.Sin(t*0.035)*0.12 + 0.18
		b = math.Max(0.05, math.Min(1.0, b))

		// Deep (18, 52, 64) #123440 -> bright (56, 189, 248) #38bdf8
		r := clampByte(18 + b*(56-18))
		g := clampByte(52 + b*(189-52))
		bl := clampByte(64 + b*(248-64))

		out.WriteString(lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r, g, bl))).
			Render(string(text[i])))
		if i < n-1 {
			out.WriteString("  ")
		}
	}
	return out.String()
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#38bdf8"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#606878"))

	fieldErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f87171"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#34d474"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f0944a"))

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#38bdf8")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#111118")).
			Background(lipgloss.Color("#f0944a")).
			Bold(true).
			Padding(0, 1)

	toastBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	// Project status colors
	statusColors = map[domain.ProjectStatus]lipgloss.Color{
		domain.ProjectDraft:     lipgloss.Color("#8890a0"),
		domain.ProjectPublished: lipgloss.Color("#34d474"),
		domain.ProjectArchived:  lipgloss.Color("#b45555"),
	}

	// Message triage colors
	messageColors = map[domain.MessageStatus]lipgloss.Color{
		domain.MessageNew:        lipgloss.Color("#38bdf8"),
		domain.MessageInProgress: lipgloss.Color("#d4a844"),
		domain.MessageResolved:   lipgloss.Color("#34d474"),
	}
)

// StatusStyle returns a bold style colored for a project status.
func StatusStyle(s domain.ProjectStatus) lipgloss.Style {
	if c, ok := statusColors[s]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#606878")).Bold(true)
}

// MessageStyle returns a bold style colored for a message status.
func MessageStyle(s domain.MessageStatus) lipgloss.Style {
	if c, ok := messageColors[s]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#606878")).Bold(true)
}

// RoleBadge renders "[Admin]" or "[User]".
func RoleBadge(r domain.Role) string {
	if r.IsAdmin() {
		return successStyle.Bold(true).Render("[" + r.Label() + "]")
	}
	return accentStyle.Render("[" + r.Label() + "]")
}

// levelBar renders a 1-5 skill level as filled and empty pips.
func levelBar(level int) string {
	level = max(1, min(5, level))
	return accentStyle.Render(strings.Repeat("●", level)) + metaStyle.Render(strings.Repeat("○", 5-level))
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpBar joins key/label pairs.
func helpBar(pairs ...string) string {
	entries := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		entries = append(entries, helpEntry(pairs[i], pairs[i+1]))
	}
	return " " + strings.Join(entries, "  ")
}

// renderToast renders one notification card.
func renderToast(e notify.Event, width int) string {
	color := lipgloss.Color("#34d474")
	if e.Kind == notify.Error {
		color = lipgloss.Color("#f87171")
	}
	title := e.Title
	if title == "" {
		title = "Success"
		if e.Kind == notify.Error {
			title = "Error"
		}
	}
	body := lipgloss.NewStyle().Foreground(color).Bold(true).Render(title)
	if e.Message != "" {
		body += "\n" + normalStyle.Render(e.Message)
	}
	w := min(max(width/2, 24), 48)
	return toastBorder.BorderForeground(color).Width(w).Render(body)
}
