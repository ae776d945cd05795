package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/folio/pkg/domain"
)

// maxInputLen is the maximum number of runes allowed in form inputs.
const maxInputLen = 2000

// editRune processes a keystroke for inline text editing.
// Handles backspace (rune-aware) and single printable characters.
// Returns the text unchanged for non-printable keys (enter, esc, etc.).
// Input is clamped to maxInputLen runes.
func editRune(text string, key string) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	default:
		if utf8.RuneCountInString(key) == 1 {
			if utf8.RuneCountInString(text) >= maxInputLen {
				return text
			}
			return text + key
		}
		return text
	}
}

// editKey applies a key message to text. Runes arriving together (typing
// bursts or a paste) are appended in order.
func editKey(text string, msg tea.KeyMsg) string {
	if msg.Type == tea.KeyRunes {
		for _, r := range msg.Runes {
			text = editRune(text, string(r))
		}
		return text
	}
	return editRune(text, msg.String())
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// formField is one text input. Key matches the form's JSON field name so
// validation messages line up.
type formField struct {
	key    string
	label  string
	value  string
	secret bool
	hint   string
}

// form is a vertical list of text inputs with a focus cursor and inline
// validation messages.
type form struct {
	fields []formField
	focus  int
	errs   domain.FieldErrors
}

func newForm(fields ...formField) form {
	return form{fields: fields}
}

func (f form) get(key string) string {
	for _, fl := range f.fields {
		if fl.key == key {
			return fl.value
		}
	}
	return ""
}

func (f *form) set(key, value string) {
	for i := range f.fields {
		if f.fields[i].key == key {
			f.fields[i].value = value
			return
		}
	}
}

func (f form) focused() string {
	if f.focus < 0 || f.focus >= len(f.fields) {
		return ""
	}
	return f.fields[f.focus].key
}

func (f *form) next() { f.focus = (f.focus + 1) % len(f.fields) }
func (f *form) prev() { f.focus = (f.focus - 1 + len(f.fields)) % len(f.fields) }

func (f form) onLast() bool { return f.focus == len(f.fields)-1 }

// handleKey moves focus or edits the focused field. Enter and other
// submit keys are left to the caller.
func (f *form) handleKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "tab", "down":
		f.next()
	case "shift+tab", "up":
		f.prev()
	default:
		fl := &f.fields[f.focus]
		fl.value = editKey(fl.value, msg)
	}
}

func (f form) View() string {
	var b strings.Builder
	for i, fl := range f.fields {
		cursor := " "
		style := metaStyle
		if i == f.focus {
			cursor = accentStyle.Render(">")
			style = selectedStyle
		}
		value := fl.value
		if fl.secret {
			value = strings.Repeat("•", utf8.RuneCountInString(value))
		}
		if i == f.focus {
			value += accentStyle.Render("█")
		} else if value == "" && fl.hint != "" {
			value = inputPlaceholderStyle.Render(fl.hint)
		}
		fmt.Fprintf(&b, " %s %s %s\n", cursor, style.Render(fmt.Sprintf("%-12s", fl.label)), normalStyle.Render(value))
		if msg, ok := f.errs[fl.key]; ok {
			fmt.Fprintf(&b, "   %s %s\n", strings.Repeat(" ", 12), fieldErrorStyle.Render(msg))
		}
	}
	return b.String()
}
