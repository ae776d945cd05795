package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/folio/internal/notify"
	"github.com/naveenspark/folio/pkg/client"
	"github.com/naveenspark/folio/pkg/domain"
)

type profileSavedMsg struct {
	profile *domain.Profile
	err     error
}

// profileModel edits the signed-in user's profile. The form is seeded from
// the session's cached profile and refilled when that changes, unless the
// user has started typing.
type profileModel struct {
	deps
	form   form
	active bool
	dirty  bool
	saving bool
}

func newProfileModel(d deps, p *domain.Profile) profileModel {
	return profileModel{deps: d, active: true, form: profileFormFields(p)}
}

func profileFormFields(p *domain.Profile) form {
	f := domain.ProfileFormFrom(p)
	return newForm(
		formField{key: "display_name", label: "Name", value: f.DisplayName},
		formField{key: "headline", label: "Headline", value: f.Headline},
		formField{key: "bio", label: "Bio", value: f.Bio},
		formField{key: "location", label: "Location", value: f.Location},
		formField{key: "website", label: "Website", value: f.Website, hint: "https://"},
		formField{key: "socials", label: "Socials", value: compactJSON(f.Socials), hint: `{"github": "https://github.com/you"}`},
	)
}

// compactJSON folds indented JSON onto one line for the single-line editor.
func compactJSON(s string) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(s)); err != nil {
		return s
	}
	return buf.String()
}

func (m profileModel) Init() tea.Cmd { return nil }

func (m profileModel) Update(msg tea.Msg) (profileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionChangedMsg:
		if !m.dirty {
			focus := m.form.focus
			m.form = profileFormFields(m.store.Profile())
			m.form.focus = focus
		}

	case profileSavedMsg:
		m.saving = false
		if msg.err == nil {
			m.dirty = false
			focus := m.form.focus
			m.form = profileFormFields(msg.profile)
			m.form.focus = focus
		}

	case tea.KeyMsg:
		if !m.active {
			if k := msg.String(); k == "enter" || k == "i" {
				m.active = true
			}
			return m, nil
		}
		switch msg.String() {
		case "esc":
			m.active = false
		case "ctrl+s":
			return m.save()
		case "enter":
			if m.form.onLast() {
				return m.save()
			}
			m.form.next()
		case "tab", "down", "shift+tab", "up":
			m.form.handleKey(msg)
		default:
			before := m.form.fields[m.form.focus].value
			m.form.handleKey(msg)
			if m.form.fields[m.form.focus].value != before {
				m.dirty = true
			}
		}
	}
	return m, nil
}

func (m profileModel) formValues() domain.ProfileForm {
	return domain.ProfileForm{
		DisplayName: m.form.get("display_name"),
		Headline:    m.form.get("headline"),
		Bio:         m.form.get("bio"),
		Location:    m.form.get("location"),
		Website:     m.form.get("website"),
		Socials:     m.form.get("socials"),
	}
}

func (m profileModel) save() (profileModel, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	upd, err := m.formValues().Update()
	if err != nil {
		m.events.Notify(notify.New(notify.Error, "Invalid socials JSON", "Please provide valid JSON for socials."))
		return m, nil
	}
	m.saving = true
	api, store, events := m.api, m.store, m.events
	return m, func() tea.Msg {
		p, err := api.UpdateProfile(context.Background(), upd)
		if err != nil {
			events.Notify(notify.New(notify.Error, "Save failed", client.Message(err, "Unable to update profile.")))
			return profileSavedMsg{err: err}
		}
		store.SetProfile(p)
		events.Notify(notify.New(notify.Success, "Profile saved", "Your profile was updated."))
		return profileSavedMsg{profile: p}
	}
}

func (m profileModel) View() string {
	var b strings.Builder
	b.WriteString("\n " + titleStyle.Render("Profile") + "\n")
	b.WriteString(" " + dimStyle.Render("Shown on your public portfolio.") + "\n\n")
	if m.store.Profile() == nil && !m.dirty {
		b.WriteString(" " + dimStyle.Render("loading profile...") + "\n\n")
	}
	b.WriteString(m.form.View())
	if m.saving {
		b.WriteString("\n " + dimStyle.Render("saving...") + "\n")
	}
	return b.String()
}

func (m profileModel) helpKeys() string {
	if m.active {
		return helpBar("tab", "next", "ctrl+s", "save", "esc", "nav")
	}
	return helpBar("enter", "edit")
}
