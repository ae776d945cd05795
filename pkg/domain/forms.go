package domain

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a form field (its JSON name) to an inline message.
// A nil map means the form is valid.
type FieldErrors map[string]string

// looseEmail matches the same shape the web dashboard accepted.
var looseEmail = regexp.MustCompile(`^\S+@\S+\.\S+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("looseemail", func(fl validator.FieldLevel) bool {
		return looseEmail.MatchString(fl.Field().String())
	})
	return v
}

// validateForm runs struct validation and maps failures to each field's msg tag.
func validateForm(form any) FieldErrors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"": err.Error()}
	}
	t := reflect.TypeOf(form)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	out := FieldErrors{}
	for _, fe := range verrs {
		msg := fe.Error()
		if sf, ok := t.FieldByName(fe.StructField()); ok && sf.Tag.Get("msg") != "" {
			msg = sf.Tag.Get("msg")
		}
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = msg
		}
	}
	return out
}

// LoginForm holds the sign-in inputs.
type LoginForm struct {
	Username string `json:"username" validate:"min=3" msg:"Username is required."`
	Password string `json:"password" validate:"min=4" msg:"Password is required."`
}

// Validate checks the trimmed username and the raw password.
func (f LoginForm) Validate() FieldErrors {
	f.Username = strings.TrimSpace(f.Username)
	return validateForm(f)
}

// Request builds the login payload.
func (f LoginForm) Request() LoginRequest {
	return LoginRequest{Username: strings.TrimSpace(f.Username), Password: f.Password}
}

// RegisterForm holds the account creation inputs.
type RegisterForm struct {
	Email    string `json:"email" validate:"looseemail" msg:"A valid email is required."`
	Username string `json:"username" validate:"min=3" msg:"Username must be at least 3 characters."`
	Password string `json:"password" validate:"min=6" msg:"Password must be at least 6 characters."`
}

// Validate checks the form after trimming email and username.
func (f RegisterForm) Validate() FieldErrors {
	f.Email = strings.TrimSpace(f.Email)
	f.Username = strings.TrimSpace(f.Username)
	return validateForm(f)
}

// Request builds the registration payload.
func (f RegisterForm) Request() RegisterRequest {
	return RegisterRequest{
		Email:    strings.TrimSpace(f.Email),
		Username: strings.TrimSpace(f.Username),
		Password: f.Password,
	}
}

// ContactForm holds the public contact inputs.
type ContactForm struct {
	SenderName  string `json:"sender_name" validate:"min=2" msg:"Name is required."`
	SenderEmail string `json:"sender_email" validate:"looseemail" msg:"Valid email is required."`
	Subject     string `json:"subject"`
	Message     string `json:"message" validate:"min=10" msg:"Message must be at least 10 characters."`
}

func (f ContactForm) trimmed() ContactForm {
	return ContactForm{
		SenderName:  strings.TrimSpace(f.SenderName),
		SenderEmail: strings.TrimSpace(f.SenderEmail),
		Subject:     strings.TrimSpace(f.Subject),
		Message:     strings.TrimSpace(f.Message),
	}
}

// Validate checks the trimmed form.
func (f ContactForm) Validate() FieldErrors {
	return validateForm(f.trimmed())
}

// Submission builds the payload; an empty subject is sent as null.
func (f ContactForm) Submission() ContactSubmission {
	t := f.trimmed()
	return ContactSubmission{
		SenderName:  t.SenderName,
		SenderEmail: t.SenderEmail,
		Subject:     Nullable(t.Subject),
		Message:     t.Message,
	}
}

// ProjectForm holds the project editor inputs.
type ProjectForm struct {
	Title       string        `json:"title" validate:"min=2" msg:"Title is required."`
	Description string        `json:"description"`
	RepoURL     string        `json:"repo_url"`
	LiveURL     string        `json:"live_url"`
	Status      ProjectStatus `json:"status" validate:"oneof=draft published archived" msg:"Pick a valid status."`
	SkillIDs    []int64       `json:"skill_ids"`
}

// NewProjectForm returns an empty draft form.
func NewProjectForm() ProjectForm {
	return ProjectForm{Status: ProjectDraft}
}

// ProjectFormFrom prefills the editor from an existing project.
func ProjectFormFrom(p Project) ProjectForm {
	status := p.Status
	if status == "" {
		status = ProjectDraft
	}
	return ProjectForm{
		Title:       p.Title,
		Description: p.Description,
		RepoURL:     p.RepoURL,
		LiveURL:     p.LiveURL,
		Status:      status,
		SkillIDs:    p.SkillIDs(),
	}
}

// Validate checks the trimmed title and the status.
func (f ProjectForm) Validate() FieldErrors {
	f.Title = strings.TrimSpace(f.Title)
	return validateForm(f)
}

// ToggleSkill adds or removes a skill ID.
func (f *ProjectForm) ToggleSkill(id int64) {
	for i, v := range f.SkillIDs {
		if v == id {
			f.SkillIDs = append(f.SkillIDs[:i:i], f.SkillIDs[i+1:]...)
			return
		}
	}
	f.SkillIDs = append(f.SkillIDs, id)
}

// HasSkill reports whether id is selected.
func (f ProjectForm) HasSkill(id int64) bool {
	for _, v := range f.SkillIDs {
		if v == id {
			return true
		}
	}
	return false
}

// Input builds the payload. Creating with no skills sends skill_ids as null;
// updating always sends the list so skills can be cleared.
func (f ProjectForm) Input(creating bool) ProjectInput {
	in := ProjectInput{
		Title:       strings.TrimSpace(f.Title),
		Description: Nullable(f.Description),
		RepoURL:     Nullable(f.RepoURL),
		LiveURL:     Nullable(f.LiveURL),
		Status:      f.Status,
		SkillIDs:    f.SkillIDs,
	}
	if creating && len(f.SkillIDs) == 0 {
		in.SkillIDs = nil
	} else if in.SkillIDs == nil {
		in.SkillIDs = []int64{}
	}
	return in
}

// SkillForm holds the admin skill editor inputs. Level is free text from the editor.
type SkillForm struct {
	Name     string `json:"name" validate:"min=2" msg:"Name is required."`
	Category string `json:"category"`
	Level    string `json:"level"`
}

// NewSkillForm returns an empty form at level 1.
func NewSkillForm() SkillForm {
	return SkillForm{Level: "1"}
}

// SkillFormFrom prefills the editor from an existing skill.
func SkillFormFrom(s Skill) SkillForm {
	return SkillForm{Name: s.Name, Category: s.Category, Level: strconv.Itoa(s.DisplayLevel())}
}

// Validate checks the trimmed name.
func (f SkillForm) Validate() FieldErrors {
	f.Name = strings.TrimSpace(f.Name)
	return validateForm(f)
}

// Input builds the payload. A non-numeric or zero level falls back to 1.
func (f SkillForm) Input() SkillInput {
	level, err := strconv.Atoi(strings.TrimSpace(f.Level))
	if err != nil || level == 0 {
		level = 1
	}
	return SkillInput{
		Name:     strings.TrimSpace(f.Name),
		Category: Nullable(f.Category),
		Level:    level,
	}
}

// ProfileForm holds the profile editor inputs; Socials is JSON text.
type ProfileForm struct {
	DisplayName string
	Headline    string
	Bio         string
	Location    string
	Website     string
	Socials     string
}

// ProfileFormFrom prefills the editor from a cached profile.
func ProfileFormFrom(p *Profile) ProfileForm {
	if p == nil {
		return ProfileForm{Socials: "{}"}
	}
	return ProfileForm{
		DisplayName: p.DisplayName,
		Headline:    p.Headline,
		Bio:         p.Bio,
		Location:    p.Location,
		Website:     p.Website,
		Socials:     FormatSocials(p.Socials),
	}
}

// Update builds the payload, failing with ErrInvalidSocials on bad socials text.
func (f ProfileForm) Update() (ProfileUpdate, error) {
	socials, err := ParseSocials(f.Socials)
	if err != nil {
		return ProfileUpdate{}, err
	}
	return ProfileUpdate{
		DisplayName: Nullable(f.DisplayName),
		Headline:    Nullable(f.Headline),
		Bio:         Nullable(f.Bio),
		Location:    Nullable(f.Location),
		Website:     Nullable(f.Website),
		Socials:     socials,
	}, nil
}
