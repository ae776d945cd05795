package domain

import (
	"encoding/json"
	"errors"
	"strings"
)

// Profile is the caller's public portfolio profile.
// The server creates a default one on first read.
type Profile struct {
	ID          int64             `json:"id,omitempty"`
	UserID      int64             `json:"user_id,omitempty"`
	DisplayName string            `json:"display_name"`
	Headline    string            `json:"headline"`
	Bio         string            `json:"bio"`
	Location    string            `json:"location"`
	Website     string            `json:"website"`
	Socials     map[string]string `json:"socials"`
}

// ProfileUpdate is the PUT /profile/me payload. Nil fields are sent as null.
type ProfileUpdate struct {
	DisplayName *string           `json:"display_name"`
	Headline    *string           `json:"headline"`
	Bio         *string           `json:"bio"`
	Location    *string           `json:"location"`
	Website     *string           `json:"website"`
	Socials     map[string]string `json:"socials"`
}

// ErrInvalidSocials is returned when the socials text is not a JSON object of strings.
var ErrInvalidSocials = errors.New("socials must be a JSON object of strings")

// ParseSocials parses the free-form socials editor text. Blank text is an empty map.
func ParseSocials(text string) (map[string]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return map[string]string{}, nil
	}
	var socials map[string]string
	if err := json.Unmarshal([]byte(text), &socials); err != nil || socials == nil {
		return nil, ErrInvalidSocials
	}
	return socials, nil
}

// FormatSocials renders socials as indented JSON for editing.
func FormatSocials(socials map[string]string) string {
	if len(socials) == 0 {
		return "{}"
	}
	data, err := json.MarshalIndent(socials, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// Nullable trims s and returns nil when nothing is left.
func Nullable(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
