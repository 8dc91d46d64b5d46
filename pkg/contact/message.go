// Package contact relays the portfolio contact form to a third-party form
// endpoint and tracks the state of a submission.
package contact

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

var (
	// ErrMissingField is returned when name, email or message is blank.
	ErrMissingField = errors.New("required field is empty")
	// ErrInvalidEmail is returned for addresses net/mail cannot parse.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrNoConsent is returned when the privacy consent is not given.
	ErrNoConsent = errors.New("consent to data processing is required")
)

// Message is the JSON body posted to the form endpoint.
type Message struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Validate checks that every field is set and the email parses.
func (m Message) Validate() error {
	fields := []struct{ name, value string }{
		{"name", m.Name},
		{"email", m.Email},
		{"message", m.Message},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
	}
	addr, err := mail.ParseAddress(m.Email)
	if err != nil || addr.Address != strings.TrimSpace(m.Email) {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, m.Email)
	}
	return nil
}
