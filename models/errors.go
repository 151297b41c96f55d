package models

import (
	"errors"
	"strings"
)

var (
	ErrJournalNotFound = errors.New("journal not found")
	ErrUserNotFound    = errors.New("user not found")
)

// ValidationError aggregates every failed field check so clients receive
// the full list of problems in one round trip.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// Add appends a field-level message.
func (e *ValidationError) Add(msg string) {
	e.Messages = append(e.Messages, msg)
}

// OrNil returns the error when any message was recorded, nil otherwise.
func (e *ValidationError) OrNil() error {
	if len(e.Messages) == 0 {
		return nil
	}
	return e
}
