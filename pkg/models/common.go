package models

import (
	"errors"
	"strings"
)

var (
	ErrAlreadyFinalized = errors.New("meeting is already finalized")
	ErrNotFinalized     = errors.New("meeting is not finalized yet")
)

// ValidationError carries every problem found in a request body.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Errors, " ")
}

func (e *ValidationError) add(msg string) {
	e.Errors = append(e.Errors, msg)
}

func (e *ValidationError) orNil() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}
