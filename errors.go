package automation

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownKind        = errors.New("automation: unknown node kind")
	ErrAutomationNotFound = errors.New("automation: automation not found")
	ErrInvalidConnection  = errors.New("automation: invalid connection")
	ErrValidation         = errors.New("automation: validation failed")
	ErrSaveInProgress     = errors.New("automation: save already in progress")
	ErrUnknownOptionKind  = errors.New("automation: unknown option kind")
)

// ValidationError carries the user-facing problems that blocked a save.
// It wraps ErrValidation.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Problems) == 0 {
		return ErrValidation.Error()
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Problems extracts the problem list from err, if it is a validation error.
func Problems(err error) []string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Problems
	}
	return nil
}

// ConnectionError explains why the editor refused to connect two nodes.
// It wraps ErrInvalidConnection.
type ConnectionError struct {
	Source string
	Target string
	Reason string
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s: %s", ErrInvalidConnection.Error(), e.Source, e.Target, e.Reason)
}

func (e *ConnectionError) Unwrap() error { return ErrInvalidConnection }
