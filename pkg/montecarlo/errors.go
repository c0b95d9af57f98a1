package montecarlo

import (
	"errors"
	"fmt"
)

var (
	// ErrProtocolViolation marks a malformed notification stream. The mirrored model can no longer be trusted once one
	// is observed.
	ErrProtocolViolation     = errors.New("protocol violation")
	ErrUnknownVariable       = errors.New("variable is not defined")
	ErrDuplicateVariable     = errors.New("variable is already defined")
	ErrInvalidDomain         = errors.New("domain lower bound is greater than its upper bound")
	ErrUnsupportedComparison = errors.New("only == is implemented")
)

type ProtocolError struct {
	Op     string // Notification that carried the violation (e.g. "bilinear")
	Name   string // Offending variable, if any
	Reason error
}

func (err *ProtocolError) Error() string {
	if err.Name != "" {
		return fmt.Sprintf("%v: %v: '%v': %v", ErrProtocolViolation, err.Op, err.Name, err.Reason)
	}
	return fmt.Sprintf("%v: %v: %v", ErrProtocolViolation, err.Op, err.Reason)
}

func (err *ProtocolError) Unwrap() []error {
	return []error{ErrProtocolViolation, err.Reason}
}
