package benchlog

import (
	"errors"
	"fmt"
)

var (
	// ErrBadHeader is returned when a block does not start with a "Called" line.
	ErrBadHeader = errors.New("expected block header starting with \"Called\"")
	// ErrMalformedParams is returned when the parameter line is missing or too short.
	ErrMalformedParams = errors.New("malformed parameter line")
	// ErrMalformedMetric is returned when a metric line has no value token.
	ErrMalformedMetric = errors.New("malformed metric line")
	// ErrMissingField is returned by the reporter when a column has no value.
	ErrMissingField = errors.New("missing field")
)

// FieldKind tells which mapping of an Experiment a field belongs to.
type FieldKind string

const (
	FieldParam  FieldKind = "param"
	FieldMetric FieldKind = "metric"
)

// DuplicateKeyError reports a parameter or metric recorded twice within
// one block.
type DuplicateKeyError struct {
	Kind FieldKind
	Key  string
	Old  string
	New  string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("repeated %s key %q (had %q, got %q)", e.Kind, e.Key, e.Old, e.New)
}

// ParseError locates a parse failure in its input.
type ParseError struct {
	File string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MissingFieldError reports a report column that the experiment never
// recorded.
type MissingFieldError struct {
	Tuple Tuple
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%v: experiment %s has no value for %q", ErrMissingField, e.Tuple, e.Field)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingField
}
