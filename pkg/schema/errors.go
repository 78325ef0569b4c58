package schema

import (
	"errors"
	"fmt"
	"strings"
)

// FieldError reports one argument or attribute that failed its type.
type FieldError struct {
	Field  string
	Reason string
	Value  any
}

func (e *FieldError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s (got %v)", e.Field, e.Reason, e.Value)
}

// Errors collects the field errors of one validation pass, ordered by field.
type Errors []*FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

// Fields returns the names of the failing fields.
func (e Errors) Fields() []string {
	names := make([]string, len(e))
	for i, fe := range e {
		names[i] = fe.Field
	}
	return names
}

// FieldErrors extracts the field errors wrapped in err, or nil.
func FieldErrors(err error) Errors {
	var errs Errors
	if errors.As(err, &errs) {
		return errs
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return Errors{fe}
	}
	return nil
}
