package domain

import (
	"fmt"
	"regexp"
)

// MaxProjectNameSize bounds the length of a project name.
const MaxProjectNameSize = 128

var projectName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateProjectName reports whether name is usable as a project key in
// every store: a letter or digit followed by letters, digits, '.', '_' or '-'.
func ValidateProjectName(name string) error {
	if len(name) > MaxProjectNameSize {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrInvalidProjectName, len(name), MaxProjectNameSize)
	}
	if !projectName.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidProjectName, name)
	}
	return nil
}
