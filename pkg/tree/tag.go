package tree

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/femtree/pkg/domain"
)

// MaxTagSize is the longest tag accepted, in bytes.
const MaxTagSize = 256

// PathSeparator joins tags into node paths.
const PathSeparator = "/"

// ValidateTag rejects tags that cannot be addressed by a path or printed safely.
func ValidateTag(tag string) error {
	if tag == "" {
		return fmt.Errorf("%w: empty", domain.ErrInvalidTag)
	}
	if len(tag) > MaxTagSize {
		return fmt.Errorf("%w: size=%d limit=%d", domain.ErrInvalidTag, len(tag), MaxTagSize)
	}
	if !utf8.ValidString(tag) {
		return fmt.Errorf("%w: invalid UTF-8", domain.ErrInvalidTag)
	}
	if strings.Contains(tag, PathSeparator) {
		return fmt.Errorf("%w: %q contains %q", domain.ErrInvalidTag, tag, PathSeparator)
	}
	if strings.TrimSpace(tag) != tag {
		return fmt.Errorf("%w: %q has surrounding whitespace", domain.ErrInvalidTag, tag)
	}
	for _, r := range tag {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: %q contains control characters", domain.ErrInvalidTag, tag)
		}
	}
	return nil
}
