package pipeline

import (
	"fmt"
	"strings"
	"unicode"
)

// Namespace segments every stage identifier must start with. Identifiers
// outside scrutiny.pipes are rejected before resolution is attempted.
const (
	NamespaceRoot   = "scrutiny"
	NamespaceStages = "pipes"
)

const (
	minSegments = 2
	maxSegments = 4
)

// Validate checks that identifier is syntactically well-formed and lies
// inside the restricted stage namespace: no whitespace, 2 to 4 dot-separated
// segments, the first two fixed to scrutiny.pipes, no segment empty or
// starting with an underscore. Any violation fails with ErrInvalidIdentifier.
func Validate(identifier string) error {
	if strings.ContainsFunc(identifier, unicode.IsSpace) {
		return fmt.Errorf("%w: %q contains whitespace", ErrInvalidIdentifier, identifier)
	}
	segments := strings.Split(identifier, ".")
	if len(segments) < minSegments || len(segments) > maxSegments {
		return fmt.Errorf("%w: %q has %d segments, want %d to %d",
			ErrInvalidIdentifier, identifier, len(segments), minSegments, maxSegments)
	}
	if segments[0] != NamespaceRoot || segments[1] != NamespaceStages {
		return fmt.Errorf("%w: %q is outside %s.%s",
			ErrInvalidIdentifier, identifier, NamespaceRoot, NamespaceStages)
	}
	for _, seg := range segments {
		if seg == "" {
			return fmt.Errorf("%w: %q has an empty segment", ErrInvalidIdentifier, identifier)
		}
		if strings.HasPrefix(seg, "_") {
			return fmt.Errorf("%w: segment %q starts with an underscore", ErrInvalidIdentifier, seg)
		}
	}
	return nil
}
