package marcxml

import (
	"errors"
	"fmt"
)

var (
	// ErrStructural matches every *StructuralError via errors.Is.
	ErrStructural = errors.New("marcxml: structural error")
	// ErrUsage matches every *UsageError via errors.Is.
	ErrUsage = errors.New("marcxml: usage error")
)

// StructuralError reports a record that cannot be serialized as is: a
// missing or malformed leader, a bad tag, or a data field without
// indicators. Field is the position of the offending field, or -1 when
// the problem is record-level.
type StructuralError struct {
	Tag    string
	Field  int
	Reason string
}

func (e *StructuralError) Error() string {
	if e.Field < 0 {
		return "marcxml: " + e.Reason
	}
	return fmt.Sprintf("marcxml: field %d (%s): %s", e.Field, e.Tag, e.Reason)
}

// Is reports whether target is ErrStructural.
func (e *StructuralError) Is(target error) bool { return target == ErrStructural }

// UsageError reports a Writer used out of order or misconfigured.
type UsageError struct {
	Reason string
}

func (e *UsageError) Error() string { return "marcxml: " + e.Reason }

// Is reports whether target is ErrUsage.
func (e *UsageError) Is(target error) bool { return target == ErrUsage }

func recordError(format string, args ...any) error {
	return &StructuralError{Field: -1, Reason: fmt.Sprintf(format, args...)}
}

func fieldError(i int, tag, format string, args ...any) error {
	return &StructuralError{Tag: tag, Field: i, Reason: fmt.Sprintf(format, args...)}
}
