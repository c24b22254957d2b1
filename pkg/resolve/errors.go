package resolve

import (
	"errors"
	"fmt"
)

// StructuralInputError reports an extensionless reference whose final segment
// cannot be read as a basename, e.g. "./foo/". It is fatal for that one
// reference only.
type StructuralInputError struct {
	Origin    string
	Reference string
}

func (e *StructuralInputError) Error() string {
	return fmt.Sprintf("reference %q from file %s did not match basename extraction pattern", e.Reference, e.Origin)
}

// IsStructuralInput reports whether err wraps a *StructuralInputError.
func IsStructuralInput(err error) bool {
	var target *StructuralInputError
	return errors.As(err, &target)
}
