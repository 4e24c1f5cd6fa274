package dashboard

import (
	"errors"
	"fmt"

	"github.com/atinyakov/shipdash/internal/authz"
)

var (
	// ErrValidation marks input rejected before anything was written.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicate marks an identifier that already exists.
	ErrDuplicate = errors.New("already exists")
	// ErrNotFound marks a record that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden marks a flow the current user may not run.
	ErrForbidden = errors.New("access denied")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func duplicate(kind, id string) error {
	return fmt.Errorf("%s %q %w", kind, id, ErrDuplicate)
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q %w", kind, id, ErrNotFound)
}

func forbidden(res authz.Resource) error {
	return fmt.Errorf("%w: %s", ErrForbidden, res)
}
