package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an update or delete references an id that does not exist.
// The store state is left untouched when it is returned.
type ErrNotFound struct {
	Entity EntityType
	ID     string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// IsNotFound reports whether err wraps an ErrNotFound.
func IsNotFound(err error) bool {
	var nf ErrNotFound
	return errors.As(err, &nf)
}
