// Package ids provides typed, monotonically allocated identifiers for game
// entities. An ID is only comparable with IDs of the same kind.
package ids

import (
	"fmt"
	"reflect"
)

// ID identifies one entity of kind T. The zero value means "no entity".
type ID[T any] uint64

// IsZero reports whether the id refers to no entity.
func (id ID[T]) IsZero() bool {
	return id == 0
}

// String renders the id as Kind#N.
func (id ID[T]) String() string {
	return fmt.Sprintf("%s#%d", kindName[T](), uint64(id))
}

func kindName[T any]() string {
	name := reflect.TypeFor[T]().Name()
	if name == "" {
		return "id"
	}
	return name
}

// Factory allocates ids of one kind. Ids start at 1 and are never reused.
type Factory[T any] struct {
	last uint64
}

// Next returns a fresh id, strictly greater than every id returned before.
func (f *Factory[T]) Next() ID[T] {
	f.last++
	return ID[T](f.last)
}

// Last returns the most recently allocated id, or zero if none was allocated.
func (f *Factory[T]) Last() ID[T] {
	return ID[T](f.last)
}
