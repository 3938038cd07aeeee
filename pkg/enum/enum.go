package enum

import (
	"fmt"
	"reflect"
	"sync"
)

var (
	mu       sync.RWMutex
	registry = map[reflect.Type]any{}
)

type values[T comparable] struct {
	byName  map[string]T
	ordered []T
}

// New registers value as a member of its enum type and returns it unchanged.
func New[T comparable](value T) T {
	mu.Lock()
	defer mu.Unlock()

	t := reflect.TypeOf(value)
	e, ok := registry[t].(*values[T])
	if !ok {
		e = &values[T]{byName: map[string]T{}}
		registry[t] = e
	}

	name := fmt.Sprint(value)
	if _, ok := e.byName[name]; !ok {
		e.ordered = append(e.ordered, value)
	}
	e.byName[name] = value

	return value
}

// ToEnum parses s into a registered member of T.
func ToEnum[T comparable](s string) (T, error) {
	mu.RLock()
	defer mu.RUnlock()

	var zero T
	e, ok := registry[reflect.TypeOf(zero)].(*values[T])
	if !ok {
		return zero, fmt.Errorf("not found enum type %T", zero)
	}

	v, ok := e.byName[s]
	if !ok {
		return zero, fmt.Errorf("not found value %s in enum %T", s, zero)
	}

	return v, nil
}

// Values returns the members of T in registration order.
func Values[T comparable]() []T {
	mu.RLock()
	defer mu.RUnlock()

	var zero T
	e, ok := registry[reflect.TypeOf(zero)].(*values[T])
	if !ok {
		return nil
	}

	return append([]T(nil), e.ordered...)
}
