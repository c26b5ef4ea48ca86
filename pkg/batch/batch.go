// Package batch resolves a batch of identifiers through a caller supplied
// per-identifier lookup and partitions the outcome into resolved values and
// identifiers that could not be found.
package batch

import (
	"context"
	"errors"
	"fmt"
	"reflect"
)

// ErrLookup marks an error returned by a Lookup. Resolve wraps every lookup
// failure with it so callers can tell lookup failures apart from other errors.
var ErrLookup = errors.New("lookup failed")

// Lookup resolves a single identifier. It reports found == false when the
// identifier does not resolve to a value; not found is an expected outcome and
// must not be reported as an error.
type Lookup[T any] func(ctx context.Context, id string) (value T, found bool, err error)

// Result is the outcome of resolving a batch of identifiers.
type Result[T any] struct {
	// List holds the resolved values in the order their identifiers appeared in the input.
	List []T `json:"list"`
	// NotFoundIDs holds the identifiers that did not resolve, in input order.
	NotFoundIDs []string `json:"notFoundIds"`
}

// LookupError is returned by Resolve when the lookup fails for an identifier.
type LookupError struct {
	// ID is the identifier whose lookup failed.
	ID  string
	err error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("could not resolve id %q: %s", e.ID, e.err.Error())
}

// Unwrap returns both the ErrLookup marker and the lookup's own error.
func (e *LookupError) Unwrap() []error { return []error{ErrLookup, e.err} }

// Resolve invokes lookup for each identifier, strictly one at a time and in
// input order. Every identifier ends up in exactly one of Result.List or
// Result.NotFoundIDs, so len(List)+len(NotFoundIDs) == len(ids).
//
// A nil or empty ids yields an empty result. If lookup fails for any identifier
// the whole batch fails: the zero Result is returned together with a
// *LookupError and no partial result is reported.
func Resolve[T any](ctx context.Context, ids []string, lookup Lookup[T]) (Result[T], error) {
	list := make([]T, 0, len(ids))
	notFound := make([]string, 0)

	for _, id := range ids {
		value, found, err := lookup(ctx, id)
		if err != nil {
			return Result[T]{}, &LookupError{ID: id, err: err}
		}

		if !found {
			notFound = append(notFound, id)

			continue
		}

		list = append(list, value)
	}

	return Result[T]{
		List:        list,
		NotFoundIDs: notFound,
	}, nil
}

// ResolveOne resolves a single identifier as a one-element batch.
func ResolveOne[T any](ctx context.Context, id string, lookup Lookup[T]) (Result[T], error) {
	return Resolve(ctx, []string{id}, lookup)
}

// Truthy adapts a lookup that signals absence by returning a zero value.
// Any zero value (nil, "", 0, false, an empty struct) counts as not found,
// which means a legitimately zero value can never be reported as found.
func Truthy[T any](fn func(ctx context.Context, id string) (T, error)) Lookup[T] {
	return func(ctx context.Context, id string) (T, bool, error) {
		value, err := fn(ctx, id)
		if err != nil {
			return value, false, err
		}

		return value, !isZero(value), nil
	}
}

func isZero[T any](value T) bool {
	v := reflect.ValueOf(&value).Elem()
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return true
		}
		v = v.Elem()
	}

	return v.IsZero()
}
