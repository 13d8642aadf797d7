// Package arena maps caller-visible handles to values committed in a builder.
// It never creates or mutates values; it only reads the store it wraps.
package arena

import (
	"errors"
	"fmt"

	"github.com/eon-protocol/eonlib/builder"
)

var ErrUncommitted = errors.New("value was never committed to this store")

// Handle is the position of a committed value: its phase and its offset within it.
type Handle struct {
	Phase  builder.Phase
	Offset int
}

type Arena struct {
	store *builder.Builder
}

func New(store *builder.Builder) *Arena {
	return &Arena{store: store}
}

// Resolve returns the value behind h, or builder.ErrOutOfRange when h is past
// the committed count of its phase.
func (me *Arena) Resolve(h Handle) (builder.AssignedValue, error) {
	return me.store.Resolve(builder.Cell(h))
}

// ResolveMany resolves handles in order and stops at the first invalid one.
func (me *Arena) ResolveMany(hs []Handle) ([]builder.AssignedValue, error) {
	ret := make([]builder.AssignedValue, len(hs))
	for i, h := range hs {
		v, err := me.Resolve(h)
		if err != nil {
			return nil, fmt.Errorf("handle %d: %w", i, err)
		}
		ret[i] = v
	}
	return ret, nil
}

func (me *Arena) Externalize(v builder.AssignedValue) (Handle, error) {
	cell, ok := v.Cell()
	if !ok || !me.store.Holds(v) {
		return Handle{}, ErrUncommitted
	}
	return Handle(cell), nil
}

func (me *Arena) ExternalizeMany(vs []builder.AssignedValue) ([]Handle, error) {
	ret := make([]Handle, len(vs))
	for i, v := range vs {
		h, err := me.Externalize(v)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		ret[i] = h
	}
	return ret, nil
}
