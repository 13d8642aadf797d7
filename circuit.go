package eonlib

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"

	"github.com/eon-protocol/eonlib/arena"
	"github.com/eon-protocol/eonlib/builder"
	"github.com/eon-protocol/eonlib/circuits/replay"
)

var (
	ErrCapacityExceeded = errors.New("circuit exceeds its configured capacity")
	ErrNoSuchColumn     = errors.New("instance column does not exist")
)

// Circuit is one build session: a witness store, the public instance columns
// bound to cells of it, and the config sizing the proof.
type Circuit struct {
	config  Config
	builder *builder.Builder
	arena   *arena.Arena
	public  [][]builder.AssignedValue
	log     zerolog.Logger
}

func NewCircuit(config Config) (*Circuit, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	b := builder.New(config.NumLookupBits)
	me := &Circuit{
		config:  config,
		builder: b,
		arena:   arena.New(b),
		public:  make([][]builder.AssignedValue, config.NumVirtualInstance),
		log:     logger.Logger().With().Str("component", "circuit").Int("k", config.K).Logger(),
	}
	return me, nil
}

func (me *Circuit) Config() Config {
	return me.config
}

func (me *Circuit) Builder() *builder.Builder {
	return me.builder
}

func (me *Circuit) Arena() *arena.Arena {
	return me.arena
}

func (me *Circuit) column(col int) error {
	if col < 0 || col >= len(me.public) {
		return fmt.Errorf("%w: %d of %d", ErrNoSuchColumn, col, len(me.public))
	}
	return nil
}

// MakePublic appends the value at h to instance column col.
func (me *Circuit) MakePublic(h arena.Handle, col int) error {
	if err := me.column(col); err != nil {
		return err
	}
	v, err := me.arena.Resolve(h)
	if err != nil {
		return err
	}
	me.public[col] = append(me.public[col], v)
	return nil
}

// Instances returns the handles bound to column col.
func (me *Circuit) Instances(col int) ([]arena.Handle, error) {
	if err := me.column(col); err != nil {
		return nil, err
	}
	return me.arena.ExternalizeMany(me.public[col])
}

// SetInstances replaces column col. Nothing changes if any handle is invalid.
func (me *Circuit) SetInstances(hs []arena.Handle, col int) error {
	if err := me.column(col); err != nil {
		return err
	}
	vs, err := me.arena.ResolveMany(hs)
	if err != nil {
		return err
	}
	me.public[col] = vs
	return nil
}

func (me *Circuit) InstanceValues(col int) ([]fr.Element, error) {
	if err := me.column(col); err != nil {
		return nil, err
	}
	ret := make([]fr.Element, len(me.public[col]))
	for i, v := range me.public[col] {
		ret[i] = v.Value()
	}
	return ret, nil
}

// PublicCells flattens every instance column in order.
func (me *Circuit) PublicCells() []builder.Cell {
	var ret []builder.Cell
	for _, col := range me.public {
		for _, v := range col {
			c, _ := v.Cell()
			ret = append(ret, c)
		}
	}
	return ret
}

func (me *Circuit) PublicValues() []fr.Element {
	var ret []fr.Element
	for _, col := range me.public {
		for _, v := range col {
			ret = append(ret, v.Value())
		}
	}
	return ret
}

func (me *Circuit) ClearInstances() {
	for i := range me.public {
		me.public[i] = nil
	}
}

// Reset drops every committed value and instance. Handles issued before are
// invalid afterwards.
func (me *Circuit) Reset() {
	me.builder.Reset()
	me.ClearInstances()
}

type CircuitStats struct {
	Advice   int `json:"advice"`
	Lookup   int `json:"lookup"`
	Fixed    int `json:"fixed"`
	Instance int `json:"instance"`
	K        int `json:"k"`
	Gates    int `json:"gates"`
	Copies   int `json:"copies"`
}

func (me *Circuit) Stats() CircuitStats {
	t := me.builder.Stats().Total()
	return CircuitStats{
		Advice:   t.Cells - t.Constants,
		Lookup:   t.Lookups,
		Fixed:    t.Constants,
		Instance: len(me.PublicCells()),
		K:        me.config.K,
		Gates:    t.Gates,
		Copies:   t.Copies,
	}
}

// Mock checks the circuit fits its config and that every constraint holds on
// the committed values.
func (me *Circuit) Mock() error {
	s := me.Stats()
	rows := me.config.Rows()
	switch {
	case s.Advice > me.config.NumAdvice*rows:
		return fmt.Errorf("%w: %d advice cells, room for %d", ErrCapacityExceeded, s.Advice, me.config.NumAdvice*rows)
	case s.Fixed > rows:
		return fmt.Errorf("%w: %d constants, room for %d", ErrCapacityExceeded, s.Fixed, rows)
	case s.Lookup > me.config.NumLookupAdvice*rows:
		return fmt.Errorf("%w: %d lookups, room for %d", ErrCapacityExceeded, s.Lookup, me.config.NumLookupAdvice*rows)
	case s.Instance > me.config.NumInstance*rows:
		return fmt.Errorf("%w: %d instances, room for %d", ErrCapacityExceeded, s.Instance, me.config.NumInstance*rows)
	}
	if err := me.builder.Check(); err != nil {
		return err
	}
	me.log.Debug().Int("advice", s.Advice).Int("lookup", s.Lookup).Int("instance", s.Instance).Msg("mock passed")
	return nil
}

// Replay returns the placeholder and the assignment of the gnark circuit
// equivalent to this session.
func (me *Circuit) Replay() (circuit, assignment *replay.Circuit) {
	layout := me.builder.Layout()
	publics := me.PublicCells()
	return replay.New(layout, publics), replay.Assign(layout, publics)
}
