package eonlib

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

var ErrInvalidConfig = errors.New("invalid circuit config")

// Config sizes a circuit. K is the log2 of the number of rows; advice cells
// and lookups are bounded by the column counts times 2^K.
type Config struct {
	K                  int `json:"k"`
	NumAdvice          int `json:"numAdvice"`
	NumLookupAdvice    int `json:"numLookupAdvice"`
	NumInstance        int `json:"numInstance"`
	NumLookupBits      int `json:"numLookupBits"`
	NumVirtualInstance int `json:"numVirtualInstance"`
}

func (me Config) Validate() error {
	if me.NumLookupBits <= 0 || me.K <= me.NumLookupBits || me.K > MAX_K {
		return fmt.Errorf("%w: need 0 < numLookupBits (%d) < k (%d) <= %d", ErrInvalidConfig, me.NumLookupBits, me.K, MAX_K)
	}
	if me.NumAdvice <= 0 || me.NumLookupAdvice <= 0 {
		return fmt.Errorf("%w: numAdvice and numLookupAdvice must be positive", ErrInvalidConfig)
	}
	if me.NumInstance < 0 || me.NumVirtualInstance < 0 {
		return fmt.Errorf("%w: instance column counts must not be negative", ErrInvalidConfig)
	}
	if me.NumInstance == 0 && me.NumVirtualInstance > 0 {
		return fmt.Errorf("%w: virtual instances need an instance column", ErrInvalidConfig)
	}
	return nil
}

// Rows is 2^K.
func (me Config) Rows() int {
	return 1 << me.K
}

func ReadConfig(r io.Reader) (Config, error) {
	var cfg Config
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, cfg.Validate()
}

func LoadConfig(file string) (Config, error) {
	f, err := os.Open(file)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	return ReadConfig(f)
}

func (me Config) WriteTo(w io.Writer) (int64, error) {
	data, err := json.MarshalIndent(me, "", "  ")
	if err != nil {
		return 0, err
	}
	n, err := w.Write(append(data, '\n'))
	return int64(n), err
}
