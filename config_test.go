package eonlib

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DEFAULT_CONFIG.Validate())
	for _, mutate := range []func(*Config){
		func(c *Config) { c.K = c.NumLookupBits },
		func(c *Config) { c.K = MAX_K + 1 },
		func(c *Config) { c.NumLookupBits = 0 },
		func(c *Config) { c.NumAdvice = 0 },
		func(c *Config) { c.NumLookupAdvice = 0 },
		func(c *Config) { c.NumInstance = 0 },
		func(c *Config) { c.NumVirtualInstance = -1 },
	} {
		cfg := DEFAULT_CONFIG
		mutate(&cfg)
		require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig, "%+v", cfg)
	}
}

func TestConfigJSON(t *testing.T) {
	cfg, err := ReadConfig(strings.NewReader(`{"k":12,"numAdvice":4,"numLookupAdvice":1,"numInstance":1,"numLookupBits":8,"numVirtualInstance":2}`))
	require.NoError(t, err)
	require.Equal(t, Config{K: 12, NumAdvice: 4, NumLookupAdvice: 1, NumInstance: 1, NumLookupBits: 8, NumVirtualInstance: 2}, cfg)

	var buf bytes.Buffer
	_, err = cfg.WriteTo(&buf)
	require.NoError(t, err)
	back, err := ReadConfig(&buf)
	require.NoError(t, err)
	require.Equal(t, cfg, back)

	_, err = ReadConfig(strings.NewReader(`{"k":12,"advice":4}`))
	require.ErrorIs(t, err, ErrInvalidConfig)
}
