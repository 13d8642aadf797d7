package eonlib

import (
	"os"
	"path"

	"github.com/consensys/gnark-crypto/ecc"
)

const MAX_K = 28
const MAX_SRS_LOG_SIZE = MAX_K

var FIELD = ecc.BN254.ScalarField()
var CURVE = ecc.BN254

// DATA_CACHE_DIR holds the SRS cache. EONLIB_CACHE_DIR overrides the user cache directory.
var DATA_CACHE_DIR = func() string {
	if dir := os.Getenv("EONLIB_CACHE_DIR"); dir != "" {
		return dir
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return path.Join(os.TempDir(), "eonlib")
	}
	return path.Join(dir, "eonlib")
}()

var DEFAULT_CONFIG = Config{
	K:                  10,
	NumAdvice:          20,
	NumLookupAdvice:    3,
	NumInstance:        1,
	NumLookupBits:      9,
	NumVirtualInstance: 1,
}
