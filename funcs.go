package eonlib

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/bits"
	"os"
	"path"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bn254/kzg"
	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/logger"
	"github.com/consensys/gnark/test/unsafekzg"
	"github.com/schollz/progressbar/v3"
)

var ErrCorruptCache = errors.New("srs cache does not match its checksum")

// SRSPath is the cache file holding the canonical SRS for 2^logSize rows.
func SRSPath(logSize int) string {
	return path.Join(DATA_CACHE_DIR, fmt.Sprintf("SRS.BN254.%d.BIN", logSize))
}

// ReadSRS returns the canonical and Lagrange KZG SRS sized for ccs. The
// canonical one is read from the cache when its sha256 sidecar matches, and
// generated and cached otherwise.
func ReadSRS(ccs constraint.ConstraintSystem) (*kzg.SRS, *kzg.SRS, error) {
	sizeCanonical, sizeLagrange := plonk.SRSSize(ccs)
	logsl := bits.TrailingZeros(uint(sizeLagrange))
	if bits.OnesCount(uint(sizeLagrange)) != 1 || logsl > MAX_SRS_LOG_SIZE {
		return nil, nil, fmt.Errorf("invalid lagrange srs size %d", sizeLagrange)
	}
	log := logger.Logger().With().Int("size", sizeCanonical).Int("logSize", logsl).Logger()
	file := SRSPath(logsl)
	canonical, err := read_srs(file, sizeCanonical)
	if err != nil {
		log.Debug().Err(err).Msg("local srs cache not usable; generating")
		if canonical, err = generate_srs(file, ccs); err != nil {
			return nil, nil, err
		}
	}
	lagrange, err := kzg.ToLagrangeG1(canonical.Pk.G1[:sizeLagrange])
	if err != nil {
		return nil, nil, err
	}
	return canonical, &kzg.SRS{Pk: kzg.ProvingKey{G1: lagrange}, Vk: canonical.Vk}, nil
}

func read_srs(file string, size int) (*kzg.SRS, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	sidecar, err := os.ReadFile(file + ".SHA256")
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(data)
	if hex.EncodeToString(sum[:]) != strings.TrimSpace(string(sidecar)) {
		return nil, fmt.Errorf("%w: %s", ErrCorruptCache, file)
	}
	bar := progressbar.DefaultBytes(int64(len(data)), "Reading SRS")
	var srs kzg.SRS
	if _, err := srs.ReadFrom(io.TeeReader(bytes.NewReader(data), bar)); err != nil {
		return nil, err
	}
	if len(srs.Pk.G1) < size {
		return nil, fmt.Errorf("%w: %s holds %d points, need %d", ErrCorruptCache, file, len(srs.Pk.G1), size)
	}
	return &srs, nil
}

func generate_srs(file string, ccs constraint.ConstraintSystem) (*kzg.SRS, error) {
	isrs, _, err := unsafekzg.NewSRS(ccs)
	if err != nil {
		return nil, err
	}
	srs, ok := isrs.(*kzg.SRS)
	if !ok {
		return nil, fmt.Errorf("unexpected srs type %T", isrs)
	}
	var buf bytes.Buffer
	if _, err := srs.WriteTo(&buf); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(DATA_CACHE_DIR, 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(file, buf.Bytes(), 0o644); err != nil {
		return nil, err
	}
	sum := sha256.Sum256(buf.Bytes())
	return srs, os.WriteFile(file+".SHA256", []byte(hex.EncodeToString(sum[:])+"\n"), 0o644)
}
