package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"math/big"
	"os"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/eon-protocol/eonlib"
)

// session runs the script named by --script and returns the built circuit.
func session() (*eonlib.Circuit, map[string][]int, error) {
	if scriptFile == "" {
		return nil, nil, errors.New("--script is required")
	}
	script, err := eonlib.LoadScript(scriptFile)
	if err != nil {
		return nil, nil, err
	}
	config := eonlib.DEFAULT_CONFIG
	switch {
	case configFile != "":
		if config, err = eonlib.LoadConfig(configFile); err != nil {
			return nil, nil, err
		}
	case script.Config != nil:
		config = *script.Config
	}
	circuit, err := eonlib.NewCircuit(config)
	if err != nil {
		return nil, nil, err
	}
	bindings, err := script.Run(eonlib.NewLib(circuit), inputs)
	if err != nil {
		return nil, nil, err
	}
	return circuit, bindings, nil
}

func writeInstances(file string, instances []fr.Element) error {
	vals := make([]string, len(instances))
	for i := range instances {
		vals[i] = instances[i].BigInt(new(big.Int)).String()
	}
	data, err := json.MarshalIndent(vals, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(file, append(data, '\n'), 0o644)
}

func readInstances(file string) ([]fr.Element, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	var vals []string
	if err := json.Unmarshal(data, &vals); err != nil {
		return nil, err
	}
	ret := make([]fr.Element, len(vals))
	for i, v := range vals {
		if _, err := ret[i].SetString(v); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

type readerFrom interface {
	ReadFrom(r io.Reader) (int64, error)
}

type writerTo interface {
	WriteTo(w io.Writer) (int64, error)
}

func load(file string, v readerFrom) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = v.ReadFrom(bufio.NewReader(f))
	return err
}

func save(file string, v writerTo) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if _, err := v.WriteTo(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
