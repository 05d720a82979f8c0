// Package config loads experiment settings from YAML with viper.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/hershlalwani/qtomo/experiment"
	"github.com/hershlalwani/qtomo/quantum"
)

// ErrNoConfig is returned when the configuration file does not exist.
var ErrNoConfig = errors.New("config: configuration file not found")

// EnvPrefix prefixes environment overrides, e.g. QTOMO_CIRCUIT_SHOTS.
const EnvPrefix = "QTOMO"

// Keys understood in the YAML file.
const (
	KeyName         = "name"
	KeySeed         = "seed"
	KeyVerbose      = "verbose"
	KeyQubits       = "circuit.n-qubits"
	KeyDepth        = "circuit.depth"
	KeyShots        = "circuit.shots"
	KeyQASM         = "circuit.qasm"
	KeyPauliBasis   = "experiment.pauli_basis"
	KeyMeasurements = "experiment.measurements"
	KeyWorkers      = "experiment.workers"
)

var envReplacer = strings.NewReplacer(".", "_", "-", "_")

var defaults = map[string]any{
	KeyName:         "Quantum-Tomography-1",
	KeySeed:         42,
	KeyVerbose:      false,
	KeyQubits:       3,
	KeyDepth:        3,
	KeyShots:        1024,
	KeyQASM:         "",
	KeyPauliBasis:   []any{},
	KeyMeasurements: 1,
	KeyWorkers:      1,
}

// Settings is a loaded configuration.
type Settings struct {
	// Path is the file the settings were read from.
	Path string
	// Experiment is ready to pass to experiment.New.
	Experiment experiment.Config
	// Circuit is set when circuit.qasm names a file.
	Circuit *quantum.Circuit
	// Raw holds every effective key, defaults and overrides included.
	Raw map[string]any
}

// Load reads path, or ./config.yaml when path is empty.
func Load(path string) (*Settings, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if errors.As(err, &nf) || errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoConfig, path)
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	s := &Settings{Path: v.ConfigFileUsed(), Raw: v.AllSettings()}
	bases, err := parseBases(v.Get(KeyPauliBasis))
	if err != nil {
		return nil, err
	}
	s.Experiment = experiment.Config{
		Name:         v.GetString(KeyName),
		Seed:         v.GetInt64(KeySeed),
		Qubits:       v.GetInt(KeyQubits),
		Depth:        v.GetInt(KeyDepth),
		Shots:        v.GetInt(KeyShots),
		PauliBasis:   bases,
		Measurements: v.GetInt(KeyMeasurements),
		Workers:      v.GetInt(KeyWorkers),
		Verbose:      v.GetBool(KeyVerbose),
	}

	// The measurements default only applies without an explicit basis list.
	if len(bases) > 0 && !explicit(v, KeyMeasurements) {
		s.Experiment.Measurements = 0
		if exp, ok := s.Raw["experiment"].(map[string]any); ok {
			exp["measurements"] = 0
		}
	}

	if qasmPath := v.GetString(KeyQASM); qasmPath != "" {
		if !filepath.IsAbs(qasmPath) {
			qasmPath = filepath.Join(filepath.Dir(s.Path), qasmPath)
		}
		c, err := loadCircuit(qasmPath)
		if err != nil {
			return nil, err
		}
		s.Circuit = c
		s.Experiment.Qubits = c.NumQubits()
		s.Experiment.Depth = c.Depth()
	}

	if err := s.Experiment.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", s.Path, err)
	}
	return s, nil
}

// explicit reports whether key was given in the file or the environment
// rather than taken from the defaults.
func explicit(v *viper.Viper, key string) bool {
	if v.InConfig(key) {
		return true
	}
	env := EnvPrefix + "_" + envReplacer.Replace(strings.ToUpper(key))
	_, ok := os.LookupEnv(env)
	return ok
}

func loadCircuit(path string) (*quantum.Circuit, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read circuit: %w", err)
	}
	c, err := quantum.ParseQASM(string(b))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// parseBases accepts a list whose entries are symbol lists or strings such
// as "XYZ". A single string, as set from the environment, holds entries
// separated by commas or spaces.
func parseBases(raw any) ([]quantum.Assignment, error) {
	var entries []any
	switch t := raw.(type) {
	case nil:
		return nil, nil
	case string:
		for _, f := range strings.FieldsFunc(t, func(r rune) bool { return r == ',' || r == ' ' }) {
			entries = append(entries, f)
		}
	case []any:
		entries = t
	case []string:
		for _, e := range t {
			entries = append(entries, e)
		}
	default:
		return nil, fmt.Errorf("config: %s: %w: unexpected %T", KeyPauliBasis, quantum.ErrInvalidBasis, raw)
	}

	out := make([]quantum.Assignment, 0, len(entries))
	for i, e := range entries {
		a, err := parseEntry(e)
		if err != nil {
			return nil, fmt.Errorf("config: %s[%d]: %w", KeyPauliBasis, i, err)
		}
		out = append(out, a)
	}
	return out, nil
}

func parseEntry(e any) (quantum.Assignment, error) {
	switch t := e.(type) {
	case string:
		return quantum.ParseAssignmentString(t)
	case []any:
		symbols := make([]string, len(t))
		for i, s := range t {
			str, ok := s.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %v", quantum.ErrInvalidBasis, s)
			}
			symbols[i] = str
		}
		return quantum.ParseAssignment(symbols)
	case []string:
		return quantum.ParseAssignment(t)
	}
	return nil, fmt.Errorf("%w: unexpected %T", quantum.ErrInvalidBasis, e)
}
