// Package store writes an experiment to disk:
//
//	<root>/experiments/<name>/
//	    config.yaml
//	    manifest.yaml
//	    circuit.qasm
//	    data/results.json
//	    data/measurements/<index>.json
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/hershlalwani/qtomo/experiment"
	"github.com/hershlalwani/qtomo/quantum"
)

// ErrInvalidName is returned for experiment names that are not a single path
// element.
var ErrInvalidName = errors.New("store: invalid experiment name")

// File names inside an experiment folder.
const (
	ConfigFile   = "config.yaml"
	ManifestFile = "manifest.yaml"
	CircuitFile  = "circuit.qasm"
	ResultsFile  = "results.json"
	dataDir      = "data"
	measureDir   = "measurements"
)

// Store is one experiment folder.
type Store struct {
	dir string
}

// Open creates <root>/experiments/<name>/data/measurements if needed.
func Open(root, name string) (*Store, error) {
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	dir := filepath.Join(root, "experiments", name)
	if err := os.MkdirAll(filepath.Join(dir, dataDir, measureDir), 0o755); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the experiment folder.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(elem ...string) string {
	return filepath.Join(append([]string{s.dir}, elem...)...)
}

func (s *Store) writeYAML(name string, v any) error {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", name, err)
	}
	return s.write(b, name)
}

func (s *Store) writeJSON(v any, elem ...string) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", filepath.Join(elem...), err)
	}
	return s.write(b, elem...)
}

func (s *Store) write(b []byte, elem ...string) error {
	if err := os.WriteFile(s.path(elem...), b, 0o644); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

// SaveConfig writes the effective settings as config.yaml.
func (s *Store) SaveConfig(settings map[string]any) error {
	return s.writeYAML(ConfigFile, settings)
}

// SaveCircuit writes the circuit as OpenQASM.
func (s *Store) SaveCircuit(c *quantum.Circuit) error {
	return s.write([]byte(c.QASM()), CircuitFile)
}

// SaveResults writes the whole result set as data/results.json.
func (s *Store) SaveResults(results experiment.Results) error {
	return s.writeJSON(results, dataDir, ResultsFile)
}

// SaveMeasurement writes one round as data/measurements/<index>.json.
func (s *Store) SaveMeasurement(r experiment.Result) error {
	return s.writeJSON(r, dataDir, measureDir, strconv.Itoa(r.Index)+".json")
}

// LoadResults reads data/results.json.
func (s *Store) LoadResults() (experiment.Results, error) {
	b, err := os.ReadFile(s.path(dataDir, ResultsFile))
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	var rs experiment.Results
	if err := json.Unmarshal(b, &rs); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", ResultsFile, err)
	}
	return rs, nil
}

// LoadMeasurement reads data/measurements/<index>.json.
func (s *Store) LoadMeasurement(index int) (experiment.Result, error) {
	b, err := os.ReadFile(s.path(dataDir, measureDir, strconv.Itoa(index)+".json"))
	if err != nil {
		return experiment.Result{}, fmt.Errorf("store: %w", err)
	}
	r := experiment.Result{Index: index}
	if err := json.Unmarshal(b, &r); err != nil {
		return experiment.Result{}, fmt.Errorf("store: decode measurement %d: %w", index, err)
	}
	return r, nil
}

// Manifest describes one run of an experiment.
type Manifest struct {
	RunID      uuid.UUID `yaml:"run-id"`
	Name       string    `yaml:"name"`
	Seed       int64     `yaml:"seed"`
	Qubits     int       `yaml:"n-qubits"`
	Depth      int       `yaml:"depth"`
	Shots      int       `yaml:"shots"`
	Workers    int       `yaml:"workers"`
	Rounds     int       `yaml:"rounds"`
	StartedAt  time.Time `yaml:"started-at"`
	FinishedAt time.Time `yaml:"finished-at,omitempty"`
}

// NewManifest starts a manifest for cfg with a fresh run ID.
func NewManifest(cfg experiment.Config) Manifest {
	return Manifest{
		RunID:     uuid.New(),
		Name:      cfg.Name,
		Seed:      cfg.Seed,
		Qubits:    cfg.Qubits,
		Depth:     cfg.Depth,
		Shots:     cfg.Shots,
		Workers:   cfg.Workers,
		StartedAt: time.Now().UTC(),
	}
}

// Finish records the number of rounds and the end time.
func (m *Manifest) Finish(rounds int) {
	m.Rounds = rounds
	m.FinishedAt = time.Now().UTC()
}

// SaveManifest writes manifest.yaml.
func (s *Store) SaveManifest(m Manifest) error {
	return s.writeYAML(ManifestFile, m)
}

// LoadManifest reads manifest.yaml.
func (s *Store) LoadManifest() (Manifest, error) {
	var m Manifest
	b, err := os.ReadFile(s.path(ManifestFile))
	if err != nil {
		return m, fmt.Errorf("store: %w", err)
	}
	if err := yaml.Unmarshal(b, &m); err != nil {
		return m, fmt.Errorf("store: decode %s: %w", ManifestFile, err)
	}
	return m, nil
}
