// Package experiment runs tomography experiments: it prepares a state once
// and measures it repeatedly in per-qubit Pauli bases.
package experiment

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/hershlalwani/qtomo/quantum"
	"github.com/hershlalwani/qtomo/rng"
)

// Stream names under the run seed.
const (
	circuitStream = "circuit"
	basisStream   = "basis"
	shotsStream   = "shots"
)

// Runner owns one prepared state and the results measured from it.
type Runner struct {
	cfg      Config
	logger   *log.Logger
	workers  int
	sampler  quantum.Sampler
	progress func(Result)

	circuit *quantum.Circuit
	state   *quantum.StateVector
	density *quantum.DensityMatrix
	bases   []quantum.Assignment

	// runMu serialises Run calls so index ranges stay contiguous. mu guards
	// results only and is never held while rounds are measured.
	runMu   sync.Mutex
	mu      sync.RWMutex
	results Results
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithWorkers overrides Config.Workers.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		r.workers = n
	}
}

// WithCircuit supplies a fixed circuit instead of a random one. Its width
// must match Config.Qubits.
func WithCircuit(c *quantum.Circuit) Option {
	return func(r *Runner) {
		r.circuit = c
	}
}

// WithProgress registers a callback invoked after every finished round. With
// more than one worker it is called from several goroutines. A round is
// reported as soon as it is measured, so a call that later fails or is
// cancelled may have reported rounds that are then discarded. The callback
// may read the Runner's results but must not call Run.
func WithProgress(fn func(Result)) Option {
	return func(r *Runner) {
		r.progress = fn
	}
}

// WithSampler replaces the default sampler.
func WithSampler(s quantum.Sampler) Option {
	return func(r *Runner) {
		r.sampler = s
	}
}

// New validates cfg, builds the circuit, simulates it once and resolves the
// default basis assignments.
func New(cfg Config, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Runner{cfg: cfg, workers: cfg.Workers}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}
	if r.workers < 1 {
		r.workers = 1
	}
	if r.sampler.OnDrift == nil {
		r.sampler.OnDrift = func(sum float64) {
			r.logger.Warn("renormalised outcome distribution", "sum", sum)
		}
	}

	if r.circuit == nil {
		c, err := quantum.BuildRandom(cfg.Qubits, cfg.Depth, rng.Stream(cfg.Seed, circuitStream, 0))
		if err != nil {
			return nil, fmt.Errorf("build circuit: %w", err)
		}
		r.circuit = c
	} else if r.circuit.NumQubits() != cfg.Qubits {
		return nil, fmt.Errorf("%w: circuit has %d qubits, config has %d",
			quantum.ErrInvalidConfiguration, r.circuit.NumQubits(), cfg.Qubits)
	}
	if r.detailed() {
		r.detail("created circuit", "qubits", r.circuit.NumQubits(), "depth", r.circuit.Depth(), "gates", r.circuit.Len())
		r.detail("\n" + r.circuit.Draw())
	}

	sim := quantum.Simulator{OnDrift: func(norm float64) {
		r.logger.Warn("renormalised simulated state", "norm", norm)
	}}
	state, err := sim.Run(r.circuit)
	if err != nil {
		return nil, fmt.Errorf("simulate circuit: %w", err)
	}
	r.state = state
	r.density = quantum.NewDensityMatrix(state)

	switch {
	case len(cfg.PauliBasis) > 0:
		if cfg.Measurements > 0 {
			r.logger.Warn("explicit pauli basis overrides measurements",
				"bases", len(cfg.PauliBasis), "measurements", cfg.Measurements)
		}
		r.bases = cloneBases(cfg.PauliBasis)
	case cfg.Measurements > 0:
		grid, err := rng.ChoiceGrid(rng.Stream(cfg.Seed, basisStream, 0), quantum.Paulis, cfg.Measurements, cfg.Qubits)
		if err != nil {
			return nil, fmt.Errorf("draw bases: %w", err)
		}
		r.bases = make([]quantum.Assignment, len(grid))
		for i, row := range grid {
			r.bases[i] = quantum.Assignment(row)
		}
	}

	r.logger.Info("prepared experiment", "name", cfg.Name, "seed", cfg.Seed,
		"qubits", cfg.Qubits, "depth", r.circuit.Depth(), "bases", len(r.bases))
	return r, nil
}

func cloneBases(bases []quantum.Assignment) []quantum.Assignment {
	out := make([]quantum.Assignment, len(bases))
	for i, a := range bases {
		out[i] = slices.Clone(a)
	}
	return out
}

// Run measures the prepared state once per assignment in bases, or in the
// default assignments when bases is empty. Results are appended with indices
// continuing from earlier calls. Every assignment is validated first; any
// error, including cancellation of ctx, aborts the call and appends nothing.
func (r *Runner) Run(ctx context.Context, bases []quantum.Assignment) (Results, error) {
	if len(bases) == 0 {
		bases = r.bases
	}
	if len(bases) == 0 {
		return nil, fmt.Errorf("%w: no basis assignments to measure", quantum.ErrInvalidConfiguration)
	}
	if err := validateBases(bases, r.cfg.Qubits); err != nil {
		return nil, err
	}

	r.runMu.Lock()
	defer r.runMu.Unlock()

	first := r.Len()
	out := make(Results, len(bases))
	measure := func(k int) error {
		res, err := r.measure(first+k, bases[k])
		if err != nil {
			return err
		}
		out[k] = res
		if r.progress != nil {
			r.progress(res.clone())
		}
		return nil
	}

	if r.workers == 1 {
		for k := range bases {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := measure(k); err != nil {
				return nil, err
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.workers)
		for k := range bases {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return measure(k)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	r.results = append(r.results, out...)
	total := len(r.results)
	r.mu.Unlock()

	r.logger.Info("finished taking measurements", "rounds", len(out), "total", total)
	return out.clone(), nil
}

// measure rotates the cached state into a and samples it. The state and
// density matrix are only read.
func (r *Runner) measure(index int, a quantum.Assignment) (Result, error) {
	rotated, err := quantum.Rotate(r.state, a)
	if err != nil {
		return Result{}, fmt.Errorf("round %d: %w", index, err)
	}
	counts, err := r.sampler.Sample(rotated, r.cfg.Shots, rng.Stream(r.cfg.Seed, shotsStream, uint64(index)))
	if err != nil {
		return Result{}, fmt.Errorf("round %d: %w", index, err)
	}

	if r.detailed() {
		if mc, err := r.circuit.WithRotations(a); err == nil {
			r.detail("measurement circuit", "index", index, "basis", a.String())
			r.detail("\n" + mc.Draw())
		}
	}
	return Result{Index: index, DensityMatrix: r.density, Basis: slices.Clone(a), Counts: counts}, nil
}

// detailed reports whether circuit drawings should be logged: always in
// verbose runs, otherwise only at debug level.
func (r *Runner) detailed() bool {
	return r.cfg.Verbose || r.logger.GetLevel() <= log.DebugLevel
}

func (r *Runner) detail(msg string, keyvals ...any) {
	if r.cfg.Verbose {
		r.logger.Info(msg, keyvals...)
		return
	}
	r.logger.Debug(msg, keyvals...)
}

// Config returns the configuration the Runner was built from.
func (r *Runner) Config() Config { return r.cfg }

// Circuit returns the prepared circuit.
func (r *Runner) Circuit() *quantum.Circuit { return r.circuit }

// State returns a copy of the prepared state vector.
func (r *Runner) State() *quantum.StateVector { return r.state.Clone() }

// DensityMatrix returns the prepared state's density matrix.
func (r *Runner) DensityMatrix() *quantum.DensityMatrix { return r.density }

// Bases returns a copy of the default basis assignments.
func (r *Runner) Bases() []quantum.Assignment { return cloneBases(r.bases) }

// Len returns the number of accumulated results.
func (r *Runner) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.results)
}

// Results returns a deep copy of every accumulated result in index order.
func (r *Runner) Results() Results {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.results.clone()
}

// Result returns a copy of the result with index i.
func (r *Runner) Result(i int) (Result, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i < 0 || i >= len(r.results) {
		return Result{}, false
	}
	return r.results[i].clone(), true
}
