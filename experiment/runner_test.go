package experiment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/hershlalwani/qtomo/quantum"
)

func testConfig() Config {
	return Config{
		Name:         "unit",
		Seed:         7,
		Qubits:       3,
		Depth:        3,
		Shots:        256,
		Measurements: 4,
		Workers:      1,
	}
}

func mustAssignments(symbols ...string) []quantum.Assignment {
	out := make([]quantum.Assignment, len(symbols))
	for i, s := range symbols {
		a, err := quantum.ParseAssignmentString(s)
		if err != nil {
			panic(err)
		}
		out[i] = a
	}
	return out
}

func TestNewRunner(t *testing.T) {
	Convey("Given a valid configuration", t, func() {
		cfg := testConfig()

		Convey("When creating a runner", func() {
			r, err := New(cfg)

			Convey("It should prepare a normalised state and a pure density matrix", func() {
				So(err, ShouldBeNil)
				So(r.Circuit().NumQubits(), ShouldEqual, 3)
				So(r.State().Norm(), ShouldAlmostEqual, 1.0, 1e-9)
				So(r.DensityMatrix().Dim(), ShouldEqual, 8)
				So(real(r.DensityMatrix().Trace()), ShouldAlmostEqual, 1.0, 1e-9)
				So(r.DensityMatrix().Purity(), ShouldAlmostEqual, 1.0, 1e-9)
				So(r.DensityMatrix().IsHermitian(1e-9), ShouldBeTrue)
			})

			Convey("It should draw one default assignment per measurement", func() {
				So(err, ShouldBeNil)
				bases := r.Bases()
				So(len(bases), ShouldEqual, cfg.Measurements)
				for _, a := range bases {
					So(len(a), ShouldEqual, cfg.Qubits)
					So(a.Validate(cfg.Qubits), ShouldBeNil)
				}
			})
		})

		Convey("When two runners share the seed", func() {
			a, errA := New(cfg)
			b, errB := New(cfg)

			Convey("They should build the same circuit and bases", func() {
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(a.Circuit().QASM(), ShouldEqual, b.Circuit().QASM())
				So(a.Bases(), ShouldResemble, b.Bases())
			})
		})

		Convey("When only an explicit basis list is given", func() {
			var buf bytes.Buffer
			cfg.PauliBasis = mustAssignments("XYZ")
			cfg.Measurements = 0
			_, err := New(cfg, WithLogger(log.New(&buf)))

			Convey("It should not warn about an override", func() {
				So(err, ShouldBeNil)
				So(buf.String(), ShouldNotContainSubstring, "overrides")
			})
		})

		Convey("When both a basis list and a measurement count are given", func() {
			var buf bytes.Buffer
			cfg.PauliBasis = mustAssignments("XYZ")
			_, err := New(cfg, WithLogger(log.New(&buf)))

			Convey("It should warn that the list wins", func() {
				So(err, ShouldBeNil)
				So(buf.String(), ShouldContainSubstring, "explicit pauli basis overrides measurements")
			})
		})

		Convey("When an explicit basis list is given as well", func() {
			cfg.PauliBasis = mustAssignments("XYZ", "ZZZ")
			r, err := New(cfg)

			Convey("The explicit list should win over measurements", func() {
				So(err, ShouldBeNil)
				So(r.Bases(), ShouldResemble, cfg.PauliBasis)
			})
		})
	})

	Convey("Given invalid configurations", t, func() {
		Convey("Zero qubits should be rejected", func() {
			cfg := testConfig()
			cfg.Qubits = 0
			_, err := New(cfg)
			So(errors.Is(err, quantum.ErrInvalidConfiguration), ShouldBeTrue)
		})

		Convey("Too many qubits should be rejected", func() {
			cfg := testConfig()
			cfg.Qubits = quantum.MaxQubits + 1
			_, err := New(cfg)
			So(errors.Is(err, quantum.ErrInvalidConfiguration), ShouldBeTrue)
		})

		Convey("Zero shots should be rejected", func() {
			cfg := testConfig()
			cfg.Shots = 0
			_, err := New(cfg)
			So(errors.Is(err, quantum.ErrInvalidConfiguration), ShouldBeTrue)
		})

		Convey("An explicit assignment of the wrong length should be rejected", func() {
			cfg := testConfig()
			cfg.PauliBasis = mustAssignments("XYZ", "XY")
			_, err := New(cfg)

			var ae *quantum.AssignmentError
			So(errors.As(err, &ae), ShouldBeTrue)
			So(ae.Index, ShouldEqual, 1)
			So(ae.Want, ShouldEqual, 3)
			So(ae.Got, ShouldEqual, 2)
		})

		Convey("A fixed circuit of the wrong width should be rejected", func() {
			c, err := quantum.NewCircuit(2, 0, nil)
			So(err, ShouldBeNil)
			_, err = New(testConfig(), WithCircuit(c))
			So(errors.Is(err, quantum.ErrInvalidConfiguration), ShouldBeTrue)
		})
	})
}

func TestRunnerRun(t *testing.T) {
	Convey("Given a runner with default bases", t, func() {
		cfg := testConfig()
		r, err := New(cfg)
		So(err, ShouldBeNil)

		Convey("When running with an empty basis list", func() {
			results, err := r.Run(context.Background(), nil)

			Convey("It should measure every default assignment in index order", func() {
				So(err, ShouldBeNil)
				So(len(results), ShouldEqual, cfg.Measurements)
				for i, res := range results {
					So(res.Index, ShouldEqual, i)
					So(res.Basis, ShouldResemble, r.Bases()[i])
					So(res.Counts.Total(), ShouldEqual, cfg.Shots)
					So(res.DensityMatrix, ShouldEqual, r.DensityMatrix())
					for key := range res.Counts {
						So(len(key), ShouldEqual, cfg.Qubits)
					}
				}
				So(r.Len(), ShouldEqual, cfg.Measurements)
			})
		})

		Convey("When running twice", func() {
			_, err := r.Run(context.Background(), nil)
			So(err, ShouldBeNil)
			second, err := r.Run(context.Background(), mustAssignments("ZZZ", "XXX"))

			Convey("Indices should continue from the first call", func() {
				So(err, ShouldBeNil)
				So(second[0].Index, ShouldEqual, cfg.Measurements)
				So(second[1].Index, ShouldEqual, cfg.Measurements+1)
				So(r.Len(), ShouldEqual, cfg.Measurements+2)

				res, ok := r.Result(cfg.Measurements + 1)
				So(ok, ShouldBeTrue)
				So(res.Basis.String(), ShouldEqual, "XXX")
			})
		})

		Convey("When one assignment has the wrong length", func() {
			_, err := r.Run(context.Background(), mustAssignments("ZZZ", "ZZ", "XXX"))

			Convey("The whole call should fail without partial results", func() {
				var ae *quantum.AssignmentError
				So(errors.As(err, &ae), ShouldBeTrue)
				So(ae.Index, ShouldEqual, 1)
				So(errors.Is(err, quantum.ErrInvalidConfiguration), ShouldBeTrue)
				So(r.Len(), ShouldEqual, 0)
			})
		})

		Convey("When one assignment holds an unknown symbol", func() {
			bad := mustAssignments("ZZZ")
			bad = append(bad, quantum.Assignment{quantum.PauliX, "Q", quantum.PauliZ})
			_, err := r.Run(context.Background(), bad)

			Convey("It should report an invalid basis", func() {
				So(errors.Is(err, quantum.ErrInvalidBasis), ShouldBeTrue)
				So(r.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the context is already cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := r.Run(ctx, nil)

			Convey("It should stop and keep nothing", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
				So(r.Len(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a runner without default bases", t, func() {
		cfg := testConfig()
		cfg.Measurements = 0
		r, err := New(cfg)
		So(err, ShouldBeNil)

		Convey("Running with an empty list should be a configuration error", func() {
			_, err := r.Run(context.Background(), nil)
			So(errors.Is(err, quantum.ErrInvalidConfiguration), ShouldBeTrue)
		})
	})

	Convey("Given a single qubit with no gates", t, func() {
		cfg := Config{Seed: 1, Qubits: 1, Depth: 0, Shots: 1000, Workers: 1}
		r, err := New(cfg)
		So(err, ShouldBeNil)

		Convey("Measuring in Z should always give zero", func() {
			results, err := r.Run(context.Background(), mustAssignments("Z"))
			So(err, ShouldBeNil)
			So(results[0].Counts, ShouldResemble, quantum.Counts{"0": 1000})
		})
	})

	Convey("Given a Bell circuit", t, func() {
		c, err := quantum.NewCircuit(2, 2, []quantum.Gate{
			quantum.NewGate("H", 0, 0),
			quantum.NewControlledGate("CX", 0, 1, 1),
		})
		So(err, ShouldBeNil)
		cfg := Config{Seed: 3, Qubits: 2, Shots: 2000, Workers: 1}
		r, err := New(cfg, WithCircuit(c))
		So(err, ShouldBeNil)

		Convey("ZZ outcomes should be perfectly correlated", func() {
			results, err := r.Run(context.Background(), mustAssignments("ZZ", "XX"))
			So(err, ShouldBeNil)
			for _, res := range results {
				So(res.Counts["01"], ShouldEqual, 0)
				So(res.Counts["10"], ShouldEqual, 0)
				So(res.Counts["00"]+res.Counts["11"], ShouldEqual, cfg.Shots)
				So(res.Counts["00"], ShouldBeGreaterThan, 800)
				So(res.Counts["11"], ShouldBeGreaterThan, 800)
			}
		})
	})
}

func TestRunnerResultsAreCopies(t *testing.T) {
	Convey("Given a runner with one measured round", t, func() {
		cfg := Config{Seed: 1, Qubits: 1, Shots: 100, Workers: 1}
		r, err := New(cfg)
		So(err, ShouldBeNil)
		out, err := r.Run(context.Background(), mustAssignments("Z"))
		So(err, ShouldBeNil)

		Convey("Editing the returned round should not change the stored one", func() {
			out[0].Counts["0"] = 999
			out[0].Basis[0] = quantum.PauliX

			stored, ok := r.Result(0)
			So(ok, ShouldBeTrue)
			So(stored.Counts, ShouldResemble, quantum.Counts{"0": 100})
			So(stored.Basis.String(), ShouldEqual, "Z")
		})

		Convey("Editing copies from the accessors should not leak back", func() {
			all := r.Results()
			all[0].Counts["1"] = 5
			one, _ := r.Result(0)
			one.Basis[0] = quantum.PauliY

			again := r.Results()
			So(again[0].Counts, ShouldResemble, quantum.Counts{"0": 100})
			So(again[0].Basis.String(), ShouldEqual, "Z")
		})
	})
}

func TestRunnerProgressCallback(t *testing.T) {
	for _, workers := range []int{1, 4} {
		Convey("Given a progress callback that reads the runner", t, func() {
			cfg := testConfig()
			cfg.Measurements = 6
			cfg.Workers = workers

			var r *Runner
			var seen atomic.Int32
			r, err := New(cfg, WithProgress(func(Result) {
				_ = r.Len()
				_ = r.Results()
				_, _ = r.Result(0)
				seen.Add(1)
			}))
			So(err, ShouldBeNil)

			Convey("Run should complete without blocking", func() {
				done := make(chan error, 1)
				go func() {
					_, err := r.Run(context.Background(), nil)
					done <- err
				}()

				select {
				case err := <-done:
					So(err, ShouldBeNil)
				case <-time.After(10 * time.Second):
					So("run did not finish", ShouldBeEmpty)
				}
				So(int(seen.Load()), ShouldEqual, cfg.Measurements)
				So(r.Len(), ShouldEqual, cfg.Measurements)
			})
		})
	}

	Convey("Given a callback that cancels the run after the first round", t, func() {
		cfg := testConfig()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		reported := 0
		r, err := New(cfg, WithProgress(func(Result) {
			reported++
			cancel()
		}))
		So(err, ShouldBeNil)
		_, err = r.Run(ctx, nil)

		Convey("The reported round should be discarded with the call", func() {
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
			So(reported, ShouldEqual, 1)
			So(r.Len(), ShouldEqual, 0)
		})
	})
}

func TestRunnerWorkers(t *testing.T) {
	Convey("Given the same configuration run serially and in parallel", t, func() {
		cfg := testConfig()
		cfg.Measurements = 12

		serial, err := New(cfg)
		So(err, ShouldBeNil)
		var calls atomic.Int32
		parallel, err := New(cfg, WithWorkers(4), WithProgress(func(Result) { calls.Add(1) }))
		So(err, ShouldBeNil)

		a, errA := serial.Run(context.Background(), nil)
		b, errB := parallel.Run(context.Background(), nil)

		Convey("The results should be identical", func() {
			So(errA, ShouldBeNil)
			So(errB, ShouldBeNil)
			So(len(b), ShouldEqual, len(a))
			for i := range a {
				So(b[i].Index, ShouldEqual, a[i].Index)
				So(b[i].Basis, ShouldResemble, a[i].Basis)
				So(b[i].Counts, ShouldResemble, a[i].Counts)
			}
		})

		Convey("Progress should fire once per round", func() {
			So(int(calls.Load()), ShouldEqual, cfg.Measurements)
		})
	})
}

func TestResultsJSON(t *testing.T) {
	Convey("Given accumulated results", t, func() {
		cfg := testConfig()
		cfg.Qubits = 2
		cfg.Measurements = 3
		r, err := New(cfg)
		So(err, ShouldBeNil)
		results, err := r.Run(context.Background(), nil)
		So(err, ShouldBeNil)

		Convey("When encoded", func() {
			b, err := json.Marshal(results)
			So(err, ShouldBeNil)

			Convey("They should be keyed by index with the documented field names", func() {
				var raw map[string]map[string]json.RawMessage
				So(json.Unmarshal(b, &raw), ShouldBeNil)
				So(len(raw), ShouldEqual, 3)
				for _, key := range []string{"0", "1", "2"} {
					So(raw, ShouldContainKey, key)
					So(raw[key], ShouldContainKey, "density-matrix")
					So(raw[key], ShouldContainKey, "measurement-basis")
					So(raw[key], ShouldContainKey, "measurement-statistics")
				}
			})

			Convey("They should decode back in index order", func() {
				var decoded Results
				So(json.Unmarshal(b, &decoded), ShouldBeNil)
				So(len(decoded), ShouldEqual, len(results))
				for i := range results {
					So(decoded[i].Index, ShouldEqual, i)
					So(decoded[i].Basis, ShouldResemble, results[i].Basis)
					So(decoded[i].Counts, ShouldResemble, results[i].Counts)
					So(decoded[i].DensityMatrix.Dim(), ShouldEqual, 4)
				}
			})
		})
	})
}
