// Package quantum is a self-contained state-vector simulator for
// tomography experiments.
//
// A Circuit is built at random (BuildRandom) or parsed from OpenQASM 2.0
// (ParseQASM), evolved from |0…0⟩ by Simulate, and turned into a
// DensityMatrix. Each measurement round rotates a copy of the state into the
// requested per-qubit Pauli bases (Rotate) and samples computational-basis
// outcomes from it (Sampler).
//
// Amplitude index bit q is qubit q. Outcome strings put qubit N-1 first.
//
// Everything is dense: states hold 2^N amplitudes and density matrices 4^N
// entries, so the register is capped at MaxQubits.
package quantum
