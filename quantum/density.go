package quantum

import (
	"encoding/json"
	"fmt"
	"math/cmplx"
)

// DensityMatrix is the 2^N × 2^N matrix ρ = |ψ⟩⟨ψ| of a pure state, stored
// row-major. It is read-only once built.
type DensityMatrix struct {
	dim  int
	data []Complex
}

// NewDensityMatrix returns the outer product of s with its conjugate.
func NewDensityMatrix(s *StateVector) *DensityMatrix {
	dim := len(s.Amplitudes)
	data := make([]Complex, dim*dim)
	for i, a := range s.Amplitudes {
		row := data[i*dim : (i+1)*dim]
		for j, b := range s.Amplitudes {
			row[j] = a * cmplx.Conj(b)
		}
	}
	return &DensityMatrix{dim: dim, data: data}
}

// Dim returns the matrix dimension 2^N.
func (m *DensityMatrix) Dim() int { return m.dim }

// At returns ρ[i][j]. It panics on out-of-range indices like a slice would.
func (m *DensityMatrix) At(i, j int) Complex {
	return m.data[i*m.dim+j]
}

// Trace returns Σ ρ[i][i].
func (m *DensityMatrix) Trace() Complex {
	var t Complex
	for i := range m.dim {
		t += m.At(i, i)
	}
	return t
}

// IsHermitian reports whether ρ = ρ† entry-wise within tol.
func (m *DensityMatrix) IsHermitian(tol float64) bool {
	for i := range m.dim {
		for j := i; j < m.dim; j++ {
			if cmplx.Abs(m.At(i, j)-cmplx.Conj(m.At(j, i))) > tol {
				return false
			}
		}
	}
	return true
}

// Purity returns Tr(ρ²), which is 1 for a pure state.
func (m *DensityMatrix) Purity() float64 {
	// ρ is Hermitian, so Tr(ρ²) = Σ |ρ_ij|².
	p := 0.0
	for _, v := range m.data {
		p += real(v * cmplx.Conj(v))
	}
	return p
}

// Rows returns a copy of ρ as a slice of rows.
func (m *DensityMatrix) Rows() [][]Complex {
	rows := make([][]Complex, m.dim)
	for i := range rows {
		rows[i] = append([]Complex(nil), m.data[i*m.dim:(i+1)*m.dim]...)
	}
	return rows
}

// MarshalJSON encodes ρ as rows of [re, im] pairs.
func (m *DensityMatrix) MarshalJSON() ([]byte, error) {
	rows := make([][][2]float64, m.dim)
	for i := range rows {
		row := make([][2]float64, m.dim)
		for j := range row {
			v := m.At(i, j)
			row[j] = [2]float64{real(v), imag(v)}
		}
		rows[i] = row
	}
	return json.Marshal(rows)
}

// UnmarshalJSON decodes rows of [re, im] pairs.
func (m *DensityMatrix) UnmarshalJSON(b []byte) error {
	var rows [][][2]float64
	if err := json.Unmarshal(b, &rows); err != nil {
		return err
	}
	dim := len(rows)
	data := make([]Complex, 0, dim*dim)
	for i, row := range rows {
		if len(row) != dim {
			return fmt.Errorf("quantum: density matrix row %d has %d entries, want %d", i, len(row), dim)
		}
		for _, v := range row {
			data = append(data, complex(v[0], v[1]))
		}
	}
	m.dim, m.data = dim, data
	return nil
}
