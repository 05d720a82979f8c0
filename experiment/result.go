package experiment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/hershlalwani/qtomo/quantum"
)

// Result is one measurement round. DensityMatrix is shared by every result
// of a Runner and must be treated as read-only.
type Result struct {
	Index         int                    `json:"-"`
	DensityMatrix *quantum.DensityMatrix `json:"density-matrix"`
	Basis         quantum.Assignment     `json:"measurement-basis"`
	Counts        quantum.Counts         `json:"measurement-statistics"`
}

// clone copies the basis and counts; the density matrix stays shared.
func (r Result) clone() Result {
	r.Basis = slices.Clone(r.Basis)
	r.Counts = maps.Clone(r.Counts)
	return r
}

// Results is the accumulated result set, ordered by index. It serialises as
// an object keyed by the decimal index.
type Results []Result

func (rs Results) clone() Results {
	out := make(Results, len(rs))
	for i, r := range rs {
		out[i] = r.clone()
	}
	return out
}

// MarshalJSON writes {"0": {...}, "1": {...}} in index order.
func (rs Results) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range rs {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:", strconv.Itoa(r.Index))
		b, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("result %d: %w", r.Index, err)
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the keyed form and restores index order.
func (rs *Results) UnmarshalJSON(b []byte) error {
	var keyed map[string]Result
	if err := json.Unmarshal(b, &keyed); err != nil {
		return err
	}
	out := make(Results, 0, len(keyed))
	for k, r := range keyed {
		idx, err := strconv.Atoi(k)
		if err != nil {
			return fmt.Errorf("experiment: result key %q is not an index", k)
		}
		r.Index = idx
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b Result) int { return a.Index - b.Index })
	*rs = out
	return nil
}
