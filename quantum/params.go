package quantum

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Angle syntax accepted in QASM gate arguments: "1.5707", "3.14e-2", "pi/2",
// "3*pi/4", "-pi".
const (
	numberPattern = `\d+\.?\d*(?:[eE][+\-]?\d+)?`
	piPattern     = `\d*\.?\d*\*?pi(?:/\d+\.?\d*)?`
	paramPattern  = `-?(?:` + piPattern + `|` + numberPattern + `)`
)

var piExprRegex = regexp.MustCompile(`^(?P<sign>-?)(?P<coeff>\d*\.?\d*)\s*\*?\s*pi(?:\s*/\s*(?P<den>\d+\.?\d*))?$`)

var (
	signGroup  = piExprRegex.SubexpIndex("sign")
	coeffGroup = piExprRegex.SubexpIndex("coeff")
	denGroup   = piExprRegex.SubexpIndex("den")
)

// parseAngle reads a plain number or a multiple of pi.
func parseAngle(s string) (float64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, true
	}

	m := piExprRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	coeff, den := 1.0, 1.0
	var err error
	if m[coeffGroup] != "" {
		if coeff, err = strconv.ParseFloat(m[coeffGroup], 64); err != nil {
			return 0, false
		}
	}
	if m[denGroup] != "" {
		if den, err = strconv.ParseFloat(m[denGroup], 64); err != nil || den == 0 {
			return 0, false
		}
	}
	v := coeff * math.Pi / den
	if m[signGroup] == "-" {
		v = -v
	}
	return v, true
}

// piFraction is num*pi/den.
type piFraction struct {
	num, den int
}

// piFractions are printed symbolically; anything else is printed in full.
var piFractions = []piFraction{
	{2, 1}, {1, 1}, {1, 2}, {1, 3}, {1, 4}, {1, 6}, {1, 8}, {3, 4}, {3, 2}, {2, 3},
}

const angleEpsilon = 1e-10

func (f piFraction) value() float64 {
	return float64(f.num) * math.Pi / float64(f.den)
}

func (f piFraction) format(pi string) string {
	s := pi
	if f.num != 1 {
		s = strconv.Itoa(f.num) + "*" + pi
	}
	if f.den != 1 {
		s += "/" + strconv.Itoa(f.den)
	}
	return s
}

// symbolic renders v with the given pi symbol when |v| is a known fraction.
func symbolic(v float64, pi string) (string, bool) {
	sign := ""
	if v < 0 {
		sign, v = "-", -v
	}
	for _, f := range piFractions {
		if math.Abs(v-f.value()) < angleEpsilon {
			return sign + f.format(pi), true
		}
	}
	return "", false
}

// formatAngle prints full precision for non-symbolic values so exported
// circuits re-import exactly.
func formatAngle(v float64) string {
	if s, ok := symbolic(v, "pi"); ok {
		return s
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatAngles(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = formatAngle(v)
	}
	return strings.Join(parts, ", ")
}

// shortAngle is the compact form used in drawings.
func shortAngle(v float64) string {
	if s, ok := symbolic(v, "π"); ok {
		return strings.ReplaceAll(s, "*", "")
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
