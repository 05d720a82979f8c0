package quantum

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Pre-compiled regexps for QASM parsing.
var (
	singleGateRegex      = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\];?$`)
	singleGateParamRegex = regexp.MustCompile(`^(\w+)\s*\(\s*(` + paramPattern + `)\s*\)\s+q\[(\d+)\];?$`)
	twoQubitRegex        = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\],\s*q\[(\d+)\];?$`)
	twoQubitParamRegex   = regexp.MustCompile(`^(\w+)\s*\(\s*(` + paramPattern + `)\s*\)\s+q\[(\d+)\],\s*q\[(\d+)\];?$`)
	measureRegex         = regexp.MustCompile(`^measure\s+q\[(\d+)\]\s*->\s*\w+\[(\d+)\];?$`)
	qregRegex            = regexp.MustCompile(`^qreg\s+\w+\[(\d+)\];?$`)
)

// qasmAliases maps alternative qelib1 spellings onto vocabulary names.
var qasmAliases = map[string]string{
	"ID":   "I",
	"CNOT": "CX",
	"U1":   "P",
	"CU1":  "CP",
}

// ParseQASM builds a circuit from OpenQASM 2.0 text. Gates are scheduled into
// the earliest layer in which all of their qubits are free; a barrier
// aligns every qubit to the latest layer reached so far. Measurements are
// accepted and dropped, since sampling is done by the Sampler.
func ParseQASM(qasm string) (*Circuit, error) {
	numQubits := 0
	var gates []Gate
	var frontier []int

	place := func(g Gate) {
		step := 0
		for _, q := range g.Qubits() {
			if q < len(frontier) {
				step = max(step, frontier[q])
			}
		}
		g.Step = step
		for _, q := range g.Qubits() {
			if q < len(frontier) {
				frontier[q] = step + 1
			}
		}
		gates = append(gates, g)
	}

	for idx, raw := range strings.Split(qasm, "\n") {
		lineNo := idx + 1
		line := strings.TrimSpace(raw)
		if i := strings.Index(line, "//"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "OPENQASM"), strings.HasPrefix(line, "include"), strings.HasPrefix(line, "creg"):
			continue
		case strings.HasPrefix(line, "qreg"):
			matches := qregRegex.FindStringSubmatch(line)
			if matches == nil {
				return nil, fmt.Errorf("%w: line %d: malformed qreg %q", ErrInvalidCircuit, lineNo, line)
			}
			if numQubits != 0 {
				return nil, fmt.Errorf("%w: line %d: only one quantum register is supported", ErrInvalidCircuit, lineNo)
			}
			numQubits, _ = strconv.Atoi(matches[1])
			if err := checkWidth(numQubits); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			frontier = make([]int, numQubits)
			continue
		case strings.HasPrefix(line, "barrier"):
			top := 0
			for _, f := range frontier {
				top = max(top, f)
			}
			for q := range frontier {
				frontier[q] = top
			}
			continue
		case measureRegex.MatchString(line):
			continue
		}

		if numQubits == 0 {
			return nil, fmt.Errorf("%w: line %d: gate before qreg declaration", ErrInvalidCircuit, lineNo)
		}
		g, err := parseGateLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := g.validate(numQubits); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		place(g)
	}

	if numQubits == 0 {
		return nil, fmt.Errorf("%w: no qreg declaration", ErrInvalidCircuit)
	}
	depth := 0
	for _, f := range frontier {
		depth = max(depth, f)
	}
	return NewCircuit(numQubits, depth, gates)
}

func gateName(s string) string {
	name := strings.ToUpper(s)
	if alias, ok := qasmAliases[name]; ok {
		return alias
	}
	return name
}

func parseGateLine(line string) (Gate, error) {
	if matches := twoQubitParamRegex.FindStringSubmatch(line); matches != nil {
		theta, ok := parseAngle(matches[2])
		if !ok {
			return Gate{}, fmt.Errorf("%w: bad angle %q", ErrInvalidCircuit, matches[2])
		}
		control, _ := strconv.Atoi(matches[3])
		target, _ := strconv.Atoi(matches[4])
		return NewControlledGate(gateName(matches[1]), control, target, 0, theta), nil
	}
	if matches := twoQubitRegex.FindStringSubmatch(line); matches != nil {
		control, _ := strconv.Atoi(matches[2])
		target, _ := strconv.Atoi(matches[3])
		return NewControlledGate(gateName(matches[1]), control, target, 0), nil
	}
	if matches := singleGateParamRegex.FindStringSubmatch(line); matches != nil {
		theta, ok := parseAngle(matches[2])
		if !ok {
			return Gate{}, fmt.Errorf("%w: bad angle %q", ErrInvalidCircuit, matches[2])
		}
		target, _ := strconv.Atoi(matches[3])
		return NewGate(gateName(matches[1]), target, 0, theta), nil
	}
	if matches := singleGateRegex.FindStringSubmatch(line); matches != nil {
		target, _ := strconv.Atoi(matches[2])
		return NewGate(gateName(matches[1]), target, 0), nil
	}
	return Gate{}, fmt.Errorf("%w: unsupported statement %q", ErrInvalidCircuit, line)
}
