// Package sat models 3-SAT problem instances encoded as sets of Pauli Z
// rotation terms, as produced by the instance generation pipeline.
package sat

import (
	"encoding/json"
	"io/ioutil"
	"strconv"

	"github.com/pkg/errors"

	"gonum.org/v1/gonum/floats"
)

// An Instance is a 3-SAT problem instance expressed as the single, double and
// triple qubit Z terms of its problem Hamiltonian, plus the known satisfying
// assignment used to score runs.
type Instance struct {
	NQubits       int
	SatAssignment string
	Single        *Rotations
	Double        *Rotations
	Triple        *Rotations
}

// rawInstance mirrors the on-disk JSON layout of generated instance files
type rawInstance struct {
	NQubits     int    `json:"n_qubits"`
	SatAssgn    string `json:"sat_assgn"`
	SingleQubit struct {
		Rotations [][]RotationTerm `json:"rotations"`
	} `json:"single_qubit"`
	DoubleQubit struct {
		Rotations [][]RotationTerm `json:"rotations"`
	} `json:"double_qubit"`
	TripleQubit struct {
		Rotations [][]RotationTerm `json:"rotations"`
	} `json:"triple_qubit"`
}

// LoadInstance reads and parses an instance file
func LoadInstance(path string) (*Instance, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read instance file %q", path)
	}
	inst, err := ParseInstance(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse instance file %q", path)
	}
	return inst, nil
}

// ParseInstance decodes a raw instance document.
//
// The generation pipeline serializes each instance as a one-element JSON
// array whose single element is itself a JSON-encoded string. Plain objects
// are accepted too.
func ParseInstance(data []byte) (*Instance, error) {
	var wrapper []string
	if err := json.Unmarshal(data, &wrapper); err == nil {
		if len(wrapper) == 0 {
			return nil, errors.New("empty instance document")
		}
		data = []byte(wrapper[0])
	}

	var raw rawInstance
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "invalid instance document")
	}
	if raw.NQubits <= 0 {
		return nil, errors.Errorf("instance must have a positive number of qubits, got %d", raw.NQubits)
	}
	if len(raw.SatAssgn) != raw.NQubits {
		return nil, errors.Errorf("satisfying assignment %q doesn't match the %d qubits of the instance", raw.SatAssgn, raw.NQubits)
	}

	inst := &Instance{NQubits: raw.NQubits, SatAssignment: raw.SatAssgn}
	var err error
	if inst.Single, err = NewRotations(firstRotationSet(raw.SingleQubit.Rotations), raw.NQubits); err != nil {
		return nil, err
	}
	if inst.Double, err = NewRotations(firstRotationSet(raw.DoubleQubit.Rotations), raw.NQubits); err != nil {
		return nil, err
	}
	if inst.Triple, err = NewRotations(firstRotationSet(raw.TripleQubit.Rotations), raw.NQubits); err != nil {
		return nil, err
	}
	return inst, nil
}

func firstRotationSet(sets [][]RotationTerm) []RotationTerm {
	if len(sets) == 0 {
		return nil
	}
	return sets[0]
}

// Hamiltonian returns the full problem Hamiltonian diagonal, the sum of the
// single, double and triple qubit term contributions.
func (i *Instance) Hamiltonian() []float64 {
	diag := i.Single.Hamiltonian()
	floats.Add(diag, i.Double.Hamiltonian())
	floats.Add(diag, i.Triple.Hamiltonian())
	return diag
}

// AssignmentIndex returns the computational basis index of the satisfying
// assignment (bit i of the assignment string is the value of qubit i).
func (i *Instance) AssignmentIndex() (int, error) {
	idx, err := strconv.ParseInt(i.SatAssignment, 2, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "satisfying assignment %q is not a binary string", i.SatAssignment)
	}
	return int(idx), nil
}
