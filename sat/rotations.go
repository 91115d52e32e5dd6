package sat

import (
	"github.com/pkg/errors"
)

// A RotationTerm represents a single coefficient of the problem Hamiltonian.
// The term acts as a product of Pauli Z operators on the listed qubits.
type RotationTerm struct {
	Qubits      []int   `json:"qubits"`
	Coefficient float64 `json:"coefficient"`
}

// Rotations represents a set of Z-rotation terms sharing the same number of
// interacting qubits (single, double or triple qubit terms for 3-SAT).
type Rotations struct {
	Terms   []RotationTerm
	nQubits int
}

// NewRotations builds a Rotations set over a circuit of nQubits qubits
func NewRotations(terms []RotationTerm, nQubits int) (*Rotations, error) {
	for _, term := range terms {
		for _, q := range term.Qubits {
			if q < 0 || q >= nQubits {
				return nil, errors.Errorf("rotation term references qubit %d outside of the %d qubits range", q, nQubits)
			}
		}
	}
	return &Rotations{Terms: terms, nQubits: nQubits}, nil
}

// Interactions returns the number of qubits involved in each term of the set
func (r *Rotations) Interactions() int {
	if len(r.Terms) == 0 {
		return 0
	}
	return len(r.Terms[0].Qubits)
}

// Hamiltonian returns the diagonal of the Hamiltonian associated to this
// rotation set, over the 2^n computational basis states. Basis state bit i,
// most significant bit first, is the value of qubit i.
func (r *Rotations) Hamiltonian() []float64 {
	dim := 1 << uint(r.nQubits)
	diag := make([]float64, dim)
	for _, term := range r.Terms {
		for b := 0; b < dim; b++ {
			z := 1.0
			for _, q := range term.Qubits {
				if b>>uint(r.nQubits-1-q)&1 == 1 {
					z = -z
				}
			}
			diag[b] += term.Coefficient * z
		}
	}
	return diag
}
