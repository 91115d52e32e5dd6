// Package qaoa simulates the QAOA ansatz built for 3-SAT instances and drives
// the classical search over its rotation angles.
package qaoa

import (
	"math"
	"math/cmplx"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/qclab/quorch/sat"
)

// A Circuit is the QAOA ansatz for a given instance: n rounds of the problem
// phase separator followed by the transverse field mixer.
type Circuit struct {
	Instance *sat.Instance
	Rounds   int

	diag []float64
}

// NewCircuit builds the ansatz for the given instance and number of rounds
func NewCircuit(instance *sat.Instance, rounds int) (*Circuit, error) {
	if rounds <= 0 {
		return nil, errors.Errorf("number of rounds must be positive, got %d", rounds)
	}
	return &Circuit{
		Instance: instance,
		Rounds:   rounds,
		diag:     instance.Hamiltonian(),
	}, nil
}

// Hamiltonian returns the diagonal of the problem Hamiltonian
func (c *Circuit) Hamiltonian() []float64 {
	return c.diag
}

// Simulate evolves the statevector for the given angle settings. alpha drives
// the phase separator of each round, beta the mixer; both must hold one angle
// per round.
func (c *Circuit) Simulate(alpha, beta []float64) ([]complex128, error) {
	if len(alpha) != c.Rounds {
		return nil, errors.Errorf("incorrect number of alpha parameters passed, should be %d, got %d", c.Rounds, len(alpha))
	}
	if len(beta) != c.Rounds {
		return nil, errors.Errorf("incorrect number of beta parameters passed, should be %d, got %d", c.Rounds, len(beta))
	}

	n := c.Instance.NQubits
	dim := 1 << uint(n)

	// Hadamard layer: uniform superposition
	psi := make([]complex128, dim)
	amp := complex(1/math.Sqrt(float64(dim)), 0)
	for b := range psi {
		psi[b] = amp
	}

	for r := 0; r < c.Rounds; r++ {
		c.applyPhaseSeparator(psi, alpha[r])
		for q := 0; q < n; q++ {
			c.applyMixer(psi, q, beta[r])
		}
	}
	return psi, nil
}

// applyPhaseSeparator applies every Z-rotation term of the round at once.
// Each term is RZ(theta) with theta = -2*alpha*coefficient conjugated by CNOT
// ladders, which on basis state b amounts to the phase exp(i*alpha*H[b]).
func (c *Circuit) applyPhaseSeparator(psi []complex128, alpha float64) {
	for b := range psi {
		psi[b] *= cmplx.Exp(complex(0, alpha*c.diag[b]))
	}
}

// applyMixer applies RX(beta) on the given qubit
func (c *Circuit) applyMixer(psi []complex128, qubit int, beta float64) {
	n := c.Instance.NQubits
	stride := 1 << uint(n-1-qubit)
	cos := complex(math.Cos(beta/2), 0)
	isin := complex(0, math.Sin(beta/2))
	for base := 0; base < len(psi); base += stride << 1 {
		for off := 0; off < stride; off++ {
			i := base + off
			j := i + stride
			a, b := psi[i], psi[j]
			psi[i] = cos*a - isin*b
			psi[j] = cos*b - isin*a
		}
	}
}

// Energy returns the expectation <psi|H|psi> of the problem Hamiltonian
func (c *Circuit) Energy(psi []complex128) float64 {
	return floats.Dot(Pdf(psi), c.diag)
}

// Pdf returns the probability distribution over basis states
func Pdf(psi []complex128) []float64 {
	pdf := make([]float64, len(psi))
	for b, a := range psi {
		pdf[b] = real(a)*real(a) + imag(a)*imag(a)
	}
	return pdf
}

// PSuccess returns the probability of measuring the satisfying assignment
func PSuccess(pdf []float64, instance *sat.Instance) (float64, error) {
	idx, err := instance.AssignmentIndex()
	if err != nil {
		return 0, err
	}
	if idx < 0 || idx >= len(pdf) {
		return 0, errors.Errorf("assignment index %d out of range for a %d-state distribution", idx, len(pdf))
	}
	return pdf[idx], nil
}
