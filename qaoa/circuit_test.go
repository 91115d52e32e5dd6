package qaoa

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qclab/quorch/sat"
)

// singleZInstance builds an n-qubit instance whose Hamiltonian is a single Z
// term with coefficient 1 on the given qubit. For such an instance the energy
// after one QAOA round is -sin(beta)*sin(2*alpha).
func singleZInstance(t *testing.T, nQubits, qubit int) *sat.Instance {
	t.Helper()
	single, err := sat.NewRotations([]sat.RotationTerm{{Qubits: []int{qubit}, Coefficient: 1}}, nQubits)
	require.NoError(t, err)
	double, err := sat.NewRotations(nil, nQubits)
	require.NoError(t, err)
	triple, err := sat.NewRotations(nil, nQubits)
	require.NoError(t, err)

	assgn := make([]byte, nQubits)
	for i := range assgn {
		assgn[i] = '0'
	}
	// ground state of Z is |1>
	assgn[qubit] = '1'
	return &sat.Instance{
		NQubits:       nQubits,
		SatAssignment: string(assgn),
		Single:        single,
		Double:        double,
		Triple:        triple,
	}
}

func singleZEnergy(alpha, beta float64) float64 {
	return -math.Sin(beta) * math.Sin(2*alpha)
}

func TestNewCircuitRejectsNonPositiveRounds(t *testing.T) {
	t.Parallel()
	_, err := NewCircuit(singleZInstance(t, 1, 0), 0)
	require.Error(t, err)
}

func TestSimulateRejectsWrongAngleCount(t *testing.T) {
	t.Parallel()
	circuit, err := NewCircuit(singleZInstance(t, 1, 0), 2)
	require.NoError(t, err)
	_, err = circuit.Simulate([]float64{0.1}, []float64{0.1, 0.2})
	require.Error(t, err)
	_, err = circuit.Simulate([]float64{0.1, 0.2}, []float64{0.1})
	require.Error(t, err)
}

func TestSimulateUniformSuperpositionEnergy(t *testing.T) {
	t.Parallel()
	circuit, err := NewCircuit(singleZInstance(t, 1, 0), 1)
	require.NoError(t, err)

	// zero angles leave the uniform superposition untouched
	psi, err := circuit.Simulate([]float64{0}, []float64{0})
	require.NoError(t, err)
	assert.InDelta(t, 0, circuit.Energy(psi), 1e-12)

	pdf := Pdf(psi)
	require.Len(t, pdf, 2)
	assert.InDelta(t, 0.5, pdf[0], 1e-12)
	assert.InDelta(t, 0.5, pdf[1], 1e-12)
}

func TestSimulateSingleQubitAnalytic(t *testing.T) {
	t.Parallel()
	circuit, err := NewCircuit(singleZInstance(t, 1, 0), 1)
	require.NoError(t, err)

	for _, angles := range [][2]float64{
		{0.3, 0.7},
		{math.Pi / 4, math.Pi / 2},
		{-0.9, 1.3},
	} {
		psi, err := circuit.Simulate([]float64{angles[0]}, []float64{angles[1]})
		require.NoError(t, err)
		assert.InDelta(t, singleZEnergy(angles[0], angles[1]), circuit.Energy(psi), 1e-12)
	}
}

func TestSimulateReachesGroundState(t *testing.T) {
	t.Parallel()
	inst := singleZInstance(t, 1, 0)
	circuit, err := NewCircuit(inst, 1)
	require.NoError(t, err)

	psi, err := circuit.Simulate([]float64{math.Pi / 4}, []float64{math.Pi / 2})
	require.NoError(t, err)
	assert.InDelta(t, -1, circuit.Energy(psi), 1e-12)

	pSuccess, err := PSuccess(Pdf(psi), inst)
	require.NoError(t, err)
	assert.InDelta(t, 1, pSuccess, 1e-12)
}

func TestSimulateQubitOrderingInvariance(t *testing.T) {
	t.Parallel()
	// the same single Z term must yield the same energy wherever it sits
	for _, qubit := range []int{0, 1, 2} {
		circuit, err := NewCircuit(singleZInstance(t, 3, qubit), 1)
		require.NoError(t, err)
		psi, err := circuit.Simulate([]float64{0.3}, []float64{0.7})
		require.NoError(t, err)
		assert.InDelta(t, singleZEnergy(0.3, 0.7), circuit.Energy(psi), 1e-12)
	}
}

func TestSimulateStatevectorIsNormalized(t *testing.T) {
	t.Parallel()
	inst, err := sat.ParseInstance([]byte(`{
		"n_qubits": 3,
		"sat_assgn": "011",
		"single_qubit": {"rotations": [[
			{"qubits": [0], "coefficient": 0.35},
			{"qubits": [1], "coefficient": -0.2},
			{"qubits": [2], "coefficient": 0.1}
		]]},
		"double_qubit": {"rotations": [[
			{"qubits": [0, 1], "coefficient": 0.4},
			{"qubits": [1, 2], "coefficient": -0.15}
		]]},
		"triple_qubit": {"rotations": [[
			{"qubits": [0, 1, 2], "coefficient": 0.05}
		]]}
	}`))
	require.NoError(t, err)

	circuit, err := NewCircuit(inst, 2)
	require.NoError(t, err)
	psi, err := circuit.Simulate([]float64{0.4, -0.2}, []float64{1.1, 0.3})
	require.NoError(t, err)

	var norm float64
	for _, p := range Pdf(psi) {
		norm += p
	}
	assert.InDelta(t, 1, norm, 1e-12)
}

func TestPSuccessOutOfRange(t *testing.T) {
	t.Parallel()
	inst := &sat.Instance{NQubits: 1, SatAssignment: "11"}
	_, err := PSuccess([]float64{0.5, 0.5}, inst)
	require.Error(t, err)
}
