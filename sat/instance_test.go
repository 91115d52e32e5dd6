package sat

import (
	"encoding/json"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testInstanceDoc = `{
	"n_qubits": 3,
	"sat_assgn": "101",
	"single_qubit": {"rotations": [[
		{"qubits": [0], "coefficient": 0.5},
		{"qubits": [2], "coefficient": -0.25}
	]]},
	"double_qubit": {"rotations": [[
		{"qubits": [0, 1], "coefficient": 0.75}
	]]},
	"triple_qubit": {"rotations": [[
		{"qubits": [0, 1, 2], "coefficient": -0.125}
	]]}
}`

func TestParseInstance(t *testing.T) {
	t.Parallel()
	inst, err := ParseInstance([]byte(testInstanceDoc))
	require.NoError(t, err)
	require.Equal(t, 3, inst.NQubits)
	require.Equal(t, "101", inst.SatAssignment)
	require.Len(t, inst.Single.Terms, 2)
	require.Len(t, inst.Double.Terms, 1)
	require.Len(t, inst.Triple.Terms, 1)
	assert.Equal(t, 1, inst.Single.Interactions())
	assert.Equal(t, 2, inst.Double.Interactions())
	assert.Equal(t, 3, inst.Triple.Interactions())
}

func TestParseInstanceDoubleEncoded(t *testing.T) {
	t.Parallel()
	// Generated files hold a one-element array of JSON-encoded strings
	wrapped, err := json.Marshal([]string{testInstanceDoc})
	require.NoError(t, err)

	inst, err := ParseInstance(wrapped)
	require.NoError(t, err)
	require.Equal(t, 3, inst.NQubits)
	require.Equal(t, "101", inst.SatAssignment)
}

func TestLoadInstance(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "expt_n3.json")
	require.NoError(t, ioutil.WriteFile(path, []byte(testInstanceDoc), 0644))

	inst, err := LoadInstance(path)
	require.NoError(t, err)
	require.Equal(t, 3, inst.NQubits)

	_, err = LoadInstance(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestParseInstanceErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		doc  string
	}{
		{name: "NotJSON", doc: "not json"},
		{name: "EmptyWrapper", doc: "[]"},
		{name: "NoQubits", doc: `{"sat_assgn": ""}`},
		{name: "AssignmentMismatch", doc: `{"n_qubits": 3, "sat_assgn": "10"}`},
		{name: "QubitOutOfRange", doc: `{"n_qubits": 2, "sat_assgn": "10",
			"single_qubit": {"rotations": [[{"qubits": [5], "coefficient": 1}]]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseInstance([]byte(tt.doc))
			require.Error(t, err)
		})
	}
}

func TestHamiltonianSingleTerm(t *testing.T) {
	t.Parallel()
	rot, err := NewRotations([]RotationTerm{{Qubits: []int{1}, Coefficient: 1}}, 2)
	require.NoError(t, err)
	// qubit 1 is the least significant bit of the basis index
	require.Equal(t, []float64{1, -1, 1, -1}, rot.Hamiltonian())
}

func TestHamiltonianDoubleTerm(t *testing.T) {
	t.Parallel()
	rot, err := NewRotations([]RotationTerm{{Qubits: []int{0, 1}, Coefficient: 2}}, 2)
	require.NoError(t, err)
	// Z0*Z1 is +1 on aligned bits, -1 otherwise
	require.Equal(t, []float64{2, -2, -2, 2}, rot.Hamiltonian())
}

func TestInstanceHamiltonianSumsContributions(t *testing.T) {
	t.Parallel()
	inst, err := ParseInstance([]byte(`{
		"n_qubits": 1,
		"sat_assgn": "1",
		"single_qubit": {"rotations": [[{"qubits": [0], "coefficient": 1}]]},
		"double_qubit": {"rotations": [[]]},
		"triple_qubit": {"rotations": [[]]}
	}`))
	require.NoError(t, err)
	require.Equal(t, []float64{1, -1}, inst.Hamiltonian())

	idx, err := inst.AssignmentIndex()
	require.NoError(t, err)
	require.Equal(t, 1, idx)
}

func TestAssignmentIndex(t *testing.T) {
	t.Parallel()
	inst := &Instance{NQubits: 3, SatAssignment: "101"}
	idx, err := inst.AssignmentIndex()
	require.NoError(t, err)
	require.Equal(t, 5, idx)

	inst.SatAssignment = "1x1"
	_, err = inst.AssignmentIndex()
	require.Error(t, err)
}
