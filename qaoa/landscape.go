package qaoa

import (
	"encoding/csv"
	"io"
	"math"

	"github.com/pkg/errors"

	"github.com/qclab/quorch/log"
	"github.com/qclab/quorch/sat"
)

// DefaultLandscapeStep is the default grid step of a landscape sweep
const DefaultLandscapeStep = 0.1

// A LandscapePoint is the energy measured at one (alpha, beta) grid point
type LandscapePoint struct {
	Alpha  float64
	Beta   float64
	Energy float64
}

// BuildLandscape sweeps alpha and beta over [-pi, pi) with the given step and
// returns the energy at each grid point. Landscapes are only defined for a
// single round ansatz.
func BuildLandscape(instance *sat.Instance, step float64, disp bool) ([]LandscapePoint, error) {
	if step <= 0 {
		return nil, errors.Errorf("landscape step must be positive, got %f", step)
	}
	circuit, err := NewCircuit(instance, 1)
	if err != nil {
		return nil, err
	}

	var points []LandscapePoint
	iteration := 0
	for alpha := -math.Pi; alpha < math.Pi; alpha += step {
		for beta := -math.Pi; beta < math.Pi; beta += step {
			psi, err := circuit.Simulate([]float64{alpha}, []float64{beta})
			if err != nil {
				return nil, err
			}
			energy := circuit.Energy(psi)
			iteration++
			if disp {
				log.Printf("Landscape iteration %d: \t alpha=%f \t beta=%f \t energy=%f", iteration, alpha, beta, energy)
			}
			points = append(points, LandscapePoint{Alpha: alpha, Beta: beta, Energy: energy})
		}
	}
	return points, nil
}

// WriteLandscape writes a landscape as CSV
func WriteLandscape(w io.Writer, points []LandscapePoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"alpha", "beta", "energy"}); err != nil {
		return errors.Wrap(err, "failed to write landscape header")
	}
	for _, p := range points {
		row := []string{formatFloat(p.Alpha), formatFloat(p.Beta), formatFloat(p.Energy)}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, "failed to write landscape row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "failed to flush landscape")
}
