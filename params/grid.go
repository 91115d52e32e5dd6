package params

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"github.com/qclab/quorch/log"
	"github.com/qclab/quorch/qaoa"
)

// A Grid describes the parameter search space swept by a batch of runs
type Grid struct {
	Algorithms []string `yaml:"classical_opt_alg"`
	Budgets    []int    `yaml:"budget"`
	NRounds    []int    `yaml:"n_rounds"`
}

// LoadGrid reads a YAML grid file
func LoadGrid(path string) (*Grid, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read grid file %q", path)
	}
	var g Grid
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, errors.Wrapf(err, "invalid grid file %q", path)
	}
	if len(g.Algorithms) == 0 || len(g.Budgets) == 0 || len(g.NRounds) == 0 {
		return nil, errors.Errorf("grid file %q must list classical_opt_alg, budget and n_rounds values", path)
	}
	return &g, nil
}

// LoadTemplate reads a YAML parameter template file
func LoadTemplate(path string) (*RunParams, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read template file %q", path)
	}
	var p RunParams
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrapf(err, "invalid template file %q", path)
	}
	return &p, nil
}

// optimiserOpts builds the optimisation options for one grid point
func optimiserOpts(algorithm string, budget int) (qaoa.Options, error) {
	switch algorithm {
	case qaoa.AlgNelderMead:
		return qaoa.Options{Algorithm: algorithm, Budget: budget, XTol: 0.001, Disp: true, Adaptive: true}, nil
	case qaoa.AlgCMAES, qaoa.AlgBFGS:
		return qaoa.Options{Algorithm: algorithm, Budget: budget}, nil
	default:
		return qaoa.Options{}, errors.Errorf("classical optimisation algorithm %q is not implemented", algorithm)
	}
}

// Generate expands the grid against the template and writes one ready JSON
// parameter file per grid point into outDir, named <alg>_<budget>_<rounds>.json.
// It returns the written file paths.
func Generate(grid *Grid, template *RunParams, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create output directory %q", outDir)
	}

	var written []string
	for _, alg := range grid.Algorithms {
		for _, budget := range grid.Budgets {
			for _, rounds := range grid.NRounds {
				opts, err := optimiserOpts(alg, budget)
				if err != nil {
					return written, err
				}

				run := *template
				run.Optimisation.Algorithm = alg
				run.Optimisation.Opts = opts
				run.Optimisation.NRounds = rounds
				run.Optimisation.AlphaTrial = make([]float64, rounds)
				run.Optimisation.BetaTrial = make([]float64, rounds)

				outPath := filepath.Join(outDir, fmt.Sprintf("%s_%d_%d.json", alg, budget, rounds))
				data, err := json.MarshalIndent(&run, "", "    ")
				if err != nil {
					return written, errors.Wrap(err, "failed to marshal parameter file")
				}
				log.Printf("Writing \t%s", outPath)
				if err := ioutil.WriteFile(outPath, data, 0644); err != nil {
					return written, errors.Wrapf(err, "failed to write parameter file %q", outPath)
				}
				written = append(written, outPath)
			}
		}
	}
	return written, nil
}
