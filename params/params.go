// Package params handles experiment parameter files: the YAML grid and
// template driving generation, and the ready JSON files consumed by runs.
package params

import (
	"encoding/json"
	"io/ioutil"

	"github.com/pkg/errors"

	"github.com/qclab/quorch/qaoa"
)

// Experiment identifies the experiment a run belongs to
type Experiment struct {
	Name        string `json:"name" yaml:"name"`
	TrackingURI string `json:"tracking_uri,omitempty" yaml:"tracking_uri,omitempty"`
}

// Optimisation holds the classical optimisation settings of a run
type Optimisation struct {
	Algorithm  string       `json:"classical_opt_alg" yaml:"classical_opt_alg"`
	Opts       qaoa.Options `json:"optimisation_opts" yaml:"optimisation_opts"`
	NRounds    int          `json:"n_rounds" yaml:"n_rounds"`
	AlphaTrial []float64    `json:"alpha_trial" yaml:"alpha_trial"`
	BetaTrial  []float64    `json:"beta_trial" yaml:"beta_trial"`
}

// RunParams is the content of a ready parameter file
type RunParams struct {
	Experiment   Experiment   `json:"experiment" yaml:"experiment"`
	Optimisation Optimisation `json:"classical_optimisation" yaml:"classical_optimisation"`
}

// Validate checks a parameter set for consistency before running it
func (p *RunParams) Validate() error {
	if p.Optimisation.NRounds <= 0 {
		return errors.Errorf("number of rounds must be positive, got %d", p.Optimisation.NRounds)
	}
	if p.Optimisation.Algorithm != p.Optimisation.Opts.Algorithm {
		return errors.Errorf("optimisation options algorithm %q not consistent with optimiser %q",
			p.Optimisation.Opts.Algorithm, p.Optimisation.Algorithm)
	}
	if err := p.Optimisation.Opts.Validate(); err != nil {
		return err
	}
	if len(p.Optimisation.AlphaTrial) != p.Optimisation.NRounds || len(p.Optimisation.BetaTrial) != p.Optimisation.NRounds {
		return errors.Errorf("trial angles must hold %d values per set, got alpha:%d beta:%d",
			p.Optimisation.NRounds, len(p.Optimisation.AlphaTrial), len(p.Optimisation.BetaTrial))
	}
	return nil
}

// LoadRunParams reads and validates a ready parameter file
func LoadRunParams(path string) (*RunParams, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read parameter file %q", path)
	}
	var p RunParams
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrapf(err, "invalid parameter file %q", path)
	}
	if err := p.Validate(); err != nil {
		return nil, errors.Wrapf(err, "inconsistent parameter file %q", path)
	}
	return &p, nil
}
