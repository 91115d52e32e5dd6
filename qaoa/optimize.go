package qaoa

import (
	"time"

	metrics "github.com/armon/go-metrics"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"

	"github.com/qclab/quorch/log"
)

// Supported classical optimisation algorithms
const (
	AlgNelderMead = "nelder-mead"
	AlgCMAES      = "cma-es"
	AlgBFGS       = "bfgs"
)

// Options holds the classical optimisation algorithm parameters carried by
// ready parameter files.
type Options struct {
	Algorithm string  `json:"classical_opt_alg" yaml:"classical_opt_alg"`
	Budget    int     `json:"budget" yaml:"budget"`
	XTol      float64 `json:"xtol,omitempty" yaml:"xtol,omitempty"`
	Adaptive  bool    `json:"adaptive,omitempty" yaml:"adaptive,omitempty"`
	Disp      bool    `json:"disp,omitempty" yaml:"disp,omitempty"`
}

// Validate checks that the requested algorithm is implemented
func (o Options) Validate() error {
	switch o.Algorithm {
	case AlgNelderMead, AlgCMAES, AlgBFGS:
		return nil
	default:
		return errors.Errorf("classical optimisation algorithm %q is not implemented", o.Algorithm)
	}
}

// A TracePoint records the angle settings and resulting energy of one cost
// function evaluation.
type TracePoint struct {
	Alpha  []float64
	Beta   []float64
	Energy float64
}

// Result is the outcome of a classical optimisation run
type Result struct {
	Alpha       []float64
	Beta        []float64
	Energy      float64
	PSuccess    float64
	Evaluations int
	Trace       []TracePoint
}

// Optimize runs the classical search over the concatenated [alpha..., beta...]
// angle vector, minimising the circuit energy. The trial angles seed the
// search and must hold one value per round.
func (c *Circuit) Optimize(alphaTrial, betaTrial []float64, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(alphaTrial) != c.Rounds || len(betaTrial) != c.Rounds {
		return nil, errors.Errorf("trial angles must hold %d values per set, got alpha:%d beta:%d",
			c.Rounds, len(alphaTrial), len(betaTrial))
	}

	start := time.Now()
	var trace []TracePoint
	evaluations := 0

	cost := func(x []float64) float64 {
		alpha := x[:c.Rounds]
		beta := x[c.Rounds:]
		psi, err := c.Simulate(alpha, beta)
		if err != nil {
			// angle slices are sized above, Simulate can't reject them
			panic(err)
		}
		energy := c.Energy(psi)
		if opts.Disp {
			log.Printf("Classical optimization iteration %d: \t alpha=%v \t beta=%v \t energy=%f",
				evaluations, alpha, beta, energy)
		}
		metrics.SetGauge([]string{"qaoa", "energy"}, float32(energy))
		trace = append(trace, TracePoint{
			Alpha:  append([]float64(nil), alpha...),
			Beta:   append([]float64(nil), beta...),
			Energy: energy,
		})
		evaluations++
		return energy
	}

	x0 := make([]float64, 0, 2*c.Rounds)
	x0 = append(x0, alphaTrial...)
	x0 = append(x0, betaTrial...)

	method, settings, err := buildMethod(opts)
	if err != nil {
		return nil, err
	}

	problem := optimize.Problem{Func: cost}
	if opts.Algorithm == AlgBFGS {
		// BFGS needs a gradient, estimated by finite differences through the
		// same cost so gradient evaluations land in the trace
		problem.Grad = func(grad, x []float64) {
			fd.Gradient(grad, cost, x, nil)
		}
	}

	res, err := optimize.Minimize(problem, x0, settings, method)
	if err != nil && res == nil {
		return nil, errors.Wrapf(err, "classical optimisation with %q failed", opts.Algorithm)
	}
	if err != nil {
		// Keep the best point found so far, budget-capped searches routinely
		// stop on an unconverged state
		log.Debugf("classical optimisation with %q stopped early: %v", opts.Algorithm, err)
	}
	metrics.MeasureSince([]string{"qaoa", "optimise", opts.Algorithm}, start)
	metrics.IncrCounter([]string{"qaoa", "optimise", "evaluations"}, float32(evaluations))

	result := &Result{
		Alpha:       append([]float64(nil), res.X[:c.Rounds]...),
		Beta:        append([]float64(nil), res.X[c.Rounds:]...),
		Energy:      res.F,
		Evaluations: evaluations,
		Trace:       trace,
	}

	psi, err := c.Simulate(result.Alpha, result.Beta)
	if err != nil {
		return nil, err
	}
	result.PSuccess, err = PSuccess(Pdf(psi), c.Instance)
	if err != nil {
		return nil, err
	}

	log.Printf("Optimal sol:\t alpha:%v beta:%v energy:%f", result.Alpha, result.Beta, result.Energy)
	return result, nil
}

func buildMethod(opts Options) (optimize.Method, *optimize.Settings, error) {
	settings := &optimize.Settings{}
	if opts.Budget > 0 {
		settings.FuncEvaluations = opts.Budget
	}

	switch opts.Algorithm {
	case AlgNelderMead:
		if opts.XTol > 0 {
			settings.Converger = &optimize.FunctionConverge{Absolute: opts.XTol, Iterations: 50}
		}
		return &optimize.NelderMead{}, settings, nil
	case AlgCMAES:
		return &optimize.CmaEsChol{}, settings, nil
	case AlgBFGS:
		return &optimize.BFGS{}, settings, nil
	default:
		return nil, nil, errors.Errorf("classical optimisation algorithm %q is not implemented", opts.Algorithm)
	}
}
