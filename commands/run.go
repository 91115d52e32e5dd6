package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/qclab/quorch/helper/stringutil"
	"github.com/qclab/quorch/log"
	"github.com/qclab/quorch/params"
	"github.com/qclab/quorch/qaoa"
	"github.com/qclab/quorch/sat"
)

var (
	runInstanceFile string
	runParamsFile   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single experiment locally",
	Long: `Run one QAOA experiment on the local machine: simulate the circuit
of the given 3-SAT instance, drive the classical optimisation described by
the parameter file and write the evaluation trace and best result as CSV
files in the results directory. This is the command executed by generated
batch scripts on the compute node side.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		if err := setupTelemetry(cfg); err != nil {
			return err
		}

		instance, err := sat.LoadInstance(runInstanceFile)
		if err != nil {
			return err
		}
		p, err := params.LoadRunParams(runParamsFile)
		if err != nil {
			return err
		}
		circuit, err := qaoa.NewCircuit(instance, p.Optimisation.NRounds)
		if err != nil {
			return err
		}

		log.Printf("Running experiment %q: instance %q with %d rounds of %s",
			p.Experiment.Name, runInstanceFile, p.Optimisation.NRounds, p.Optimisation.Algorithm)
		result, err := circuit.Optimize(p.Optimisation.AlphaTrial, p.Optimisation.BetaTrial, p.Optimisation.Opts)
		if err != nil {
			return err
		}

		resultsDir := cfg.ResultsDirectory
		if err := os.MkdirAll(resultsDir, 0755); err != nil {
			return err
		}
		prefix := fmt.Sprintf("%s_%s", stringutil.FileStem(runInstanceFile), stringutil.FileStem(runParamsFile))
		tracePath := filepath.Join(resultsDir, prefix+"_trace.csv")
		bestPath := filepath.Join(resultsDir, prefix+"_best.csv")
		if err := result.WriteTraceFile(tracePath); err != nil {
			return err
		}
		if err := result.WriteBestFile(bestPath, p.Optimisation.Opts); err != nil {
			return err
		}

		fmt.Printf("energy: %g\n", result.Energy)
		fmt.Printf("p_success: %g\n", result.PSuccess)
		fmt.Printf("evaluations: %d\n", result.Evaluations)
		fmt.Printf("trace: %s\n", tracePath)
		fmt.Printf("best: %s\n", bestPath)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(runCmd)
	runCmd.PersistentFlags().StringVarP(&runInstanceFile, "instance", "i", "", "3-SAT instance file of the experiment")
	runCmd.PersistentFlags().StringVarP(&runParamsFile, "params", "P", "", "Ready parameter file of the experiment")
	runCmd.MarkPersistentFlagRequired("instance")
	runCmd.MarkPersistentFlagRequired("params")
}
