package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// RootCmd is the root of quorch commands tree
var RootCmd = &cobra.Command{
	Use:   "quorch",
	Short: "A QAOA experiment orchestrator",
	Long: `quorch drives batches of QAOA 3-SAT experiments on a Slurm cluster.
It generates parameter sweeps, stages instance and parameter files on the
cluster over SSH, submits one batch job per pair and monitors them, and runs
single experiments locally on the compute node side.
`,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		err := cmd.Help()
		if err != nil {
			fmt.Print(err)
		}
	},
}

var noColor bool

func init() {
	RootCmd.PersistentFlags().BoolVar(&noColor, "no_color", false, "Disable coloring output")
}

func errExit(msg interface{}) {
	fmt.Println("Error:", msg)
	os.Exit(1)
}
