package commands

import (
	"github.com/spf13/cobra"

	"github.com/qclab/quorch/slurm"
)

var cancelCmd = &cobra.Command{
	Use:   "cancel <job id or descriptor>",
	Short: "Cancel a submitted job",
	Long:  `Cancel a submitted job and record the cancellation in the local registry.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		executor, err := slurm.NewExecutor(cfg)
		if err != nil {
			return err
		}
		jobID := args[0]
		if job, ferr := executor.Registry.Find(jobID); ferr == nil {
			jobID = job.JobID
		}
		return executor.CancelJob(jobID)
	},
}

func init() {
	RootCmd.AddCommand(cancelCmd)
}
