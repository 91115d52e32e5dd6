package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/qclab/quorch/slurm"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor <job id or descriptor>",
	Short: "Monitor a submitted job",
	Long: `Monitor a submitted job until it reaches a terminal Slurm state,
tailing its output files as they grow.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		if err := setupTelemetry(cfg); err != nil {
			return err
		}
		executor, err := slurm.NewExecutor(cfg)
		if err != nil {
			return err
		}
		job, err := executor.Registry.Find(args[0])
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := executor.MonitorJob(ctx, job); err != nil {
			return err
		}
		instance, params := slurm.ParseDescriptor(job.Descriptor)
		fmt.Printf("Job %q (instance %s, params %s) finished with state %s\n",
			job.Descriptor, instance, params, job.State)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(monitorCmd)
}
