package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/qclab/quorch/slurm"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch for new parameter files and submit them",
	Long: `Watch the ready parameters directory and submit every instance
against each new parameter file as it appears. Runs until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		if err := setupTelemetry(cfg); err != nil {
			return err
		}
		executor, err := slurm.NewExecutor(cfg)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		err = executor.WatchAndSubmit(ctx, cfg.InstancesDirectory, cfg.ParamsDirectory)
		if err == context.Canceled {
			return nil
		}
		return err
	},
}

func init() {
	RootCmd.AddCommand(watchCmd)
}
