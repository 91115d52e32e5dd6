package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/qclab/quorch/log"
	"github.com/qclab/quorch/slurm"
)

var monitorBatch bool

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Submit a batch of experiments",
	Long: `Submit one Slurm job per (instance, params) pair of the cartesian
product of the instances and ready parameters directories. A failed
submission does not abort the sweep, failures are reported once every pair
was attempted.`,
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

		jobs, err := executor.RunBatch(ctx, cfg.InstancesDirectory, cfg.ParamsDirectory)
		if err != nil {
			log.Printf("Some submissions failed: %v", err)
		}
		for _, job := range jobs {
			fmt.Printf("%s\t%s\n", job.JobID, job.Descriptor)
		}
		if !monitorBatch {
			return err
		}

		g, gCtx := errgroup.WithContext(ctx)
		for i := range jobs {
			job := jobs[i]
			g.Go(func() error {
				return executor.MonitorJob(gCtx, &job)
			})
		}
		if merr := g.Wait(); merr != nil {
			return merr
		}
		return err
	},
}

func init() {
	RootCmd.AddCommand(batchCmd)
	batchCmd.PersistentFlags().BoolVar(&monitorBatch, "monitor", false, "Monitor submitted jobs until they reach a terminal state")
}
