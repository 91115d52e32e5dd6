package commands

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/qclab/quorch/helper/tabutil"
	"github.com/qclab/quorch/slurm"
)

var refreshJobs bool

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List submitted jobs",
	Long:  `List the jobs recorded in the local registry, giving their ids and states.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		colorize := !noColor

		var jobs []slurm.Job
		var err error
		if refreshJobs {
			executor, eerr := slurm.NewExecutor(cfg)
			if eerr != nil {
				errExit(eerr)
			}
			jobs, err = executor.RefreshStates()
		} else {
			jobs, err = slurm.NewRegistry(cfg.WorkingDirectory).List()
		}
		if err != nil {
			errExit(err)
		}

		jobsTable := tabutil.NewTable()
		jobsTable.AddHeaders("Id", "Descriptor", "State", "Submitted")
		for _, job := range jobs {
			jobsTable.AddRow(job.JobID, job.Descriptor,
				getColoredJobState(colorize, job.State),
				humanize.Time(job.SubmittedAt))
		}
		if colorize {
			defer color.Unset()
		}
		fmt.Println("Jobs:")
		fmt.Println(jobsTable.Render())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(jobsCmd)
	jobsCmd.PersistentFlags().BoolVar(&refreshJobs, "refresh", false, "Refresh job states from the scheduler before listing")
}

func getColoredJobState(colorize bool, state string) string {
	if !colorize {
		return state
	}
	switch {
	case strings.Contains(strings.ToLower(state), "fail"),
		strings.Contains(strings.ToLower(state), "cancel"),
		strings.Contains(strings.ToLower(state), "timeout"):
		return color.New(color.FgHiRed, color.Bold).SprintFunc()(state)
	case strings.EqualFold(state, "completed"):
		return color.New(color.FgHiGreen, color.Bold).SprintFunc()(state)
	case strings.EqualFold(state, "running"), strings.EqualFold(state, "completing"):
		return color.New(color.FgHiYellow, color.Bold).SprintFunc()(state)
	default:
		return color.New(color.Bold).SprintFunc()(state)
	}
}
