package slurm

import (
	"fmt"
	"strings"
	"time"

	uuid "github.com/satori/go.uuid"

	"github.com/qclab/quorch/config"
	"github.com/qclab/quorch/helper/stringutil"
)

// DefaultRunCommand is the command template executed by generated batch
// scripts when none is configured. It is expanded with the staged instance
// and parameter file names.
const DefaultRunCommand = "quorch run --instance %s --params %s"

// A Job is a submitted (or about to be submitted) Slurm batch job running one
// QAOA experiment, identified by its colon-delimited descriptor
// <instance-stem>:<params-stem>:<uuid8>.
type Job struct {
	Descriptor  string    `json:"descriptor"`
	JobID       string    `json:"job_id,omitempty"`
	Instance    string    `json:"instance"`
	Params      string    `json:"params"`
	RemoteDir   string    `json:"remote_dir"`
	State       string    `json:"state,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// BuildDescriptor builds the job descriptor for an (instance, params) pair.
// The uuid suffix disambiguates resubmissions of the same pair.
func BuildDescriptor(instancePath, paramsPath string) string {
	suffix := fmt.Sprint(uuid.NewV4())[:8]
	return strings.Join([]string{
		stringutil.FileStem(instancePath),
		stringutil.FileStem(paramsPath),
		suffix,
	}, ":")
}

// ParseDescriptor splits a descriptor back into the instance and params file
// stems it was built from, dropping the uuid suffix
func ParseDescriptor(descriptor string) (instance, params string) {
	pair := stringutil.GetAllExceptLastElement(descriptor, ":")
	return stringutil.GetAllExceptLastElement(pair, ":"), stringutil.GetLastElement(pair, ":")
}

// jobInfo gathers the sbatch submission settings of one job
type jobInfo struct {
	name      string
	tasks     int
	nodes     int
	mem       int
	cpus      int
	maxTime   string
	partition string
	exclusive bool
	shell     string
	opts      []string

	monitoringTimeInterval time.Duration
}

// buildJobInfo derives submission settings from the cluster configuration
func buildJobInfo(cfg config.Configuration, descriptor string) *jobInfo {
	extra := cfg.Cluster.Extra
	job := &jobInfo{
		name:  descriptor,
		nodes: 1,
		shell: defaultShell,
	}
	if extra != nil {
		job.tasks = extra.GetInt("tasks")
		if n := extra.GetInt("nodes"); n > 0 {
			job.nodes = n
		}
		job.mem = extra.GetInt("mem_per_node")
		job.cpus = extra.GetInt("cpus_per_task")
		job.maxTime = extra.GetString("time")
		job.partition = extra.GetString("partition")
		job.exclusive = extra.GetBool("exclusive")
		job.shell = extra.GetStringOrDefault("shell", defaultShell)
		job.opts = extra.GetStringSlice("extra_options")
	}

	job.monitoringTimeInterval = cfg.JobMonitoringTimeInterval
	if job.monitoringTimeInterval == 0 {
		job.monitoringTimeInterval = config.DefaultJobMonitoringTimeInterval
	}
	return job
}

// commandOpts renders the sbatch command line options of the job
func (j *jobInfo) commandOpts() string {
	var opts string
	opts += fmt.Sprintf(" --job-name=%s", j.name)

	if j.tasks > 1 {
		opts += fmt.Sprintf(" --ntasks=%d", j.tasks)
	}
	opts += fmt.Sprintf(" --nodes=%d", j.nodes)

	if j.mem != 0 {
		opts += fmt.Sprintf(" --mem=%dG", j.mem)
	}
	if j.cpus != 0 {
		opts += fmt.Sprintf(" --cpus-per-task=%d", j.cpus)
	}
	if j.maxTime != "" {
		opts += fmt.Sprintf(" --time=%s", j.maxTime)
	}
	if j.partition != "" {
		opts += fmt.Sprintf(" --partition=%s", j.partition)
	}
	if j.exclusive {
		opts += " --exclusive"
	}
	for _, opt := range j.opts {
		opts += fmt.Sprintf(" --%s", opt)
	}
	return opts
}

// defaultShell interprets generated batch scripts unless the cluster extra
// configuration overrides it
const defaultShell = "/bin/bash"

// renderBatchScript renders the batch script submitted for an experiment.
// instanceFile and paramsFile are the staged file names relative to the
// remote execution directory.
func renderBatchScript(shell, runCommand, instanceFile, paramsFile string) string {
	if shell == "" {
		shell = defaultShell
	}
	if runCommand == "" {
		runCommand = DefaultRunCommand
	}
	var b strings.Builder
	b.WriteString("#!" + shell + "\n")
	b.WriteString(fmt.Sprintf(runCommand, instanceFile, paramsFile))
	b.WriteString("\n")
	return b.String()
}
