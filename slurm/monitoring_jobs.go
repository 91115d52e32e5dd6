package slurm

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	metrics "github.com/armon/go-metrics"
	"github.com/pkg/errors"

	"github.com/qclab/quorch/log"
)

const bashLogger = `
if [ -f %s ]; then
    tail -n +%d %s
fi

`

// MonitorJob polls the state of a job until it reaches a terminal Slurm
// state, tailing its stdout/stderr files incrementally on every poll.
// COMPLETED returns nil; any other terminal state is an error carrying that
// state. The remote execution directory is cleaned up on success unless the
// configuration asks to keep it.
func (e *Executor) MonitorJob(ctx context.Context, job *Job) error {
	interval := buildJobInfo(e.Cfg, job.Descriptor).monitoringTimeInterval
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastIndexes := make(map[string]int)
	for {
		select {
		case <-ctx.Done():
			log.Debugf("Monitoring of job %q has been cancelled", job.JobID)
			return ctx.Err()
		case <-ticker.C:
			done, err := e.pollJob(ctx, job, lastIndexes)
			if err != nil || done {
				return err
			}
		}
	}
}

func (e *Executor) pollJob(ctx context.Context, job *Job, lastIndexes map[string]int) (bool, error) {
	info, err := getJobInfo(e.Client, job.JobID)
	if err != nil {
		if isNoJobFoundError(err) {
			// the job left the scheduler database, likely purged
			e.recordState(job, "UNKNOWN")
		}
		return true, errors.Wrapf(err, "failed to get job info with jobID:%q", job.JobID)
	}

	if info["Reason"] != "None" && info["Reason"] != "" {
		log.Printf("Job Name:%s, ID:%s, State:%s, Reason:%s, Execution Time:%s",
			info["JobName"], info["JobId"], info["JobState"], info["Reason"], info["RunTime"])
	} else {
		log.Printf("Job Name:%s, ID:%s, State:%s, Execution Time:%s",
			info["JobName"], info["JobId"], info["JobState"], info["RunTime"])
	}

	stdOut, existStdOut := info["StdOut"]
	stdErr, existStdErr := info["StdErr"]
	switch {
	case existStdOut && existStdErr && stdOut == stdErr:
		e.logFile(job, stdOut, "StdOut/StdErr", lastIndexes)
	case existStdOut || existStdErr:
		if existStdOut {
			e.logFile(job, stdOut, "StdOut", lastIndexes)
		}
		if existStdErr {
			e.logFile(job, stdErr, "StdErr", lastIndexes)
		}
	default:
		// default Slurm output file when nothing is specified
		e.logFile(job, path.Join(job.RemoteDir, fmt.Sprintf("slurm-%s.out", job.JobID)), "StdOut/StdErr", lastIndexes)
	}

	state := info["JobState"]
	if job.State != state {
		e.recordState(job, state)
	}

	if !isTerminalState(state) {
		return false, nil
	}

	if state == "COMPLETED" {
		metrics.IncrCounter([]string{"slurm", "jobs", "completed"}, 1)
		if !e.Cfg.KeepJobRemoteArtifacts {
			e.removeArtifacts(job)
		}
		return true, nil
	}
	metrics.IncrCounter([]string{"slurm", "jobs", "failed"}, 1)
	log.Printf("job info:%+v", info)
	return true, errors.Errorf("job with ID:%q finished unsuccessfully with state:%q", job.JobID, state)
}

func (e *Executor) recordState(job *Job, state string) {
	job.State = state
	if e.Registry == nil {
		return
	}
	if err := e.Registry.UpdateState(job.JobID, state); err != nil {
		log.Debugf("failed to record state %q for job %q: %v", state, job.JobID, err)
	}
}

// logFile tails the new lines of a remote log file since the previous poll
func (e *Executor) logFile(job *Job, filePath, fileType string, lastIndexes map[string]int) {
	lastInd := lastIndexes[fileType]
	cmd := fmt.Sprintf(bashLogger, filePath, lastInd+1, filePath)
	output, err := e.Client.RunCommand(cmd)
	if err != nil {
		log.Debugf("fail to log file (%s) due to error:%+v", filePath, err)
		return
	}
	if strings.TrimSpace(output) != "" {
		log.Printf("%s %s:", fileType, filePath)
		log.Print("\n" + output)
	}
	lastIndexes[fileType] = lastInd + strings.Count(output, "\n")
}

// removeArtifacts removes the remote execution directory of a job
func (e *Executor) removeArtifacts(job *Job) {
	if job.RemoteDir == "" {
		return
	}
	log.Debugf("Remove remote directory %q", job.RemoteDir)
	cmd := fmt.Sprintf("rm -rf %s", job.RemoteDir)
	if _, err := e.Client.RunCommand(cmd); err != nil {
		log.Printf("an error:%+v occurred during removing remote directory %q", err, job.RemoteDir)
	}
}

// CancelJob cancels a job by ID
func (e *Executor) CancelJob(jobID string) error {
	if err := cancelJobID(jobID, e.Client); err != nil {
		return err
	}
	e.recordState(&Job{JobID: jobID}, "CANCELLED")
	log.Printf("Cancelled job %q", jobID)
	return nil
}

// RefreshStates updates the registry with the current scheduler state of
// every non-terminal recorded job and returns the refreshed list
func (e *Executor) RefreshStates() ([]Job, error) {
	if e.Registry == nil {
		return nil, errors.New("no local job registry available")
	}
	jobs, err := e.Registry.List()
	if err != nil {
		return nil, err
	}
	for i := range jobs {
		if jobs[i].State != "" && isTerminalState(jobs[i].State) {
			continue
		}
		info, err := getJobInfo(e.Client, jobs[i].JobID)
		if err != nil {
			if isNoJobFoundError(err) {
				jobs[i].State = "UNKNOWN"
				e.recordState(&jobs[i], "UNKNOWN")
				continue
			}
			return nil, err
		}
		if state := info["JobState"]; state != jobs[i].State {
			jobs[i].State = state
			e.recordState(&jobs[i], state)
		}
	}
	return jobs, nil
}
