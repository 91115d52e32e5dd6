package slurm

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/qclab/quorch/helper/sshutil"
)

var reSbatchJobID = regexp.MustCompile(`Submitted batch job (\d+)`)

// parseJobIDFromBatchOutput extracts the job ID from sbatch output
func parseJobIDFromBatchOutput(out string) (string, error) {
	matches := reSbatchJobID.FindStringSubmatch(out)
	if matches == nil {
		return "", errors.Errorf("unexpected sbatch output: %q", strings.TrimSpace(out))
	}
	return matches[1], nil
}

// getJobInfo returns the scontrol attributes of a job as a key/value map
// (JobId, JobName, JobState, Reason, RunTime, StdOut, StdErr, ...)
func getJobInfo(client sshutil.Client, jobID string) (map[string]string, error) {
	cmd := fmt.Sprintf("scontrol show job %s", jobID)
	output, err := client.RunCommand(cmd)
	if strings.Contains(output, "Invalid job id specified") {
		return nil, &noJobFound{msg: fmt.Sprintf("no job found with id:%q", jobID)}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to retrieve information for job %q: %q", jobID, output)
	}
	info := parseKeyValuePairs(output)
	if len(info) == 0 {
		return nil, &noJobFound{msg: fmt.Sprintf("no job found with id:%q", jobID)}
	}
	return info, nil
}

// parseKeyValuePairs parses whitespace-separated key=value tokens as printed
// by scontrol
func parseKeyValuePairs(out string) map[string]string {
	info := make(map[string]string)
	for _, token := range strings.Fields(out) {
		if idx := strings.Index(token, "="); idx > 0 {
			info[token[:idx]] = token[idx+1:]
		}
	}
	return info
}

// cancelJobID cancels the given job
func cancelJobID(jobID string, client sshutil.Client) error {
	scancelCmd := fmt.Sprintf("scancel %s", jobID)
	output, err := client.RunCommand(scancelCmd)
	if err != nil {
		return errors.Wrapf(err, "failed to cancel job %q: %q", jobID, output)
	}
	return nil
}

// isTerminalState returns true when a Slurm job state won't evolve anymore
func isTerminalState(state string) bool {
	switch state {
	case "RUNNING", "PENDING", "COMPLETING", "CONFIGURING", "SIGNALING", "RESIZING":
		return false
	default:
		return true
	}
}
