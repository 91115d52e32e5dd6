package slurm

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/qclab/quorch/config"
	"github.com/qclab/quorch/helper/sshutil"
)

// schedulerMock emulates the cluster side command responses during monitoring
type schedulerMock struct {
	sync.Mutex
	state    string
	logLines string
	commands []string
}

func (m *schedulerMock) client() *sshutil.MockSSHClient {
	return &sshutil.MockSSHClient{
		MockRunCommand: func(cmd string) (string, error) {
			m.Lock()
			defer m.Unlock()
			m.commands = append(m.commands, cmd)
			switch {
			case strings.HasPrefix(cmd, "scontrol show job"):
				return fmt.Sprintf(
					"JobId=1234 JobName=expt:params:abcd1234 JobState=%s Reason=None RunTime=00:00:10 StdOut=/remote/slurm-1234.out StdErr=/remote/slurm-1234.out",
					m.state), nil
			case strings.HasPrefix(strings.TrimSpace(cmd), "if [ -f"):
				return m.logLines, nil
			default:
				return "", nil
			}
		},
	}
}

func (m *schedulerMock) ranCommand(prefix string) bool {
	m.Lock()
	defer m.Unlock()
	for _, cmd := range m.commands {
		if strings.HasPrefix(cmd, prefix) {
			return true
		}
	}
	return false
}

func TestPollJobRunning(t *testing.T) {
	t.Parallel()
	m := &schedulerMock{state: "RUNNING"}
	e := &Executor{Cfg: config.Configuration{}, Client: m.client()}
	job := &Job{JobID: "1234", RemoteDir: "quorch_experiments/.quorch_1"}

	done, err := e.pollJob(context.Background(), job, make(map[string]int))
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, "RUNNING", job.State)
}

func TestPollJobCompleted(t *testing.T) {
	t.Parallel()
	m := &schedulerMock{state: "COMPLETED"}
	e := &Executor{Cfg: config.Configuration{}, Client: m.client()}
	job := &Job{JobID: "1234", RemoteDir: "quorch_experiments/.quorch_1"}

	done, err := e.pollJob(context.Background(), job, make(map[string]int))
	require.NoError(t, err)
	require.True(t, done)
	require.Equal(t, "COMPLETED", job.State)
	require.True(t, m.ranCommand("rm -rf quorch_experiments/.quorch_1"),
		"remote artifacts must be removed on completion")
}

func TestPollJobCompletedKeepArtifacts(t *testing.T) {
	t.Parallel()
	m := &schedulerMock{state: "COMPLETED"}
	e := &Executor{Cfg: config.Configuration{KeepJobRemoteArtifacts: true}, Client: m.client()}
	job := &Job{JobID: "1234", RemoteDir: "quorch_experiments/.quorch_1"}

	done, err := e.pollJob(context.Background(), job, make(map[string]int))
	require.NoError(t, err)
	require.True(t, done)
	require.False(t, m.ranCommand("rm -rf"))
}

func TestPollJobFailed(t *testing.T) {
	t.Parallel()
	m := &schedulerMock{state: "FAILED"}
	e := &Executor{Cfg: config.Configuration{}, Client: m.client()}
	job := &Job{JobID: "1234", RemoteDir: "quorch_experiments/.quorch_1"}

	done, err := e.pollJob(context.Background(), job, make(map[string]int))
	require.True(t, done)
	require.Error(t, err)
	require.Contains(t, err.Error(), "FAILED")
	require.False(t, m.ranCommand("rm -rf"), "artifacts of failed jobs are kept for inspection")
}

func TestPollJobVanished(t *testing.T) {
	t.Parallel()
	e := &Executor{
		Cfg: config.Configuration{},
		Client: &sshutil.MockSSHClient{
			MockRunCommand: func(cmd string) (string, error) {
				return "slurm_load_jobs error: Invalid job id specified", errGeneric
			},
		},
	}
	job := &Job{JobID: "1234"}
	done, err := e.pollJob(context.Background(), job, make(map[string]int))
	require.True(t, done)
	require.Error(t, err)
	require.Equal(t, "UNKNOWN", job.State)
}

func TestLogFileIncrementalTail(t *testing.T) {
	t.Parallel()
	var tailFrom []string
	e := &Executor{
		Client: &sshutil.MockSSHClient{
			MockRunCommand: func(cmd string) (string, error) {
				for _, field := range strings.Fields(cmd) {
					if strings.HasPrefix(field, "+") {
						tailFrom = append(tailFrom, field)
					}
				}
				return "line one\nline two\n", nil
			},
		},
	}
	lastIndexes := make(map[string]int)
	job := &Job{JobID: "1234"}
	e.logFile(job, "/remote/slurm-1234.out", "StdOut", lastIndexes)
	require.Equal(t, 2, lastIndexes["StdOut"])
	e.logFile(job, "/remote/slurm-1234.out", "StdOut", lastIndexes)
	require.Equal(t, 4, lastIndexes["StdOut"])
	require.Equal(t, []string{"+1", "+3"}, tailFrom)
}

func TestMonitorJobUntilCompleted(t *testing.T) {
	t.Parallel()
	m := &schedulerMock{state: "RUNNING"}
	e := &Executor{
		Cfg:    config.Configuration{JobMonitoringTimeInterval: 10 * time.Millisecond},
		Client: m.client(),
	}
	job := &Job{JobID: "1234", RemoteDir: "quorch_experiments/.quorch_1"}

	go func() {
		time.Sleep(50 * time.Millisecond)
		m.Lock()
		m.state = "COMPLETED"
		m.Unlock()
	}()

	require.NoError(t, e.MonitorJob(context.Background(), job))
	require.Equal(t, "COMPLETED", job.State)
}

func TestMonitorJobCancellation(t *testing.T) {
	t.Parallel()
	m := &schedulerMock{state: "RUNNING"}
	e := &Executor{
		Cfg:    config.Configuration{JobMonitoringTimeInterval: 10 * time.Millisecond},
		Client: m.client(),
	}
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()
	err := e.MonitorJob(ctx, &Job{JobID: "1234"})
	require.Error(t, err)
	require.Equal(t, context.Canceled, err)
}

func TestCancelJob(t *testing.T) {
	t.Parallel()
	m := &schedulerMock{state: "RUNNING"}
	r := NewRegistry(t.TempDir())
	require.NoError(t, r.Add(Job{Descriptor: "d1", JobID: "1234", State: "RUNNING"}))

	e := &Executor{Client: m.client(), Registry: r}
	require.NoError(t, e.CancelJob("1234"))
	require.True(t, m.ranCommand("scancel 1234"))

	recorded, err := r.Find("1234")
	require.NoError(t, err)
	require.Equal(t, "CANCELLED", recorded.State)
}

func TestRefreshStates(t *testing.T) {
	t.Parallel()
	r := NewRegistry(t.TempDir())
	require.NoError(t, r.Add(Job{Descriptor: "d1", JobID: "1", State: "PENDING"}))
	require.NoError(t, r.Add(Job{Descriptor: "d2", JobID: "2", State: "COMPLETED"}))
	require.NoError(t, r.Add(Job{Descriptor: "d3", JobID: "3", State: "RUNNING"}))

	e := &Executor{
		Client: &sshutil.MockSSHClient{
			MockRunCommand: func(cmd string) (string, error) {
				switch {
				case strings.HasSuffix(cmd, " 1"):
					return "JobId=1 JobState=RUNNING", nil
				case strings.HasSuffix(cmd, " 3"):
					return "slurm_load_jobs error: Invalid job id specified", errGeneric
				default:
					return "", errGeneric
				}
			},
		},
		Registry: r,
	}

	jobs, err := e.RefreshStates()
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	require.Equal(t, "RUNNING", jobs[0].State)
	require.Equal(t, "COMPLETED", jobs[1].State, "terminal jobs are not polled again")
	require.Equal(t, "UNKNOWN", jobs[2].State)
}
