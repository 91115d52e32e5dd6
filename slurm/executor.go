package slurm

import (
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	metrics "github.com/armon/go-metrics"
	multierror "github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/qclab/quorch/config"
	"github.com/qclab/quorch/helper/sshutil"
	"github.com/qclab/quorch/helper/stringutil"
	"github.com/qclab/quorch/log"
)

// Executor submits QAOA experiment jobs to the cluster and records them in
// the local registry
type Executor struct {
	Cfg      config.Configuration
	Client   sshutil.Client
	Registry *Registry
}

// NewExecutor builds an Executor connected to the configured cluster
func NewExecutor(cfg config.Configuration) (*Executor, error) {
	client, err := GetSSHClient(cfg)
	if err != nil {
		return nil, err
	}
	return &Executor{
		Cfg:      cfg,
		Client:   client,
		Registry: NewRegistry(cfg.WorkingDirectory),
	}, nil
}

// SubmitPair stages an (instance, params) pair on the cluster and submits a
// batch job running it
func (e *Executor) SubmitPair(ctx context.Context, instancePath, paramsPath string) (*Job, error) {
	descriptor := BuildDescriptor(instancePath, paramsPath)
	remoteBase := e.Cfg.Cluster.RemoteBaseDirectory
	if remoteBase == "" {
		remoteBase = config.DefaultRemoteBaseDirectory
	}
	remoteDir := path.Join(remoteBase, stringutil.UniqueTimestampedName(".quorch_", ""))

	job := &Job{
		Descriptor:  descriptor,
		Instance:    stringutil.FileStem(instancePath),
		Params:      stringutil.FileStem(paramsPath),
		RemoteDir:   remoteDir,
		SubmittedAt: time.Now(),
	}

	if err := e.uploadFiles(ctx, remoteDir, instancePath, paramsPath); err != nil {
		return nil, errors.Wrap(err, "failed to upload experiment files")
	}

	info := buildJobInfo(e.Cfg, descriptor)
	script := renderBatchScript(info.shell, e.Cfg.Cluster.RunCommand, filepath.Base(instancePath), filepath.Base(paramsPath))
	scriptName := "b_" + job.Instance + ".sh"
	if err := e.Client.CopyFile(strings.NewReader(script), path.Join(remoteDir, scriptName), scriptPermissions); err != nil {
		return nil, errors.Wrap(err, "failed to upload batch script")
	}

	cmd := fmt.Sprintf("cd %s; sbatch%s %s", remoteDir, info.commandOpts(), scriptName)
	log.Debugf("Run the command: %q", cmd)
	output, err := e.Client.RunCommand(cmd)
	if err != nil {
		log.Debugf("stderr:%q", output)
		return nil, errors.Wrapf(err, "failed to submit job %q: %q", descriptor, strings.TrimSpace(output))
	}

	if job.JobID, err = parseJobIDFromBatchOutput(strings.Trim(output, "\n")); err != nil {
		return nil, err
	}
	job.State = "PENDING"
	log.Printf("Submitted job %q with ID %s", descriptor, job.JobID)
	metrics.IncrCounter([]string{"slurm", "jobs", "submitted"}, 1)

	if e.Registry != nil {
		if err := e.Registry.Add(*job); err != nil {
			return job, errors.Wrap(err, "job submitted but it could not be recorded in the local registry")
		}
	}
	return job, nil
}

func (e *Executor) uploadFiles(ctx context.Context, remoteDir string, paths ...string) error {
	var g errgroup.Group
	for _, p := range paths {
		localPath := p
		g.Go(func() error {
			source, err := ioutil.ReadFile(localPath)
			if err != nil {
				return errors.Wrapf(err, "failed to read file %q", localPath)
			}
			remotePath := path.Join(remoteDir, filepath.Base(localPath))
			log.Debugf("upload file from source path:%q to remote path:%q", localPath, remotePath)
			return e.Client.CopyFile(bytes.NewReader(source), remotePath, filePermissions)
		})
	}
	return g.Wait()
}

// UploadTree copies a local file or directory tree under the remote base
// directory, preserving the relative layout
func (e *Executor) UploadTree(ctx context.Context, localPath, remoteDir string) error {
	localPath = filepath.Clean(localPath)
	fileInfo, err := ioutil.ReadDir(localPath)
	if err != nil {
		// not a directory, copy the single file
		source, rerr := ioutil.ReadFile(localPath)
		if rerr != nil {
			return errors.Wrapf(rerr, "failed to read file %q", localPath)
		}
		return e.Client.CopyFile(bytes.NewReader(source), path.Join(remoteDir, filepath.Base(localPath)), filePermissions)
	}

	var g errgroup.Group
	for _, entry := range fileInfo {
		name := entry.Name()
		if entry.IsDir() {
			sub := entry
			if err := e.UploadTree(ctx, filepath.Join(localPath, sub.Name()), path.Join(remoteDir, sub.Name())); err != nil {
				return err
			}
			continue
		}
		g.Go(func() error {
			source, err := ioutil.ReadFile(filepath.Join(localPath, name))
			if err != nil {
				return errors.Wrapf(err, "failed to read file %q", name)
			}
			return e.Client.CopyFile(bytes.NewReader(source), path.Join(remoteDir, name), filePermissions)
		})
	}
	return g.Wait()
}

// EnumerateJSONFiles lists the JSON files of a directory in lexical order
func EnumerateJSONFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to enumerate %q", dir)
	}
	if len(files) == 0 {
		return nil, errors.Errorf("no JSON files found in %q", dir)
	}
	sort.Strings(files)
	return files, nil
}

// RunBatch submits one job per (instance, params) pair of the cartesian
// product of the two directories. A failed submission doesn't abort the
// sweep: failures are collected and reported once every pair was attempted.
func (e *Executor) RunBatch(ctx context.Context, instancesDir, paramsDir string) ([]Job, error) {
	instances, err := EnumerateJSONFiles(instancesDir)
	if err != nil {
		return nil, err
	}
	paramFiles, err := EnumerateJSONFiles(paramsDir)
	if err != nil {
		return nil, err
	}

	workers := e.Cfg.WorkersNumber
	if workers <= 0 {
		workers = config.DefaultWorkersNumber
	}

	var (
		g    errgroup.Group
		jobs submittedJobs
		errs submissionErrors
	)
	g.SetLimit(workers)
	for _, instancePath := range instances {
		for _, paramsPath := range paramFiles {
			instancePath, paramsPath := instancePath, paramsPath
			g.Go(func() error {
				job, err := e.SubmitPair(ctx, instancePath, paramsPath)
				if err != nil {
					log.Printf("Submission failed for instance %q with params %q: %v",
						instancePath, paramsPath, err)
					errs.append(errors.Wrapf(err, "instance %q, params %q", instancePath, paramsPath))
					return nil
				}
				jobs.append(*job)
				return nil
			})
		}
	}
	// closures never return an error, failures are collected above
	g.Wait()

	log.Printf("Batch sweep done: %d jobs submitted, %d failures", len(jobs.jobs), errs.len())
	return jobs.jobs, errs.err()
}

type submittedJobs struct {
	sync.Mutex
	jobs []Job
}

func (s *submittedJobs) append(job Job) {
	s.Lock()
	defer s.Unlock()
	s.jobs = append(s.jobs, job)
}

type submissionErrors struct {
	sync.Mutex
	errs *multierror.Error
}

func (s *submissionErrors) append(err error) {
	s.Lock()
	defer s.Unlock()
	s.errs = multierror.Append(s.errs, err)
}

func (s *submissionErrors) len() int {
	s.Lock()
	defer s.Unlock()
	if s.errs == nil {
		return 0
	}
	return s.errs.Len()
}

func (s *submissionErrors) err() error {
	s.Lock()
	defer s.Unlock()
	return s.errs.ErrorOrNil()
}
