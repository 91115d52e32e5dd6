package slurm

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// registryFileName is the name of the local job registry file
const registryFileName = "jobs.json"

// A Registry is the local record of submitted jobs, stored as a JSON file in
// the working directory
type Registry struct {
	path  string
	mutex sync.Mutex
}

// NewRegistry builds a registry stored in the given directory
func NewRegistry(dir string) *Registry {
	if dir == "" {
		dir = "."
	}
	return &Registry{path: filepath.Join(dir, registryFileName)}
}

// List returns all recorded jobs
func (r *Registry) List() ([]Job, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.load()
}

// Add records a newly submitted job
func (r *Registry) Add(job Job) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	jobs, err := r.load()
	if err != nil {
		return err
	}
	return r.save(append(jobs, job))
}

// UpdateState records a job state change. Unknown job IDs are ignored.
func (r *Registry) UpdateState(jobID, state string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	jobs, err := r.load()
	if err != nil {
		return err
	}
	for i := range jobs {
		if jobs[i].JobID == jobID {
			jobs[i].State = state
		}
	}
	return r.save(jobs)
}

// Find returns the recorded job matching the given job ID or descriptor
func (r *Registry) Find(idOrDescriptor string) (*Job, error) {
	jobs, err := r.List()
	if err != nil {
		return nil, err
	}
	for i := range jobs {
		if jobs[i].JobID == idOrDescriptor || jobs[i].Descriptor == idOrDescriptor {
			return &jobs[i], nil
		}
	}
	return nil, errors.Errorf("no job found matching %q in the local registry", idOrDescriptor)
}

func (r *Registry) load() ([]Job, error) {
	data, err := ioutil.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read job registry %q", r.path)
	}
	var jobs []Job
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, errors.Wrapf(err, "corrupted job registry %q", r.path)
	}
	return jobs, nil
}

func (r *Registry) save(jobs []Job) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return errors.Wrapf(err, "failed to create registry directory for %q", r.path)
	}
	data, err := json.MarshalIndent(jobs, "", "    ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal job registry")
	}
	return errors.Wrapf(ioutil.WriteFile(r.path, data, 0644), "failed to write job registry %q", r.path)
}
