package slurm

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/qclab/quorch/log"
)

// WatchAndSubmit watches the ready parameters directory and submits every
// instance of instancesDir against each new parameter file as it appears.
// It blocks until the context is cancelled.
func (e *Executor) WatchAndSubmit(ctx context.Context, instancesDir, paramsDir string) error {
	instances, err := EnumerateJSONFiles(instancesDir)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create filesystem watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(paramsDir); err != nil {
		return errors.Wrapf(err, "failed to watch directory %q", paramsDir)
	}
	log.Printf("Watching %q for new parameter files", paramsDir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) || !strings.EqualFold(filepath.Ext(event.Name), ".json") {
				continue
			}
			log.Printf("New parameter file %q detected", event.Name)
			for _, instancePath := range instances {
				if _, err := e.SubmitPair(ctx, instancePath, event.Name); err != nil {
					log.Printf("Submission failed for instance %q with params %q: %v", instancePath, event.Name, err)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}
