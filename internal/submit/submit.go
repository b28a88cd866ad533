// Package submit renders a directive's scripts into scratch artifacts and
// hands the scheduler command line to a shell runner on a background
// goroutine, so the interactive caller never blocks on the allocation.
package submit

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"

	"github.com/nbtools/ipclaunch/internal/artifact"
	"github.com/nbtools/ipclaunch/internal/config"
	"github.com/nbtools/ipclaunch/internal/directive"
	"github.com/nbtools/ipclaunch/internal/script"
	"github.com/nbtools/ipclaunch/internal/shell"
	"github.com/nbtools/ipclaunch/internal/utils"
)

// Submitter owns the full lifetime of one submission's script artifacts:
// it creates them, composes them, and releases them after the scheduler
// command has finished. No other component deletes them.
type Submitter struct {
	Runner     shell.Runner
	Fs         afero.Fs
	ScratchDir string
	Mode       string // config.ModeSalloc or config.ModeSbatch
	Interface  string // controller interface, passed to the composer
	Out        io.Writer
}

// New creates a Submitter backed by the OS filesystem and the given
// runner, configured from cfg, printing the audit trail to stdout.
func New(runner shell.Runner, cfg *config.Config) *Submitter {
	return &Submitter{
		Runner:     runner,
		Fs:         afero.NewOsFs(),
		ScratchDir: cfg.ScratchDir,
		Mode:       cfg.SubmitMode,
		Interface:  cfg.NetworkInterface,
		Out:        os.Stdout,
	}
}

// Handle reports completion of one background submission. The scheduler
// command's exit status is deliberately not carried: failures inside the
// allocation are visible only in the external shell session.
type Handle struct {
	done chan struct{}
}

// Done returns a channel closed once the scheduler command has finished
// and both script artifacts have been released.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the background submission has finished.
func (h *Handle) Wait() {
	<-h.done
}

// Submit writes the launch and batch scripts for args, prints the
// rendered scheduler command, and executes it on a background goroutine.
// The returned handle may be ignored; cleanup happens either way.
//
// Errors before the hand-off (missing scratch root, artifact creation,
// composition) abort the submission and release anything already created.
func (s *Submitter) Submit(args *directive.Arguments) (*Handle, error) {
	if s.ScratchDir == "" {
		return nil, config.ErrScratchUnset
	}

	composer := script.NewComposer(s.Interface)

	launch, err := artifact.New(s.Fs, s.ScratchDir, "launch")
	if err != nil {
		return nil, err
	}

	batch, err := artifact.New(s.Fs, s.ScratchDir, "batch")
	if err != nil {
		launch.Release()
		return nil, err
	}

	if err := composer.LaunchScript(launch, args.Modules, args.Env); err != nil {
		s.abort(launch, batch)
		return nil, fmt.Errorf("compose launch script: %w", err)
	}

	job := script.JobFields{
		Name:       args.Name,
		Queue:      args.Queue,
		NumNodes:   args.NumNodes,
		Time:       args.Time,
		Constraint: args.Constraint,
	}

	if s.Mode == config.ModeSbatch {
		if err := composer.BatchHeader(batch, job); err != nil {
			s.abort(launch, batch)
			return nil, fmt.Errorf("compose batch header: %w", err)
		}
	}
	if err := composer.BatchScript(batch, args.Modules, args.Env, args.NumEngines, launch.Path()); err != nil {
		s.abort(launch, batch)
		return nil, fmt.Errorf("compose batch script: %w", err)
	}

	var line string
	if s.Mode == config.ModeSbatch {
		line = script.SbatchLine(batch.Path())
	} else {
		line = script.SallocLine(job, batch.Path())
	}

	// Audit trail: the printed line is the only visibility into what was
	// submitted.
	fmt.Fprintln(s.Out, line)

	if utils.DebugMode {
		s.debugDump(launch, batch)
	}

	// Ownership of both artifacts transfers to the goroutine here; the
	// calling thread must not touch them afterwards.
	h := &Handle{done: make(chan struct{})}
	go func() {
		defer close(h.done)
		defer batch.Release()
		defer launch.Release()

		if err := s.Runner.Execute(line); err != nil {
			// Scheduler-side failures are outside this subsystem's
			// boundary; surface them only under --debug.
			utils.PrintDebug("scheduler command exited: %v", err)
		}
	}()

	return h, nil
}

func (s *Submitter) abort(artifacts ...*artifact.Artifact) {
	for _, a := range artifacts {
		a.Release()
	}
}

func (s *Submitter) debugDump(artifacts ...*artifact.Artifact) {
	for _, a := range artifacts {
		contents, err := a.Contents()
		if err != nil {
			utils.PrintDebug("read %s: %v", a.Path(), err)
			continue
		}
		utils.PrintDebug("script %s:\n%s", a.Path(), contents)
	}
}
