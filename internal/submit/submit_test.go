package submit

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbtools/ipclaunch/internal/config"
	"github.com/nbtools/ipclaunch/internal/directive"
)

// stubRunner records the submitted command line and holds the scheduler
// "running" until the test releases it.
type stubRunner struct {
	mu      sync.Mutex
	line    string
	started chan struct{}
	release chan struct{}
	err     error
}

func newStubRunner() *stubRunner {
	return &stubRunner{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (r *stubRunner) Execute(commandLine string) error {
	r.mu.Lock()
	r.line = commandLine
	r.mu.Unlock()
	close(r.started)
	<-r.release
	return r.err
}

func (r *stubRunner) submittedLine() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.line
}

func defaultArgs() *directive.Arguments {
	return &directive.Arguments{
		Name:       "ipyparallel",
		NumNodes:   1,
		NumEngines: 1,
		Queue:      "interactive",
		Time:       "30:00",
		Constraint: "haswell",
	}
}

func newTestSubmitter(runner *stubRunner, mode string) (*Submitter, afero.Fs, *bytes.Buffer) {
	fs := afero.NewMemMapFs()
	out := &bytes.Buffer{}
	s := &Submitter{
		Runner:     runner,
		Fs:         fs,
		ScratchDir: "/scratch",
		Mode:       mode,
		Interface:  "ipogif0",
		Out:        out,
	}
	return s, fs, out
}

func scratchFiles(t *testing.T, fs afero.Fs) []string {
	t.Helper()
	infos, err := afero.ReadDir(fs, "/scratch")
	require.NoError(t, err)
	var names []string
	for _, info := range infos {
		names = append(names, info.Name())
	}
	return names
}

func waitDone(t *testing.T, h *Handle) {
	t.Helper()
	select {
	case <-h.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("submission did not finish")
	}
}

func TestSubmitPrintsSallocLine(t *testing.T) {
	runner := newStubRunner()
	s, _, out := newTestSubmitter(runner, config.ModeSalloc)

	h, err := s.Submit(defaultArgs())
	require.NoError(t, err)

	close(runner.release)
	waitDone(t, h)

	line := strings.TrimSuffix(out.String(), "\n")
	assert.True(t, strings.HasPrefix(line, "salloc -J ipyparallel -q interactive -N 1 -t 30:00 -C haswell bash /scratch/.ipclaunch-batch-"), "line %q", line)
	assert.Equal(t, line, runner.submittedLine())
}

func TestSubmitArtifactsLiveUntilRunnerFinishes(t *testing.T) {
	runner := newStubRunner()
	s, fs, _ := newTestSubmitter(runner, config.ModeSalloc)

	h, err := s.Submit(defaultArgs())
	require.NoError(t, err)

	// While the scheduler command runs, both scripts must be on disk.
	<-runner.started
	names := scratchFiles(t, fs)
	require.Len(t, names, 2)

	var haveLaunch, haveBatch bool
	for _, n := range names {
		haveLaunch = haveLaunch || strings.HasPrefix(n, ".ipclaunch-launch-")
		haveBatch = haveBatch || strings.HasPrefix(n, ".ipclaunch-batch-")
	}
	assert.True(t, haveLaunch, "launch script missing from %v", names)
	assert.True(t, haveBatch, "batch script missing from %v", names)

	close(runner.release)
	waitDone(t, h)

	assert.Empty(t, scratchFiles(t, fs))
}

func TestSubmitBatchScriptReferencesLaunchScript(t *testing.T) {
	runner := newStubRunner()
	s, fs, _ := newTestSubmitter(runner, config.ModeSalloc)

	args := defaultArgs()
	args.NumEngines = 4

	h, err := s.Submit(args)
	require.NoError(t, err)
	<-runner.started

	var launchPath, batchContents string
	for _, n := range scratchFiles(t, fs) {
		data, err := afero.ReadFile(fs, "/scratch/"+n)
		require.NoError(t, err)
		if strings.HasPrefix(n, ".ipclaunch-launch-") {
			launchPath = "/scratch/" + n
		} else {
			batchContents = string(data)
		}
	}

	assert.Contains(t, batchContents, "srun -n 4 bash "+launchPath)
	assert.Contains(t, batchContents, "ipcontroller")

	close(runner.release)
	waitDone(t, h)
}

func TestSubmitSbatchMode(t *testing.T) {
	runner := newStubRunner()
	s, fs, out := newTestSubmitter(runner, config.ModeSbatch)

	h, err := s.Submit(defaultArgs())
	require.NoError(t, err)
	<-runner.started

	line := strings.TrimSuffix(out.String(), "\n")
	assert.True(t, strings.HasPrefix(line, "sbatch --wait /scratch/.ipclaunch-batch-"), "line %q", line)

	for _, n := range scratchFiles(t, fs) {
		if !strings.HasPrefix(n, ".ipclaunch-batch-") {
			continue
		}
		data, err := afero.ReadFile(fs, "/scratch/"+n)
		require.NoError(t, err)
		contents := string(data)
		assert.True(t, strings.HasPrefix(contents, "#!/bin/bash -l\n"), "header not first:\n%s", contents)
		assert.Contains(t, contents, "#SBATCH -J ipyparallel")
	}

	close(runner.release)
	waitDone(t, h)
}

func TestSubmitSbatchLaunchScriptOutlivesQueueing(t *testing.T) {
	runner := newStubRunner()
	s, fs, _ := newTestSubmitter(runner, config.ModeSbatch)

	h, err := s.Submit(defaultArgs())
	require.NoError(t, err)

	// The queued job reads the launch script only once its allocation
	// starts, so the script must stay on disk for as long as the sbatch
	// command runs, not just until queue acceptance.
	<-runner.started
	var haveLaunch bool
	for _, n := range scratchFiles(t, fs) {
		haveLaunch = haveLaunch || strings.HasPrefix(n, ".ipclaunch-launch-")
	}
	require.True(t, haveLaunch, "launch script removed while the job can still reference it")

	close(runner.release)
	waitDone(t, h)

	assert.Empty(t, scratchFiles(t, fs))
}

func TestSubmitWithoutScratchDir(t *testing.T) {
	runner := newStubRunner()
	s, fs, out := newTestSubmitter(runner, config.ModeSalloc)
	s.ScratchDir = ""

	h, err := s.Submit(defaultArgs())
	assert.Nil(t, h)
	require.ErrorIs(t, err, config.ErrScratchUnset)

	exists, ferr := afero.DirExists(fs, "/scratch")
	require.NoError(t, ferr)
	assert.False(t, exists, "no artifacts may be created")
	assert.Empty(t, out.String(), "nothing may be printed")
}

func TestSubmitCleansUpAfterRunnerError(t *testing.T) {
	runner := newStubRunner()
	runner.err = errors.New("salloc: command not found")
	s, fs, _ := newTestSubmitter(runner, config.ModeSalloc)

	h, err := s.Submit(defaultArgs())
	require.NoError(t, err)

	close(runner.release)
	waitDone(t, h)

	assert.Empty(t, scratchFiles(t, fs))
}

func TestSubmitAbortsOnArtifactCreationFailure(t *testing.T) {
	runner := newStubRunner()
	s, _, out := newTestSubmitter(runner, config.ModeSalloc)
	s.Fs = afero.NewReadOnlyFs(afero.NewMemMapFs())

	h, err := s.Submit(defaultArgs())
	assert.Nil(t, h)
	require.Error(t, err)
	assert.Empty(t, out.String())

	select {
	case <-runner.started:
		t.Fatal("runner must not be invoked on a failed submission")
	default:
	}
}
