// Package artifact manages the transient script files a submission leaves
// in the scratch directory. An artifact is written once during
// composition, referenced by path in the scheduler command, and released
// exactly once after that command finishes.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/nbtools/ipclaunch/internal/utils"
)

// Artifact is a file-backed script buffer with a unique path. It
// implements io.Writer during composition; Release closes and removes the
// file, and is safe to call more than once (later calls are no-ops).
type Artifact struct {
	fs      afero.Fs
	file    afero.File
	path    string
	release sync.Once
}

// New creates an empty artifact under dir named
// ".ipclaunch-<kind>-<uuid>.sh". The directory is created if missing.
func New(fs afero.Fs, dir, kind string) (*Artifact, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch directory %s: %w", dir, err)
	}

	name := fmt.Sprintf(".ipclaunch-%s-%s.sh", kind, uuid.NewString())
	path := filepath.Join(dir, name)

	file, err := fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create %s script %s: %w", kind, path, err)
	}

	return &Artifact{fs: fs, file: file, path: path}, nil
}

// Path returns the artifact's filesystem path.
func (a *Artifact) Path() string {
	return a.path
}

// Write appends to the artifact file.
func (a *Artifact) Write(p []byte) (int, error) {
	return a.file.Write(p)
}

// Contents reads the artifact back for diagnostics.
func (a *Artifact) Contents() (string, error) {
	data, err := afero.ReadFile(a.fs, a.path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Release closes and deletes the artifact. Only the first call has any
// effect.
func (a *Artifact) Release() {
	a.release.Do(func() {
		if err := a.file.Close(); err != nil {
			utils.PrintDebug("close %s: %v", a.path, err)
		}
		if err := a.fs.Remove(a.path); err != nil {
			utils.PrintDebug("remove %s: %v", a.path, err)
		}
	})
}
