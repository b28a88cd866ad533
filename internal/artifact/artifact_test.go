package artifact

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreatesUniqueFiles(t *testing.T) {
	fs := afero.NewMemMapFs()

	first, err := New(fs, "/scratch", "launch")
	require.NoError(t, err)
	second, err := New(fs, "/scratch", "launch")
	require.NoError(t, err)

	assert.NotEqual(t, first.Path(), second.Path())

	base := filepath.Base(first.Path())
	assert.True(t, strings.HasPrefix(base, ".ipclaunch-launch-"), "name %q", base)
	assert.True(t, strings.HasSuffix(base, ".sh"), "name %q", base)

	exists, err := afero.Exists(fs, first.Path())
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestNewCreatesMissingDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()

	a, err := New(fs, "/scratch/deep/dir", "batch")
	require.NoError(t, err)
	assert.Equal(t, "/scratch/deep/dir", filepath.Dir(a.Path()))
}

func TestWriteAndContents(t *testing.T) {
	fs := afero.NewMemMapFs()

	a, err := New(fs, "/scratch", "batch")
	require.NoError(t, err)

	_, err = a.Write([]byte("#!/bin/bash\n"))
	require.NoError(t, err)
	_, err = a.Write([]byte("echo hi\n"))
	require.NoError(t, err)

	contents, err := a.Contents()
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/bash\necho hi\n", contents)
}

func TestReleaseRemovesFile(t *testing.T) {
	fs := afero.NewMemMapFs()

	a, err := New(fs, "/scratch", "launch")
	require.NoError(t, err)

	a.Release()

	exists, err := afero.Exists(fs, a.Path())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestReleaseIsIdempotent(t *testing.T) {
	fs := afero.NewMemMapFs()

	a, err := New(fs, "/scratch", "launch")
	require.NoError(t, err)

	a.Release()
	assert.NotPanics(t, func() { a.Release() })
}

func TestNewFailsOnReadOnlyFs(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())

	_, err := New(fs, "/scratch", "launch")
	assert.Error(t, err)
}
