package fsutil

import (
	"io"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSFileSystem_AppendAndReadDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fsys := OSFileSystem{}
	path := filepath.Join(dir, "bonkers_log_1200.txt")

	for _, line := range []string{"AXIS1 : 0\n", "AXIS2 : 40\n"} {
		w, err := fsys.Append(path)
		require.NoError(t, err)
		_, err = io.WriteString(w, line)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	}

	data, err := fsys.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "AXIS1 : 0\nAXIS2 : 40\n", string(data))

	entries, err := fsys.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "bonkers_log_1200.txt", entries[0].Name())
	assert.True(t, fsys.Exists(path))
	assert.False(t, fsys.Exists(filepath.Join(dir, "missing.txt")))
}

func TestMemoryFileSystem_WriteAndRead(t *testing.T) {
	t.Parallel()

	mfs := NewMemoryFileSystem()
	require.NoError(t, mfs.WriteFile("/logs/run.csv", []byte("time_s\n"), 0644))

	data, err := mfs.ReadFile("/logs/../logs/run.csv")
	require.NoError(t, err)
	assert.Equal(t, "time_s\n", string(data))

	data[0] = 'X'
	again, err := mfs.ReadFile("/logs/run.csv")
	require.NoError(t, err)
	assert.Equal(t, "time_s\n", string(again), "ReadFile returns a copy")

	assert.True(t, mfs.Exists("/logs"), "parent directory is implied")

	_, err = mfs.ReadFile("/logs/other.csv")
	assert.ErrorIs(t, err, fs.ErrNotExist)
	_, err = mfs.ReadFile("/logs")
	assert.ErrorIs(t, err, fs.ErrInvalid)
}

func TestMemoryFileSystem_Append(t *testing.T) {
	t.Parallel()

	mfs := NewMemoryFileSystem()
	require.NoError(t, mfs.WriteFile("/sd/log.txt", []byte("AXIS1 : 0\n"), 0644))

	w, err := mfs.Append("/sd/log.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("AXIS2 : 12\n"))
	require.NoError(t, err)

	data, err := mfs.ReadFile("/sd/log.txt")
	require.NoError(t, err)
	assert.Equal(t, "AXIS1 : 0\nAXIS2 : 12\n", string(data))

	require.NoError(t, w.Close())
	_, err = w.Write([]byte("late"))
	assert.ErrorIs(t, err, fs.ErrClosed)

	_, err = mfs.Append("/sd")
	assert.Error(t, err)
}

func TestMemoryFileSystem_ReadDir(t *testing.T) {
	t.Parallel()

	mfs := NewMemoryFileSystem()
	require.NoError(t, mfs.MkdirAll("/sd/archive", 0755))
	require.NoError(t, mfs.WriteFile("/sd/b.txt", nil, 0644))
	require.NoError(t, mfs.WriteFile("/sd/a.txt", nil, 0644))
	require.NoError(t, mfs.WriteFile("/sd/archive/old.txt", nil, 0644))

	entries, err := mfs.ReadDir("/sd")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"a.txt", "archive", "b.txt"}, names)
	assert.True(t, entries[1].IsDir())

	_, err = mfs.ReadDir("/nowhere")
	assert.ErrorIs(t, err, fs.ErrNotExist)
	_, err = mfs.ReadDir("/sd/a.txt")
	assert.Error(t, err)
}

func TestMemoryFileSystem_StatAndMkdir(t *testing.T) {
	t.Parallel()

	mfs := NewMemoryFileSystem()
	require.NoError(t, mfs.WriteFile("/run.txt", []byte("abc"), 0600))

	info, err := mfs.Stat("/run.txt")
	require.NoError(t, err)
	assert.Equal(t, "run.txt", info.Name())
	assert.Equal(t, int64(3), info.Size())
	assert.False(t, info.IsDir())

	_, err = mfs.Stat("/missing.txt")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	assert.ErrorIs(t, mfs.MkdirAll("/run.txt", 0755), fs.ErrExist)
	assert.Error(t, mfs.WriteFile("/", []byte("x"), 0644))

	require.NoError(t, mfs.MkdirAll("captures", 0755))
	info, err = mfs.Stat("captures")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
