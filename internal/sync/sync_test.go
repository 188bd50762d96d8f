package sync

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obsfin/achfile"
	"github.com/obsfin/achfile/internal/config"
	"github.com/obsfin/achfile/internal/sftp"
	"github.com/obsfin/achfile/internal/store"
)

// fakeRemote is an in-memory Remote for exercising the sync job without an
// SFTP server.
type fakeRemote struct {
	files    []sftp.FileInfo
	contents map[string][]byte
	renames  map[string]string
	listErr  error
	readErr  map[string]error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		contents: map[string][]byte{},
		renames:  map[string]string{},
		readErr:  map[string]error{},
	}
}

func (f *fakeRemote) add(name string, data []byte) {
	path := "drop/" + name
	f.files = append(f.files, sftp.FileInfo{Name: name, Path: path, Size: int64(len(data))})
	f.contents[path] = data
}

func (f *fakeRemote) List(string) ([]sftp.FileInfo, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.files, nil
}

func (f *fakeRemote) Read(remotePath string) ([]byte, error) {
	if err := f.readErr[remotePath]; err != nil {
		return nil, err
	}
	data, ok := f.contents[remotePath]
	if !ok {
		return nil, errors.New("no such file")
	}
	return data, nil
}

func (f *fakeRemote) Rename(oldPath, newPath string) error {
	f.renames[oldPath] = newPath
	return nil
}

func testLine(recordType byte, fields map[int]string) string {
	b := []byte(strings.Repeat(" ", achfile.RecordLength))
	b[0] = recordType
	for start, value := range fields {
		copy(b[start:], value)
	}
	return string(b)
}

func validContent() string {
	return strings.Join([]string{
		testLine('5', map[int]string{1: "225", 4: "ACME PAYROLL", 50: "PPD", 87: "0000001"}),
		testLine('6', map[int]string{1: "27", 29: "0000025000", 78: "0", 79: "076401230001234"}),
		testLine('8', map[int]string{1: "225", 87: "0000001"}),
	}, "\n") + "\n"
}

func invalidContent() string {
	return testLine('5', map[int]string{1: "999", 50: "XYZ", 87: "0000001"}) + "\n"
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "achfile.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func gzipped(t *testing.T, content string) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func TestSyncer_Run(t *testing.T) {
	t.Parallel()

	st := openTestStore(t)
	remote := newFakeRemote()
	remote.add("inbound.ach", []byte(validContent()))
	remote.add("archive-redelivery.ach.gz", gzipped(t, invalidContent()))

	cfg := config.SyncConfig{
		RemoteDir:  "drop",
		ArchiveDir: "drop/archive",
		ClientID:   "ACME01",
		CreatedBy:  "achfile-sync",
	}
	syncer := New(st, remote, cfg, nil)

	result, err := syncer.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 2, result.TotalFiles)
	assert.Equal(t, 2, result.Synced)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 1, result.InvalidLines)
	assert.Empty(t, result.Errors)

	t.Run("files are stored and marked processed", func(t *testing.T) {
		files, err := st.ListFiles(context.Background(), 10, 0)
		require.NoError(t, err)
		require.Len(t, files, 2)
		for _, file := range files {
			assert.Equal(t, store.StatusProcessed, file.ProcessingStatus)
			assert.Equal(t, "achfile-sync", file.CreatedBy)
		}
	})

	t.Run("compressed drop is stored decompressed", func(t *testing.T) {
		files, err := st.ListFiles(context.Background(), 10, 0)
		require.NoError(t, err)
		for _, file := range files {
			if file.OriginalFilename == "archive-redelivery.ach.gz" {
				assert.Equal(t, invalidContent(), file.FileContents)
			}
		}
	})

	t.Run("remote files archived under client id", func(t *testing.T) {
		assert.Equal(t, "drop/archive/CLIENTID_ACME01_inbound.ach", remote.renames["drop/inbound.ach"])
		assert.Equal(t, "drop/archive/CLIENTID_ACME01_archive-redelivery.ach.gz",
			remote.renames["drop/archive-redelivery.ach.gz"])
	})
}

func TestSyncer_Run_PerFileFailure(t *testing.T) {
	t.Parallel()

	st := openTestStore(t)
	remote := newFakeRemote()
	remote.add("broken.ach", []byte(validContent()))
	remote.add("good.ach", []byte(validContent()))
	remote.readErr["drop/broken.ach"] = errors.New("connection reset")

	syncer := New(st, remote, config.SyncConfig{RemoteDir: "drop", ArchiveDir: "drop/archive"}, nil)

	result, err := syncer.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalFiles)
	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "broken.ach")

	// The broken file never produced a store row.
	count, err := st.CountFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSyncer_Run_CorruptCompressedDrop(t *testing.T) {
	t.Parallel()

	st := openTestStore(t)
	remote := newFakeRemote()
	remote.add("corrupt.ach.gz", []byte("not gzip at all"))

	syncer := New(st, remote, config.SyncConfig{RemoteDir: "drop", ArchiveDir: "drop/archive"}, nil)

	result, err := syncer.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Failed)
	assert.Empty(t, remote.renames)
}

func TestSyncer_Run_ListFailure(t *testing.T) {
	t.Parallel()

	st := openTestStore(t)
	remote := newFakeRemote()
	remote.listErr = errors.New("permission denied")

	syncer := New(st, remote, config.SyncConfig{RemoteDir: "drop"}, nil)

	_, err := syncer.Run(context.Background())
	assert.Error(t, err)
}

func TestSyncer_Run_ContextCanceled(t *testing.T) {
	t.Parallel()

	st := openTestStore(t)
	remote := newFakeRemote()
	remote.add("inbound.ach", []byte(validContent()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	syncer := New(st, remote, config.SyncConfig{RemoteDir: "drop"}, nil)

	result, err := syncer.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, result.Synced)
}
