package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSave_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "achfile.yaml")
	want := &Config{
		SFTP: SFTPConfig{
			Host:           "sftp.partner.example",
			Port:           2222,
			Username:       "ingest",
			KeyPath:        "/etc/achfile/id_ed25519",
			TimeoutSeconds: 15,
		},
		Store: StoreConfig{Path: "/var/lib/achfile/achfile.db"},
		Sync: SyncConfig{
			RemoteDir:  "outbound",
			ArchiveDir: "outbound/archive",
			ClientID:   "ACME01",
			CreatedBy:  "achfile-sync",
		},
	}

	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("sftp: [whoops"), 0o644))

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("omitted sections default to zero values", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "partial.yaml")
		require.NoError(t, os.WriteFile(path, []byte("sftp:\n  host: example.com\n"), 0o644))

		got, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "example.com", got.SFTP.Host)
		assert.Zero(t, got.SFTP.Port)
		assert.Empty(t, got.Store.Path)
	})
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()

	assert.Equal(t, 22, cfg.SFTP.Port)
	assert.Equal(t, 30, cfg.SFTP.TimeoutSeconds)
	assert.Equal(t, "./data/achfile.db", cfg.Store.Path)
	assert.Equal(t, ".", cfg.Sync.RemoteDir)
	assert.Equal(t, "archive", cfg.Sync.ArchiveDir)
	assert.Equal(t, "achfile-sync", cfg.Sync.CreatedBy)
}
