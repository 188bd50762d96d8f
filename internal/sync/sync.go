// Package sync ingests ACH files from the partner drop folder into the
// store: raw contents, parsed record buckets, and the per-line validation
// ledger, then archives the remote file.
package sync

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/obsfin/achfile"
	"github.com/obsfin/achfile/internal/config"
	"github.com/obsfin/achfile/internal/sftp"
	"github.com/obsfin/achfile/internal/store"
)

// Remote is the slice of the SFTP client the sync job consumes. Kept small
// so tests can substitute a local fake.
type Remote interface {
	List(dir string) ([]sftp.FileInfo, error)
	Read(remotePath string) ([]byte, error)
	Rename(oldPath, newPath string) error
}

// Result summarizes one sync run.
type Result struct {
	RunID        string
	TotalFiles   int
	Synced       int
	Failed       int
	InvalidLines int
	Errors       []string
}

// Syncer moves files from the remote drop folder into the store.
type Syncer struct {
	store  *store.Store
	remote Remote
	cfg    config.SyncConfig
	log    *logrus.Logger
}

// New builds a Syncer. A nil logger disables logging.
func New(st *store.Store, remote Remote, cfg config.SyncConfig, log *logrus.Logger) *Syncer {
	if log == nil {
		log = logrus.New()
		log.SetOutput(nopWriter{})
	}
	return &Syncer{store: st, remote: remote, cfg: cfg, log: log}
}

// Run ingests every file currently in the drop folder. Per-file failures
// are recorded in the Result and do not abort the run; only a failure to
// list the drop folder is returned as an error.
func (s *Syncer) Run(ctx context.Context) (*Result, error) {
	result := &Result{RunID: uuid.NewString()}
	log := s.log.WithField("run_id", result.RunID)

	log.WithField("remote_dir", s.cfg.RemoteDir).Info("starting drop folder sync")

	files, err := s.remote.List(s.cfg.RemoteDir)
	if err != nil {
		return nil, fmt.Errorf("listing drop folder: %w", err)
	}
	result.TotalFiles = len(files)
	log.WithField("count", len(files)).Info("found files in drop folder")

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		fileLog := log.WithField("file", file.Name)
		invalidLines, err := s.processFile(ctx, file)
		if err != nil {
			fileLog.WithError(err).Error("file sync failed")
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", file.Name, err))
			continue
		}
		result.Synced++
		result.InvalidLines += invalidLines
		fileLog.WithField("invalid_lines", invalidLines).Info("file synced")
	}

	log.WithFields(logrus.Fields{
		"synced": result.Synced,
		"failed": result.Failed,
	}).Info("sync completed")
	return result, nil
}

// processFile ingests one remote file end to end and returns the number of
// invalid lines its validation ledger recorded.
func (s *Syncer) processFile(ctx context.Context, file sftp.FileInfo) (int, error) {
	data, err := s.remote.Read(file.Path)
	if err != nil {
		return 0, fmt.Errorf("reading remote file: %w", err)
	}

	content, err := achfile.ReadAll(bytes.NewReader(data), file.Name)
	if err != nil {
		return 0, fmt.Errorf("decompressing: %w", err)
	}

	fileID, err := s.store.CreateFile(ctx, &store.AchFile{
		OriginalFilename: file.Name,
		ProcessingStatus: store.StatusPending,
		FileContents:     content,
		CreatedBy:        s.cfg.CreatedBy,
	})
	if err != nil {
		return 0, fmt.Errorf("creating file row: %w", err)
	}

	invalidLines, err := s.persistParsed(ctx, fileID, content)
	if err != nil {
		if statusErr := s.store.UpdateFileStatus(ctx, fileID, store.StatusFailed); statusErr != nil {
			s.log.WithError(statusErr).Warn("failed to mark file as failed")
		}
		return 0, err
	}

	if err := s.store.UpdateFileStatus(ctx, fileID, store.StatusProcessed); err != nil {
		return 0, fmt.Errorf("marking file processed: %w", err)
	}

	if err := s.archive(file); err != nil {
		return 0, fmt.Errorf("archiving remote file: %w", err)
	}
	return invalidLines, nil
}

func (s *Syncer) persistParsed(ctx context.Context, fileID int64, content string) (int, error) {
	parsed := achfile.ParseFileContent(content)
	if err := s.store.InsertRecords(ctx, fileID, parsed); err != nil {
		return 0, fmt.Errorf("persisting records: %w", err)
	}

	validations := achfile.ParseAndValidate(content)
	if _, err := s.store.ReplaceLines(ctx, fileID, validations); err != nil {
		return 0, fmt.Errorf("persisting line ledger: %w", err)
	}

	invalid := 0
	for _, v := range validations {
		if !v.IsValid {
			invalid++
		}
	}
	return invalid, nil
}

func (s *Syncer) archive(file sftp.FileInfo) error {
	name := file.Name
	if s.cfg.ClientID != "" {
		name = AddClientID(name, s.cfg.ClientID)
	}
	return s.remote.Rename(file.Path, path.Join(s.cfg.ArchiveDir, name))
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
