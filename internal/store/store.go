// Package store persists ACH files, their parsed record buckets, and the
// per-line validation ledger in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Processing statuses recorded on ach_files rows.
const (
	StatusPending   = "Pending"
	StatusProcessed = "Processed"
	StatusFailed    = "Failed"
)

// AchFile is a row in ach_files: the raw file contents plus bookkeeping.
type AchFile struct {
	FileID           int64
	OriginalFilename string
	ProcessingStatus string
	FileContents     string
	CreatedBy        string
	CreatedAt        time.Time
}

// Store wraps the SQLite database holding ingested ACH files.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (creating if necessary) the SQLite database at path.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS ach_files (
		file_id INTEGER PRIMARY KEY AUTOINCREMENT,
		original_filename TEXT NOT NULL,
		processing_status TEXT NOT NULL,
		file_contents TEXT NOT NULL,
		created_by_user TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS ach_file_headers (
		file_header_id INTEGER PRIMARY KEY AUTOINCREMENT,
		file_id INTEGER NOT NULL REFERENCES ach_files(file_id),
		record_type_code TEXT,
		priority_code TEXT,
		immediate_destination TEXT,
		immediate_origin TEXT,
		file_creation_date TEXT,
		file_creation_time TEXT,
		file_id_modifier TEXT,
		record_size TEXT,
		blocking_factor TEXT,
		format_code TEXT,
		immediate_dest_name TEXT,
		immediate_origin_name TEXT,
		reference_code TEXT,
		raw_record TEXT
	);

	CREATE TABLE IF NOT EXISTS ach_batch_headers (
		batch_header_id INTEGER PRIMARY KEY AUTOINCREMENT,
		file_id INTEGER NOT NULL REFERENCES ach_files(file_id),
		batch_number INTEGER NOT NULL,
		record_type_code TEXT,
		service_class_code TEXT,
		company_name TEXT,
		company_discretionary_data TEXT,
		company_identification TEXT,
		standard_entry_class_code TEXT,
		company_entry_description TEXT,
		company_descriptive_date TEXT,
		effective_entry_date TEXT,
		settlement_date TEXT,
		originator_status_code TEXT,
		originating_dfi_id TEXT,
		raw_record TEXT
	);

	CREATE TABLE IF NOT EXISTS ach_entry_details (
		entry_detail_id INTEGER PRIMARY KEY AUTOINCREMENT,
		file_id INTEGER NOT NULL REFERENCES ach_files(file_id),
		batch_number INTEGER NOT NULL,
		record_type_code TEXT,
		transaction_code TEXT,
		receiving_dfi_id TEXT,
		check_digit TEXT,
		dfi_account_number TEXT,
		amount INTEGER NOT NULL,
		amount_decimal REAL NOT NULL,
		individual_id_number TEXT,
		individual_name TEXT,
		discretionary_data TEXT,
		addenda_record_indicator TEXT,
		trace_number TEXT,
		trace_sequence_number INTEGER,
		raw_record TEXT
	);

	CREATE TABLE IF NOT EXISTS ach_addenda (
		addenda_id INTEGER PRIMARY KEY AUTOINCREMENT,
		file_id INTEGER NOT NULL REFERENCES ach_files(file_id),
		entry_detail_id INTEGER REFERENCES ach_entry_details(entry_detail_id),
		batch_number INTEGER NOT NULL,
		record_type_code TEXT,
		addenda_type_code TEXT,
		payment_related_info TEXT,
		addenda_sequence_number INTEGER,
		entry_detail_sequence_num INTEGER,
		raw_record TEXT
	);

	CREATE TABLE IF NOT EXISTS ach_batch_controls (
		batch_control_id INTEGER PRIMARY KEY AUTOINCREMENT,
		file_id INTEGER NOT NULL REFERENCES ach_files(file_id),
		batch_number INTEGER NOT NULL,
		record_type_code TEXT,
		service_class_code TEXT,
		entry_addenda_count INTEGER,
		entry_hash TEXT,
		total_debit_amount INTEGER NOT NULL,
		total_debit_amount_decimal REAL NOT NULL,
		total_credit_amount INTEGER NOT NULL,
		total_credit_amount_decimal REAL NOT NULL,
		company_identification TEXT,
		message_auth_code TEXT,
		reserved TEXT,
		originating_dfi_id TEXT,
		raw_record TEXT
	);

	CREATE TABLE IF NOT EXISTS ach_file_controls (
		file_control_id INTEGER PRIMARY KEY AUTOINCREMENT,
		file_id INTEGER NOT NULL REFERENCES ach_files(file_id),
		record_type_code TEXT,
		batch_count INTEGER,
		block_count INTEGER,
		entry_addenda_count INTEGER,
		entry_hash TEXT,
		total_debit_amount INTEGER NOT NULL,
		total_debit_amount_decimal REAL NOT NULL,
		total_credit_amount INTEGER NOT NULL,
		total_credit_amount_decimal REAL NOT NULL,
		reserved TEXT,
		raw_record TEXT
	);

	CREATE TABLE IF NOT EXISTS ach_file_lines (
		line_id INTEGER PRIMARY KEY AUTOINCREMENT,
		file_id INTEGER NOT NULL REFERENCES ach_files(file_id),
		line_number INTEGER NOT NULL,
		line_content TEXT NOT NULL,
		line_errors TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_files_status ON ach_files(processing_status);
	CREATE INDEX IF NOT EXISTS idx_entry_details_file ON ach_entry_details(file_id);
	CREATE INDEX IF NOT EXISTS idx_entry_details_batch_trace ON ach_entry_details(file_id, batch_number, trace_sequence_number);
	CREATE INDEX IF NOT EXISTS idx_addenda_file ON ach_addenda(file_id);
	CREATE INDEX IF NOT EXISTS idx_lines_file ON ach_file_lines(file_id, line_number);
	`

	_, err := s.db.Exec(schema)
	return err
}

// CreateFile inserts an ach_files row and returns its file_id.
func (s *Store) CreateFile(ctx context.Context, file *AchFile) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if file.ProcessingStatus == "" {
		file.ProcessingStatus = StatusPending
	}
	if file.CreatedAt.IsZero() {
		file.CreatedAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO ach_files (original_filename, processing_status, file_contents, created_by_user, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, file.OriginalFilename, file.ProcessingStatus, file.FileContents, file.CreatedBy, file.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert ach file: %w", err)
	}

	fileID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted file id: %w", err)
	}
	file.FileID = fileID
	return fileID, nil
}

// GetFile loads one ach_files row. It returns (nil, nil) when the id does
// not exist.
func (s *Store) GetFile(ctx context.Context, fileID int64) (*AchFile, error) {
	var file AchFile
	err := s.db.QueryRowContext(ctx, `
		SELECT file_id, original_filename, processing_status, file_contents, created_by_user, created_at
		FROM ach_files WHERE file_id = ?
	`, fileID).Scan(&file.FileID, &file.OriginalFilename, &file.ProcessingStatus,
		&file.FileContents, &file.CreatedBy, &file.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query ach file: %w", err)
	}
	return &file, nil
}

// ListFiles returns ach_files rows ordered newest first.
func (s *Store) ListFiles(ctx context.Context, limit, offset int) ([]*AchFile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT file_id, original_filename, processing_status, file_contents, created_by_user, created_at
		FROM ach_files ORDER BY file_id DESC LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query ach files: %w", err)
	}
	defer rows.Close()

	var files []*AchFile
	for rows.Next() {
		var file AchFile
		if err := rows.Scan(&file.FileID, &file.OriginalFilename, &file.ProcessingStatus,
			&file.FileContents, &file.CreatedBy, &file.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ach file: %w", err)
		}
		files = append(files, &file)
	}
	return files, rows.Err()
}

// UpdateFileStatus sets the processing status of one file.
func (s *Store) UpdateFileStatus(ctx context.Context, fileID int64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx,
		`UPDATE ach_files SET processing_status = ? WHERE file_id = ?`, status, fileID)
	if err != nil {
		return fmt.Errorf("failed to update file status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("file %d not found", fileID)
	}
	return nil
}

// DeleteFile removes a file and every dependent record and line row.
func (s *Store) DeleteFile(ctx context.Context, fileID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{
		"ach_file_lines", "ach_addenda", "ach_entry_details",
		"ach_batch_headers", "ach_batch_controls",
		"ach_file_headers", "ach_file_controls",
	} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE file_id = ?", fileID); err != nil {
			return fmt.Errorf("failed to delete from %s: %w", table, err)
		}
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM ach_files WHERE file_id = ?", fileID); err != nil {
		return fmt.Errorf("failed to delete ach file: %w", err)
	}

	return tx.Commit()
}

// CountFiles returns the number of ach_files rows.
func (s *Store) CountFiles(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM ach_files").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count ach files: %w", err)
	}
	return count, nil
}
