package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/obsfin/achfile"
)

// FileLine is a row in the ach_file_lines audit ledger. LineErrors is nil
// for valid lines and a "; "-joined error list otherwise.
type FileLine struct {
	LineID      int64
	FileID      int64
	LineNumber  int
	LineContent string
	LineErrors  *string
}

// ReplaceLines rewrites the audit ledger for one file from a validation
// pass: existing rows are deleted, then one row per validated line is
// inserted, all in a single transaction. Returns the number of rows
// inserted.
func (s *Store) ReplaceLines(ctx context.Context, fileID int64, results []achfile.ValidationResult) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM ach_file_lines WHERE file_id = ?", fileID); err != nil {
		return 0, fmt.Errorf("failed to delete existing lines: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO ach_file_lines (file_id, line_number, line_content, line_errors)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare line insert: %w", err)
	}
	defer stmt.Close()

	for _, result := range results {
		var lineErrors any
		if len(result.Errors) > 0 {
			lineErrors = strings.Join(result.Errors, "; ")
		}
		if _, err := stmt.ExecContext(ctx, fileID, result.LineNumber, result.LineContent, lineErrors); err != nil {
			return 0, fmt.Errorf("failed to insert line %d: %w", result.LineNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit lines: %w", err)
	}
	return len(results), nil
}

// GetLines returns the audit ledger for one file in line order.
func (s *Store) GetLines(ctx context.Context, fileID int64, limit, offset int) ([]*FileLine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT line_id, file_id, line_number, line_content, line_errors
		FROM ach_file_lines WHERE file_id = ?
		ORDER BY line_number LIMIT ? OFFSET ?
	`, fileID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query file lines: %w", err)
	}
	defer rows.Close()

	var lines []*FileLine
	for rows.Next() {
		var line FileLine
		var lineErrors sql.NullString
		if err := rows.Scan(&line.LineID, &line.FileID, &line.LineNumber,
			&line.LineContent, &lineErrors); err != nil {
			return nil, fmt.Errorf("failed to scan file line: %w", err)
		}
		if lineErrors.Valid {
			line.LineErrors = &lineErrors.String
		}
		lines = append(lines, &line)
	}
	return lines, rows.Err()
}

// CountLines returns the ledger size for one file.
func (s *Store) CountLines(ctx context.Context, fileID int64) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM ach_file_lines WHERE file_id = ?", fileID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count file lines: %w", err)
	}
	return count, nil
}
