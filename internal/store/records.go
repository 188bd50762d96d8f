package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/obsfin/achfile"
)

// entryKey identifies an entry detail within one file for addenda linking.
type entryKey struct {
	batchNumber   int64
	traceSequence int64
}

// InsertRecords persists every bucket of a parsed file under fileID. The
// parser output is cloned before the file id is stamped on, so the caller's
// ParsedFile stays untouched.
//
// Addenda rows are linked to entry details by matching the addenda's
// (batch_number, entry_detail_sequence_num) against an inserted entry's
// (batch_number, trace_sequence_number). The NACHA spec does not guarantee
// those two sequence numbers agree in every originator's files; unmatched
// addenda keep a NULL entry_detail_id rather than failing the insert.
func (s *Store) InsertRecords(ctx context.Context, fileID int64, parsed *achfile.ParsedFile) error {
	if parsed == nil {
		return fmt.Errorf("parsed file cannot be nil")
	}

	records, err := parsed.Clone()
	if err != nil {
		return fmt.Errorf("failed to clone parsed records: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range records.FileHeaders {
		records.FileHeaders[i].FileID = fileID
		if err := insertFileHeader(ctx, tx, &records.FileHeaders[i]); err != nil {
			return err
		}
	}
	for i := range records.BatchHeaders {
		records.BatchHeaders[i].FileID = fileID
		if err := insertBatchHeader(ctx, tx, &records.BatchHeaders[i]); err != nil {
			return err
		}
	}

	entryIDs := make(map[entryKey]int64, len(records.EntryDetails))
	for i := range records.EntryDetails {
		entry := &records.EntryDetails[i]
		entry.FileID = fileID
		entryDetailID, err := insertEntryDetail(ctx, tx, entry)
		if err != nil {
			return err
		}
		if entry.TraceSequenceNumber != nil {
			entryIDs[entryKey{entry.BatchNumber, *entry.TraceSequenceNumber}] = entryDetailID
		}
	}

	for i := range records.Addendas {
		addenda := &records.Addendas[i]
		addenda.FileID = fileID
		if addenda.EntryDetailSequenceNum != nil {
			if id, ok := entryIDs[entryKey{addenda.BatchNumber, *addenda.EntryDetailSequenceNum}]; ok {
				addenda.EntryDetailID = &id
			}
		}
		if err := insertAddenda(ctx, tx, addenda); err != nil {
			return err
		}
	}

	for i := range records.BatchControls {
		records.BatchControls[i].FileID = fileID
		if err := insertBatchControl(ctx, tx, &records.BatchControls[i]); err != nil {
			return err
		}
	}
	for i := range records.FileControls {
		records.FileControls[i].FileID = fileID
		if err := insertFileControl(ctx, tx, &records.FileControls[i]); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func insertFileHeader(ctx context.Context, tx *sql.Tx, record *achfile.FileHeader) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO ach_file_headers (
			file_id, record_type_code, priority_code, immediate_destination,
			immediate_origin, file_creation_date, file_creation_time,
			file_id_modifier, record_size, blocking_factor, format_code,
			immediate_dest_name, immediate_origin_name, reference_code, raw_record
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, record.FileID, record.RecordTypeCode, record.PriorityCode, record.ImmediateDestination,
		record.ImmediateOrigin, record.FileCreationDate, record.FileCreationTime,
		record.FileIDModifier, record.RecordSize, record.BlockingFactor, record.FormatCode,
		record.ImmediateDestName, record.ImmediateOriginName, record.ReferenceCode, record.RawRecord)
	if err != nil {
		return fmt.Errorf("failed to insert file header: %w", err)
	}
	return nil
}

func insertBatchHeader(ctx context.Context, tx *sql.Tx, record *achfile.BatchHeader) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO ach_batch_headers (
			file_id, batch_number, record_type_code, service_class_code,
			company_name, company_discretionary_data, company_identification,
			standard_entry_class_code, company_entry_description,
			company_descriptive_date, effective_entry_date, settlement_date,
			originator_status_code, originating_dfi_id, raw_record
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, record.FileID, record.BatchNumber, record.RecordTypeCode, record.ServiceClassCode,
		record.CompanyName, record.CompanyDiscretionaryData, record.CompanyIdentification,
		record.StandardEntryClassCode, record.CompanyEntryDescription,
		record.CompanyDescriptiveDate, record.EffectiveEntryDate, record.SettlementDate,
		record.OriginatorStatusCode, record.OriginatingDFIID, record.RawRecord)
	if err != nil {
		return fmt.Errorf("failed to insert batch header: %w", err)
	}
	return nil
}

func insertEntryDetail(ctx context.Context, tx *sql.Tx, record *achfile.EntryDetail) (int64, error) {
	result, err := tx.ExecContext(ctx, `
		INSERT INTO ach_entry_details (
			file_id, batch_number, record_type_code, transaction_code,
			receiving_dfi_id, check_digit, dfi_account_number, amount,
			amount_decimal, individual_id_number, individual_name,
			discretionary_data, addenda_record_indicator, trace_number,
			trace_sequence_number, raw_record
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, record.FileID, record.BatchNumber, record.RecordTypeCode, record.TransactionCode,
		record.ReceivingDFIID, record.CheckDigit, record.DFIAccountNumber, record.Amount,
		record.AmountDecimal, record.IndividualIDNumber, record.IndividualName,
		record.DiscretionaryData, record.AddendaRecordIndicator, record.TraceNumber,
		record.TraceSequenceNumber, record.RawRecord)
	if err != nil {
		return 0, fmt.Errorf("failed to insert entry detail: %w", err)
	}
	entryDetailID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted entry detail id: %w", err)
	}
	return entryDetailID, nil
}

func insertAddenda(ctx context.Context, tx *sql.Tx, record *achfile.Addenda) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO ach_addenda (
			file_id, entry_detail_id, batch_number, record_type_code,
			addenda_type_code, payment_related_info, addenda_sequence_number,
			entry_detail_sequence_num, raw_record
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, record.FileID, record.EntryDetailID, record.BatchNumber, record.RecordTypeCode,
		record.AddendaTypeCode, record.PaymentRelatedInfo, record.AddendaSequenceNumber,
		record.EntryDetailSequenceNum, record.RawRecord)
	if err != nil {
		return fmt.Errorf("failed to insert addenda: %w", err)
	}
	return nil
}

func insertBatchControl(ctx context.Context, tx *sql.Tx, record *achfile.BatchControl) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO ach_batch_controls (
			file_id, batch_number, record_type_code, service_class_code,
			entry_addenda_count, entry_hash, total_debit_amount,
			total_debit_amount_decimal, total_credit_amount,
			total_credit_amount_decimal, company_identification,
			message_auth_code, reserved, originating_dfi_id, raw_record
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, record.FileID, record.BatchNumber, record.RecordTypeCode, record.ServiceClassCode,
		record.EntryAddendaCount, record.EntryHash, record.TotalDebitAmount,
		record.TotalDebitAmountDecimal, record.TotalCreditAmount,
		record.TotalCreditAmountDecimal, record.CompanyIdentification,
		record.MessageAuthCode, record.Reserved, record.OriginatingDFIID, record.RawRecord)
	if err != nil {
		return fmt.Errorf("failed to insert batch control: %w", err)
	}
	return nil
}

func insertFileControl(ctx context.Context, tx *sql.Tx, record *achfile.FileControl) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO ach_file_controls (
			file_id, record_type_code, batch_count, block_count,
			entry_addenda_count, entry_hash, total_debit_amount,
			total_debit_amount_decimal, total_credit_amount,
			total_credit_amount_decimal, reserved, raw_record
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, record.FileID, record.RecordTypeCode, record.BatchCount, record.BlockCount,
		record.EntryAddendaCount, record.EntryHash, record.TotalDebitAmount,
		record.TotalDebitAmountDecimal, record.TotalCreditAmount,
		record.TotalCreditAmountDecimal, record.Reserved, record.RawRecord)
	if err != nil {
		return fmt.Errorf("failed to insert file control: %w", err)
	}
	return nil
}
