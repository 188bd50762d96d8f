package achfile

import (
	"strconv"
	"strings"
)

// ColumnType represents the declared type of a table column.
type ColumnType int

const (
	// TypeText represents text/string column type.
	TypeText ColumnType = iota
	// TypeInteger represents integer column type.
	TypeInteger
	// TypeReal represents floating-point column type.
	TypeReal
)

// String returns the string representation of ColumnType.
func (ct ColumnType) String() string {
	switch ct {
	case TypeInteger:
		return "INTEGER"
	case TypeReal:
		return "REAL"
	default:
		return "TEXT"
	}
}

// TableData is a flat tabular view of one record bucket: column names in
// order, data rows as string slices, and a declared type per column.
// Nullable numeric fields render as empty strings.
type TableData struct {
	// Headers contains the column names in order.
	Headers []string
	// Records contains the data rows. Each record is a slice of string values.
	Records [][]string
	// ColumnTypes contains the declared types for each column.
	// The length matches Headers.
	ColumnTypes []ColumnType
}

// TableSet contains one TableData per record bucket of a parsed ACH file.
// The flat projection feeds the XLSX and Parquet exporters and keeps the
// hierarchical file queryable as plain tables.
type TableSet struct {
	FileHeaders   *TableData
	BatchHeaders  *TableData
	EntryDetails  *TableData
	Addendas      *TableData
	BatchControls *TableData
	FileControls  *TableData
}

// Tables returns the set's tables keyed by bucket name, in a stable order
// suitable for sheet-per-table export.
func (ts *TableSet) Tables() []struct {
	Name string
	Data *TableData
} {
	return []struct {
		Name string
		Data *TableData
	}{
		{"file_headers", ts.FileHeaders},
		{"batch_headers", ts.BatchHeaders},
		{"entry_details", ts.EntryDetails},
		{"addendas", ts.Addendas},
		{"batch_controls", ts.BatchControls},
		{"file_controls", ts.FileControls},
	}
}

// ToTableSet converts parsed record buckets to flat tables.
func ToTableSet(parsed *ParsedFile) *TableSet {
	if parsed == nil {
		return nil
	}
	return &TableSet{
		FileHeaders:   fileHeaderTable(parsed.FileHeaders),
		BatchHeaders:  batchHeaderTable(parsed.BatchHeaders),
		EntryDetails:  entryDetailTable(parsed.EntryDetails),
		Addendas:      addendaTable(parsed.Addendas),
		BatchControls: batchControlTable(parsed.BatchControls),
		FileControls:  fileControlTable(parsed.FileControls),
	}
}

func fileHeaderTable(headers []FileHeader) *TableData {
	columns := []string{
		"priority_code",
		"immediate_destination",
		"immediate_origin",
		"file_creation_date",
		"file_creation_time",
		"file_id_modifier",
		"record_size",
		"blocking_factor",
		"format_code",
		"immediate_destination_name",
		"immediate_origin_name",
		"reference_code",
	}
	columnTypes := []ColumnType{
		TypeText, // priority_code
		TypeText, // immediate_destination
		TypeText, // immediate_origin
		TypeText, // file_creation_date (YYMMDD format)
		TypeText, // file_creation_time (HHMM format)
		TypeText, // file_id_modifier
		TypeText, // record_size
		TypeText, // blocking_factor
		TypeText, // format_code
		TypeText, // immediate_destination_name
		TypeText, // immediate_origin_name
		TypeText, // reference_code
	}

	records := make([][]string, 0, len(headers))
	for _, h := range headers {
		records = append(records, []string{
			h.PriorityCode,
			h.ImmediateDestination,
			h.ImmediateOrigin,
			h.FileCreationDate,
			h.FileCreationTime,
			h.FileIDModifier,
			h.RecordSize,
			h.BlockingFactor,
			h.FormatCode,
			h.ImmediateDestName,
			h.ImmediateOriginName,
			h.ReferenceCode,
		})
	}

	return &TableData{Headers: columns, Records: records, ColumnTypes: columnTypes}
}

func batchHeaderTable(headers []BatchHeader) *TableData {
	columns := []string{
		"batch_number",
		"service_class_code",
		"company_name",
		"company_discretionary_data",
		"company_identification",
		"standard_entry_class_code",
		"company_entry_description",
		"company_descriptive_date",
		"effective_entry_date",
		"settlement_date",
		"originator_status_code",
		"originating_dfi_id",
	}
	columnTypes := []ColumnType{
		TypeInteger, // batch_number
		TypeText,    // service_class_code
		TypeText,    // company_name
		TypeText,    // company_discretionary_data
		TypeText,    // company_identification
		TypeText,    // standard_entry_class_code
		TypeText,    // company_entry_description
		TypeText,    // company_descriptive_date
		TypeText,    // effective_entry_date
		TypeText,    // settlement_date
		TypeText,    // originator_status_code
		TypeText,    // originating_dfi_id
	}

	records := make([][]string, 0, len(headers))
	for _, h := range headers {
		records = append(records, []string{
			strconv.FormatInt(h.BatchNumber, 10),
			h.ServiceClassCode,
			h.CompanyName,
			h.CompanyDiscretionaryData,
			h.CompanyIdentification,
			h.StandardEntryClassCode,
			h.CompanyEntryDescription,
			h.CompanyDescriptiveDate,
			h.EffectiveEntryDate,
			h.SettlementDate,
			h.OriginatorStatusCode,
			h.OriginatingDFIID,
		})
	}

	return &TableData{Headers: columns, Records: records, ColumnTypes: columnTypes}
}

func entryDetailTable(entries []EntryDetail) *TableData {
	columns := []string{
		"batch_number",
		"transaction_code",
		"receiving_dfi_id",
		"check_digit",
		"dfi_account_number",
		"amount",
		"amount_decimal",
		"individual_id_number",
		"individual_name",
		"discretionary_data",
		"addenda_record_indicator",
		"trace_number",
		"trace_sequence_number",
	}
	columnTypes := []ColumnType{
		TypeInteger, // batch_number
		TypeText,    // transaction_code
		TypeText,    // receiving_dfi_id
		TypeText,    // check_digit
		TypeText,    // dfi_account_number
		TypeInteger, // amount (in cents)
		TypeReal,    // amount_decimal
		TypeText,    // individual_id_number
		TypeText,    // individual_name
		TypeText,    // discretionary_data
		TypeText,    // addenda_record_indicator
		TypeText,    // trace_number
		TypeInteger, // trace_sequence_number
	}

	records := make([][]string, 0, len(entries))
	for _, e := range entries {
		records = append(records, []string{
			strconv.FormatInt(e.BatchNumber, 10),
			e.TransactionCode,
			e.ReceivingDFIID,
			e.CheckDigit,
			e.DFIAccountNumber,
			strconv.FormatInt(e.Amount, 10),
			strconv.FormatFloat(e.AmountDecimal, 'f', 2, 64),
			e.IndividualIDNumber,
			e.IndividualName,
			e.DiscretionaryData,
			e.AddendaRecordIndicator,
			e.TraceNumber,
			formatOptionalInt(e.TraceSequenceNumber),
		})
	}

	return &TableData{Headers: columns, Records: records, ColumnTypes: columnTypes}
}

func addendaTable(addendas []Addenda) *TableData {
	columns := []string{
		"batch_number",
		"addenda_type_code",
		"payment_related_info",
		"addenda_sequence_number",
		"entry_detail_sequence_number",
	}
	columnTypes := []ColumnType{
		TypeInteger, // batch_number
		TypeText,    // addenda_type_code
		TypeText,    // payment_related_info
		TypeInteger, // addenda_sequence_number
		TypeInteger, // entry_detail_sequence_number
	}

	records := make([][]string, 0, len(addendas))
	for _, a := range addendas {
		records = append(records, []string{
			strconv.FormatInt(a.BatchNumber, 10),
			a.AddendaTypeCode,
			a.PaymentRelatedInfo,
			formatOptionalInt(a.AddendaSequenceNumber),
			formatOptionalInt(a.EntryDetailSequenceNum),
		})
	}

	return &TableData{Headers: columns, Records: records, ColumnTypes: columnTypes}
}

func batchControlTable(controls []BatchControl) *TableData {
	columns := []string{
		"batch_number",
		"service_class_code",
		"entry_addenda_count",
		"entry_hash",
		"total_debit_amount",
		"total_credit_amount",
		"company_identification",
		"originating_dfi_id",
	}
	columnTypes := []ColumnType{
		TypeInteger, // batch_number
		TypeText,    // service_class_code
		TypeInteger, // entry_addenda_count
		TypeText,    // entry_hash
		TypeInteger, // total_debit_amount (in cents)
		TypeInteger, // total_credit_amount (in cents)
		TypeText,    // company_identification
		TypeText,    // originating_dfi_id
	}

	records := make([][]string, 0, len(controls))
	for _, c := range controls {
		records = append(records, []string{
			strconv.FormatInt(c.BatchNumber, 10),
			c.ServiceClassCode,
			formatOptionalInt(c.EntryAddendaCount),
			c.EntryHash,
			strconv.FormatInt(c.TotalDebitAmount, 10),
			strconv.FormatInt(c.TotalCreditAmount, 10),
			c.CompanyIdentification,
			c.OriginatingDFIID,
		})
	}

	return &TableData{Headers: columns, Records: records, ColumnTypes: columnTypes}
}

func fileControlTable(controls []FileControl) *TableData {
	columns := []string{
		"batch_count",
		"block_count",
		"entry_addenda_count",
		"entry_hash",
		"total_debit_amount",
		"total_credit_amount",
	}
	columnTypes := []ColumnType{
		TypeInteger, // batch_count
		TypeInteger, // block_count
		TypeInteger, // entry_addenda_count
		TypeText,    // entry_hash
		TypeInteger, // total_debit_amount (in cents)
		TypeInteger, // total_credit_amount (in cents)
	}

	records := make([][]string, 0, len(controls))
	for _, c := range controls {
		records = append(records, []string{
			formatOptionalInt(c.BatchCount),
			formatOptionalInt(c.BlockCount),
			formatOptionalInt(c.EntryAddendaCount),
			c.EntryHash,
			strconv.FormatInt(c.TotalDebitAmount, 10),
			strconv.FormatInt(c.TotalCreditAmount, 10),
		})
	}

	return &TableData{Headers: columns, Records: records, ColumnTypes: columnTypes}
}

// LinesTable converts a validation ledger to a flat table: one row per
// validated line, with errors joined by "; " and an empty cell for valid
// lines.
func LinesTable(results []ValidationResult) *TableData {
	columns := []string{"line_number", "record_type", "is_valid", "line_errors", "line_content"}
	columnTypes := []ColumnType{
		TypeInteger, // line_number
		TypeText,    // record_type
		TypeInteger, // is_valid (0 or 1)
		TypeText,    // line_errors
		TypeText,    // line_content
	}

	records := make([][]string, 0, len(results))
	for _, r := range results {
		isValid := "0"
		if r.IsValid {
			isValid = "1"
		}
		records = append(records, []string{
			strconv.Itoa(r.LineNumber),
			r.RecordType,
			isValid,
			strings.Join(r.Errors, "; "),
			r.LineContent,
		})
	}

	return &TableData{Headers: columns, Records: records, ColumnTypes: columnTypes}
}

func formatOptionalInt(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}
