// Package achfile decodes NACHA ACH payment files into typed records and
// validates their fixed-width lines.
//
// An ACH file is plaintext with nominally 94 characters per line; the leading
// digit of each line selects one of six record layouts (file header, batch
// header, entry detail, addenda, batch control, file control). Files arrive
// from external banking partners and are frequently non-conformant, so both
// entry points are deliberately lenient:
//
//   - [ParseFileContent] decodes every recognizable line into a typed record,
//     normalizing line length and silently skipping what it cannot decode.
//     It never returns an error for malformed content.
//   - [ParseAndValidate] checks each line exactly as given and reports
//     problems as data ([ValidationResult]), never as errors.
//
// Both are pure functions of the input text: no I/O, no shared state, safe
// to call concurrently across independent inputs.
//
// # Memory Considerations
//
// Parsing operates on the full file content in memory. ACH files are small
// in practice (a line per transaction), but callers feeding untrusted input
// should bound sizes upstream; there is no streaming variant.
//
// # Example usage
//
//	content, _ := os.ReadFile("payments.ach")
//	parsed := achfile.ParseFileContent(string(content))
//	fmt.Println("entries:", len(parsed.EntryDetails))
package achfile

import "strings"

// ParseFileContent parses raw ACH file content and buckets every recognized
// record by type, in file order.
//
// Lines are split on '\n'; blank lines are skipped, a single trailing '\r'
// is tolerated, and each surviving line is right-padded or truncated to
// exactly 94 characters before fields are sliced. The current batch number
// is carried from the most recent batch header onto subsequent entry detail,
// addenda, and batch control records. Lines with an unrecognized leading
// character produce no record.
//
// Numeric fields are coerced leniently: a field is parsed only when it is
// entirely ASCII digits, and otherwise degrades to zero or nil. Malformed
// content never yields an error.
func ParseFileContent(fileContent string) *ParsedFile {
	parsed := &ParsedFile{
		FileHeaders:   []FileHeader{},
		BatchHeaders:  []BatchHeader{},
		EntryDetails:  []EntryDetail{},
		Addendas:      []Addenda{},
		BatchControls: []BatchControl{},
		FileControls:  []FileControl{},
	}

	var currentBatchNumber int64

	for _, line := range strings.Split(fileContent, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		line = strings.TrimSuffix(line, "\r")
		line = normalizeLine(line)

		switch RecordTypeOf(line) {
		case RecordFileHeader:
			parsed.FileHeaders = append(parsed.FileHeaders, parseFileHeader(line))
		case RecordBatchHeader:
			record := parseBatchHeader(line)
			parsed.BatchHeaders = append(parsed.BatchHeaders, record)
			if record.BatchNumber != 0 {
				currentBatchNumber = record.BatchNumber
			}
		case RecordEntryDetail:
			parsed.EntryDetails = append(parsed.EntryDetails, parseEntryDetail(line, currentBatchNumber))
		case RecordAddenda:
			parsed.Addendas = append(parsed.Addendas, parseAddenda(line, currentBatchNumber))
		case RecordBatchControl:
			parsed.BatchControls = append(parsed.BatchControls, parseBatchControl(line, currentBatchNumber))
		case RecordFileControl:
			parsed.FileControls = append(parsed.FileControls, parseFileControl(line))
		case RecordUnknown:
			// The line is opaque to the parser.
		}
	}

	return parsed
}

// normalizeLine forces a line to exactly RecordLength characters, right
// padding with spaces or truncating.
func normalizeLine(line string) string {
	if len(line) < RecordLength {
		return line + strings.Repeat(" ", RecordLength-len(line))
	}
	if len(line) > RecordLength {
		return line[:RecordLength]
	}
	return line
}

// field slices [start, end) out of a normalized line and trims surrounding
// spaces. The bounds guard is kept for fields ending at offset 94 exactly.
func field(line string, start, end int) string {
	if end > len(line) {
		return ""
	}
	return strings.TrimSpace(line[start:end])
}

func parseFileHeader(line string) FileHeader {
	return FileHeader{
		FileID:               0, // set when inserting
		RecordTypeCode:       line[0:1],
		PriorityCode:         field(line, 1, 3),
		ImmediateDestination: field(line, 3, 13),
		ImmediateOrigin:      field(line, 13, 23),
		FileCreationDate:     field(line, 23, 29),
		FileCreationTime:     field(line, 29, 33),
		FileIDModifier:       field(line, 33, 34),
		RecordSize:           field(line, 34, 37),
		BlockingFactor:       field(line, 37, 39),
		FormatCode:           field(line, 39, 40),
		ImmediateDestName:    field(line, 40, 63),
		ImmediateOriginName:  field(line, 63, 86),
		ReferenceCode:        field(line, 86, 94),
		RawRecord:            line,
	}
}

func parseBatchHeader(line string) BatchHeader {
	batchNumber, _ := fieldInt(field(line, 87, 94))

	return BatchHeader{
		FileID:                   0,
		BatchNumber:              batchNumber,
		RecordTypeCode:           line[0:1],
		ServiceClassCode:         field(line, 1, 4),
		CompanyName:              field(line, 4, 20),
		CompanyDiscretionaryData: field(line, 20, 40),
		CompanyIdentification:    field(line, 40, 50),
		StandardEntryClassCode:   field(line, 50, 53),
		CompanyEntryDescription:  field(line, 53, 63),
		CompanyDescriptiveDate:   field(line, 63, 69),
		EffectiveEntryDate:       field(line, 69, 75),
		SettlementDate:           field(line, 75, 78),
		OriginatorStatusCode:     field(line, 78, 79),
		OriginatingDFIID:         field(line, 79, 87),
		RawRecord:                line,
	}
}

func parseEntryDetail(line string, batchNumber int64) EntryDetail {
	amount, _ := fieldInt(field(line, 29, 39))
	var amountDecimal float64
	if amount > 0 {
		amountDecimal = float64(amount) / 100.0
	}

	traceNumber := field(line, 79, 94)
	var traceSequence *int64
	if len(traceNumber) >= 7 {
		traceSequence = optionalInt(traceNumber[len(traceNumber)-7:])
	}

	return EntryDetail{
		FileID:                 0,
		BatchNumber:            batchNumber,
		RecordTypeCode:         line[0:1],
		TransactionCode:        field(line, 1, 3),
		ReceivingDFIID:         field(line, 3, 11),
		CheckDigit:             field(line, 11, 12),
		DFIAccountNumber:       field(line, 12, 29),
		Amount:                 amount,
		AmountDecimal:          amountDecimal,
		IndividualIDNumber:     field(line, 39, 54),
		IndividualName:         field(line, 54, 76),
		DiscretionaryData:      field(line, 76, 78),
		AddendaRecordIndicator: field(line, 78, 79),
		TraceNumber:            traceNumber,
		TraceSequenceNumber:    traceSequence,
		RawRecord:              line,
	}
}

func parseAddenda(line string, batchNumber int64) Addenda {
	return Addenda{
		FileID:                 0,
		EntryDetailID:          nil, // linked by the persistence layer
		BatchNumber:            batchNumber,
		RecordTypeCode:         line[0:1],
		AddendaTypeCode:        field(line, 1, 3),
		PaymentRelatedInfo:     field(line, 3, 83),
		AddendaSequenceNumber:  optionalInt(field(line, 83, 87)),
		EntryDetailSequenceNum: optionalInt(field(line, 87, 94)),
		RawRecord:              line,
	}
}

func parseBatchControl(line string, batchNumber int64) BatchControl {
	// The control record's own batch number field wins when it parses as
	// digits; otherwise fall back to the carried batch context.
	controlBatchNumber, ok := fieldInt(field(line, 87, 94))
	if !ok {
		controlBatchNumber = batchNumber
	}

	debitAmount, _ := fieldInt(field(line, 20, 32))
	var debitDecimal float64
	if debitAmount > 0 {
		debitDecimal = float64(debitAmount) / 100.0
	}

	creditAmount, _ := fieldInt(field(line, 32, 44))
	var creditDecimal float64
	if creditAmount > 0 {
		creditDecimal = float64(creditAmount) / 100.0
	}

	return BatchControl{
		FileID:                   0,
		BatchNumber:              controlBatchNumber,
		RecordTypeCode:           line[0:1],
		ServiceClassCode:         field(line, 1, 4),
		EntryAddendaCount:        optionalInt(field(line, 4, 10)),
		EntryHash:                field(line, 10, 20),
		TotalDebitAmount:         debitAmount,
		TotalDebitAmountDecimal:  debitDecimal,
		TotalCreditAmount:        creditAmount,
		TotalCreditAmountDecimal: creditDecimal,
		CompanyIdentification:    field(line, 44, 54),
		MessageAuthCode:          field(line, 54, 73),
		Reserved:                 field(line, 73, 79),
		OriginatingDFIID:         field(line, 79, 87),
		RawRecord:                line,
	}
}

func parseFileControl(line string) FileControl {
	debitAmount, _ := fieldInt(field(line, 31, 43))
	var debitDecimal float64
	if debitAmount > 0 {
		debitDecimal = float64(debitAmount) / 100.0
	}

	creditAmount, _ := fieldInt(field(line, 43, 55))
	var creditDecimal float64
	if creditAmount > 0 {
		creditDecimal = float64(creditAmount) / 100.0
	}

	return FileControl{
		FileID:                   0,
		RecordTypeCode:           line[0:1],
		BatchCount:               optionalInt(field(line, 1, 7)),
		BlockCount:               optionalInt(field(line, 7, 13)),
		EntryAddendaCount:        optionalInt(field(line, 13, 21)),
		EntryHash:                field(line, 21, 31),
		TotalDebitAmount:         debitAmount,
		TotalDebitAmountDecimal:  debitDecimal,
		TotalCreditAmount:        creditAmount,
		TotalCreditAmountDecimal: creditDecimal,
		Reserved:                 field(line, 55, 94),
		RawRecord:                line,
	}
}
