package achfile

import (
	"strconv"
	"strings"

	"github.com/tiendc/go-deepcopy"
)

// RecordLength is the canonical NACHA record length. Every parsed record's
// RawRecord is exactly this many characters.
const RecordLength = 94

// RecordType identifies which of the six fixed NACHA layouts a line uses,
// discriminated by the line's leading digit.
type RecordType int

const (
	// RecordUnknown represents a line whose leading character is not a
	// recognized NACHA record type digit.
	RecordUnknown RecordType = iota
	// RecordFileHeader represents a File Header Record (type "1").
	RecordFileHeader
	// RecordBatchHeader represents a Batch Header Record (type "5").
	RecordBatchHeader
	// RecordEntryDetail represents an Entry Detail Record (type "6").
	RecordEntryDetail
	// RecordAddenda represents an Addenda Record (type "7").
	RecordAddenda
	// RecordBatchControl represents a Batch Control Record (type "8").
	RecordBatchControl
	// RecordFileControl represents a File Control Record (type "9").
	RecordFileControl
)

// String returns the single-digit NACHA record type code.
func (rt RecordType) String() string {
	switch rt {
	case RecordFileHeader:
		return "1"
	case RecordBatchHeader:
		return "5"
	case RecordEntryDetail:
		return "6"
	case RecordAddenda:
		return "7"
	case RecordBatchControl:
		return "8"
	case RecordFileControl:
		return "9"
	default:
		return ""
	}
}

// Description returns a human-readable name for the record type.
func (rt RecordType) Description() string {
	switch rt {
	case RecordFileHeader:
		return "File Header Record"
	case RecordBatchHeader:
		return "Batch Header Record"
	case RecordEntryDetail:
		return "Entry Detail Record"
	case RecordAddenda:
		return "Addenda Record"
	case RecordBatchControl:
		return "Batch Control Record"
	case RecordFileControl:
		return "File Control Record"
	default:
		return "Unknown Record Type"
	}
}

// RecordTypeOf returns the record type for a raw line, keyed on its leading
// character. Lines that are empty or start with an unrecognized digit map to
// RecordUnknown.
func RecordTypeOf(line string) RecordType {
	if line == "" {
		return RecordUnknown
	}
	switch line[0] {
	case '1':
		return RecordFileHeader
	case '5':
		return RecordBatchHeader
	case '6':
		return RecordEntryDetail
	case '7':
		return RecordAddenda
	case '8':
		return RecordBatchControl
	case '9':
		return RecordFileControl
	default:
		return RecordUnknown
	}
}

// FileHeader is a File Header Record (type "1").
type FileHeader struct {
	// FileID is assigned by the persistence layer; the parser always emits 0.
	FileID               int64
	RecordTypeCode       string
	PriorityCode         string
	ImmediateDestination string
	ImmediateOrigin      string
	FileCreationDate     string // YYMMDD
	FileCreationTime     string // HHMM
	FileIDModifier       string
	RecordSize           string
	BlockingFactor       string
	FormatCode           string
	ImmediateDestName    string
	ImmediateOriginName  string
	ReferenceCode        string
	// RawRecord is the original line, normalized to exactly 94 characters.
	RawRecord string
}

// BatchHeader is a Batch Header Record (type "5"). Its BatchNumber defines
// the batch context carried onto subsequent entry, addenda, and control
// records until the next batch header.
type BatchHeader struct {
	FileID                   int64
	BatchNumber              int64
	RecordTypeCode           string
	ServiceClassCode         string
	CompanyName              string
	CompanyDiscretionaryData string
	CompanyIdentification    string
	StandardEntryClassCode   string
	CompanyEntryDescription  string
	CompanyDescriptiveDate   string
	EffectiveEntryDate       string
	SettlementDate           string
	OriginatorStatusCode     string
	OriginatingDFIID         string
	RawRecord                string
}

// EntryDetail is an Entry Detail Record (type "6").
type EntryDetail struct {
	FileID                 int64
	BatchNumber            int64
	RecordTypeCode         string
	TransactionCode        string
	ReceivingDFIID         string
	CheckDigit             string
	DFIAccountNumber       string
	Amount                 int64 // cents
	AmountDecimal          float64
	IndividualIDNumber     string
	IndividualName         string
	DiscretionaryData      string
	AddendaRecordIndicator string
	TraceNumber            string
	// TraceSequenceNumber is the last seven digits of the trace number, or
	// nil when they do not parse as digits. Addenda records link to entries
	// through this value.
	TraceSequenceNumber *int64
	RawRecord           string
}

// Addenda is an Addenda Record (type "7").
type Addenda struct {
	FileID int64
	// EntryDetailID is resolved by the persistence layer by matching
	// (BatchNumber, EntryDetailSequenceNum) against an inserted entry's
	// (BatchNumber, TraceSequenceNumber). The parser always emits nil.
	EntryDetailID          *int64
	BatchNumber            int64
	RecordTypeCode         string
	AddendaTypeCode        string
	PaymentRelatedInfo     string
	AddendaSequenceNumber  *int64
	EntryDetailSequenceNum *int64
	RawRecord              string
}

// BatchControl is a Batch Control Record (type "8").
type BatchControl struct {
	FileID                   int64
	BatchNumber              int64
	RecordTypeCode           string
	ServiceClassCode         string
	EntryAddendaCount        *int64
	EntryHash                string
	TotalDebitAmount         int64 // cents
	TotalDebitAmountDecimal  float64
	TotalCreditAmount        int64 // cents
	TotalCreditAmountDecimal float64
	CompanyIdentification    string
	MessageAuthCode          string
	Reserved                 string
	OriginatingDFIID         string
	RawRecord                string
}

// FileControl is a File Control Record (type "9").
type FileControl struct {
	FileID                   int64
	RecordTypeCode           string
	BatchCount               *int64
	BlockCount               *int64
	EntryAddendaCount        *int64
	EntryHash                string
	TotalDebitAmount         int64 // cents
	TotalDebitAmountDecimal  float64
	TotalCreditAmount        int64 // cents
	TotalCreditAmountDecimal float64
	Reserved                 string
	RawRecord                string
}

// ParsedFile holds the six record buckets produced by ParseFileContent.
// Each bucket preserves file order and may be empty. The buckets are
// independent; the only cross-record linkage is the batch number tag.
type ParsedFile struct {
	FileHeaders   []FileHeader
	BatchHeaders  []BatchHeader
	EntryDetails  []EntryDetail
	Addendas      []Addenda
	BatchControls []BatchControl
	FileControls  []FileControl
}

// Clone returns a deep copy of the parsed buckets. Callers that stamp file
// IDs or resolve addenda links mutate the copy, keeping parser output
// immutable.
func (p *ParsedFile) Clone() (*ParsedFile, error) {
	var out ParsedFile
	if err := deepcopy.Copy(&out, p); err != nil {
		return nil, err
	}
	return &out, nil
}

// fieldInt parses a fixed-width digit field leniently: the value is accepted
// only when the trimmed substring is non-empty and entirely ASCII digits.
// Anything else reports false, never an error.
func fieldInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// optionalInt is fieldInt for nullable numeric fields.
func optionalInt(s string) *int64 {
	if n, ok := fieldInt(s); ok {
		return &n
	}
	return nil
}
