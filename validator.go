package achfile

import (
	"fmt"
	"strings"
)

// ValidationResult is the outcome of validating a single ACH line. Errors
// accumulate in field order; a line with no errors is valid.
type ValidationResult struct {
	LineNumber  int
	LineContent string
	RecordType  string
	IsValid     bool
	Errors      []string
}

// fieldSpec names a field and its [Start, End) character offsets within a
// 94-character record. Specs are held in slices so validation errors come
// out in a deterministic field order.
type fieldSpec struct {
	Name  string
	Start int
	End   int
}

// Field positions per record type, per the NACHA specification.
var fieldSpecs = map[string][]fieldSpec{
	"1": { // File Header Record
		{"record_type", 0, 1},
		{"priority_code", 1, 3},
		{"immediate_destination", 3, 13},
		{"immediate_origin", 13, 23},
		{"file_creation_date", 23, 29},
		{"file_creation_time", 29, 33},
		{"file_id_modifier", 33, 34},
		{"record_size", 34, 37},
		{"blocking_factor", 37, 39},
		{"format_code", 39, 40},
		{"immediate_destination_name", 40, 63},
		{"immediate_origin_name", 63, 86},
		{"reference_code", 86, 94},
	},
	"5": { // Batch Header Record
		{"record_type", 0, 1},
		{"service_class_code", 1, 4},
		{"company_name", 4, 20},
		{"company_discretionary_data", 20, 40},
		{"company_identification", 40, 50},
		{"standard_entry_class", 50, 53},
		{"company_entry_description", 53, 63},
		{"company_descriptive_date", 63, 69},
		{"effective_entry_date", 69, 75},
		{"settlement_date", 75, 78},
		{"originator_status_code", 78, 79},
		{"originating_dfi_id", 79, 87},
		{"batch_number", 87, 94},
	},
	"6": { // Entry Detail Record
		{"record_type", 0, 1},
		{"transaction_code", 1, 3},
		{"receiving_dfi_id", 3, 11},
		{"check_digit", 11, 12},
		{"dfi_account_number", 12, 29},
		{"amount", 29, 39},
		{"individual_id", 39, 54},
		{"individual_name", 54, 76},
		{"discretionary_data", 76, 78},
		{"addenda_indicator", 78, 79},
		{"trace_number", 79, 94},
	},
	"7": { // Addenda Record
		{"record_type", 0, 1},
		{"addenda_type_code", 1, 3},
		{"payment_related_information", 3, 83},
		{"addenda_sequence_number", 83, 87},
		{"entry_detail_sequence_number", 87, 94},
	},
	"8": { // Batch Control Record
		{"record_type", 0, 1},
		{"service_class_code", 1, 4},
		{"entry_addenda_count", 4, 10},
		{"entry_hash", 10, 20},
		{"total_debit_entry_dollar_amount", 20, 32},
		{"total_credit_entry_dollar_amount", 32, 44},
		{"company_identification", 44, 54},
		{"message_authentication_code", 54, 73},
		{"reserved", 73, 79},
		{"originating_dfi_id", 79, 87},
		{"batch_number", 87, 94},
	},
	"9": { // File Control Record
		{"record_type", 0, 1},
		{"batch_count", 1, 7},
		{"block_count", 7, 13},
		{"entry_addenda_count", 13, 21},
		{"entry_hash", 21, 31},
		{"total_debit_entry_dollar_amount", 31, 43},
		{"total_credit_entry_dollar_amount", 43, 55},
		{"reserved", 55, 94},
	},
}

var validTransactionCodes = []string{"22", "23", "24", "27", "28", "29", "32", "33", "34", "37", "38", "39"}

var validServiceClassCodes = []string{"200", "220", "225", "280", "285"}

var validStandardEntryClasses = []string{"PPD", "CCD", "TEL", "WEB", "ARC", "BOC", "POP", "RCK"}

// ValidateLine validates one ACH line exactly as given, without normalizing
// its length. A wrong line length is itself an error but field checks still
// run against the line as-is; fields whose end offset falls past the end of
// the line get a bounds error instead of a content check. An unrecognized
// record type short-circuits the line: no field checks are attempted.
//
// The function never returns an error or panics on malformed content; every
// defect is accumulated in the result's Errors list.
func ValidateLine(lineNumber int, lineContent string) ValidationResult {
	var errs []string

	if len(lineContent) != RecordLength {
		errs = append(errs, fmt.Sprintf("Line length must be 94 characters, got %d", len(lineContent)))
	}

	recordType := ""
	if len(lineContent) > 0 {
		recordType = lineContent[0:1]
	}

	specs, known := fieldSpecs[recordType]
	if !known {
		errs = append(errs, fmt.Sprintf("Invalid record type: %s", recordType))
		return ValidationResult{
			LineNumber:  lineNumber,
			LineContent: lineContent,
			RecordType:  recordType,
			IsValid:     false,
			Errors:      errs,
		}
	}

	for _, spec := range specs {
		if spec.End > len(lineContent) {
			errs = append(errs, fmt.Sprintf("Field %s extends beyond line length", spec.Name))
			continue
		}

		fieldValue := lineContent[spec.Start:spec.End]

		switch {
		case spec.Name == "record_type":
			// Sanity check; holds by construction unless the specs drift.
			if fieldValue != recordType {
				errs = append(errs, fmt.Sprintf("Record type mismatch: expected %s, got %s", recordType, fieldValue))
			}

		case spec.Name == "amount" && recordType == "6":
			if !isDigits(fieldValue) {
				errs = append(errs, fmt.Sprintf("Amount must be numeric: %s", fieldValue))
			}
			if len(fieldValue) != 10 {
				errs = append(errs, fmt.Sprintf("Amount must be 10 digits: %s", fieldValue))
			}

		case spec.Name == "transaction_code" && recordType == "6":
			if !containsString(validTransactionCodes, fieldValue) {
				errs = append(errs, fmt.Sprintf("Invalid transaction code: %s", fieldValue))
			}

		case spec.Name == "service_class_code" && (recordType == "5" || recordType == "8"):
			if !containsString(validServiceClassCodes, fieldValue) {
				errs = append(errs, fmt.Sprintf("Invalid service class code: %s", fieldValue))
			}

		case spec.Name == "standard_entry_class" && recordType == "5":
			if !containsString(validStandardEntryClasses, fieldValue) {
				errs = append(errs, fmt.Sprintf("Invalid standard entry class: %s", fieldValue))
			}
		}
	}

	if recordType == "6" {
		// A line too short to carry the indicator fails the check as empty.
		addendaIndicator := ""
		if len(lineContent) > 78 {
			addendaIndicator = lineContent[78:79]
		}
		if addendaIndicator != "0" && addendaIndicator != "1" {
			errs = append(errs, fmt.Sprintf("Invalid addenda indicator: %s", addendaIndicator))
		}
	}

	return ValidationResult{
		LineNumber:  lineNumber,
		LineContent: lineContent,
		RecordType:  recordType,
		IsValid:     len(errs) == 0,
		Errors:      errs,
	}
}

// ParseAndValidate splits ACH file content into lines and validates each
// one, preserving file order. Line numbers are 1-based over all lines
// including blanks, but blank lines themselves produce no result. A single
// trailing '\r' per line is tolerated, mirroring ParseFileContent.
func ParseAndValidate(fileContent string) []ValidationResult {
	lines := strings.Split(fileContent, "\n")
	results := make([]ValidationResult, 0, len(lines))

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		line = strings.TrimSuffix(line, "\r")
		results = append(results, ValidateLine(i+1, line))
	}

	return results
}

// isDigits reports whether s is non-empty and entirely ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func containsString(valid []string, value string) bool {
	for _, v := range valid {
		if v == value {
			return true
		}
	}
	return false
}
