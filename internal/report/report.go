// Package report reconciles parsed entry amounts against the batch and file
// control totals the file itself declares. The check is informational: a
// mismatch flags the file for review, nothing more.
package report

import (
	"github.com/shopspring/decimal"

	"github.com/obsfin/achfile"
)

// Credit and debit transaction codes for checking and savings accounts.
// Codes ending in 2-4 move money in, codes ending in 7-9 move money out.
var (
	creditCodes = map[string]bool{"22": true, "23": true, "24": true, "32": true, "33": true, "34": true}
	debitCodes  = map[string]bool{"27": true, "28": true, "29": true, "37": true, "38": true, "39": true}
)

// BatchSummary compares one batch's summed entry amounts against its
// control record.
type BatchSummary struct {
	BatchNumber        int64
	EntryCount         int
	DebitTotal         decimal.Decimal
	CreditTotal        decimal.Decimal
	ControlDebitTotal  decimal.Decimal
	ControlCreditTotal decimal.Decimal
	// HasControl is false when no batch control record declared this batch
	// number; Balanced is meaningless without one.
	HasControl bool
	Balanced   bool
}

// FileSummary compares whole-file entry totals against the file control
// record.
type FileSummary struct {
	EntryCount         int
	DebitTotal         decimal.Decimal
	CreditTotal        decimal.Decimal
	ControlDebitTotal  decimal.Decimal
	ControlCreditTotal decimal.Decimal
	HasControl         bool
	Balanced           bool
}

// Report is the outcome of reconciling one parsed file.
type Report struct {
	Batches []BatchSummary
	File    FileSummary
}

// Reconcile sums entry amounts per batch and for the whole file and checks
// them against the declared control totals. Amounts are exact decimal
// dollars derived from the cent-denominated fields.
func Reconcile(parsed *achfile.ParsedFile) *Report {
	report := &Report{}
	if parsed == nil {
		return report
	}

	summaries := make(map[int64]*BatchSummary)
	var order []int64
	batchFor := func(batchNumber int64) *BatchSummary {
		if s, ok := summaries[batchNumber]; ok {
			return s
		}
		s := &BatchSummary{BatchNumber: batchNumber}
		summaries[batchNumber] = s
		order = append(order, batchNumber)
		return s
	}

	for _, entry := range parsed.EntryDetails {
		summary := batchFor(entry.BatchNumber)
		summary.EntryCount++
		report.File.EntryCount++

		amount := cents(entry.Amount)
		switch {
		case debitCodes[entry.TransactionCode]:
			summary.DebitTotal = summary.DebitTotal.Add(amount)
			report.File.DebitTotal = report.File.DebitTotal.Add(amount)
		case creditCodes[entry.TransactionCode]:
			summary.CreditTotal = summary.CreditTotal.Add(amount)
			report.File.CreditTotal = report.File.CreditTotal.Add(amount)
		}
	}

	for _, control := range parsed.BatchControls {
		summary := batchFor(control.BatchNumber)
		summary.HasControl = true
		summary.ControlDebitTotal = summary.ControlDebitTotal.Add(cents(control.TotalDebitAmount))
		summary.ControlCreditTotal = summary.ControlCreditTotal.Add(cents(control.TotalCreditAmount))
	}

	for _, control := range parsed.FileControls {
		report.File.HasControl = true
		report.File.ControlDebitTotal = report.File.ControlDebitTotal.Add(cents(control.TotalDebitAmount))
		report.File.ControlCreditTotal = report.File.ControlCreditTotal.Add(cents(control.TotalCreditAmount))
	}

	for _, batchNumber := range order {
		summary := summaries[batchNumber]
		summary.Balanced = summary.HasControl &&
			summary.DebitTotal.Equal(summary.ControlDebitTotal) &&
			summary.CreditTotal.Equal(summary.ControlCreditTotal)
		report.Batches = append(report.Batches, *summary)
	}

	report.File.Balanced = report.File.HasControl &&
		report.File.DebitTotal.Equal(report.File.ControlDebitTotal) &&
		report.File.CreditTotal.Equal(report.File.ControlCreditTotal)

	return report
}

// cents converts a cent-denominated amount to exact decimal dollars.
func cents(amount int64) decimal.Decimal {
	return decimal.New(amount, -2)
}
