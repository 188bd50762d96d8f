package report

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obsfin/achfile"
)

func testLine(recordType byte, fields map[int]string) string {
	b := []byte(strings.Repeat(" ", achfile.RecordLength))
	b[0] = recordType
	for start, value := range fields {
		copy(b[start:], value)
	}
	return string(b)
}

func TestReconcile_BalancedFile(t *testing.T) {
	t.Parallel()

	// One debit of $250.00 and one credit of $100.00, with matching batch
	// and file controls.
	content := strings.Join([]string{
		testLine('5', map[int]string{1: "200", 50: "PPD", 87: "0000001"}),
		testLine('6', map[int]string{1: "27", 29: "0000025000", 78: "0", 79: "076401230000001"}),
		testLine('6', map[int]string{1: "22", 29: "0000010000", 78: "0", 79: "076401230000002"}),
		testLine('8', map[int]string{1: "200", 20: "000000025000", 32: "000000010000", 87: "0000001"}),
		testLine('9', map[int]string{1: "000001", 31: "000000025000", 43: "000000010000"}),
	}, "\n")

	report := Reconcile(achfile.ParseFileContent(content))

	require.Len(t, report.Batches, 1)
	batch := report.Batches[0]
	assert.Equal(t, int64(1), batch.BatchNumber)
	assert.Equal(t, 2, batch.EntryCount)
	assert.True(t, batch.DebitTotal.Equal(decimal.RequireFromString("250.00")))
	assert.True(t, batch.CreditTotal.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, batch.HasControl)
	assert.True(t, batch.Balanced)

	assert.Equal(t, 2, report.File.EntryCount)
	assert.True(t, report.File.HasControl)
	assert.True(t, report.File.Balanced)
}

func TestReconcile_UnbalancedBatch(t *testing.T) {
	t.Parallel()

	// The control declares $999.99 of debits against a $250.00 entry.
	content := strings.Join([]string{
		testLine('5', map[int]string{1: "225", 50: "PPD", 87: "0000001"}),
		testLine('6', map[int]string{1: "27", 29: "0000025000", 78: "0", 79: "076401230000001"}),
		testLine('8', map[int]string{1: "225", 20: "000000099999", 87: "0000001"}),
		testLine('9', map[int]string{1: "000001", 31: "000000099999"}),
	}, "\n")

	report := Reconcile(achfile.ParseFileContent(content))

	require.Len(t, report.Batches, 1)
	assert.True(t, report.Batches[0].HasControl)
	assert.False(t, report.Batches[0].Balanced)
	assert.False(t, report.File.Balanced)
}

func TestReconcile_MissingControls(t *testing.T) {
	t.Parallel()

	content := strings.Join([]string{
		testLine('5', map[int]string{1: "225", 50: "PPD", 87: "0000001"}),
		testLine('6', map[int]string{1: "27", 29: "0000025000", 78: "0", 79: "076401230000001"}),
	}, "\n")

	report := Reconcile(achfile.ParseFileContent(content))

	require.Len(t, report.Batches, 1)
	assert.False(t, report.Batches[0].HasControl)
	assert.False(t, report.Batches[0].Balanced)
	assert.False(t, report.File.HasControl)
	assert.False(t, report.File.Balanced)
}

func TestReconcile_MultipleBatchesKeepFileOrder(t *testing.T) {
	t.Parallel()

	content := strings.Join([]string{
		testLine('5', map[int]string{1: "225", 50: "PPD", 87: "0000002"}),
		testLine('6', map[int]string{1: "27", 29: "0000010000", 78: "0", 79: "076401230000001"}),
		testLine('8', map[int]string{1: "225", 20: "000000010000", 87: "0000002"}),
		testLine('5', map[int]string{1: "220", 50: "CCD", 87: "0000001"}),
		testLine('6', map[int]string{1: "32", 29: "0000005000", 78: "0", 79: "076401230000002"}),
		testLine('8', map[int]string{1: "220", 32: "000000005000", 87: "0000001"}),
	}, "\n")

	report := Reconcile(achfile.ParseFileContent(content))

	require.Len(t, report.Batches, 2)
	assert.Equal(t, int64(2), report.Batches[0].BatchNumber)
	assert.Equal(t, int64(1), report.Batches[1].BatchNumber)
	assert.True(t, report.Batches[0].Balanced)
	assert.True(t, report.Batches[1].Balanced)
}

func TestReconcile_UnknownTransactionCodeIgnored(t *testing.T) {
	t.Parallel()

	content := strings.Join([]string{
		testLine('5', map[int]string{1: "225", 50: "PPD", 87: "0000001"}),
		testLine('6', map[int]string{1: "99", 29: "0000025000", 78: "0", 79: "076401230000001"}),
	}, "\n")

	report := Reconcile(achfile.ParseFileContent(content))

	require.Len(t, report.Batches, 1)
	assert.Equal(t, 1, report.Batches[0].EntryCount)
	assert.True(t, report.Batches[0].DebitTotal.IsZero())
	assert.True(t, report.Batches[0].CreditTotal.IsZero())
}

func TestReconcile_NilParsed(t *testing.T) {
	t.Parallel()

	report := Reconcile(nil)

	assert.Empty(t, report.Batches)
	assert.False(t, report.File.Balanced)
}
