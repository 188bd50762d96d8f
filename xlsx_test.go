package achfile

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	t.Parallel()

	ts := ToTableSet(sampleParsedFile())

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, ts))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	t.Run("one sheet per bucket and no default sheet", func(t *testing.T) {
		t.Parallel()

		sheets := f.GetSheetList()
		assert.ElementsMatch(t, []string{
			"file_headers", "batch_headers", "entry_details",
			"addendas", "batch_controls", "file_controls",
		}, sheets)
		assert.NotContains(t, sheets, "Sheet1")
	})

	t.Run("header row", func(t *testing.T) {
		t.Parallel()

		got, err := f.GetCellValue("entry_details", "A1")
		require.NoError(t, err)
		assert.Equal(t, "batch_number", got)

		got, err = f.GetCellValue("entry_details", "F1")
		require.NoError(t, err)
		assert.Equal(t, "amount", got)
	})

	t.Run("numeric cells are written as numbers", func(t *testing.T) {
		t.Parallel()

		got, err := f.GetCellValue("entry_details", "F2")
		require.NoError(t, err)
		assert.Equal(t, "25000", got)

		got, err = f.GetCellValue("entry_details", "G2")
		require.NoError(t, err)
		assert.Equal(t, "250", got)
	})

	t.Run("text cells survive verbatim", func(t *testing.T) {
		t.Parallel()

		got, err := f.GetCellValue("batch_headers", "B2")
		require.NoError(t, err)
		assert.Equal(t, "225", got)
	})
}

func TestWriteXLSX_NilTableSet(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := WriteXLSX(&buf, nil)

	assert.Error(t, err)
}

func TestCellValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(42), cellValue("42", TypeInteger))
	assert.Equal(t, 2.5, cellValue("2.5", TypeReal))
	assert.Equal(t, "PPD", cellValue("PPD", TypeText))
	assert.Equal(t, "", cellValue("", TypeInteger))
	assert.Equal(t, "12X", cellValue("12X", TypeInteger))
}
