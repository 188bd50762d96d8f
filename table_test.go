package achfile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleParsedFile() *ParsedFile {
	content := strings.Join([]string{
		testLine('1', map[int]string{1: "01", 3: " 231380104", 13: " 121042882", 23: "260815"}),
		batchHeaderLine("0000001"),
		entryDetailLine("0000025000", "076401230001234"),
		testLine('7', map[int]string{1: "05", 3: "INVOICE 8471", 83: "0001", 87: "0001234"}),
		testLine('8', map[int]string{1: "225", 4: "000002", 20: "000000025000", 32: "000000000000", 87: "0000001"}),
		testLine('9', map[int]string{1: "000001", 7: "000001", 13: "00000002", 31: "000000025000", 43: "000000000000"}),
	}, "\n")
	return ParseFileContent(content)
}

func TestToTableSet(t *testing.T) {
	t.Parallel()

	ts := ToTableSet(sampleParsedFile())

	require.NotNil(t, ts)

	t.Run("every bucket has one row", func(t *testing.T) {
		t.Parallel()

		for _, table := range ts.Tables() {
			require.NotNil(t, table.Data, table.Name)
			assert.Len(t, table.Data.Records, 1, table.Name)
			assert.Len(t, table.Data.ColumnTypes, len(table.Data.Headers), table.Name)
			for i, record := range table.Data.Records {
				assert.Len(t, record, len(table.Data.Headers), "%s row %d", table.Name, i)
			}
		}
	})

	t.Run("entry detail values", func(t *testing.T) {
		t.Parallel()

		row := ts.EntryDetails.Records[0]
		byName := map[string]string{}
		for i, name := range ts.EntryDetails.Headers {
			byName[name] = row[i]
		}

		assert.Equal(t, "1", byName["batch_number"])
		assert.Equal(t, "27", byName["transaction_code"])
		assert.Equal(t, "25000", byName["amount"])
		assert.Equal(t, "250.00", byName["amount_decimal"])
		assert.Equal(t, "076401230001234", byName["trace_number"])
		assert.Equal(t, "1234", byName["trace_sequence_number"])
	})

	t.Run("table order is stable", func(t *testing.T) {
		t.Parallel()

		var names []string
		for _, table := range ts.Tables() {
			names = append(names, table.Name)
		}
		assert.Equal(t, []string{
			"file_headers", "batch_headers", "entry_details",
			"addendas", "batch_controls", "file_controls",
		}, names)
	})

	t.Run("nil parsed file", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, ToTableSet(nil))
	})
}

func TestToTableSet_NullableFields(t *testing.T) {
	t.Parallel()

	parsed := ParseFileContent(testLine('7', map[int]string{1: "05", 83: "XXXX", 87: "YYYYYYY"}))
	ts := ToTableSet(parsed)

	require.Len(t, ts.Addendas.Records, 1)
	row := ts.Addendas.Records[0]
	byName := map[string]string{}
	for i, name := range ts.Addendas.Headers {
		byName[name] = row[i]
	}

	assert.Equal(t, "", byName["addenda_sequence_number"])
	assert.Equal(t, "", byName["entry_detail_sequence_number"])
}

func TestLinesTable(t *testing.T) {
	t.Parallel()

	content := strings.Join([]string{
		batchHeaderLine("0000001"),
		testLine('5', map[int]string{1: "999", 50: "XYZ"}),
	}, "\n")
	results := ParseAndValidate(content)
	require.Len(t, results, 2)

	table := LinesTable(results)

	assert.Equal(t, []string{"line_number", "record_type", "is_valid", "line_errors", "line_content"}, table.Headers)
	require.Len(t, table.Records, 2)

	assert.Equal(t, "1", table.Records[0][0])
	assert.Equal(t, "5", table.Records[0][1])
	assert.Equal(t, "1", table.Records[0][2])
	assert.Equal(t, "", table.Records[0][3])

	assert.Equal(t, "2", table.Records[1][0])
	assert.Equal(t, "0", table.Records[1][2])
	assert.Equal(t, "Invalid service class code: 999; Invalid standard entry class: XYZ", table.Records[1][3])
}

func TestColumnType_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "TEXT", TypeText.String())
	assert.Equal(t, "INTEGER", TypeInteger.String())
	assert.Equal(t, "REAL", TypeReal.String())
}
