package achfile

import (
	"bytes"
	"testing"

	"github.com/apache/arrow/go/v18/parquet/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteParquet(t *testing.T) {
	t.Parallel()

	ts := ToTableSet(sampleParsedFile())

	var buf bytes.Buffer
	require.NoError(t, WriteParquet(&buf, ts.EntryDetails))

	require.Greater(t, buf.Len(), 8)
	assert.Equal(t, []byte("PAR1"), buf.Bytes()[:4])
	assert.Equal(t, []byte("PAR1"), buf.Bytes()[buf.Len()-4:])

	reader, err := file.NewParquetReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer reader.Close()

	assert.Equal(t, int64(1), reader.NumRows())
	assert.Equal(t, len(ts.EntryDetails.Headers), reader.MetaData().Schema.NumColumns())
}

func TestWriteParquet_NullableCells(t *testing.T) {
	t.Parallel()

	// Addenda with unparsable sequence fields renders empty integer cells,
	// which the writer stores as nulls instead of failing.
	parsed := ParseFileContent(testLine('7', map[int]string{1: "05", 83: "XXXX", 87: "YYYYYYY"}))
	ts := ToTableSet(parsed)

	var buf bytes.Buffer
	require.NoError(t, WriteParquet(&buf, ts.Addendas))

	reader, err := file.NewParquetReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer reader.Close()

	assert.Equal(t, int64(1), reader.NumRows())
}

func TestWriteParquet_EmptyTable(t *testing.T) {
	t.Parallel()

	ts := ToTableSet(ParseFileContent(""))

	var buf bytes.Buffer
	require.NoError(t, WriteParquet(&buf, ts.EntryDetails))

	reader, err := file.NewParquetReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer reader.Close()

	assert.Equal(t, int64(0), reader.NumRows())
}

func TestWriteParquet_InvalidInput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	assert.Error(t, WriteParquet(&buf, nil))
	assert.Error(t, WriteParquet(&buf, &TableData{}))
	assert.Error(t, WriteParquet(&buf, &TableData{
		Headers:     []string{"a", "b"},
		ColumnTypes: []ColumnType{TypeText},
	}))
}
