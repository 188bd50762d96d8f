package achfile

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
)

const parquetChunkSize = 1024

// WriteParquet writes one table as an Apache Parquet file. Column types map
// to int64, float64, or string; blank or unparsable numeric cells become
// nulls rather than failing the export, matching the lenient decode policy
// of the parser that produced them.
func WriteParquet(w io.Writer, table *TableData) error {
	if table == nil {
		return errors.New("table data cannot be nil")
	}
	if len(table.Headers) == 0 {
		return errors.New("table has no columns")
	}
	if len(table.ColumnTypes) != len(table.Headers) {
		return errors.New("column type count does not match header count")
	}

	fields := make([]arrow.Field, len(table.Headers))
	for i, name := range table.Headers {
		var dataType arrow.DataType
		switch table.ColumnTypes[i] {
		case TypeInteger:
			dataType = arrow.PrimitiveTypes.Int64
		case TypeReal:
			dataType = arrow.PrimitiveTypes.Float64
		default:
			dataType = arrow.BinaryTypes.String
		}
		fields[i] = arrow.Field{Name: name, Type: dataType, Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	pool := memory.NewGoAllocator()
	builder := array.NewRecordBuilder(pool, schema)
	defer builder.Release()

	for _, row := range table.Records {
		for i := range table.Headers {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			appendCell(builder.Field(i), value)
		}
	}

	record := builder.NewRecord()
	defer record.Release()

	arrowTable := array.NewTableFromRecords(schema, []arrow.Record{record})
	defer arrowTable.Release()

	props := parquet.NewWriterProperties()
	arrProps := pqarrow.DefaultWriterProps()

	if err := pqarrow.WriteTable(arrowTable, w, parquetChunkSize, props, arrProps); err != nil {
		return fmt.Errorf("failed to write parquet: %w", err)
	}
	return nil
}

func appendCell(fieldBuilder array.Builder, value string) {
	trimmed := strings.TrimSpace(value)
	switch b := fieldBuilder.(type) {
	case *array.Int64Builder:
		n, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			b.AppendNull()
			return
		}
		b.Append(n)
	case *array.Float64Builder:
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			b.AppendNull()
			return
		}
		b.Append(f)
	case *array.StringBuilder:
		b.Append(value)
	default:
		fieldBuilder.AppendNull()
	}
}
