package report

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"
)

// WriteParquet writes rows to a Snappy-compressed Parquet file at path.
func WriteParquet[T any](path string, rows []T) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create parquet: %w", err)
	}
	writer := parquet.NewGenericWriter[T](file,
		parquet.Compression(&parquet.Snappy),
		parquet.CreatedBy("billclaims", "1.0", ""),
	)
	if _, err := writer.Write(rows); err != nil {
		writer.Close()
		file.Close()
		return fmt.Errorf("write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		file.Close()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return file.Close()
}
