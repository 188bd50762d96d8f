package achfile

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Compression represents the compression wrapping of an ACH file as dropped
// by a partner. Plain files are the norm; compressed drops occur on archive
// redeliveries.
type Compression int

const (
	// CompressionNone represents an uncompressed file.
	CompressionNone Compression = iota
	// CompressionGzip represents a gzip-compressed file.
	CompressionGzip
	// CompressionBzip2 represents a bzip2-compressed file.
	CompressionBzip2
	// CompressionXZ represents an xz-compressed file.
	CompressionXZ
	// CompressionZstd represents a zstd-compressed file.
	CompressionZstd
)

// String returns a human-readable name for the compression type.
func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gzip"
	case CompressionBzip2:
		return "bzip2"
	case CompressionXZ:
		return "xz"
	case CompressionZstd:
		return "zstd"
	default:
		return "none"
	}
}

// Compression file extensions
const (
	extGZ   = ".gz"
	extBZ2  = ".bz2"
	extXZ   = ".xz"
	extZSTD = ".zst"
)

// DetectCompression detects the compression wrapping from a file path's
// extension. Unrecognized extensions (including the bare .ach/.txt of a
// plain drop) map to CompressionNone.
func DetectCompression(path string) Compression {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, extGZ):
		return CompressionGzip
	case strings.HasSuffix(lower, extBZ2):
		return CompressionBzip2
	case strings.HasSuffix(lower, extXZ):
		return CompressionXZ
	case strings.HasSuffix(lower, extZSTD):
		return CompressionZstd
	default:
		return CompressionNone
	}
}

// NewReader wraps reader with the appropriate decompression. The returned
// close function releases decompressor resources and may be nil.
func NewReader(reader io.Reader, compression Compression) (io.Reader, func() error, error) {
	switch compression {
	case CompressionGzip:
		gzReader, err := gzip.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return gzReader, func() error { return gzReader.Close() }, nil

	case CompressionBzip2:
		return bzip2.NewReader(reader), nil, nil

	case CompressionXZ:
		xzReader, err := xz.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		return xzReader, nil, nil

	case CompressionZstd:
		decoder, err := zstd.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		return decoder, func() error { decoder.Close(); return nil }, nil

	default:
		// No compression
		return reader, nil, nil
	}
}

// ReadAll reads the full file content through the compression named by the
// file path's extension. It is the ingest-side convenience used before
// handing text to ParseFileContent or ParseAndValidate.
func ReadAll(reader io.Reader, path string) (content string, err error) {
	decompressed, closeFunc, err := NewReader(reader, DetectCompression(path))
	if err != nil {
		return "", fmt.Errorf("failed to decompress %s: %w", path, err)
	}
	if closeFunc != nil {
		defer func() {
			if closeErr := closeFunc(); closeErr != nil && err == nil {
				err = fmt.Errorf("failed to close decompressor: %w", closeErr)
			}
		}()
	}

	data, err := io.ReadAll(decompressed)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
