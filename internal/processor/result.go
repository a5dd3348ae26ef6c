package processor

import "errors"

const defaultBufferSize = 32 * 1024 // 32KB default buffer size

// ErrSamePath is returned when a file would be written onto itself.
var ErrSamePath = errors.New("input and output paths are identical")

// Result represents the outcome of processing a single file.
type Result struct {
	// Input file path
	Input string

	// Output file path
	Output string

	// Output file size in bytes
	OutputSize int64

	// Any error that occurred during processing
	Error error
}
