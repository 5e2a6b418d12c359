package psd

import (
	"fmt"

	"github.com/pkg/errors"
)

// A FormatError reports that the input is not a valid PSD stream.
type FormatError string

func (e FormatError) Error() string {
	return fmt.Sprintf("psd: invalid format: %s", string(e))
}

// An UnsupportedError reports that the input uses a valid but
// unimplemented feature.
type UnsupportedError string

func (e UnsupportedError) Error() string {
	return fmt.Sprintf("psd: unsupported feature: %s", string(e))
}

// A CorruptError reports that the stream ended, or a scanline decoded,
// inconsistently with the geometry the header declared.
type CorruptError string

func (e CorruptError) Error() string {
	return fmt.Sprintf("psd: corrupt or incomplete data: %s", string(e))
}

// A MemoryError reports that a destination buffer could not be obtained.
type MemoryError string

func (e MemoryError) Error() string {
	return fmt.Sprintf("psd: insufficient memory: %s", string(e))
}

// ErrCancelled is returned by Close when the size negotiation callback
// declined the image geometry. It marks a clean abort requested by the
// caller, not a decode failure.
var ErrCancelled = errors.New("psd: decode cancelled by size callback")

// minInt returns the smaller of x or y.
func minInt(a, b int) int {
	if a <= b {
		return a
	}
	return b
}
