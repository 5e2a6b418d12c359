package psd

// PixelBuffer is the decode destination: interleaved 8-bit RGB rows, each
// row starting Stride bytes after the previous one. The Pix/Stride pair
// follows the image.RGBA convention except that pixels are 3 bytes wide,
// so Stride may exceed 3*Width when the host pads its rows.
type PixelBuffer struct {
	Width  int
	Height int
	Stride int
	Pix    []byte
}

// NewPixelBuffer returns a buffer with the tight stride 3*width.
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Stride: 3 * width,
		Pix:    make([]byte, 3*width*height),
	}
}

// SizeFunc is consulted once, as soon as the header has been parsed, with
// the image dimensions. Returning a zero width or height cancels the
// decode before any pixel storage is allocated.
type SizeFunc func(width, height int) (int, int)

// Allocator provides the destination buffer for the negotiated geometry.
// A nil buffer, an error, or a buffer smaller than the geometry requires
// aborts the decode.
type Allocator func(width, height int) (*PixelBuffer, error)

// Options configures a decode session. Every field is optional; the zero
// value decodes into a tightly-strided PixelBuffer with no callbacks.
type Options struct {
	// Size may veto the geometry, see SizeFunc.
	Size SizeFunc
	// Alloc provides the destination buffer. Defaults to NewPixelBuffer.
	Alloc Allocator
	// Ready is invoked once, after the destination buffer has been
	// allocated, before any image data is decoded into it.
	Ready func(*PixelBuffer)
}
