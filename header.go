package psd

// readUint16 reads a big-endian 16-bit value at off. The caller
// guarantees the slice is long enough.
func readUint16(buf []byte, off int) uint16 {
	return uint16(buf[off])<<8 | uint16(buf[off+1])
}

// readUint32 reads a big-endian 32-bit value at off.
func readUint32(buf []byte, off int) uint32 {
	return uint32(buf[off])<<24 | uint32(buf[off+1])<<16 |
		uint32(buf[off+2])<<8 | uint32(buf[off+3])
}

// header is the fixed record at the start of every PSD file.
type header struct {
	version  uint16
	channels int
	rows     int
	cols     int
	depth    int
	mode     colorMode
}

// parseHeader decodes and validates the fixed header. buf must hold at
// least headerSize bytes. The version field is carried but not checked.
func parseHeader(buf []byte) (header, error) {
	if string(buf[:4]) != psdSignature {
		return header{}, FormatError("malformed header")
	}
	h := header{
		version:  readUint16(buf, offVersion),
		channels: int(readUint16(buf, offChannels)),
		rows:     int(readUint32(buf, offRows)),
		cols:     int(readUint32(buf, offColumns)),
		depth:    int(readUint16(buf, offDepth)),
		mode:     colorMode(readUint16(buf, offColorMode)),
	}

	if h.channels < 1 || h.channels > maxChannels {
		return header{}, FormatError("channel count out of range")
	}
	if h.rows < 1 || h.rows > maxDimension || h.cols < 1 || h.cols > maxDimension {
		return header{}, FormatError("image dimensions out of range")
	}

	switch h.mode {
	case mRGB, mGrayscale, mCMYK, mDuotone:
	default:
		return header{}, UnsupportedError("color mode")
	}
	if h.depth != 8 && h.depth != 16 {
		return header{}, UnsupportedError("color depth")
	}
	if h.channels < h.mode.channelsNeeded() {
		return header{}, FormatError("too few channels for color mode")
	}

	return h, nil
}
