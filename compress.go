package psd

// decompressLine decodes one PackBits-compressed scanline.
//
// src holds exactly the compressed bytes of the line; decoding runs until
// src is exhausted, not until dst is full. Each control byte, read as a
// signed value, selects a run:
//
//	-128      no-op
//	0..127    copy the next n+1 bytes verbatim
//	-127..-1  repeat the next byte (-n)+1 times
//
// Well-formed input fills dst exactly. A run that would read past src or
// write past dst is reported instead of acted on; a line that underfills
// dst leaves the rest of it untouched.
func decompressLine(src, dst []byte) error {
	var n int // bytes written to dst
	for len(src) > 0 {
		code := int(int8(src[0]))
		src = src[1:]
		switch {
		case code == -128:
			// No-op.
		case code >= 0:
			count := code + 1
			if count > len(src) {
				return CorruptError("literal run overruns scanline")
			}
			if n+count > len(dst) {
				return CorruptError("scanline decodes past row end")
			}
			n += copy(dst[n:], src[:count])
			src = src[count:]
		default:
			count := 1 - code
			if len(src) == 0 {
				return CorruptError("repeat run missing data byte")
			}
			if n+count > len(dst) {
				return CorruptError("scanline decodes past row end")
			}
			b := src[0]
			src = src[1:]
			for ; count > 0; count-- {
				dst[n] = b
				n++
			}
		}
	}
	return nil
}
