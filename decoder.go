package psd

// Context holds the whole state of one incremental decode session. The
// stream may arrive in fragments of any size, down to a single byte:
// Feed consumes each fragment completely and resumes exactly where the
// previous call stopped, even in the middle of a multi-byte field.
//
// A Context is single-use and not safe for concurrent access.
type Context struct {
	state decodeState
	opts  Options

	pixbuf *PixelBuffer

	// staging accumulates a partially received fixed-size field across
	// Feed boundaries. bytesRead never exceeds the byte count the
	// active field requires and is reset when the field completes.
	staging   []byte
	bytesRead int

	// Block-skipper state: the 4-byte length prefix is accumulated in
	// staging, then skipRemaining counts down the payload.
	skipRemaining uint32
	skipKnown     bool

	width          int
	height         int
	channels       int
	depth          int
	bytesPerSample int // depth/8, never zero
	mode           colorMode
	compression    compressionKind

	// lineLengths[ch*height+row] is the compressed byte length of that
	// channel's scanline. Present only under RLE; accumulated raw in
	// lineLengthsRaw first since the table spans many Feed calls.
	lineLengthsRaw []byte
	lineLengths    []uint16

	// One plane per channel, width*height*bytesPerSample bytes each,
	// written scanline by scanline at the cursor below.
	chanBufs [][]byte
	currChan int
	currRow  int
	pos      int // write offset within chanBufs[currChan]

	cancelled bool
	finalized bool
}

// NewContext begins a decode session before any bytes have been seen.
// Feed the stream in arbitrary chunks, then call Close at end of stream.
func NewContext(opts Options) *Context {
	if opts.Alloc == nil {
		opts.Alloc = func(w, h int) (*PixelBuffer, error) {
			return NewPixelBuffer(w, h), nil
		}
	}
	return &Context{
		opts: opts,
		// Large enough for the header; regrown to scanline size once
		// the geometry is known.
		staging: make([]byte, headerSize),
	}
}

// feed copies bytes from data into dst until dst holds need bytes,
// carrying the running count in c.bytesRead. It returns the unconsumed
// tail of data and whether the target count has been reached. Zero-length
// input is a no-op; oversupply consumes only the missing prefix.
func (c *Context) feed(dst, data []byte, need int) ([]byte, bool) {
	n := minInt(need-c.bytesRead, len(data))
	copy(dst[c.bytesRead:c.bytesRead+n], data[:n])
	c.bytesRead += n
	return data[n:], c.bytesRead == need
}

// skipBlock consumes one length-prefixed section: a 4-byte big-endian
// byte count followed by that many bytes, none of them interpreted.
// Resumable at any byte boundary, including inside the prefix.
func (c *Context) skipBlock(data []byte) ([]byte, bool) {
	if !c.skipKnown {
		var done bool
		if data, done = c.feed(c.staging, data, 4); !done {
			return data, false
		}
		c.skipRemaining = readUint32(c.staging, 0)
		c.skipKnown = true
	}
	if uint32(len(data)) < c.skipRemaining {
		c.skipRemaining -= uint32(len(data))
		return nil, false
	}
	return data[c.skipRemaining:], true
}

// resetStaging prepares the staging buffer for the next fixed-size field.
func (c *Context) resetStaging() {
	c.bytesRead = 0
	c.skipRemaining = 0
	c.skipKnown = false
}

// lineBytes is the uncompressed length of one channel's scanline.
func (c *Context) lineBytes() int {
	return c.width * c.bytesPerSample
}

// Feed hands the next fragment of the stream to the decoder. The whole
// slice is always consumed; when a field is still incomplete the decoder
// parks until the next call. After a non-nil error the session is dead
// and must be closed, not fed further. Feeding a cancelled or finished
// session discards the input.
func (c *Context) Feed(data []byte) error {
	if c.cancelled {
		return nil
	}
	var done bool
	for len(data) > 0 && c.state != stDone {
		switch c.state {
		case stHeader:
			if data, done = c.feed(c.staging, data, headerSize); done {
				if err := c.setupFromHeader(); err != nil {
					return err
				}
				if c.cancelled {
					return nil
				}
				c.state = stColorModeBlock
				c.resetStaging()
			}

		case stColorModeBlock:
			if data, done = c.skipBlock(data); done {
				c.state = stResourcesBlock
				c.resetStaging()
			}

		case stResourcesBlock:
			if data, done = c.skipBlock(data); done {
				c.state = stLayersBlock
				c.resetStaging()
			}

		case stLayersBlock:
			if data, done = c.skipBlock(data); done {
				c.state = stCompression
				c.resetStaging()
			}

		case stCompression:
			if data, done = c.feed(c.staging, data, 2); done {
				switch compressionKind(readUint16(c.staging, 0)) {
				case cRaw:
					c.compression = cRaw
					c.state = stChannelData
				case cRLE:
					c.compression = cRLE
					c.state = stLineLengths
				default:
					return UnsupportedError("compression type")
				}
				c.resetStaging()
			}

		case stLineLengths:
			if data, done = c.feed(c.lineLengthsRaw, data, len(c.lineLengthsRaw)); done {
				if err := c.parseLineLengths(); err != nil {
					return err
				}
				c.state = stChannelData
				c.resetStaging()
			}

		case stChannelData:
			need := c.lineBytes()
			if c.compression == cRLE {
				need = int(c.lineLengths[c.currChan*c.height+c.currRow])
			}
			if data, done = c.feed(c.staging, data, need); done {
				dst := c.chanBufs[c.currChan][c.pos : c.pos+c.lineBytes()]
				if c.compression == cRLE {
					if err := decompressLine(c.staging[:need], dst); err != nil {
						return err
					}
				} else {
					copy(dst, c.staging[:need])
				}
				c.advanceCursor()
				c.resetStaging()
			}
		}
	}

	if c.state == stDone && !c.finalized {
		c.finalize()
	}
	return nil
}

// setupFromHeader parses the accumulated header, negotiates the geometry
// with the host and allocates every buffer the rest of the decode needs.
func (c *Context) setupFromHeader() error {
	h, err := parseHeader(c.staging[:headerSize])
	if err != nil {
		return err
	}

	c.width = h.cols
	c.height = h.rows
	c.channels = h.channels
	c.depth = h.depth
	c.bytesPerSample = h.depth / 8
	if c.bytesPerSample == 0 {
		c.bytesPerSample = 1
	}
	c.mode = h.mode

	if c.opts.Size != nil {
		if w, ht := c.opts.Size(c.width, c.height); w == 0 || ht == 0 {
			c.cancelled = true
			return nil
		}
	}

	// One worst-case PackBits scanline: run headers can at most double
	// the raw line length. Floor of 4 so the buffer still fits a section
	// length prefix when the image is a single pixel wide.
	if n := 2 * c.lineBytes(); n >= 4 {
		c.staging = make([]byte, n)
	} else {
		c.staging = make([]byte, 4)
	}
	c.lineLengthsRaw = make([]byte, 2*c.height*c.channels)

	pb, err := c.opts.Alloc(c.width, c.height)
	if err != nil {
		return MemoryError(err.Error())
	}
	if pb == nil || pb.Stride < 3*c.width ||
		len(pb.Pix) < pb.Stride*(c.height-1)+3*c.width {
		return MemoryError("destination buffer too small")
	}
	c.pixbuf = pb

	c.chanBufs = make([][]byte, c.channels)
	for i := range c.chanBufs {
		c.chanBufs[i] = make([]byte, c.width*c.height*c.bytesPerSample)
	}

	if c.opts.Ready != nil {
		c.opts.Ready(pb)
	}
	return nil
}

// parseLineLengths converts the raw RLE table into 16-bit entries, in
// channel-major order. An entry beyond the worst-case PackBits expansion
// cannot come from a valid encoder and would not fit the staging buffer.
func (c *Context) parseLineLengths() error {
	n := c.height * c.channels
	c.lineLengths = make([]uint16, n)
	for i := 0; i < n; i++ {
		l := readUint16(c.lineLengthsRaw, 2*i)
		if int(l) > 2*c.lineBytes() {
			return CorruptError("scanline length exceeds PackBits bound")
		}
		c.lineLengths[i] = l
	}
	c.lineLengthsRaw = nil
	return nil
}

// advanceCursor moves to the next scanline, rolling over to the next
// channel at the bottom of the plane. Exhausting the last channel is the
// terminal condition.
func (c *Context) advanceCursor() {
	c.pos += c.lineBytes()
	c.currRow++
	if c.currRow >= c.height {
		c.currChan++
		c.currRow = 0
		c.pos = 0
		if c.currChan >= c.channels {
			c.state = stDone
		}
	}
}

// finalize interleaves the channel planes into the destination buffer.
// It runs once; at 16 bits per channel only the most significant byte of
// each sample is used and the low byte is discarded.
func (c *Context) finalize() {
	b := c.bytesPerSample
	pix := c.pixbuf.Pix
	stride := c.pixbuf.Stride

	switch c.mode {
	case mRGB:
		for i := 0; i < c.height; i++ {
			row := pix[i*stride:]
			for j := 0; j < c.width; j++ {
				off := (c.width*i + j) * b
				row[3*j+0] = c.chanBufs[0][off]
				row[3*j+1] = c.chanBufs[1][off]
				row[3*j+2] = c.chanBufs[2][off]
			}
		}

	case mGrayscale, mDuotone:
		for i := 0; i < c.height; i++ {
			row := pix[i*stride:]
			for j := 0; j < c.width; j++ {
				v := c.chanBufs[0][(c.width*i+j)*b]
				row[3*j+0] = v
				row[3*j+1] = v
				row[3*j+2] = v
			}
		}

	case mCMYK:
		// Profile-less approximation; colors come out visibly distorted
		// but recognizable.
		for i := 0; i < c.height; i++ {
			row := pix[i*stride:]
			for j := 0; j < c.width; j++ {
				off := (c.width*i + j) * b
				k := 1.0 - float64(c.chanBufs[3][off])/255.0
				for ch := 0; ch < 3; ch++ {
					v := 1.0 - float64(c.chanBufs[ch][off])/255.0
					row[3*j+ch] = uint8((1.0 - (v*(1.0-k) + k)) * 255.0)
				}
			}
		}
	}

	c.finalized = true
}

// Close ends the session, releases everything the context owns and
// returns the assembled image. It reports a CorruptError when the stream
// stopped before all channel data arrived, and ErrCancelled when the
// size callback declined the geometry.
func (c *Context) Close() (*PixelBuffer, error) {
	defer func() {
		c.staging = nil
		c.lineLengthsRaw = nil
		c.lineLengths = nil
		c.chanBufs = nil
	}()

	if c.cancelled {
		return nil, ErrCancelled
	}
	if c.state != stDone {
		return nil, CorruptError("file ended before image data completed")
	}
	if !c.finalized {
		c.finalize()
	}
	return c.pixbuf, nil
}
