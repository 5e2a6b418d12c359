package psd

// A PSD file starts with a fixed 26-byte header, followed by three
// length-prefixed sections (color mode data, image resources, layer and
// mask information), a 2-byte compression tag and finally the composite
// image data, stored channel by channel. Everything is big-endian.
//
// Of the sections only the header and the image data are interpreted;
// the three metadata sections are skipped whole.

const (
	psdSignature = "8BPS" // File ID at offset 0.

	headerSize = 26 // Length of the fixed header in bytes.

	maxChannels  = 24    // Channel count range per the format.
	maxDimension = 30000 // Rows and columns range per the format.
)

// Fixed header byte offsets. Bytes 6-11 are reserved and ignored.
const (
	offVersion   = 4  // 16-bit, always 1, not validated
	offChannels  = 12 // 16-bit
	offRows      = 14 // 32-bit, image height
	offColumns   = 18 // 32-bit, image width
	offDepth     = 22 // 16-bit, bits per channel
	offColorMode = 24 // 16-bit
)

// colorMode is the document color mode declared in the header.
type colorMode uint16

const (
	mMono         colorMode = 0
	mGrayscale    colorMode = 1
	mIndexed      colorMode = 2
	mRGB          colorMode = 3
	mCMYK         colorMode = 4
	mMultichannel colorMode = 7
	mDuotone      colorMode = 8
	mLab          colorMode = 9
)

// channelsNeeded returns how many channel planes the mode consumes when
// the composite image is assembled. Extra channels (alpha, spot) may
// follow and are decoded but unused.
func (m colorMode) channelsNeeded() int {
	switch m {
	case mRGB:
		return 3
	case mCMYK:
		return 4
	default:
		return 1
	}
}

// compressionKind is the image-data compression tag.
type compressionKind uint16

const (
	cRaw compressionKind = 0 // scanlines stored verbatim
	cRLE compressionKind = 1 // PackBits, one compressed run per scanline
)

// decodeState is the phase of the incremental decoder. States only ever
// advance; stDone absorbs any trailing input.
type decodeState int

const (
	stHeader decodeState = iota
	stColorModeBlock
	stResourcesBlock
	stLayersBlock
	stCompression
	stLineLengths
	stChannelData
	stDone
)
