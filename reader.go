package psd

// Resources:
// https://www.adobe.com/devnet-apps/photoshop/fileformatashtml/
// https://www.fileformat.info/format/psd/egff.htm
//
// Only the flattened composite image is decoded: the color mode data,
// image resources and layer/mask sections are skipped whole.

import (
	"image"
	"image/color"
	"io"

	"github.com/pkg/errors"
)

// Registration metadata for hosts that pick decoders by signature.
const (
	MimeType      = "image/x-psd"
	FileExtension = "psd"
)

// DecodeConfig returns the dimensions of a PSD image without decoding the
// image data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return image.Config{}, errors.Wrap(err, "could not read header")
	}
	h, err := parseHeader(buf)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.RGBAModel,
		Width:      h.cols,
		Height:     h.rows,
	}, nil
}

// Decode reads a PSD image from r and returns the flattened composite as
// an image.Image. The whole stream is consumed.
func Decode(r io.Reader) (image.Image, error) {
	ctx := NewContext(Options{})

	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if ferr := ctx.Feed(buf[:n]); ferr != nil {
				return nil, ferr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "could not read image data")
		}
	}

	pb, err := ctx.Close()
	if err != nil {
		return nil, err
	}

	m := image.NewRGBA(image.Rect(0, 0, pb.Width, pb.Height))
	for y := 0; y < pb.Height; y++ {
		src := pb.Pix[y*pb.Stride:]
		dst := m.Pix[y*m.Stride:]
		for x := 0; x < pb.Width; x++ {
			dst[4*x+0] = src[3*x+0]
			dst[4*x+1] = src[3*x+1]
			dst[4*x+2] = src[3*x+2]
			dst[4*x+3] = 0xff
		}
	}
	return m, nil
}

func init() {
	image.RegisterFormat("psd", psdSignature, Decode, DecodeConfig)
}
