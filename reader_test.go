package psd_test

import (
	"bytes"
	"image"
	"testing"

	psd "github.com/jdudek/gdk-pixbuf-psd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smallRGB returns a 2x1 uncompressed RGB PSD stream.
func smallRGB() []byte {
	b := []byte("8BPS")
	b = append(b, 0x00, 0x01)                         // version
	b = append(b, 0, 0, 0, 0, 0, 0)                   // reserved
	b = append(b, 0x00, 0x03)                         // channels
	b = append(b, 0x00, 0x00, 0x00, 0x01)             // rows
	b = append(b, 0x00, 0x00, 0x00, 0x02)             // columns
	b = append(b, 0x00, 0x08)                         // depth
	b = append(b, 0x00, 0x03)                         // mode RGB
	b = append(b, make([]byte, 12)...)                // three empty sections
	b = append(b, 0x00, 0x00)                         // compression: raw
	b = append(b, 0x10, 0x11, 0x20, 0x21, 0x30, 0x31) // R R G G B B
	return b
}

func TestDecodeRegistered(t *testing.T) {
	m, format, err := image.Decode(bytes.NewReader(smallRGB()))
	require.NoError(t, err)
	assert.Equal(t, "psd", format)

	rgba, ok := m.(*image.RGBA)
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 2, 1), rgba.Bounds())
	assert.Equal(t, []byte{0x10, 0x20, 0x30, 0xFF, 0x11, 0x21, 0x31, 0xFF}, rgba.Pix)
}

func TestDecodeConfig(t *testing.T) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(smallRGB()))
	require.NoError(t, err)
	assert.Equal(t, "psd", format)
	assert.Equal(t, 2, cfg.Width)
	assert.Equal(t, 1, cfg.Height)
}

func TestDecodeTruncated(t *testing.T) {
	data := smallRGB()
	_, err := psd.Decode(bytes.NewReader(data[:len(data)-2]))
	assert.IsType(t, psd.CorruptError(""), err)
}

func TestDecodeNotPSD(t *testing.T) {
	_, err := psd.Decode(bytes.NewReader([]byte("GIF89a and then some")))
	assert.Error(t, err)
}

func TestRegistrationMetadata(t *testing.T) {
	assert.Equal(t, "image/x-psd", psd.MimeType)
	assert.Equal(t, "psd", psd.FileExtension)
}
