package transport

import (
	"encoding/binary"
	"errors"
	"fmt"

	fractal "github.com/marben/fractal_playground"
)

// frameHeaderLen is width, height and step as big endian uint32.
const frameHeaderLen = 12

var ErrBadFrame = errors.New("bad frame")

// EncodeFrame serialises f for a binary websocket message.
func EncodeFrame(f fractal.Frame) []byte {
	buf := make([]byte, frameHeaderLen+len(f.Pix))
	binary.BigEndian.PutUint32(buf[0:], uint32(f.Width))
	binary.BigEndian.PutUint32(buf[4:], uint32(f.Height))
	binary.BigEndian.PutUint32(buf[8:], uint32(f.Step))
	copy(buf[frameHeaderLen:], f.Pix)
	return buf
}

// DecodeFrame parses a frame produced by EncodeFrame. The returned frame
// references b.
func DecodeFrame(b []byte) (fractal.Frame, error) {
	if len(b) < frameHeaderLen {
		return fractal.Frame{}, fmt.Errorf("%w: %d bytes", ErrBadFrame, len(b))
	}
	f := fractal.Frame{
		Width:  int(binary.BigEndian.Uint32(b[0:])),
		Height: int(binary.BigEndian.Uint32(b[4:])),
		Step:   int(binary.BigEndian.Uint32(b[8:])),
		Pix:    b[frameHeaderLen:],
	}
	if want := 4 * f.Width * f.Height; len(f.Pix) != want {
		return fractal.Frame{}, fmt.Errorf("%w: %dx%d needs %d bytes, got %d", ErrBadFrame, f.Width, f.Height, want, len(f.Pix))
	}
	return f, nil
}
