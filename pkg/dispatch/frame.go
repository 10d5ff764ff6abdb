package dispatch

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// HeaderSize is the length of the big-endian frame length prefix
	HeaderSize = 8

	// MaxFrameSize bounds a single payload
	MaxFrameSize = 4 << 30
)

// WriteFrame writes an 8-byte big-endian length followed by payload. It
// returns the number of bytes written including the header.
func WriteFrame(w io.Writer, payload []byte) (int64, error) {
	if uint64(len(payload)) > MaxFrameSize {
		return 0, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(payload))
	}

	var header [HeaderSize]byte
	binary.BigEndian.PutUint64(header[:], uint64(len(payload)))
	if _, err := w.Write(header[:]); err != nil {
		return 0, fmt.Errorf("dispatch: write frame header: %w", err)
	}

	n, err := w.Write(payload)
	if err != nil {
		return int64(HeaderSize + n), fmt.Errorf("dispatch: write frame payload: %w", err)
	}
	return int64(HeaderSize + n), nil
}

// ReadFrame reads one length-prefixed payload
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("dispatch: read frame header: %w", err)
	}

	size := binary.BigEndian.Uint64(header[:])
	if size > MaxFrameSize {
		return nil, fmt.Errorf("%w: header announces %d bytes", ErrFrameTooLarge, size)
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("dispatch: read frame payload: %w", err)
	}
	return payload, nil
}
