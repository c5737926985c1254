// Package protocol implements the length-prefixed JSON framing and the
// request dispatcher for the host's stdio transport.
package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
)

// MaxFrameSize bounds a single message. Anything larger indicates a
// desynchronized or hostile peer.
const MaxFrameSize = 16 << 20

// ReadFrame reads one message: a 4-byte little-endian length prefix
// followed by exactly that many bytes. io.ReadFull buffers across partial
// reads, so the prefix and body may arrive in separate chunks. A clean
// stream close before any prefix byte returns io.EOF.
func ReadFrame(r io.Reader) ([]byte, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("protocol: read length prefix: %w", err)
	}
	n := binary.LittleEndian.Uint32(prefix[:])
	if n > MaxFrameSize {
		return nil, fmt.Errorf("protocol: frame of %d bytes exceeds limit", n)
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("protocol: read frame body: %w", err)
	}
	return body, nil
}

// WriteFrame writes the prefix and body as one logical write.
func WriteFrame(w io.Writer, body []byte) error {
	if len(body) > MaxFrameSize {
		return fmt.Errorf("protocol: frame of %d bytes exceeds limit", len(body))
	}
	buf := make([]byte, 4+len(body))
	binary.LittleEndian.PutUint32(buf, uint32(len(body)))
	copy(buf[4:], body)
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("protocol: write frame: %w", err)
	}
	return nil
}
