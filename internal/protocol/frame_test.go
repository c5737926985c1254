package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"testing"
)

// chunkReader delivers at most one byte per Read call.
type chunkReader struct {
	r io.Reader
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if len(p) > 1 {
		p = p[:1]
	}
	return c.r.Read(p)
}

func frame(body string) []byte {
	buf := make([]byte, 4+len(body))
	binary.LittleEndian.PutUint32(buf, uint32(len(body)))
	copy(buf[4:], body)
	return buf
}

func TestReadFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, []byte(`{"id":1}`)); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFrame(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"id":1}` {
		t.Fatalf("got %q", got)
	}
}

func TestReadFramePartialDelivery(t *testing.T) {
	// The prefix and body arrive one byte at a time.
	r := &chunkReader{r: bytes.NewReader(frame(`{"id":7,"type":"ping"}`))}
	got, err := ReadFrame(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"id":7,"type":"ping"}` {
		t.Fatalf("got %q", got)
	}
}

func TestReadFrameCleanEOF(t *testing.T) {
	_, err := ReadFrame(bytes.NewReader(nil))
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestReadFrameTruncatedPrefix(t *testing.T) {
	_, err := ReadFrame(bytes.NewReader([]byte{1, 0}))
	if err == nil || errors.Is(err, io.EOF) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestReadFrameTruncatedBody(t *testing.T) {
	data := frame("abcdef")
	_, err := ReadFrame(bytes.NewReader(data[:len(data)-2]))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestReadFrameOversized(t *testing.T) {
	var prefix [4]byte
	binary.LittleEndian.PutUint32(prefix[:], MaxFrameSize+1)
	_, err := ReadFrame(bytes.NewReader(prefix[:]))
	if err == nil || !strings.Contains(err.Error(), "exceeds limit") {
		t.Fatalf("got %v", err)
	}
}

func TestReadFrameEmptyBody(t *testing.T) {
	got, err := ReadFrame(bytes.NewReader(frame("")))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("got %q", got)
	}
}

func TestWriteFrameMultipleMessages(t *testing.T) {
	var buf bytes.Buffer
	for _, m := range []string{"one", "two", "three"} {
		if err := WriteFrame(&buf, []byte(m)); err != nil {
			t.Fatal(err)
		}
	}
	for _, want := range []string{"one", "two", "three"} {
		got, err := ReadFrame(&buf)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != want {
			t.Fatalf("got %q, want %q", got, want)
		}
	}
}
