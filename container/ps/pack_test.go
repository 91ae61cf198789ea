package ps

import (
	"bytes"
	"testing"
)

func TestWritePackHeaderZero(t *testing.T) {
	var buf bytes.Buffer
	if err := writePackHeader(&buf, 0, 0); err != nil {
		t.Fatal(err)
	}
	want := []byte{0x00, 0x00, 0x01, 0xBA, 0x21, 0x00, 0x01, 0x00, 0x01, 0x80, 0x00, 0x01}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got % x, want % x", buf.Bytes(), want)
	}
	if buf.Len() != packHeaderSize {
		t.Errorf("header length = %d, want %d", buf.Len(), packHeaderSize)
	}
}

func TestWriteSystemHeaderNoEntries(t *testing.T) {
	var buf bytes.Buffer
	if err := writeSystemHeader(&buf, 0, 0, 0, nil); err != nil {
		t.Fatal(err)
	}
	want := []byte{0x00, 0x00, 0x01, 0xBB, 0x00, 0x06, 0x80, 0x00, 0x01, 0x03, 0x20, 0xFF}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got % x, want % x", buf.Bytes(), want)
	}
}

func TestWriteSystemHeaderOneEntry(t *testing.T) {
	var buf bytes.Buffer
	entries := []systemHeaderEntry{{id: 0xC0, isVideo: false, bufferBound: 32}}
	if err := writeSystemHeader(&buf, 0, 0, 0, entries); err != nil {
		t.Fatal(err)
	}
	want := []byte{
		0x00, 0x00, 0x01, 0xBB, 0x00, 0x09,
		0x80, 0x00, 0x01, 0x03, 0x20, 0xFF,
		0xC0, 0xC0, 0x20,
	}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got % x, want % x", buf.Bytes(), want)
	}
}

func TestSystemHeaderSizeMatchesWrittenLength(t *testing.T) {
	entries := []systemHeaderEntry{
		{id: 0xC0, isVideo: false, bufferBound: 32},
		{id: 0xE0, isVideo: true, bufferBound: 46},
	}
	var buf bytes.Buffer
	if err := writeSystemHeader(&buf, 123, 1, 1, entries); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.Len(), systemHeaderSize(len(entries)); got != want {
		t.Errorf("writeSystemHeader produced %d bytes, systemHeaderSize predicted %d", got, want)
	}
}

func TestWritePTSFieldZero(t *testing.T) {
	var buf bytes.Buffer
	if err := writePTSField(&buf, ptsOnlyNibble, 0); err != nil {
		t.Fatal(err)
	}
	want := []byte{0x21, 0x00, 0x01, 0x00, 0x01}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got % x, want % x", buf.Bytes(), want)
	}
}

func TestWritePTSFieldRoundTripsThroughDecodePTS(t *testing.T) {
	var buf bytes.Buffer
	const pts = int64(0x123456789 & 0x1FFFFFFFF) // fits in 33 bits
	if err := writePTSField(&buf, ptsOnlyNibble, pts); err != nil {
		t.Fatal(err)
	}
	// decodePTS only reads the marker-separated PTS bits of each byte, so
	// the leading nibble (which carries ptsOnlyNibble, not PTS bits) does
	// not need to be masked off.
	var arr [5]byte
	copy(arr[:], buf.Bytes())
	got := decodePTS(arr)
	if got != pts {
		t.Errorf("decodePTS(writePTSField(pts)) = %#x, want %#x", got, pts)
	}
}
