package ps

import (
	"bytes"
	"testing"
)

func TestBitWriterByteAligned(t *testing.T) {
	var buf bytes.Buffer
	bw := NewBitWriter(&buf)
	if err := bw.WriteBits(0xAB, 8); err != nil {
		t.Fatal(err)
	}
	if err := bw.WriteBits(0xCD, 8); err != nil {
		t.Fatal(err)
	}
	if err := bw.Flush(); err != nil {
		t.Fatal(err)
	}
	want := []byte{0xAB, 0xCD}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got %x, want %x", buf.Bytes(), want)
	}
}

func TestBitWriterUnaligned(t *testing.T) {
	var buf bytes.Buffer
	bw := NewBitWriter(&buf)
	// 0010 (4 bits) + 1 (flag) + 0000000 (7 bits) = 0010_1000 0000 -> pad to 2 bytes.
	if err := bw.WriteBits(0x2, 4); err != nil {
		t.Fatal(err)
	}
	if err := bw.WriteFlag(true); err != nil {
		t.Fatal(err)
	}
	if err := bw.WriteBits(0x0, 7); err != nil {
		t.Fatal(err)
	}
	if err := bw.Flush(); err != nil {
		t.Fatal(err)
	}
	want := []byte{0x28, 0x00}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got %x, want %x", buf.Bytes(), want)
	}
}

func TestBitWriterWidthOutOfRange(t *testing.T) {
	var buf bytes.Buffer
	bw := NewBitWriter(&buf)
	if err := bw.WriteBits(0, 0); err == nil {
		t.Error("expected error for 0-bit width")
	}
	if err := bw.WriteBits(0, 33); err == nil {
		t.Error("expected error for 33-bit width")
	}
}

func TestBitWriterPosition(t *testing.T) {
	var buf bytes.Buffer
	bw := NewBitWriter(&buf)
	bw.WriteBits(0xFF, 8)
	bw.Flush()
	if got := bw.Position(); got != 1 {
		t.Errorf("Position() = %d, want 1", got)
	}
}
