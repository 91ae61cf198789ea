/*
NAME
  bitwriter.go - MSB-first bit packing for MPEG Program Stream headers.

DESCRIPTION
  BitWriter packs header fields of 1 to 32 bits, MSB-first, into a byte
  buffer.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package ps provides encoding and decoding of MPEG-1/MPEG-2 Program Stream
// (PS) container data: muxing of elementary audio/video streams into a
// byte-accurate PS bitstream, and demuxing such a bitstream back into
// packetized elementary units with presentation timestamps.
package ps

import (
	"bytes"
	"fmt"

	"github.com/icza/bitio"
)

// BitWriter packs fields of 1 to 32 bits, MSB-first, into a backing byte
// buffer. Every pack/system/PES header field in this package is emitted
// through a BitWriter so that output is byte-identical to the MPEG-1/
// MPEG-2 Systems bitstream layout, regardless of how the fields happen to
// be grouped in Go source.
type BitWriter struct {
	buf *bytes.Buffer
	w   *bitio.Writer
}

// NewBitWriter returns a BitWriter that appends packed bits to buf.
func NewBitWriter(buf *bytes.Buffer) *BitWriter {
	return &BitWriter{buf: buf, w: bitio.NewWriter(buf)}
}

// WriteBits packs the low nBits bits of value into the writer, MSB-first.
// nBits must be between 1 and 32 inclusive.
func (w *BitWriter) WriteBits(value uint32, nBits int) error {
	if nBits < 1 || nBits > 32 {
		return fmt.Errorf("ps: WriteBits: bit width %d out of range [1,32]", nBits)
	}
	return w.w.WriteBits(uint64(value), uint8(nBits))
}

// WriteFlag packs a single marker/flag bit.
func (w *BitWriter) WriteFlag(b bool) error {
	return w.w.WriteBool(b)
}

// Flush pads any partially-written byte with zero bits, guaranteeing the
// next WriteBits call starts on a byte boundary.
func (w *BitWriter) Flush() error {
	_, err := w.w.Align()
	return err
}

// Position reports the number of whole bytes written to the backing buffer
// so far. Bits buffered but not yet flushed to a whole byte are not
// counted.
func (w *BitWriter) Position() int {
	return w.buf.Len()
}
