/*
NAME
  pack.go - pack header, system header and PES header field composition.

DESCRIPTION
  Bit-field layouts are grounded on the teacher's container/mts/pes.Packet.Bytes
  and container/mts.Packet.Bytes, which compose MPEG bitstream headers by hand
  from shifted/masked byte literals; here the same fields are expressed
  through BitWriter so that every marker and reserved bit named in spec.md
  §4.3 is accounted for explicitly.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package ps

import (
	"bytes"
	"encoding/binary"
)

// writePackHeader emits a 12-byte MPEG-1-shaped pack header carrying scr
// as the System Clock Reference, per spec.md §4.3.
func writePackHeader(buf *bytes.Buffer, scr int64, muxRate uint32) error {
	var start [4]byte
	binary.BigEndian.PutUint32(start[:], PackStartCode)
	buf.Write(start[:])

	u := uint64(scr)
	bw := NewBitWriter(buf)
	bw.WriteBits(0x2, 4)
	bw.WriteBits(uint32((u>>30)&0x7), 3)
	bw.WriteFlag(true)
	bw.WriteBits(uint32((u>>15)&0x7FFF), 15)
	bw.WriteFlag(true)
	bw.WriteBits(uint32(u&0x7FFF), 15)
	bw.WriteFlag(true)
	bw.WriteFlag(true)
	bw.WriteBits(muxRate, 22)
	bw.WriteFlag(true)
	return bw.Flush()
}

// systemHeaderEntry describes one elementary stream's system-header entry.
type systemHeaderEntry struct {
	id          byte
	isVideo     bool
	bufferBound uint16
}

// writeSystemHeader emits a system header advertising muxRate, audioBound,
// videoBound and one entry per item in entries, patching the 16-bit
// length field once the header's true size is known, per spec.md §4.3.
func writeSystemHeader(buf *bytes.Buffer, muxRate uint32, audioBound, videoBound int, entries []systemHeaderEntry) error {
	headerStart := buf.Len()

	var start [4]byte
	binary.BigEndian.PutUint32(start[:], SystemHeaderStartCode)
	buf.Write(start[:])

	lenPos := buf.Len()
	buf.Write([]byte{0, 0}) // length placeholder, patched below

	bw := NewBitWriter(buf)
	bw.WriteFlag(true)
	bw.WriteBits(muxRate, 22)
	bw.WriteFlag(true)
	bw.WriteBits(uint32(audioBound), 6)
	bw.WriteFlag(true)  // VBR flag
	bw.WriteFlag(true)  // non-constrained bitrate flag
	bw.WriteFlag(false) // audio-locked
	bw.WriteFlag(false) // video-locked
	bw.WriteFlag(true)  // marker
	bw.WriteBits(uint32(videoBound), 5)
	bw.WriteBits(0xFF, 8)
	if err := bw.Flush(); err != nil {
		return err
	}

	for _, e := range entries {
		ebw := NewBitWriter(buf)
		ebw.WriteBits(uint32(e.id), 8)
		ebw.WriteBits(0x3, 2)
		ebw.WriteFlag(e.isVideo)
		ebw.WriteBits(uint32(e.bufferBound), 13)
		if err := ebw.Flush(); err != nil {
			return err
		}
	}

	emittedSize := buf.Len() - headerStart
	length := uint16(emittedSize - 6)
	b := buf.Bytes()
	binary.BigEndian.PutUint16(b[lenPos:lenPos+2], length)
	return nil
}

// systemHeaderSize returns the byte length writeSystemHeader would produce
// for the given number of distinct stream entries, without writing
// anything — used by MuxContext to size packets before composing them.
func systemHeaderSize(numEntries int) int {
	return 4 + 2 + systemHeaderFixedSize + systemHeaderEntrySize*numEntries
}

// ptsOnlyNibble is the fixed 4-bit marker preceding a PTS-only field in
// the MPEG-1/MPEG-2 PES header shape this package emits, per spec.md
// §4.3 item 5 ("top nibble 0010").
const ptsOnlyNibble = 0x2

// writePTSField emits the 5-byte PTS-only field of spec.md §4.3 item 5:
// a 4-bit nibble, then the 33-bit pts split as 3+15+15 bits, each
// followed by a marker bit.
func writePTSField(buf *bytes.Buffer, nibble byte, pts int64) error {
	u := uint64(pts)
	bw := NewBitWriter(buf)
	bw.WriteBits(uint32(nibble), 4)
	bw.WriteBits(uint32((u>>30)&0x7), 3)
	bw.WriteFlag(true)
	bw.WriteBits(uint32((u>>15)&0x7FFF), 15)
	bw.WriteFlag(true)
	bw.WriteBits(uint32(u&0x7FFF), 15)
	bw.WriteFlag(true)
	return bw.Flush()
}
