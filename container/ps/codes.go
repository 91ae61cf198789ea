/*
NAME
  codes.go - MPEG Program Stream start codes.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package ps

// Start codes, per ISO/IEC 11172-1 / 13818-1.
const (
	PackStartCode         = 0x000001BA
	SystemHeaderStartCode = 0x000001BB
	ProgramStreamMap      = 0x000001BC
	PrivateStream1        = 0x000001BD
	PaddingStream         = 0x000001BE
	PrivateStream2        = 0x000001BF
	ISO11172EndCode       = 0x000001B9
)

// Audio and video PES stream id ranges, per spec.md §4.4.
const (
	AudioStreamIDMin = 0x1C0
	AudioStreamIDMax = 0x1DF
	VideoStreamIDMin = 0x1E0
	VideoStreamIDMax = 0x1EF
)

// packHeaderSize is the fixed byte length of a pack header in this
// implementation's MPEG-1 shape (no SCR extension, no rate-extension
// byte; spec.md §4.3/§9 — this shape is emitted in every profile).
const packHeaderSize = 12

// systemHeaderEntrySize is the byte length of one per-stream entry in a
// system header.
const systemHeaderEntrySize = 3

// systemHeaderFixedSize is the byte length of the fixed portion of a
// system header, from the marker bit preceding rate_bound up to and
// including the reserved 0xFF byte (i.e. everything between the 16-bit
// length field and the first per-stream entry).
const systemHeaderFixedSize = 6

// isAudioStartCode reports whether code is an MPEG audio PES start code.
func isAudioStartCode(code uint32) bool {
	return code >= AudioStreamIDMin && code <= AudioStreamIDMax
}

// isVideoStartCode reports whether code is an MPEG video PES start code.
func isVideoStartCode(code uint32) bool {
	return code >= VideoStreamIDMin && code <= VideoStreamIDMax
}
