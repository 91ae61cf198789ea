/*
NAME
  errors.go - error kinds surfaced by the Program Stream mux/demux.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package ps

import "errors"

// Error kinds, per spec.md §7. IoError is not a single sentinel: a
// read/write failure returned by a ByteSink/ByteSource is propagated to
// the caller, in most places wrapped with github.com/pkg/errors.Wrap
// (the wrap style already used for collaborator failures in the
// teacher's mpegts.go); failed reads of individual PES header bytes in
// the demuxer are returned unwrapped.
var (
	// ErrNoMemory is returned by Init if per-stream state could not be
	// allocated.
	ErrNoMemory = errors.New("ps: could not allocate stream state")

	// ErrEncryptedStream is returned by DemuxEngine.ReadPacket when an
	// MPEG-2 PES header has a scrambling-control bit set. Encrypted
	// streams are refused outright, never skipped.
	ErrEncryptedStream = errors.New("ps: encrypted PES payload refused")

	// ErrEndOfStream is returned when the start-code scanner exhausts
	// its sync budget without finding a start code.
	ErrEndOfStream = errors.New("ps: end of stream before start code found")

	// ErrClosed is returned by WritePacket if called after End.
	ErrClosed = errors.New("ps: mux context already closed")

	// ErrBadCodecType is the programming-error assertion of spec.md §7:
	// a stream descriptor naming anything other than audio or video.
	ErrBadCodecType = errors.New("ps: stream descriptor has unknown codec type")
)
