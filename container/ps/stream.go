/*
NAME
  stream.go - per-elementary-stream mux/demux state.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package ps

// MaxPayload is the capacity reserved for each stream's mux buffer.
const MaxPayload = 4096

// Buffer bounds advertised in the system header, per spec.md §3.
const (
	audioBufferSize = 4 * 1024  // 4 KiB
	videoBufferSize = 46 * 1024 // 46 KiB
)

// System header buffer-size scale units, per spec.md §4.3.
const (
	audioBufferScale = 128
	videoBufferScale = 1024
)

// CodecType distinguishes audio from video elementary streams.
type CodecType int

const (
	CodecAudio CodecType = iota
	CodecVideo
)

// CodecID identifies the elementary stream's compression format. Only the
// identifiers needed to pick a PES stream ID and a system-header buffer
// bound are represented; actual payload parsing is out of scope (see
// spec.md §1).
type CodecID int

const (
	CodecMPEG1Video CodecID = iota
	CodecMP2
	CodecAC3
)

// PES stream ID base values, per spec.md §3.
const (
	audioMPEGIDBase = 0xC0
	audioAC3IDBase  = 0x80 // private-stream-1 sub-id base
	videoIDBase     = 0xE0
)

// privateStream1ID is the PES id used for all private-stream-1 payloads
// (e.g. AC-3), identified further by a one-byte sub-id inside the
// payload.
const privateStream1ID = 0xBD

// StreamDescriptor is supplied by the caller (the collaborator described
// in spec.md §6) for each elementary stream to be multiplexed.
type StreamDescriptor struct {
	CodecType  CodecType
	CodecID    CodecID
	SampleRate int64 // Hz, audio only
	FrameSize  int64 // samples per access unit, audio only
	FrameRate  int64 // frames/sec * FrameRateBase, video only
	BitRate    int64 // bits/sec
}

// sentinel "unset" value for StreamState.startPTS, per spec.md §3.
const ptsUnset = -1

// StreamState holds the mux-side state for one elementary stream: its PES
// id, re-used payload buffer, PTS accumulator and packet counter. Buffers
// are allocated once at init and reused across packets; StreamState never
// reallocates buf in steady state.
type StreamState struct {
	ID CodecID

	// PESID is the 1-byte PES stream id this stream is assigned, per
	// spec.md §3: 0xC0+k for MPEG audio, 0x80+k (private-stream-1
	// sub-id) for AC-3, 0xE0+k for video.
	PESID byte

	// SubID is the private-stream-1 sub-id byte for AC-3 streams; zero
	// for all other streams.
	SubID byte

	codecType CodecType

	buf  []byte
	fill int

	maxBufferSize int // advertised bound, in bytes
	bufferScale   int // system-header scale unit

	pts      int64
	startPTS int64

	ticker *Ticker

	// packetNumber is this stream's own emitted-PES-packet count,
	// independent of MuxContext's global packet_number.
	packetNumber int64
}

// newStreamState allocates a StreamState for descriptor d, assigned PES id
// pesID (and, for AC-3, sub-id subID).
func newStreamState(d StreamDescriptor, pesID, subID byte) *StreamState {
	s := &StreamState{
		ID:       d.CodecID,
		PESID:    pesID,
		SubID:    subID,
		codecType: d.CodecType,
		buf:      make([]byte, MaxPayload),
		startPTS: ptsUnset,
	}

	switch d.CodecType {
	case CodecVideo:
		s.maxBufferSize = videoBufferSize
		s.bufferScale = videoBufferScale
		s.ticker = NewVideoTicker(d.FrameRate)
	default:
		s.maxBufferSize = audioBufferSize
		s.bufferScale = audioBufferScale
		s.ticker = NewAudioTicker(d.SampleRate, d.FrameSize)
	}

	return s
}

// bufferBound returns the system-header buffer-bound field for this
// stream: maxBufferSize scaled down to units of bufferScale.
func (s *StreamState) bufferBound() uint16 {
	return uint16(s.maxBufferSize / s.bufferScale)
}

// isPrivateStream1 reports whether this stream is carried as a
// private-stream-1 (AC-3) sub-stream, i.e. its PES id is below the
// private-stream-1 threshold of 0xC0.
func (s *StreamState) isPrivateStream1() bool {
	return s.PESID < 0xC0
}

// append adds b to the stream's pending payload, growing buf if capacity
// is exceeded (which should not happen in steady state: callers are
// expected to flush once fill reaches the profile's packet data limit
// before appending more than one packet's worth of data at a time).
func (s *StreamState) append(b []byte) {
	need := s.fill + len(b)
	if need > cap(s.buf) {
		grown := make([]byte, need)
		copy(grown, s.buf[:s.fill])
		s.buf = grown
	} else if need > len(s.buf) {
		s.buf = s.buf[:cap(s.buf)]
	}
	copy(s.buf[s.fill:need], b)
	s.fill = need
}

// consume removes the first n bytes from the pending payload, moving the
// residual to the front of the buffer, per spec.md §4.3 step 9.
func (s *StreamState) consume(n int) {
	if n >= s.fill {
		s.fill = 0
	} else {
		copy(s.buf, s.buf[n:s.fill])
		s.fill -= n
	}
	s.startPTS = ptsUnset
}

// tick advances the stream's PTS by one accumulator step and returns the
// new PTS.
func (s *StreamState) tick() int64 {
	s.pts += s.ticker.Tick()
	return s.pts
}
