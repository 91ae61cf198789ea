/*
NAME
  mux.go - Program Stream multiplexer.

DESCRIPTION
  MuxEngine accepts elementary-stream payload per call to WritePacket,
  buffers it per stream, and emits complete PS packets once a stream's
  buffer reaches the profile's packet data limit. Control flow is
  grounded on container/mts/encoder.go's Encoder.Write/writePSI (buffer
  until a threshold, emit a framing unit, repeat), generalized from MTS's
  fixed-size TS packets to PS's pack/system/PES framed packets.

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
	"io"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
)

// MuxContext is the multiplexer state for one Program Stream output. It
// is created by Init, mutated only by WritePacket and End, and never
// changes its Profile, stream count or ids once created.
type MuxContext struct {
	Profile

	streams    []*StreamState
	audioBound int
	videoBound int

	// packetNumber is the global count of PS packets emitted across all
	// streams, used to decide when pack/system headers are due.
	packetNumber int64

	sink   ByteSink
	log    logging.Logger
	closed bool

	// sysEntries is precomputed once at Init: one entry per distinct
	// PES id (private-stream-1 contributors collapsed to a single
	// entry), used to size and write system headers.
	sysEntries []systemHeaderEntry
}

// Init assigns PES ids to descs in order, computes the profile's mux
// rate and header frequencies from the streams' aggregate bitrate, and
// returns a ready-to-use MuxContext. Any codec type other than audio or
// video is a programming error: per spec.md §7, the mux cannot represent
// arbitrary streams, and Init panics rather than returning an error for
// that case. log may be nil, in which case a no-op logger is used.
func Init(kind ProfileKind, descs []StreamDescriptor, sink ByteSink, log logging.Logger) (*MuxContext, error) {
	if log == nil {
		log = logging.New(logging.Error, io.Discard, true)
	}

	var sumBitrates int64
	for _, d := range descs {
		if d.CodecType != CodecAudio && d.CodecType != CodecVideo {
			panic(ErrBadCodecType)
		}
		sumBitrates += d.BitRate
	}

	m := &MuxContext{
		Profile: NewProfile(kind, sumBitrates),
		sink:    sink,
		log:     log,
	}

	var audioK, ac3K, videoK byte
	m.streams = make([]*StreamState, 0, len(descs))
	for _, d := range descs {
		var pesID, subID byte
		switch {
		case d.CodecType == CodecAudio && d.CodecID == CodecAC3:
			subID = audioAC3IDBase + ac3K
			pesID = subID
			ac3K++
		case d.CodecType == CodecAudio:
			pesID = audioMPEGIDBase + audioK
			audioK++
		default:
			pesID = videoIDBase + videoK
			videoK++
		}

		s := newStreamState(d, pesID, subID)
		if s == nil {
			return nil, ErrNoMemory
		}
		m.streams = append(m.streams, s)

		if pesID >= 0xC0 && pesID <= 0xDF {
			m.audioBound++
		} else if pesID >= 0xE0 && pesID <= 0xEF {
			m.videoBound++
		}
	}

	wroteP1 := false
	for _, s := range m.streams {
		id := s.PESID
		if s.isPrivateStream1() {
			if wroteP1 {
				continue
			}
			id = privateStream1ID
			wroteP1 = true
		}
		m.sysEntries = append(m.sysEntries, systemHeaderEntry{
			id:          id,
			isVideo:     s.codecType == CodecVideo,
			bufferBound: s.bufferBound(),
		})
	}

	m.log.Debug("ps mux initialised", "profile", kind, "streams", len(m.streams),
		"muxRate", m.MuxRate, "packHeaderFreq", m.PackHeaderFreq, "systemHeaderFreq", m.SystemHeaderFreq)

	return m, nil
}

// prefixSizeFor returns the byte length of the pack/system header prefix
// that packetNumber requires, without writing anything.
func (m *MuxContext) prefixSizeFor(packetNumber int64) int {
	if packetNumber%int64(m.PackHeaderFreq) != 0 {
		return 0
	}
	size := packHeaderSize
	if packetNumber%int64(m.SystemHeaderFreq) == 0 {
		size += systemHeaderSize(len(m.sysEntries))
	}
	return size
}

// payloadSizeFor returns the number of elementary-stream bytes (data plus
// stuffing) the next packet emitted for s would carry, given the mux's
// current packet_number. When isLast is true, four bytes are reserved
// out of the packet's payload budget for the trailing ISO11172EndCode,
// so the packet as a whole (including the end code) still totals
// exactly PacketSize bytes.
func (m *MuxContext) payloadSizeFor(s *StreamState, isLast bool) int {
	headerLen := 5
	if m.IsMPEG2 {
		headerLen = 8
	}
	size := m.PacketSize - (m.prefixSizeFor(m.packetNumber) + 6 + headerLen)
	if s.isPrivateStream1() {
		size -= 4
	}
	if isLast {
		size -= 4
	}
	return size
}

// WritePacket appends data to the buffer for the stream at index
// streamIndex, advances that stream's PTS by one tick, and emits PS
// packets to the sink while the buffer holds at least one full packet's
// worth of data. If forcePTS is non-zero it re-anchors the stream's PTS
// before this call's data is timestamped, per spec.md §4.3 "Force-PTS".
func (m *MuxContext) WritePacket(streamIndex int, data []byte, forcePTS int64) error {
	if m.closed {
		return ErrClosed
	}
	s := m.streams[streamIndex]

	if forcePTS != 0 {
		s.pts = forcePTS
	}
	if s.fill == 0 {
		s.startPTS = s.pts
	}
	s.append(data)

	for s.fill >= m.payloadSizeFor(s, false) {
		if err := m.flushPacket(s, false); err != nil {
			return err
		}
	}

	s.tick()
	return nil
}

// End flushes any pending bytes for every stream, writing
// ISO11172EndCode as the trailing four bytes of the last emitted
// packet, and marks the context closed. End is idempotent: calling it
// again is a no-op. If no stream has pending bytes, End writes
// nothing.
func (m *MuxContext) End() error {
	if m.closed {
		return nil
	}
	m.closed = true

	lastPending := -1
	for i, s := range m.streams {
		if s.fill > 0 {
			lastPending = i
		}
	}
	if lastPending == -1 {
		return nil
	}

	for i, s := range m.streams {
		if s.fill == 0 {
			continue
		}
		isLast := i == lastPending
		for s.fill > m.payloadSizeFor(s, isLast) {
			if err := m.flushPacket(s, false); err != nil {
				return err
			}
		}
		if err := m.flushPacket(s, isLast); err != nil {
			return err
		}
	}
	return nil
}

// flushPacket emits exactly one PS packet for s: prefix headers (if due),
// the PES framing of spec.md §4.3 step 5-8, and the available payload
// bytes, then advances mux and stream bookkeeping per step 9.
func (m *MuxContext) flushPacket(s *StreamState, isLast bool) error {
	var body bytes.Buffer

	emitPack := m.packetNumber%int64(m.PackHeaderFreq) == 0
	if emitPack {
		if err := writePackHeader(&body, s.startPTS, m.MuxRate); err != nil {
			return errors.Wrap(err, "could not write pack header")
		}
		if m.packetNumber%int64(m.SystemHeaderFreq) == 0 {
			if err := writeSystemHeader(&body, m.MuxRate, m.audioBound, m.videoBound, m.sysEntries); err != nil {
				return errors.Wrap(err, "could not write system header")
			}
		}
	}

	headerLen := 5
	if m.IsMPEG2 {
		headerLen = 8
	}

	payloadSize := m.payloadSizeFor(s, isLast)
	stuffing := payloadSize - s.fill
	if stuffing < 0 {
		stuffing = 0
	}

	body.Write([]byte{0x00, 0x00, 0x01})
	if s.isPrivateStream1() {
		body.WriteByte(privateStream1ID)
	} else {
		body.WriteByte(s.PESID)
	}

	var be2 [2]byte
	binary.BigEndian.PutUint16(be2[:], uint16(payloadSize+headerLen))
	body.Write(be2[:])

	for i := 0; i < stuffing; i++ {
		body.WriteByte(0xFF)
	}

	if m.IsMPEG2 {
		body.Write([]byte{0x80, 0x80, 0x05})
	}
	if err := writePTSField(&body, ptsOnlyNibble, s.startPTS); err != nil {
		return errors.Wrap(err, "could not write PTS field")
	}

	if s.isPrivateStream1() {
		body.WriteByte(s.SubID)
		if s.SubID >= audioAC3IDBase && s.SubID < 0xC0 {
			body.Write([]byte{0x01, 0x00, 0x02})
		}
	}

	n := payloadSize - stuffing
	if n < 0 {
		n = 0
	}
	if n > s.fill {
		n = s.fill
	}
	body.Write(s.buf[:n])

	if isLast {
		var be4 [4]byte
		binary.BigEndian.PutUint32(be4[:], ISO11172EndCode)
		body.Write(be4[:])
	}

	if err := m.sink.PutBuffer(body.Bytes()); err != nil {
		return errors.Wrap(err, "could not write PS packet")
	}

	if err := m.sink.PutFlushPacket(); err != nil {
		return errors.Wrap(err, "could not flush PS packet")
	}

	m.log.Debug("flushed ps packet", "streamID", s.PESID, "packetNumber", m.packetNumber,
		"payloadSize", payloadSize, "stuffing", stuffing, "isLast", isLast)

	s.consume(n)
	m.packetNumber++
	s.packetNumber++
	return nil
}
