/*
NAME
  demux.go - Program Stream demultiplexer.

DESCRIPTION
  DemuxEngine scans the byte source for 24-bit start codes, dispatches on
  start-code class, and reconstructs elementary-stream packets with
  presentation timestamps. The buffered-scan-with-refill shape is grounded
  on codec/codecutil.ByteScanner; the PTS bit arithmetic is grounded on
  container/mts.extractPTS/GetPTS.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package ps

import (
	"io"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
)

// MaxSyncSize bounds, in bytes, how far the start-code scanner will look
// before giving up, per spec.md §4.4.
const MaxSyncSize = 100_000

// AVPacket is one demuxed elementary-stream packet.
type AVPacket struct {
	StreamIndex int
	PTS         int64
	Data        []byte
}

// demuxStream is a discovered elementary stream on the input side.
type demuxStream struct {
	id        byte // effective id: PES id for audio/video, sub-id for AC-3
	codecType CodecType
	codecID   CodecID
}

// DemuxContext is the demultiplexer state for one Program Stream input.
// headerState is the 24-bit rolling register the start-code scanner
// maintains across calls to ReadPacket, per spec.md §3/§4.4.
type DemuxContext struct {
	headerState uint32
	streamOrder []byte // effective ids in discovery order
	streams     map[byte]*demuxStream
	log         logging.Logger
}

// NewDemuxContext returns a DemuxContext; log may be nil for a no-op
// logger.
func NewDemuxContext(log logging.Logger) *DemuxContext {
	if log == nil {
		log = logging.New(logging.Error, io.Discard, true)
	}
	d := &DemuxContext{log: log}
	d.ReadHeader()
	return d
}

// ReadHeader initializes the scanner's rolling state. No bytes are
// consumed from the input.
func (d *DemuxContext) ReadHeader() {
	d.headerState = 0xFF
	d.streams = make(map[byte]*demuxStream)
	d.streamOrder = nil
}

// Streams returns the elementary streams discovered so far, in discovery
// order.
func (d *DemuxContext) Streams() []CodecType {
	types := make([]CodecType, len(d.streamOrder))
	for i, id := range d.streamOrder {
		types[i] = d.streams[id].codecType
	}
	return types
}

// scanStartCode consumes bytes from src until the rolling 24-bit state
// equals 0x000001, then reads one further byte and returns the full
// 4-byte start code.
func (d *DemuxContext) scanStartCode(src ByteSource) (uint32, error) {
	for i := 0; i < MaxSyncSize; i++ {
		b, err := src.GetByte()
		if err != nil {
			return 0, errors.Wrap(err, "ps: scanning for start code")
		}
		d.headerState = ((d.headerState << 8) | uint32(b)) & 0xFFFFFF
		if d.headerState == 0x000001 {
			b2, err := src.GetByte()
			if err != nil {
				return 0, errors.Wrap(err, "ps: reading start code suffix")
			}
			return (d.headerState << 8) | uint32(b2), nil
		}
	}
	return 0, ErrEndOfStream
}

// ReadPacket produces exactly one elementary-stream packet, skipping any
// number of pack headers, system headers, padding/private-stream-2
// packets and unrecognised start codes along the way.
func (d *DemuxContext) ReadPacket(src ByteSource) (*AVPacket, error) {
	for {
		code, err := d.scanStartCode(src)
		if err != nil {
			return nil, err
		}

		switch {
		case code == uint32(PackStartCode), code == uint32(SystemHeaderStartCode):
			// Resync; the fixed-layout header bytes are left for the
			// scanner to walk over on the next iteration.
			continue

		case code == uint32(PaddingStream), code == uint32(PrivateStream2):
			n, err := src.GetBE16()
			if err != nil {
				return nil, errors.Wrap(err, "ps: reading padding/private-stream-2 length")
			}
			if err := src.URLFSkip(int(n)); err != nil {
				return nil, errors.Wrap(err, "ps: skipping padding/private-stream-2 payload")
			}
			continue

		case isAudioStartCode(code), isVideoStartCode(code), code == uint32(PrivateStream1):
			pkt, err := d.readPES(src, code)
			if err != nil {
				return nil, err
			}
			if pkt == nil {
				continue // unrecognised sub-stream; already skipped
			}
			return pkt, nil

		default:
			continue
		}
	}
}

// readPES parses one PES header per spec.md §4.4 and returns the
// elementary packet it frames, or nil if the (sub-)stream is not one
// this demuxer discovers.
func (d *DemuxContext) readPES(src ByteSource, code uint32) (*AVPacket, error) {
	id := byte(code & 0xFF)

	lenField, err := src.GetBE16()
	if err != nil {
		return nil, errors.Wrap(err, "ps: reading PES length")
	}
	remaining := int(lenField)

	readByte := func() (byte, error) {
		b, err := src.GetByte()
		if err != nil {
			return 0, err
		}
		remaining--
		return b, nil
	}

	// Consume 0xFF stuffing bytes.
	c, err := readByte()
	if err != nil {
		return nil, errors.Wrap(err, "ps: reading PES header byte")
	}
	for c == 0xFF {
		c, err = readByte()
		if err != nil {
			return nil, errors.Wrap(err, "ps: reading PES header byte")
		}
	}

	if c&0xC0 == 0x40 {
		if _, err := readByte(); err != nil {
			return nil, err
		}
		if _, err := readByte(); err != nil {
			return nil, err
		}
		c, err = readByte()
		if err != nil {
			return nil, err
		}
	}

	var pts int64
	switch {
	case c&0xF0 == 0x20: // MPEG-1, PTS only
		b, err := readPTSBytes(c, readByte)
		if err != nil {
			return nil, err
		}
		pts = decodePTS(b)

	case c&0xF0 == 0x30: // MPEG-1, PTS and DTS
		b, err := readPTSBytes(c, readByte)
		if err != nil {
			return nil, err
		}
		pts = decodePTS(b)
		if _, err := readNBytes(5, readByte); err != nil { // DTS, discarded
			return nil, err
		}

	case c&0xC0 == 0x80: // MPEG-2
		if c&0x30 != 0 {
			return nil, ErrEncryptedStream
		}
		flags, err := readByte()
		if err != nil {
			return nil, err
		}
		hdrLen, err := readByte()
		if err != nil {
			return nil, err
		}
		consumed := 0

		// The PTS+DTS branch below has no "else" against the PTS-only
		// branch above it, so when both flag bits are set both
		// branches run, double-consuming header bytes.
		if flags&0x80 != 0 {
			b, err := readNBytes(5, readByte)
			if err != nil {
				return nil, err
			}
			var arr [5]byte
			copy(arr[:], b)
			pts = decodePTS(arr)
			consumed += 5
		}
		if flags&0xC0 == 0xC0 {
			b, err := readNBytes(10, readByte)
			if err != nil {
				return nil, err
			}
			var arr [5]byte
			copy(arr[:], b[:5])
			pts = decodePTS(arr)
			consumed += 10
		}

		if skip := int(hdrLen) - consumed; skip > 0 {
			for i := 0; i < skip; i++ {
				if _, err := readByte(); err != nil {
					return nil, err
				}
			}
		}

	default:
		// No PTS/DTS present.
	}

	effectiveID := id
	if code == uint32(PrivateStream1) {
		subID, err := src.GetByte()
		if err != nil {
			return nil, errors.Wrap(err, "ps: reading private-stream-1 sub-id")
		}
		if subID >= 0x80 && subID <= 0xBF {
			if _, err := src.GetBuffer(3); err != nil {
				return nil, errors.Wrap(err, "ps: reading AC-3 sub-header")
			}
		}
		effectiveID = subID
	}

	ds, ok := d.streams[effectiveID]
	if !ok {
		switch {
		case isVideoStartCode(uint32(effectiveID) | 0x100):
			ds = &demuxStream{id: effectiveID, codecType: CodecVideo, codecID: CodecMPEG1Video}
		case effectiveID >= byte(AudioStreamIDMin&0xFF) && effectiveID <= byte(AudioStreamIDMax&0xFF) && code != uint32(PrivateStream1):
			ds = &demuxStream{id: effectiveID, codecType: CodecAudio, codecID: CodecMP2}
		case effectiveID >= 0x80 && effectiveID <= 0x9F:
			ds = &demuxStream{id: effectiveID, codecType: CodecAudio, codecID: CodecAC3}
		default:
			if remaining > 0 {
				if err := src.URLFSkip(remaining); err != nil {
					return nil, errors.Wrap(err, "ps: skipping unrecognised stream payload")
				}
			}
			return nil, nil
		}
		d.streams[effectiveID] = ds
		d.streamOrder = append(d.streamOrder, effectiveID)
		d.log.Debug("discovered elementary stream", "id", effectiveID, "codecType", ds.codecType)
	}

	if remaining < 0 {
		remaining = 0
	}
	data, err := src.GetBuffer(remaining)
	if err != nil {
		return nil, errors.Wrap(err, "ps: reading PES payload")
	}

	idx := -1
	for i, oid := range d.streamOrder {
		if oid == effectiveID {
			idx = i
			break
		}
	}

	return &AVPacket{StreamIndex: idx, PTS: pts, Data: data}, nil
}

// readPTSBytes assembles the 5-byte PTS-only (or PTS-half-of-PTS+DTS)
// field given its already-consumed leading byte c.
func readPTSBytes(c byte, readByte func() (byte, error)) ([5]byte, error) {
	var b [5]byte
	b[0] = c
	for i := 1; i < 5; i++ {
		v, err := readByte()
		if err != nil {
			return b, err
		}
		b[i] = v
	}
	return b, nil
}

// readNBytes reads n further bytes via readByte.
func readNBytes(n int, readByte func() (byte, error)) ([]byte, error) {
	b := make([]byte, n)
	for i := range b {
		v, err := readByte()
		if err != nil {
			return nil, err
		}
		b[i] = v
	}
	return b, nil
}

// decodePTS decodes a 5-byte PTS (or DTS) field per spec.md §4.4:
//
//	pts = ((b0>>1)&7)<<30 | (((b1<<8)|b2)>>1)<<15 | (((b3<<8)|b4)>>1)
func decodePTS(b [5]byte) int64 {
	return int64((b[0]>>1)&0x7)<<30 |
		int64((uint16(b[1])<<8|uint16(b[2]))>>1)<<15 |
		int64((uint16(b[3])<<8|uint16(b[4]))>>1)
}
