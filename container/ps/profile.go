/*
NAME
  profile.go - the three Program Stream output flavours and their constants.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package ps

// ProfileKind selects one of the three Program Stream output flavours.
// Rather than a table of function pointers, each flavour is a variant of
// this single enumerated value; MuxEngine branches on profile-level
// constants (packet size, header frequencies, the MPEG-2 PES extension
// byte) instead of dispatching through an interface.
type ProfileKind int

const (
	// ProfileMPEG1 is the plain MPEG-1 System Stream.
	ProfileMPEG1 ProfileKind = iota
	// ProfileVCD is the Video CD profile: fixed 2324-byte sectors, a
	// pack header on every packet and a system header every 40 packets.
	ProfileVCD
	// ProfileVOB is the MPEG-2 Program Stream (DVD Video Object)
	// profile: an extra PES header extension byte sequence, no
	// MPEG-2 rate-extension byte in the pack header (see spec Open
	// Questions).
	ProfileVOB
)

// Packet sizes in bytes, per spec.md §3.
const (
	vcdPacketSize   = 2324
	otherPacketSize = 2048
)

// Profile is the immutable configuration for one Program Stream output.
// It is computed once at MuxEngine initialization from the aggregate
// bitrate of the streams being multiplexed and never changes afterward.
type Profile struct {
	Kind ProfileKind

	// PacketSize is the fixed total size, in bytes, of every emitted PS
	// packet for this profile.
	PacketSize int

	// IsMPEG2 selects the 8-byte PES header extension (vs. 5-byte
	// MPEG-1) and the PTS-only/PTS+DTS flag byte shape in PES headers.
	IsMPEG2 bool

	// IsVCD selects the fixed 2324-byte sector size, forces a pack
	// header on every packet and sets the system header interval to 40
	// packets.
	IsVCD bool

	// PackHeaderFreq is the number of packets between pack headers,
	// relative to the global packet_number.
	PackHeaderFreq int

	// SystemHeaderFreq is the number of packets between system
	// headers, relative to the global packet_number.
	SystemHeaderFreq int

	// MuxRate is the aggregate bitrate of the multiplex in units of 50
	// bytes/second, as carried in every pack header and system header.
	MuxRate uint32
}

// NewProfile computes a Profile for kind given the sum of the bitrates (in
// bits/second) of every stream that will be multiplexed, per spec.md §3:
//
//	pack_header_freq   = 1 for VCD/MPEG-2, else 2*bitrate/(packet_size*8)
//	system_header_freq = 40*pack for VCD, else 5*pack
//	mux_rate           = ceil((sum_bitrates + 2000) / 400)
func NewProfile(kind ProfileKind, sumBitrates int64) Profile {
	p := Profile{Kind: kind}

	switch kind {
	case ProfileVCD:
		p.PacketSize = vcdPacketSize
		p.IsVCD = true
	case ProfileVOB:
		p.PacketSize = otherPacketSize
		p.IsMPEG2 = true
	default:
		p.PacketSize = otherPacketSize
	}

	if p.IsVCD || p.IsMPEG2 {
		p.PackHeaderFreq = 1
	} else {
		p.PackHeaderFreq = int((2 * sumBitrates) / int64(p.PacketSize*8))
		if p.PackHeaderFreq < 1 {
			p.PackHeaderFreq = 1
		}
	}

	if p.IsVCD {
		p.SystemHeaderFreq = 40 * p.PackHeaderFreq
	} else {
		p.SystemHeaderFreq = 5 * p.PackHeaderFreq
	}

	p.MuxRate = uint32(ceilDiv(sumBitrates+2000, 400))

	return p
}

// ceilDiv returns ceil(a/b) for positive a, b.
func ceilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}
