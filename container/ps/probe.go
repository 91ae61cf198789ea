/*
NAME
  probe.go - container format sniffing.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package ps

import "encoding/binary"

// ProbeScoreMax is the maximum confidence Probe can award.
const ProbeScoreMax = 50

// Probe inspects the first bytes of a stream and reports a confidence
// score that it is a Program Stream: ProbeScoreMax-1 if the very first
// 4-byte start code found is one of the codes a Program Stream begins
// with, 0 otherwise. prefix must hold at least 4 bytes for a positive
// result to be possible.
func Probe(prefix []byte) int {
	if len(prefix) < 4 {
		return 0
	}
	code := binary.BigEndian.Uint32(prefix[:4])
	switch {
	case code == PackStartCode,
		code == SystemHeaderStartCode,
		code == ProgramStreamMap,
		code == PrivateStream1,
		code == PrivateStream2,
		code == PaddingStream,
		isAudioStartCode(code),
		isVideoStartCode(code):
		return ProbeScoreMax - 1
	default:
		return 0
	}
}
