/*
NAME
  ticker.go - rational-increment 90kHz PTS generator.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package ps

// PTSFreq is the presentation timestamp clock frequency in Hz, as defined
// by the MPEG-1/MPEG-2 Systems standard.
const PTSFreq = 90000

// FrameRateBase is the fixed-point denominator applied to video frame
// rates supplied to NewVideoTicker, i.e. a stream descriptor's frame_rate
// field is expected in units of 1/FrameRateBase frames per second (so a
// 25fps stream is described by frame_rate = 25000).
const FrameRateBase = 1000

// Ticker computes, on each call to Tick, the integer number of 90kHz
// ticks that have elapsed since the previous call, such that over many
// calls pts advances at exactly rateNum/rateDen ticks per call with zero
// long-run drift. No floating point is used: Tick uses a running count of
// calls and takes the difference of two truncating integer divisions,
// the same "running accumulator, take the delta" shape as the
// clock/writePeriod bookkeeping in the teacher's MPEG-TS encoder, but
// generalized to an exact rational step instead of a fixed frame period.
type Ticker struct {
	rateNum int64
	rateDen int64
	calls   int64
}

// NewTicker returns a Ticker that advances at rateNum/rateDen 90kHz ticks
// per call to Tick.
func NewTicker(rateNum, rateDen int64) *Ticker {
	return &Ticker{rateNum: rateNum, rateDen: rateDen}
}

// NewAudioTicker returns a Ticker for an audio elementary stream with the
// given sample rate (Hz) and frame size (samples per access unit): each
// call advances the PTS by PTSFreq*frameSize/sampleRate ticks on average,
// the 90kHz-clock duration of one access unit.
func NewAudioTicker(sampleRate, frameSize int64) *Ticker {
	return NewTicker(PTSFreq*frameSize, sampleRate)
}

// NewVideoTicker returns a Ticker for a video elementary stream with the
// given frame rate, expressed in units of 1/FrameRateBase frames per
// second: each call advances the PTS by PTSFreq*FrameRateBase/frameRate
// ticks on average, the 90kHz-clock duration of one frame.
func NewVideoTicker(frameRate int64) *Ticker {
	return NewTicker(PTSFreq*FrameRateBase, frameRate)
}

// Tick returns the number of 90kHz ticks elapsed since the previous call
// (on the very first call, one step measured from zero, i.e.
// rateNum/rateDen truncated), and advances the ticker's internal call
// count.
func (t *Ticker) Tick() int64 {
	prev := (t.rateNum * t.calls) / t.rateDen
	t.calls++
	cur := (t.rateNum * t.calls) / t.rateDen
	return cur - prev
}
