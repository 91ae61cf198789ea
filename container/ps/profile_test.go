package ps

import "testing"

func TestNewProfileMPEG1(t *testing.T) {
	p := NewProfile(ProfileMPEG1, 1_152_000) // 1.152 Mbit/s, e.g. one MP2 + one video stream
	if p.PacketSize != otherPacketSize {
		t.Errorf("PacketSize = %d, want %d", p.PacketSize, otherPacketSize)
	}
	if p.IsMPEG2 || p.IsVCD {
		t.Errorf("IsMPEG2=%v IsVCD=%v, want both false", p.IsMPEG2, p.IsVCD)
	}
	wantPackFreq := int((2 * 1_152_000) / int64(otherPacketSize*8))
	if p.PackHeaderFreq != wantPackFreq {
		t.Errorf("PackHeaderFreq = %d, want %d", p.PackHeaderFreq, wantPackFreq)
	}
	if p.SystemHeaderFreq != 5*p.PackHeaderFreq {
		t.Errorf("SystemHeaderFreq = %d, want %d", p.SystemHeaderFreq, 5*p.PackHeaderFreq)
	}
}

func TestNewProfileVCDForcesHeaderOnEveryPacket(t *testing.T) {
	p := NewProfile(ProfileVCD, 1_150_000)
	if p.PacketSize != vcdPacketSize {
		t.Errorf("PacketSize = %d, want %d", p.PacketSize, vcdPacketSize)
	}
	if p.PackHeaderFreq != 1 {
		t.Errorf("PackHeaderFreq = %d, want 1", p.PackHeaderFreq)
	}
	if p.SystemHeaderFreq != 40 {
		t.Errorf("SystemHeaderFreq = %d, want 40", p.SystemHeaderFreq)
	}
}

func TestNewProfileVOBIsMPEG2AndEveryPacketHeaded(t *testing.T) {
	p := NewProfile(ProfileVOB, 4_000_000)
	if !p.IsMPEG2 {
		t.Error("IsMPEG2 = false, want true")
	}
	if p.PackHeaderFreq != 1 {
		t.Errorf("PackHeaderFreq = %d, want 1", p.PackHeaderFreq)
	}
	if p.SystemHeaderFreq != 5 {
		t.Errorf("SystemHeaderFreq = %d, want 5", p.SystemHeaderFreq)
	}
}

func TestNewProfilePackHeaderFreqNeverZero(t *testing.T) {
	p := NewProfile(ProfileMPEG1, 0)
	if p.PackHeaderFreq != 1 {
		t.Errorf("PackHeaderFreq = %d, want 1 for a zero-bitrate multiplex", p.PackHeaderFreq)
	}
}

func TestNewProfileMuxRate(t *testing.T) {
	p := NewProfile(ProfileMPEG1, 398_000)
	want := uint32(ceilDiv(398_000+2000, 400))
	if p.MuxRate != want {
		t.Errorf("MuxRate = %d, want %d", p.MuxRate, want)
	}
}

func TestCeilDiv(t *testing.T) {
	cases := []struct{ a, b, want int64 }{
		{10, 5, 2},
		{11, 5, 3},
		{1, 400, 1},
		{400, 400, 1},
		{401, 400, 2},
	}
	for _, c := range cases {
		if got := ceilDiv(c.a, c.b); got != c.want {
			t.Errorf("ceilDiv(%d, %d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}
