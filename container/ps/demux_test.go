package ps

import (
	"bytes"
	"io"
	"testing"
)

func TestDecodePTSZero(t *testing.T) {
	if got := decodePTS([5]byte{0x21, 0x00, 0x01, 0x00, 0x01}); got != 0 {
		t.Errorf("decodePTS(zero field) = %d, want 0", got)
	}
}

func TestDecodePTSNonzero(t *testing.T) {
	// Round-trip through the encoder: a PTS value well within 33 bits.
	const pts = int64(1<<32 + 12345)
	var buf bytes.Buffer
	if err := writePTSField(&buf, ptsOnlyNibble, pts); err != nil {
		t.Fatal(err)
	}
	var arr [5]byte
	copy(arr[:], buf.Bytes())
	if got := decodePTS(arr); got != pts {
		t.Errorf("decodePTS(writePTSField(%d)) = %d", pts, got)
	}
}

func TestReadPacketSimpleAudioPES(t *testing.T) {
	packet := []byte{
		0x00, 0x00, 0x01, 0xC0, // audio PES start code
		0x00, 0x08, // length: 3 data bytes + 5 header bytes
		0x21, 0x00, 0x01, 0x00, 0x01, // PTS-only field, pts=0
		0xAA, 0xBB, 0xCC, // elementary data
	}
	d := NewDemuxContext(nil)
	pkt, err := d.ReadPacket(NewReaderSource(bytes.NewReader(packet)))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(pkt.Data, []byte{0xAA, 0xBB, 0xCC}) {
		t.Errorf("Data = % x, want % x", pkt.Data, []byte{0xAA, 0xBB, 0xCC})
	}
	if pkt.PTS != 0 {
		t.Errorf("PTS = %d, want 0", pkt.PTS)
	}
	if pkt.StreamIndex != 0 {
		t.Errorf("StreamIndex = %d, want 0", pkt.StreamIndex)
	}
	streams := d.Streams()
	if len(streams) != 1 || streams[0] != CodecAudio {
		t.Errorf("Streams() = %v, want one CodecAudio entry", streams)
	}
}

func TestReadPacketSkipsPackAndSystemHeaders(t *testing.T) {
	var stream bytes.Buffer
	if err := writePackHeader(&stream, 0, 0); err != nil {
		t.Fatal(err)
	}
	if err := writeSystemHeader(&stream, 0, 0, 0, nil); err != nil {
		t.Fatal(err)
	}
	stream.Write([]byte{
		0x00, 0x00, 0x01, 0xC0,
		0x00, 0x08,
		0x21, 0x00, 0x01, 0x00, 0x01,
		0xAA, 0xBB, 0xCC,
	})

	d := NewDemuxContext(nil)
	pkt, err := d.ReadPacket(NewReaderSource(bytes.NewReader(stream.Bytes())))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(pkt.Data, []byte{0xAA, 0xBB, 0xCC}) {
		t.Errorf("Data = % x, want % x", pkt.Data, []byte{0xAA, 0xBB, 0xCC})
	}
}

func TestReadPacketPrivateStream1AC3(t *testing.T) {
	packet := []byte{
		0x00, 0x00, 0x01, 0xBD, // private stream 1
		0x00, 0x07, // length: 2 data bytes + 5 header bytes (sub-header excluded)
		0x21, 0x00, 0x01, 0x00, 0x01, // PTS-only field, pts=0
		0x80,             // AC-3 sub-id
		0x01, 0x00, 0x02, // AC-3 sub-header, discarded
		0x11, 0x22, // elementary data
	}
	d := NewDemuxContext(nil)
	pkt, err := d.ReadPacket(NewReaderSource(bytes.NewReader(packet)))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(pkt.Data, []byte{0x11, 0x22}) {
		t.Errorf("Data = % x, want % x", pkt.Data, []byte{0x11, 0x22})
	}
	streams := d.Streams()
	if len(streams) != 1 || streams[0] != CodecAudio {
		t.Errorf("Streams() = %v, want one CodecAudio (AC-3) entry", streams)
	}
}

func TestReadPacketRejectsEncryptedMPEG2Stream(t *testing.T) {
	packet := []byte{
		0x00, 0x00, 0x01, 0xE0, // video PES start code
		0x00, 0x03, // length (irrelevant; error precedes reading the rest)
		0x90, // MPEG-2 marker (0x80) with scrambling-control bits set (0x10)
	}
	d := NewDemuxContext(nil)
	_, err := d.ReadPacket(NewReaderSource(bytes.NewReader(packet)))
	if err != ErrEncryptedStream {
		t.Errorf("err = %v, want ErrEncryptedStream", err)
	}
}

func TestReadPacketMPEG2PTSOnly(t *testing.T) {
	packet := []byte{
		0x00, 0x00, 0x01, 0xE0,
		0x00, 0x0A, // length: 9 header bytes (1 stuffing + marker + flags + hdrlen + 5 PTS) + 1 data byte
		0xFF,       // one stuffing byte
		0x80,       // MPEG-2 marker, no scrambling
		0x80,       // flags: PTS present only
		0x05,       // header_data_length: 5 bytes of PTS follow
		0x21, 0x00, 0x01, 0x00, 0x01, // PTS field, pts=0
		0x99, // elementary data (1 byte)
	}
	d := NewDemuxContext(nil)
	pkt, err := d.ReadPacket(NewReaderSource(bytes.NewReader(packet)))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(pkt.Data, []byte{0x99}) {
		t.Errorf("Data = % x, want % x", pkt.Data, []byte{0x99})
	}
	if pkt.PTS != 0 {
		t.Errorf("PTS = %d, want 0", pkt.PTS)
	}
}

// infiniteFFReader never yields a start code and never reaches EOF,
// exercising the scanner's MaxSyncSize budget.
type infiniteFFReader struct{}

func (infiniteFFReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0xFF
	}
	return len(p), nil
}

func TestReadPacketGivesUpAfterSyncBudget(t *testing.T) {
	d := NewDemuxContext(nil)
	_, err := d.ReadPacket(NewReaderSource(infiniteFFReader{}))
	if err != ErrEndOfStream {
		t.Errorf("err = %v, want ErrEndOfStream", err)
	}
}

func TestReadPacketPropagatesShortRead(t *testing.T) {
	d := NewDemuxContext(nil)
	_, err := d.ReadPacket(NewReaderSource(bytes.NewReader(nil)))
	if err == nil {
		t.Fatal("expected an error reading from an empty source")
	}
	if !bytesErrorIsEOF(err) {
		t.Errorf("err = %v, want an EOF-rooted error", err)
	}
}

func bytesErrorIsEOF(err error) bool {
	for err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
