/*
NAME
  io.go - byte sink/source collaborator interfaces.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package ps

import (
	"encoding/binary"
	"io"
)

// ByteSink is the byte-output collaborator described in spec.md §6. Mux
// writes are opaque to the caller; MuxEngine never seeks.
type ByteSink interface {
	PutByte(b byte) error
	PutBE16(u uint16) error
	PutBE32(u uint32) error
	PutBuffer(b []byte) error
	PutFlushPacket() error
}

// ByteSource is the byte-input collaborator described in spec.md §6.
// DemuxEngine only reads forward.
type ByteSource interface {
	GetByte() (byte, error)
	GetBE16() (uint16, error)
	GetBuffer(n int) ([]byte, error)
	URLFSkip(n int) error
	URLFEOF() bool
	URLFTell() int64
}

// writerSink adapts an io.Writer to ByteSink. PutFlushPacket flushes the
// underlying writer if it implements a Flush method (as a *bufio.Writer
// does), otherwise it is a no-op.
type writerSink struct {
	w   io.Writer
	buf [4]byte
}

// NewWriterSink returns a ByteSink backed by w, the way device/file.AVFile
// wraps a plain *os.File for the rest of this corpus's encoders.
func NewWriterSink(w io.Writer) ByteSink {
	return &writerSink{w: w}
}

func (s *writerSink) PutByte(b byte) error {
	s.buf[0] = b
	_, err := s.w.Write(s.buf[:1])
	return err
}

func (s *writerSink) PutBE16(u uint16) error {
	binary.BigEndian.PutUint16(s.buf[:2], u)
	_, err := s.w.Write(s.buf[:2])
	return err
}

func (s *writerSink) PutBE32(u uint32) error {
	binary.BigEndian.PutUint32(s.buf[:4], u)
	_, err := s.w.Write(s.buf[:4])
	return err
}

func (s *writerSink) PutBuffer(b []byte) error {
	_, err := s.w.Write(b)
	return err
}

type flusher interface {
	Flush() error
}

func (s *writerSink) PutFlushPacket() error {
	if f, ok := s.w.(flusher); ok {
		return f.Flush()
	}
	return nil
}

// readerSource adapts an io.Reader to ByteSource. URLFTell tracks bytes
// consumed from the point NewReaderSource was called; it does not reflect
// any Seek on the underlying reader. URLFEOF reports the last sticky EOF
// seen by a read.
type readerSource struct {
	r    io.Reader
	pos  int64
	eof  bool
	byte [1]byte
	be16 [2]byte
}

// NewReaderSource returns a ByteSource backed by r.
func NewReaderSource(r io.Reader) ByteSource {
	return &readerSource{r: r}
}

func (s *readerSource) GetByte() (byte, error) {
	_, err := io.ReadFull(s.r, s.byte[:])
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			s.eof = true
		}
		return 0, err
	}
	s.pos++
	return s.byte[0], nil
}

func (s *readerSource) GetBE16() (uint16, error) {
	_, err := io.ReadFull(s.r, s.be16[:])
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			s.eof = true
		}
		return 0, err
	}
	s.pos += 2
	return binary.BigEndian.Uint16(s.be16[:]), nil
}

func (s *readerSource) GetBuffer(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := io.ReadFull(s.r, b)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			s.eof = true
		}
		return nil, err
	}
	s.pos += int64(n)
	return b, nil
}

// URLFSkip discards n bytes, implemented as repeated reads per spec.md §6
// since the underlying io.Reader is not assumed seekable.
func (s *readerSource) URLFSkip(n int) error {
	_, err := io.CopyN(io.Discard, s.r, int64(n))
	if err != nil {
		if err == io.EOF {
			s.eof = true
		}
		return err
	}
	s.pos += int64(n)
	return nil
}

func (s *readerSource) URLFEOF() bool { return s.eof }

func (s *readerSource) URLFTell() int64 { return s.pos }
