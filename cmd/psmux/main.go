/*
DESCRIPTION
  Psmux reads one or two raw elementary-stream files (audio, video, or
  both) and multiplexes them into an MPEG Program Stream.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package psmux is a bare bones program for multiplexing raw elementary
// streams into an MPEG Program Stream file.
package main

import (
	"flag"
	"io"
	"os"

	"github.com/ausocean/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/mpegps/container/ps"
)

// Logging related constants.
const (
	logPath      = "psmux.log"
	logMaxSize   = 100 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
	logVerbosity = logging.Debug
	logSuppress  = true
)

// chunkSize is the amount of elementary-stream data read per call to
// WritePacket, per spec.md §5's "one WritePacket call per access unit"
// shape, here approximated with a fixed read size since the raw
// elementary streams carry no access-unit framing.
const chunkSize = 4096

func main() {
	audioPath := flag.String("audio", "", "path to a raw MP2 audio elementary stream")
	videoPath := flag.String("video", "", "path to a raw MPEG-1 video elementary stream")
	outPath := flag.String("out", "out.mpg", "output Program Stream path")
	profile := flag.String("profile", "mpeg", "output profile: mpeg, vcd or vob")
	audioRate := flag.Int64("audio-bitrate", 224_000, "audio bitrate in bits/second")
	videoRate := flag.Int64("video-bitrate", 1_150_000, "video bitrate in bits/second")
	flag.Parse()

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	l := logging.New(logVerbosity, io.MultiWriter(fileLog, os.Stderr), logSuppress)

	if *audioPath == "" && *videoPath == "" {
		l.Fatal("at least one of -audio or -video is required")
	}

	kind := ps.ProfileMPEG1
	switch *profile {
	case "vcd":
		kind = ps.ProfileVCD
	case "vob":
		kind = ps.ProfileVOB
	}

	var descs []ps.StreamDescriptor
	var inputs []io.Reader

	if *audioPath != "" {
		f, err := os.Open(*audioPath)
		if err != nil {
			l.Fatal("could not open audio input", "error", err)
		}
		defer f.Close()
		inputs = append(inputs, f)
		descs = append(descs, ps.StreamDescriptor{
			CodecType:  ps.CodecAudio,
			CodecID:    ps.CodecMP2,
			SampleRate: 48000,
			FrameSize:  1152,
			BitRate:    *audioRate,
		})
	}

	if *videoPath != "" {
		f, err := os.Open(*videoPath)
		if err != nil {
			l.Fatal("could not open video input", "error", err)
		}
		defer f.Close()
		inputs = append(inputs, f)
		descs = append(descs, ps.StreamDescriptor{
			CodecType: ps.CodecVideo,
			CodecID:   ps.CodecMPEG1Video,
			FrameRate: 25 * ps.FrameRateBase,
			BitRate:   *videoRate,
		})
	}

	out, err := os.Create(*outPath)
	if err != nil {
		l.Fatal("could not create output file", "error", err)
	}
	defer out.Close()

	m, err := ps.Init(kind, descs, ps.NewWriterSink(out), l)
	if err != nil {
		l.Fatal("could not initialise multiplexer", "error", err)
	}

	buf := make([]byte, chunkSize)
	done := make([]bool, len(inputs))
	remaining := len(inputs)
	for remaining > 0 {
		for i, in := range inputs {
			if done[i] {
				continue
			}
			n, err := in.Read(buf)
			if n > 0 {
				if err := m.WritePacket(i, buf[:n], 0); err != nil {
					l.Fatal("could not write packet", "error", err)
				}
			}
			if err != nil {
				done[i] = true
				remaining--
			}
		}
	}

	if err := m.End(); err != nil {
		l.Fatal("could not finalise multiplex", "error", err)
	}
	l.Debug("multiplex complete", "out", *outPath)
}
