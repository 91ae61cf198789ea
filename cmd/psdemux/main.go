/*
DESCRIPTION
  Psdemux reads an MPEG Program Stream file and writes each discovered
  elementary stream to its own output file.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package psdemux is a bare bones program for demultiplexing an MPEG
// Program Stream file into its elementary streams.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ausocean/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/mpegps/container/ps"
)

const (
	logPath      = "psdemux.log"
	logMaxSize   = 100 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
	logVerbosity = logging.Debug
	logSuppress  = true
)

func main() {
	inPath := flag.String("in", "", "path to a Program Stream file")
	outPrefix := flag.String("out", "stream", "output file prefix; one file per discovered stream")
	flag.Parse()

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	l := logging.New(logVerbosity, io.MultiWriter(fileLog, os.Stderr), logSuppress)

	if *inPath == "" {
		l.Fatal("-in is required")
	}

	in, err := os.Open(*inPath)
	if err != nil {
		l.Fatal("could not open input file", "error", err)
	}
	defer in.Close()

	d := ps.NewDemuxContext(l)
	src := ps.NewReaderSource(in)

	outputs := make(map[int]*os.File)
	defer func() {
		for _, f := range outputs {
			f.Close()
		}
	}()

	var count int
	for {
		pkt, err := d.ReadPacket(src)
		if err != nil {
			if errors.Is(err, ps.ErrEndOfStream) || errors.Is(err, io.EOF) {
				break
			}
			l.Fatal("demux failed", "error", err)
		}

		f, ok := outputs[pkt.StreamIndex]
		if !ok {
			name := fmt.Sprintf("%s.%d", *outPrefix, pkt.StreamIndex)
			f, err = os.Create(name)
			if err != nil {
				l.Fatal("could not create output file", "error", err)
			}
			outputs[pkt.StreamIndex] = f
			l.Debug("discovered stream", "index", pkt.StreamIndex, "file", name)
		}

		if _, err := f.Write(pkt.Data); err != nil {
			l.Fatal("could not write elementary data", "error", err)
		}
		count++
	}
	l.Debug("demux complete", "packets", count, "streams", len(outputs))
}
