/*
DESCRIPTION
  thordec decodes a thor bitstream, from a raw file, stdin or MPEG-TS, writing
  the decoded pictures as planar YUV and reporting bit statistics.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// thordec is a command line thor decoder.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/thor/codec/thor/source"
	"github.com/ausocean/thor/codec/thor/thordec"
	"github.com/ausocean/thor/codec/thor/thordec/bits"
	"github.com/ausocean/thor/codec/thor/thordec/config"
	"github.com/ausocean/thor/container/mts"
	"github.com/ausocean/utils/logging"
)

// Current software version.
const version = "v0.1.0"

// Logging configuration.
const (
	logMaxSize   = 50 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
	logSuppress  = false
)

// Pool configuration used when reading from stdin.
const poolLen = 64

func main() {
	var (
		inPath      = flag.String("in", "-", "thor bitstream to decode, - for stdin")
		outPath     = flag.String("out", "", "file to write decoded YUV 4:2:0 to")
		ts          = flag.Bool("ts", false, "input is MPEG-TS")
		pid         = flag.Int("pid", mts.AutoPID, "PID of the thor stream in MPEG-TS input, -1 for the first found")
		logPath     = flag.String("log", "", "file to log to in addition to stderr")
		plotPath    = flag.String("plot", "", "file to plot bits per frame to (png, svg or pdf)")
		vars        = flag.String("set", "", "comma separated config variables, e.g. Mode=header,MaxWidth=1920")
		showVersion = flag.Bool("version", false, "show version")
	)
	flag.Parse()
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	var w io.Writer = os.Stderr
	if *logPath != "" {
		// Create lumberjack logger to handle logging to file.
		fileLog := &lumberjack.Logger{
			Filename:   *logPath,
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackup,
			MaxAge:     logMaxAge,
		}
		defer fileLog.Close()
		w = io.MultiWriter(os.Stderr, fileLog)
	}
	log := logging.New(logging.Info, w, logSuppress)
	log.Info("starting thordec", "version", version)

	cfg := config.Config{Logger: log, LogLevel: logging.Info}
	cfg.Update(parseVars(*vars))
	err := cfg.Validate()
	if err != nil {
		log.Fatal("invalid config", "error", err.Error())
	}
	log.SetLevel(cfg.LogLevel)

	in := os.Stdin
	if *inPath != "-" {
		in, err = os.Open(*inPath)
		if err != nil {
			log.Fatal("could not open input", "error", err.Error())
		}
		defer in.Close()
	}
	src := newSource(in, *inPath == "-", *ts, *pid, &cfg)

	var yuv *bufio.Writer
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatal("could not create output", "error", err.Error())
		}
		defer f.Close()
		yuv = bufio.NewWriter(f)
	}

	var (
		frames int
		werr   error
	)
	out := thordec.OutputFunc(func(p *thordec.Picture) {
		frames++
		if yuv == nil || werr != nil {
			return
		}
		werr = writePicture(yuv, p)
	})

	// Per frame bits are only kept when they are needed for the plot.
	var frameBits []float64
	opts := []thordec.Option{thordec.WithSource(src), thordec.WithOutputListener(out)}
	if *plotPath != "" {
		opts = append(opts, thordec.WithFrameListener(thordec.FrameFunc(func(n uint64) {
			frameBits = append(frameBits, float64(n))
		})))
	}

	d, err := thordec.New(cfg, opts...)
	if err != nil {
		log.Fatal("could not create decoder", "error", err.Error())
	}

	err = d.Decode(nil)
	d.Flush()
	if err != nil {
		log.Error("decoding stopped", "error", err.Error())
	}

	if yuv != nil {
		if werr == nil {
			werr = yuv.Flush()
		}
		if werr != nil {
			log.Error("could not write output", "error", werr.Error())
		}
	}

	s := d.SequenceHeader()
	fmt.Printf("%dx%d, %d frames decoded, %d output\n", s.Width, s.Height, d.Stats().Frames(), frames)
	for _, sum := range d.Stats().Summary() {
		fmt.Printf("%s: frames=%d header_bits=%d total_bits=%d mean=%.1f stddev=%.1f\n",
			sum.Type, sum.Frames, sum.HeaderBits, sum.TotalBits, sum.MeanBits, sum.StdDevBits)
	}

	if *plotPath != "" {
		err := plotBits(*plotPath, frameBits)
		if err != nil {
			log.Error("could not plot bits", "error", err.Error())
		} else {
			med, p95 := percentiles(frameBits)
			fmt.Printf("frame bits: median=%.0f p95=%.0f\n", med, p95)
		}
	}

	if err != nil || werr != nil {
		os.Exit(1)
	}
}

// newSource returns the segment source for in. Piped raw input is fed
// through a pool by a reading goroutine.
func newSource(in io.Reader, piped, ts bool, pid int, cfg *config.Config) bits.Source {
	switch {
	case ts:
		return source.NewMTS(in, pid, cfg.Logger)
	case piped:
		p := source.NewPool(poolLen, int(cfg.ChunkSize), cfg.PoolTimeout, cfg.Logger)
		go func() {
			defer p.Close()
			buf := make([]byte, cfg.ChunkSize)
			for {
				n, err := in.Read(buf)
				if n > 0 {
					if _, err := p.Write(buf[:n]); err != nil {
						cfg.Logger.Error("could not write to pool", "error", err.Error())
						return
					}
				}
				if err == io.EOF {
					return
				}
				if err != nil {
					cfg.Logger.Error("could not read input", "error", err.Error())
					return
				}
			}
		}()
		return p
	default:
		return source.NewReader(in, int(cfg.ChunkSize))
	}
}

// parseVars parses a comma separated list of key=value pairs.
func parseVars(s string) map[string]string {
	vars := make(map[string]string)
	for _, kv := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		vars[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return vars
}

// writePicture writes the visible samples of each plane of p.
func writePicture(w io.Writer, p *thordec.Picture) error {
	for i := range p.Planes {
		for y := 0; y < p.Height[i]; y++ {
			row := p.Planes[i][y*p.Stride[i]:]
			_, err := w.Write(row[:p.Width[i]])
			if err != nil {
				return err
			}
		}
	}
	return nil
}
