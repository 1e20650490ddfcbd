// Command wav2sea converts a WAV file to a SEA file.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"

	sea "github.com/sea-codec/sea-go"
)

func main() {
	var (
		force          bool
		vbr            bool
		verbose        bool
		residualBits   float64
		framesPerChunk uint
	)
	flag.BoolVar(&force, "f", false, "force overwrite")
	flag.BoolVar(&vbr, "vbr", false, "use variable bitrate mode")
	flag.BoolVar(&verbose, "v", false, "log VBR distribution diagnostics per chunk")
	flag.Float64Var(&residualBits, "bits", 3.0, "target residual width (CBR: integer 1-8, VBR: 2-6)")
	flag.UintVar(&framesPerChunk, "chunk", 5120, "frames per chunk")
	flag.Parse()

	settings := sea.DefaultSettings()
	settings.VBR = vbr
	settings.Verbose = verbose
	settings.ResidualBits = residualBits
	settings.FramesPerChunk = uint16(framesPerChunk)

	for _, wavPath := range flag.Args() {
		if err := wav2sea(wavPath, settings, force); err != nil {
			log.Fatalf("%+v", err)
		}
	}
}

func wav2sea(wavPath string, settings sea.EncoderSettings, force bool) error {
	r, err := os.Open(wavPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer r.Close()

	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return errors.Errorf("invalid WAV file %q", wavPath)
	}

	seaPath := trimExt(wavPath) + ".sea"
	if !force {
		if _, err := os.Stat(seaPath); err == nil {
			return errors.Errorf("SEA file %q already present; use -f to force overwrite", seaPath)
		}
	}
	w, err := os.Create(seaPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer w.Close()

	sampleRate, channels := dec.SampleRate, int(dec.NumChans)
	enc, err := sea.NewEncoder(w, settings, channels, sampleRate, 0)
	if err != nil {
		return errors.WithStack(err)
	}

	if err := dec.FwdToPCM(); err != nil {
		return errors.WithStack(err)
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: int(sampleRate)},
		Data:           make([]int, channels*1024),
		SourceBitDepth: int(dec.BitDepth),
	}
	for !dec.EOF() {
		n, err := dec.PCMBuffer(buf)
		if err != nil {
			return errors.WithStack(err)
		}
		if n == 0 {
			break
		}
		samples := make([]int16, n)
		for i := 0; i < n; i++ {
			samples[i] = int16(buf.Data[i])
		}
		if _, err := enc.Write(samples); err != nil {
			return errors.WithStack(err)
		}
		for {
			if err := enc.EncodeChunk(); err != nil {
				if err == io.EOF {
					break
				}
				return errors.WithStack(err)
			}
		}
	}
	if err := enc.Finalize(); err != nil {
		return errors.WithStack(err)
	}

	fmt.Printf("wrote %s\n", seaPath)
	return nil
}

func trimExt(path string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/'; i-- {
		if path[i] == '.' {
			return path[:i]
		}
	}
	return path
}
