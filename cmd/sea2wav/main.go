// Command sea2wav converts a SEA file back to a WAV file.
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
	var force bool
	flag.BoolVar(&force, "f", false, "force overwrite")
	flag.Parse()

	for _, seaPath := range flag.Args() {
		if err := sea2wav(seaPath, force); err != nil {
			log.Fatalf("%+v", err)
		}
	}
}

func sea2wav(seaPath string, force bool) error {
	r, err := os.Open(seaPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer r.Close()

	dec, err := sea.NewDecoder(r)
	if err != nil {
		return errors.WithStack(err)
	}
	header := dec.Header()

	wavPath := trimExt(seaPath) + ".wav"
	if !force {
		if _, err := os.Stat(wavPath); err == nil {
			return errors.Errorf("WAV file %q already present; use -f to force overwrite", wavPath)
		}
	}
	fw, err := os.Create(wavPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer fw.Close()

	channels := int(header.Channels)
	enc := wav.NewEncoder(fw, int(header.SampleRate), 16, channels, 1)
	defer enc.Close()

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: int(header.SampleRate)},
		SourceBitDepth: 16,
	}
	for {
		samples, err := dec.DecodeChunk()
		if err != nil {
			if err == io.EOF {
				break
			}
			return errors.WithStack(err)
		}
		buf.Data = make([]int, len(samples))
		for i, s := range samples {
			buf.Data[i] = int(s)
		}
		if err := enc.Write(buf); err != nil {
			return errors.WithStack(err)
		}
	}

	fmt.Printf("wrote %s\n", wavPath)
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
