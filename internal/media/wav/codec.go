package wav

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"bleeper/internal/fileutil"
	"bleeper/internal/services"
)

const (
	formatPCM = 1
	bitDepth  = 16
)

// ErrFormat marks input that is not 16-bit PCM WAV. It also matches
// services.ErrFormat.
var ErrFormat = fmt.Errorf("wav: %w", services.ErrFormat)

func formatError(operation, message string, err error) error {
	return services.Wrap(ErrFormat, "codec", operation, message, err)
}

// Decode reads a WAV stream and returns a mono buffer.
func Decode(r io.ReadSeeker) (Buffer, error) {
	dec := gowav.NewDecoder(r)
	if !dec.IsValidFile() {
		return Buffer{}, formatError("decode", "not a RIFF/WAVE file with audio frames", dec.Err())
	}
	if dec.WavAudioFormat != formatPCM {
		return Buffer{}, formatError("decode", fmt.Sprintf("unsupported audio format %d (want PCM)", dec.WavAudioFormat), nil)
	}
	if dec.BitDepth != bitDepth {
		return Buffer{}, formatError("decode", fmt.Sprintf("unsupported sample width %d bits (want 16)", dec.BitDepth), nil)
	}
	channels := int(dec.NumChans)
	rate := int(dec.SampleRate)
	if channels < 1 || rate < 1 {
		return Buffer{}, formatError("decode", fmt.Sprintf("invalid header: %d channels at %d Hz", channels, rate), nil)
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return Buffer{}, formatError("decode", "read PCM data", err)
	}
	return Buffer{
		Samples:    downmix(pcm.Data, channels),
		SampleRate: rate,
		Channels:   1,
	}, nil
}

// downmix averages interleaved frames. A trailing partial frame is ignored.
// The mean of int16 values always fits in int16, so truncation never
// saturates.
func downmix(data []int, channels int) []int16 {
	frames := len(data) / channels
	out := make([]int16, frames)
	if channels == 1 {
		for i := range out {
			out[i] = int16(data[i])
		}
		return out
	}
	for i := range out {
		sum := 0
		frame := data[i*channels : (i+1)*channels]
		for _, v := range frame {
			sum += v
		}
		out[i] = int16(sum / channels)
	}
	return out
}

// DecodeBytes decodes an in-memory WAV file.
func DecodeBytes(data []byte) (Buffer, error) {
	return Decode(bytes.NewReader(data))
}

// Encode writes b as mono 16-bit PCM at b.SampleRate.
func Encode(w io.WriteSeeker, b Buffer) error {
	if b.SampleRate <= 0 {
		return services.Wrap(services.ErrValidation, "codec", "encode", fmt.Sprintf("invalid sample rate %d", b.SampleRate), nil)
	}
	if b.Channels > 1 {
		return services.Wrap(services.ErrValidation, "codec", "encode", fmt.Sprintf("expected mono buffer, got %d channels", b.Channels), nil)
	}
	data := make([]int, len(b.Samples))
	for i, s := range b.Samples {
		data[i] = int(s)
	}
	enc := gowav.NewEncoder(w, b.SampleRate, bitDepth, 1, formatPCM)
	err := enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: b.SampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	})
	if err != nil {
		return fmt.Errorf("write samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize wav: %w", err)
	}
	return nil
}

// EncodeBytes returns b encoded as a WAV file.
func EncodeBytes(b Buffer) ([]byte, error) {
	var ws writeSeeker
	if err := Encode(&ws, b); err != nil {
		return nil, err
	}
	return ws.buf, nil
}

// ReadFile decodes the WAV file at path.
func ReadFile(path string) (Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return Buffer{}, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// WriteFile encodes b to path. The file appears only once it is complete.
func WriteFile(path string, b Buffer) error {
	return fileutil.WriteAtomic(path, 0o644, func(f *os.File) error {
		return Encode(f, b)
	})
}

// writeSeeker is an in-memory io.WriteSeeker for the encoder, which seeks back
// to patch chunk sizes.
type writeSeeker struct {
	buf []byte
	pos int
}

func (w *writeSeeker) Write(p []byte) (int, error) {
	end := w.pos + len(p)
	if end > len(w.buf) {
		w.buf = append(w.buf, make([]byte, end-len(w.buf))...)
	}
	copy(w.buf[w.pos:end], p)
	w.pos = end
	return len(p), nil
}

func (w *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = int64(w.pos)
	case io.SeekEnd:
		base = int64(len(w.buf))
	default:
		return 0, errors.New("invalid whence")
	}
	next := base + offset
	if next < 0 {
		return 0, errors.New("negative position")
	}
	w.pos = int(next)
	return next, nil
}
