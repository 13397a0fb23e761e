// Package trace records simulation frames to a compressed stream and
// reads them back.
//
// A trace is a zstd stream of CBOR items: one Header followed by one
// sim.Frame per tick.
package trace

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/sdtraining/steer/pkg/sim"
	"github.com/sdtraining/steer/pkg/world"
)

const (
	Magic   = "steer-trace"
	Version = 1
)

type Header struct {
	Magic    string `cbor:"magic"`
	Version  int    `cbor:"version"`
	Scenario string `cbor:"scenario"`
	TickRate int    `cbor:"tickRate"`
	// Fingerprint identifies the configuration the trace was recorded
	// with.
	Fingerprint uint64           `cbor:"fingerprint"`
	Agents      []world.ObjectID `cbor:"agents"`
}

type Writer struct {
	zstd    *zstd.Encoder
	encoder *cbor.Encoder
	file    *os.File
	frames  int
}

var _ sim.Sink = (*Writer)(nil)

func NewWriter(w io.Writer, header Header) (*Writer, error) {
	compressed, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}

	header.Magic = Magic
	header.Version = Version

	writer := &Writer{
		zstd:    compressed,
		encoder: cbor.NewEncoder(compressed),
	}
	if err := writer.encoder.Encode(header); err != nil {
		compressed.Close()
		return nil, fmt.Errorf("could not write trace header: %w", err)
	}
	return writer, nil
}

// Create writes a new trace to path, replacing any file already there.
func Create(path string, header Header) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	writer, err := NewWriter(file, header)
	if err != nil {
		file.Close()
		return nil, err
	}
	writer.file = file
	return writer, nil
}

func (w *Writer) WriteFrame(frame *sim.Frame) error {
	if err := w.encoder.Encode(frame); err != nil {
		return fmt.Errorf("could not write frame %d: %w", frame.Tick, err)
	}
	w.frames++
	return nil
}

func (w *Writer) Frames() int { return w.frames }

// Close flushes the stream. The underlying writer is only closed when the
// trace was opened with Create.
func (w *Writer) Close() error {
	err := w.zstd.Close()
	if w.file != nil {
		if closeErr := w.file.Close(); err == nil {
			err = closeErr
		}
	}
	return err
}

type Reader struct {
	zstd    *zstd.Decoder
	decoder *cbor.Decoder
	file    *os.File
	header  Header
}

var ErrNotATrace = errors.New("not a steer trace")

func NewReader(r io.Reader) (*Reader, error) {
	compressed, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}

	reader := &Reader{
		zstd:    compressed,
		decoder: cbor.NewDecoder(compressed),
	}
	if err := reader.decoder.Decode(&reader.header); err != nil {
		compressed.Close()
		return nil, fmt.Errorf("%w: %v", ErrNotATrace, err)
	}
	if reader.header.Magic != Magic {
		compressed.Close()
		return nil, ErrNotATrace
	}
	if reader.header.Version != Version {
		compressed.Close()
		return nil, fmt.Errorf("unsupported trace version %d", reader.header.Version)
	}
	return reader, nil
}

func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	reader, err := NewReader(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	reader.file = file
	return reader, nil
}

func (r *Reader) Header() Header { return r.header }

// Next returns the next frame, or io.EOF once the trace is exhausted.
func (r *Reader) Next() (*sim.Frame, error) {
	var frame sim.Frame
	if err := r.decoder.Decode(&frame); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, err
	}
	return &frame, nil
}

func (r *Reader) Close() error {
	r.zstd.Close()
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}
