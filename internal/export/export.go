package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dgnsrekt/voicegen/voice"
	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"
)

var csvHeader = []string{"tick", "value"}

// Write encodes samples to w.
func Write(w io.Writer, samples []voice.Sample, f Format) error {
	switch f {
	case FormatCSV:
		return writeCSV(w, samples)
	case FormatJSON:
		enc := json.NewEncoder(w)
		if err := enc.Encode(nonNil(samples)); err != nil {
			return fmt.Errorf("unable to encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(nonNil(samples)); err != nil {
			return fmt.Errorf("unable to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %d", ErrUnknownFormat, f)
	}
}

// nonNil keeps empty tracks encoded as [] rather than null.
func nonNil(samples []voice.Sample) []voice.Sample {
	if samples == nil {
		return []voice.Sample{}
	}
	return samples
}

func writeCSV(w io.Writer, samples []voice.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("unable to write csv header: %w", err)
	}
	for _, s := range samples {
		rec := []string{
			strconv.Itoa(s.Tick),
			strconv.FormatFloat(s.Value, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("unable to write csv record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read decodes samples from r and checks that ticks run 0..n-1.
func Read(r io.Reader, f Format) ([]voice.Sample, error) {
	var (
		samples []voice.Sample
		err     error
	)
	switch f {
	case FormatCSV:
		samples, err = readCSV(r)
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&samples)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&samples)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, f)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedTrack, err)
	}

	for i, s := range samples {
		if s.Tick != i {
			return nil, fmt.Errorf("%w: sample %d has tick %d", ErrMalformedTrack, i, s.Tick)
		}
	}
	return samples, nil
}

func readCSV(r io.Reader) ([]voice.Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("missing csv header")
	}

	samples := make([]voice.Sample, 0, len(records)-1)
	for i, rec := range records[1:] {
		tick, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		value, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		samples = append(samples, voice.Sample{Tick: tick, Value: value})
	}
	return samples, nil
}

// WriteFile writes samples to path. The format comes from the file
// extension and a trailing .zst enables zstd compression. It returns the
// number of bytes written to disk.
func WriteFile(path string, samples []voice.Sample) (int64, error) {
	f, compressed, err := FormatFromPath(path)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:gosec
		return 0, fmt.Errorf("unable to create directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("unable to create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	cw := &countingWriter{w: file}
	if !compressed {
		if err := Write(cw, samples, f); err != nil {
			return 0, err
		}
		return cw.n, file.Close()
	}

	enc, err := zstd.NewWriter(cw)
	if err != nil {
		return 0, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	if err := Write(enc, samples, f); err != nil {
		_ = enc.Close()
		return 0, err
	}
	if err := enc.Close(); err != nil {
		return 0, fmt.Errorf("unable to flush zstd stream: %w", err)
	}
	return cw.n, file.Close()
}

// ReadFile reads a track written by WriteFile.
func ReadFile(path string) ([]voice.Sample, error) {
	f, compressed, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if !compressed {
		return Read(file, f)
	}

	dec, err := zstd.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	defer dec.Close()
	return Read(dec, f)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
