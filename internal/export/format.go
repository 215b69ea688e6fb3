package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrUnknownFormat is returned for unsupported format names or extensions.
	ErrUnknownFormat = errors.New("unknown track format")

	// ErrMalformedTrack is returned when decoded data is not a valid track.
	ErrMalformedTrack = errors.New("malformed track")
)

// Format identifies a track encoding.
type Format int

const (
	FormatCSV Format = iota
	FormatJSON
	FormatYAML
)

// compressedExt marks zstd compressed files.
const compressedExt = ".zst"

// Formats returns the names of all supported formats.
func Formats() []string {
	return []string{"csv", "json", "yaml"}
}

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string {
	return "." + f.String()
}

// ParseFormat parses a format name.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %q (use one of %v)", ErrUnknownFormat, name, Formats())
	}
}

// FormatFromPath infers the format from a file name. A trailing .zst
// extension is reported through compressed.
func FormatFromPath(path string) (f Format, compressed bool, err error) {
	base := filepath.Base(path)
	if strings.EqualFold(filepath.Ext(base), compressedExt) {
		compressed = true
		base = base[:len(base)-len(compressedExt)]
	}
	ext := filepath.Ext(base)
	if ext == "" {
		return 0, compressed, fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	f, err = ParseFormat(ext)
	return f, compressed, err
}
