// Package export encodes pitch tracks as CSV, JSON or YAML, optionally
// wrapped in zstd compression, and decodes them back.
package export
