// Package data provides the byte-addressable score storage the
// sequencer reads from, plus the file-loading glue that turns an FBD
// file on disk into one.
package data

import (
	"fmt"
	"log/slog"
	"os"
)

// SequenceData is a read-only byte array with little-endian short
// reads, the abstract data source the sequencer core consumes. The
// core never assumes a backing file; callers may implement this over
// any byte-addressable store.
type SequenceData interface {
	GetByte(offset uint32) uint8
	GetShort(offset uint32) uint16
	Length() uint32
}

// ByteData is the in-memory SequenceData implementation: a plain byte
// slice. It is stable for its lifetime, the one contract the core
// requires of any SequenceData.
type ByteData struct {
	bytes []byte
}

// NewByteData wraps an existing byte slice. The slice must not be
// mutated for as long as a Sequencer built on it is in use.
func NewByteData(b []byte) *ByteData {
	return &ByteData{bytes: b}
}

// NewFromFile reads an entire FBD file into memory.
func NewFromFile(path string) (*ByteData, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("data: failed to read %s: %w", path, err)
	}
	slog.Debug("loaded FBD score", "path", path, "bytes", len(b))
	return NewByteData(b), nil
}

func (d *ByteData) GetByte(offset uint32) uint8 {
	return d.bytes[offset]
}

// GetShort reads a little-endian u16 at offset.
func (d *ByteData) GetShort(offset uint32) uint16 {
	return uint16(d.bytes[offset]) | uint16(d.bytes[offset+1])<<8
}

func (d *ByteData) Length() uint32 {
	return uint32(len(d.bytes))
}
