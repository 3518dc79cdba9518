package sequencer

import (
	"strings"
	"unicode/utf8"

	"github.com/fbdsound/fbdplayer/player/data"
)

// header is the parsed FBD header: title, envelope-table offset, and up
// to three channel stream offsets.
type header struct {
	title               string
	envelopeTableOffset uint32
	channelOffsets      [3]*uint32
}

// parseHeader reads a null-terminated UTF-8 title at offset 0, then the
// envelope-table offset and up to three channel offsets, all relative
// to the position of the title's null terminator.
func parseHeader(d data.SequenceData) (*header, error) {
	var titleBytes []byte
	offset := uint32(0)
	for {
		b := d.GetByte(offset)
		if b == 0 {
			break
		}
		titleBytes = append(titleBytes, b)
		offset++
	}
	if !utf8.Valid(titleBytes) {
		return nil, newFormatError("title is not valid UTF-8")
	}
	title := strings.ReplaceAll(string(titleBytes), "\n", " ")

	dataOffset := offset
	envelopeTableOffset := uint32(d.GetShort(dataOffset+2)) + dataOffset
	if envelopeTableOffset >= d.Length() {
		return nil, newFormatError("envelope table offset out of range")
	}

	h := &header{title: title, envelopeTableOffset: envelopeTableOffset}
	for i := 0; i < 3; i++ {
		raw := d.GetShort(dataOffset + 4 + uint32(i)*2)
		if raw == 0 {
			continue
		}
		adjusted := dataOffset + uint32(raw)
		if adjusted >= d.Length() {
			return nil, newFormatError("channel offset out of range")
		}
		h.channelOffsets[i] = &adjusted
	}
	return h, nil
}
