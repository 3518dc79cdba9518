// Package wav writes mono 16-bit PCM WAV files from rendered float32
// sample blocks. No example repo in the corpus imports a WAV-writing
// library, so this is a small hand-rolled RIFF/WAVE encoder rather than
// a borrowed dependency - see the design notes for the rest of the
// stack's library choices.
package wav

import (
	"encoding/binary"
	"fmt"
	"os"
)

const (
	numChannels   = 1
	bitsPerSample = 16
)

// Write encodes samples (each in [-1, 1]) as 16-bit PCM at sampleRate
// and writes a complete WAV file to path.
func Write(path string, samples []float32, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wav: failed to create %s: %w", path, err)
	}
	defer f.Close()

	dataSize := len(samples) * 2
	byteRate := sampleRate * numChannels * bitsPerSample / 8
	blockAlign := numChannels * bitsPerSample / 8

	header := make([]byte, 44)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+dataSize))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:24], numChannels)
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataSize))

	if _, err := f.Write(header); err != nil {
		return fmt.Errorf("wav: failed to write header: %w", err)
	}

	body := make([]byte, dataSize)
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(body[i*2:], uint16(int16(clamp(sample)*32767)))
	}
	if _, err := f.Write(body); err != nil {
		return fmt.Errorf("wav: failed to write samples: %w", err)
	}
	return nil
}

func clamp(v float32) float32 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
