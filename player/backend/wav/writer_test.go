package wav

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteProducesValidRIFFHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.wav")

	samples := []float32{0, 0.5, -0.5, 1, -1}
	require.NoError(t, Write(path, samples, 48000))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, "WAVE", string(data[8:12]))
	assert.Equal(t, "data", string(data[36:40]))
	assert.Len(t, data, 44+len(samples)*2)
}

func TestWriteClampsOutOfRangeSamples(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.wav")

	require.NoError(t, Write(path, []float32{2.0, -2.0}, 48000))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	body := data[44:]
	assert.Equal(t, int16(32767), int16(uint16(body[0])|uint16(body[1])<<8))
	assert.Equal(t, int16(-32767), int16(uint16(body[2])|uint16(body[3])<<8))
}
