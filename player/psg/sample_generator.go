package psg

// Default clock and sample rate, matching the PSG master clock and a
// typical host sample rate recommended by the surrounding tooling.
const (
	DefaultMasterFrequencyHz   = 1789772
	DefaultSamplingFrequencyHz = 48000
)

// SampleGenerator is the three-channel PSG: three ToneChannels, one
// shared NoiseGenerator, and the nonlinear MixingTable that mixes them
// into a single monaural amplitude per call to NextSample.
type SampleGenerator struct {
	samplingFrequencyHz int
	noise               *noiseGenerator
	channels            [3]*ToneChannel
	mixing              mixingTable
}

// New constructs a PSG clocked at masterFrequencyHz, producing samples
// at samplingFrequencyHz.
func New(masterFrequencyHz, samplingFrequencyHz int) *SampleGenerator {
	g := &SampleGenerator{
		samplingFrequencyHz: samplingFrequencyHz,
		noise:               newNoiseGenerator(masterFrequencyHz, samplingFrequencyHz),
		mixing:              newMixingTable(),
	}
	for i := range g.channels {
		g.channels[i] = newToneChannel(masterFrequencyHz, samplingFrequencyHz)
	}
	return g
}

// NewDefault constructs a PSG at the recommended master clock and
// sample rate.
func NewDefault() *SampleGenerator {
	return New(DefaultMasterFrequencyHz, DefaultSamplingFrequencyHz)
}

// Channel returns the ToneChannel handle for channel i (0, 1, or 2).
func (g *SampleGenerator) Channel(i int) *ToneChannel {
	return g.channels[i]
}

// SetNoiseFrequency programs the shared noise generator's period.
// frequency must be in [0, 31].
func (g *SampleGenerator) SetNoiseFrequency(frequency uint8) error {
	return g.noise.setFrequency(frequency)
}

// SamplingFrequencyHz returns the configured host sample rate.
func (g *SampleGenerator) SamplingFrequencyHz() int {
	return g.samplingFrequencyHz
}

// NextSample advances the noise generator and all three tone
// generators by one sample and returns the mixed amplitude: a linear
// sum of three attenuation-table lookups, with no clipping or extra
// scaling.
func (g *SampleGenerator) NextSample() float32 {
	isNoise := g.noise.update()
	var sum float32
	for _, ch := range g.channels {
		sum += g.mixing.lookup(ch.mixWithNoise(isNoise))
	}
	return sum
}
