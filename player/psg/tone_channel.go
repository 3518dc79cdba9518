package psg

// ToneChannel couples one toneGenerator to its tone/noise enable bits
// and 4-bit volume. It is the unit SampleGenerator mixes three of.
type ToneChannel struct {
	volume  uint8
	toneOn  bool
	noiseOn bool
	tone    *toneGenerator
}

func newToneChannel(masterHz, samplingHz int) *ToneChannel {
	return &ToneChannel{
		toneOn: true,
		tone:   newToneGenerator(masterHz, samplingHz),
	}
}

// SetToneOn enables or disables this channel's tone generator output.
func (c *ToneChannel) SetToneOn(on bool) {
	c.toneOn = on
}

// SetNoiseOn enables or disables the shared noise generator's
// contribution to this channel.
func (c *ToneChannel) SetNoiseOn(on bool) {
	c.noiseOn = on
}

// SetVolume sets the channel's 4-bit volume. value must be in [0, 15].
func (c *ToneChannel) SetVolume(value uint8) error {
	if value > 15 {
		return newValueError("volume", int(value), 0, 15)
	}
	c.volume = value
	return nil
}

// SetTune programs the channel's tone generator period. tune must be
// in [0, 4095].
func (c *ToneChannel) SetTune(tune uint16) error {
	return c.tone.setTune(tune)
}

// Volume returns the channel's current 4-bit volume, for monitoring
// backends that don't otherwise touch PSG state.
func (c *ToneChannel) Volume() uint8 {
	return c.volume
}

// mixWithNoise always advances the tone generator (it is stateful and
// must tick every sample regardless of masking), then returns the 4-bit
// volume if either the tone or the noise contribution is currently
// audible, else 0.
func (c *ToneChannel) mixWithNoise(isNoise bool) uint8 {
	toneEdge := c.tone.update()
	if (toneEdge && c.toneOn) || (isNoise && c.noiseOn) {
		return c.volume
	}
	return 0
}
