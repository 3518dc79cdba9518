package psg

// toneGenerator is a per-channel square-wave oscillator driven by a
// Bresenham-style fixed-point error accumulator, the way the real
// AY-3-8910 divides its master clock down to an audible tone.
type toneGenerator struct {
	masterHz      int
	samplingHz8   int
	error         int64
	tuneMin       uint16
	source        int64
	nextSource    int64
	output        bool
}

func newToneGenerator(masterHz, samplingHz int) *toneGenerator {
	samplingHz8 := samplingHz * 8
	tuneMin := uint16(masterHz/samplingHz8) + 1
	source := int64(tuneMin) * int64(samplingHz8)
	return &toneGenerator{
		masterHz:    masterHz,
		samplingHz8: samplingHz8,
		error:       int64(masterHz),
		tuneMin:     tuneMin,
		source:      source,
		nextSource:  source,
	}
}

// setTune programs the next period. tune must be in [0, 4095]; below
// tuneMin it is clamped up so the generator always produces an audible
// edge. The change is deferred to the next edge so an in-flight half
// cycle completes at its original period.
func (g *toneGenerator) setTune(tune uint16) error {
	if tune > 4095 {
		return newValueError("tune", int(tune), 0, 4095)
	}
	if tune < g.tuneMin {
		tune = g.tuneMin
	}
	g.nextSource = int64(tune) * int64(g.samplingHz8)
	return nil
}

// update advances one PSG sample and returns the current square-wave
// level.
func (g *toneGenerator) update() bool {
	g.error -= int64(g.masterHz)
	if g.error < 0 {
		g.error += g.source
		g.output = !g.output
		g.source = g.nextSource
	}
	return g.output
}
