// Package clock bridges the sequencer's fixed tick rate to the host
// sample rate. A Sequencer advances in whole ticks; an audio backend
// wants an arbitrary number of samples per callback. SampleBlockGenerator
// reconciles the two with an integer divmod accumulator, so the long-run
// average lands exactly on the target tick rate with no drift.
package clock

import (
	"fmt"

	"github.com/fbdsound/fbdplayer/player/sequencer"
)

// DefaultIntervalRatioHz is the FBD engine's native sequencer tick rate,
// inherited from the NTSC field rate the original hardware synced to.
const DefaultIntervalRatioHz = 59.94

type elapseTime struct {
	samplingFrequencyHz int
	seconds             int
	remainSamples       int
}

func newElapseTime(samplingFrequencyHz int) *elapseTime {
	return &elapseTime{samplingFrequencyHz: samplingFrequencyHz}
}

func (e *elapseTime) update(size int) {
	total := e.remainSamples + size
	e.seconds += total / e.samplingFrequencyHz
	e.remainSamples = total % e.samplingFrequencyHz
}

func (e *elapseTime) time() float64 {
	return float64(e.seconds) + float64(e.remainSamples)/float64(e.samplingFrequencyHz)
}

// SampleGenerator is the subset of psg.SampleGenerator the clock bridge
// needs; the bridge accepts any type with these two methods. The
// *sequencer.Sequencer it drives is still built on a real
// *psg.SampleGenerator.
type SampleGenerator interface {
	NextSample() float32
	SamplingFrequencyHz() int
}

// SampleBlockGenerator pulls one sequencer tick's worth of PSG state at
// a time and slices it into host-sample-rate blocks. The tick rate and
// the sample rate are almost never in an integer ratio, so the number
// of samples produced per tick varies by one sample here and there; the
// error accumulator in Next keeps that jitter from compounding.
type SampleBlockGenerator struct {
	sequencer         *sequencer.Sequencer
	sampleGenerator   SampleGenerator
	intervalRatio100x int
	sampleCountError  int
	sampleRemain      int
	elapsed           *elapseTime
}

// New constructs a bridge running the sequencer at intervalRatioHz
// ticks per second. A zero intervalRatioHz selects DefaultIntervalRatioHz.
func New(seq *sequencer.Sequencer, sg SampleGenerator, intervalRatioHz float64) *SampleBlockGenerator {
	if intervalRatioHz == 0 {
		intervalRatioHz = DefaultIntervalRatioHz
	}
	return &SampleBlockGenerator{
		sequencer:         seq,
		sampleGenerator:   sg,
		intervalRatio100x: int(intervalRatioHz * 100),
		elapsed:           newElapseTime(sg.SamplingFrequencyHz()),
	}
}

// ElapseTime is the total playback time, in seconds, across every block
// Next has produced so far.
func (g *SampleBlockGenerator) ElapseTime() float64 {
	return g.elapsed.time()
}

// Next renders one block of blockSize samples, ticking the sequencer as
// many times as needed to fill it. It returns (nil, nil) once the
// sequencer has stopped playing - the caller's cue to end the stream,
// not an error.
func (g *SampleBlockGenerator) Next(blockSize int) ([]float32, error) {
	if blockSize < 0 {
		return nil, fmt.Errorf("clock: block size %d must be >= 0", blockSize)
	}
	if !g.sequencer.IsPlaying() {
		return nil, nil
	}

	buffer := make([]float32, blockSize)
	index := 0
	blockRemain := blockSize

	if g.sampleRemain != 0 {
		count := min(g.sampleRemain, blockRemain)
		for i := 0; i < count; i++ {
			buffer[index+i] = g.sampleGenerator.NextSample()
		}
		g.sampleRemain -= count
		index += count
		blockRemain -= count
	}

	for blockRemain != 0 {
		g.sequencer.Tick()

		total := g.sampleGenerator.SamplingFrequencyHz()*100 + g.sampleCountError
		sampleCount := total / g.intervalRatio100x
		g.sampleCountError = total % g.intervalRatio100x

		count := min(blockRemain, sampleCount)
		for i := 0; i < count; i++ {
			buffer[index+i] = g.sampleGenerator.NextSample()
		}
		index += count
		blockRemain -= count
		g.sampleRemain = sampleCount - count
	}

	g.elapsed.update(blockSize)
	return buffer, nil
}
