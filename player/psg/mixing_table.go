package psg

import "math"

// mixingTableSize holds one extra slot beyond the 4-bit volume range
// (0-15) as a bounds-safety margin; only indices 0-15 are ever read by
// the mixing pipeline, and index 0 is silence just like index 16 would be.
const mixingTableSize = 17

// mixingTable is a nonlinear attenuation table mapping a 4-bit
// channel-volume index to a floating-point amplitude. Volume 0 is
// silence; volume 15 is the loudest step.
//
// Values follow the AY-3-8910/YM2149 amplitude curve historically used
// by fmgen: amplitude(v) = (1/3) * mul^(16-v) for v in 1..15, where
// mul = 1/2^(1/2) taken as (1/2^(1/4))^2. This is a linear-mix model, not
// a voltage-divider model; do not substitute the alternative table, it
// changes perceived loudness and balance.
type mixingTable [mixingTableSize]float32

func newMixingTable() mixingTable {
	var table mixingTable
	mul := 1.0 / math.Pow(math.Pow(2, 0.25), 2)
	for v := 1; v <= 15; v++ {
		table[v] = float32((1.0 / 3.0) * math.Pow(mul, float64(16-v)))
	}
	return table
}

func (t *mixingTable) lookup(index uint8) float32 {
	return t[index]
}
