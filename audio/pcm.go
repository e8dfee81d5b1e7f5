package audio

import "encoding/binary"

// floatToBytes converts mono float samples to interleaved stereo int16 LE
// Soft-limits above 0.8 before the hard clip
func floatToBytes(in []float64, out []byte) {
	for i, v := range in {
		if v > 0.8 {
			v = 0.8 + 0.2*(1.0-1.0/(1.0+(v-0.8)*5.0))
		} else if v < -0.8 {
			v = -0.8 - 0.2*(1.0-1.0/(1.0+(-v-0.8)*5.0))
		}
		v = min(max(v, -1.0), 1.0)

		s := uint16(int16(v * 32767))
		idx := i * BytesPerFrame
		binary.LittleEndian.PutUint16(out[idx:], s)   // L
		binary.LittleEndian.PutUint16(out[idx+2:], s) // R
	}
}
