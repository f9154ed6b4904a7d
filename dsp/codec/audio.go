package codec

import (
	"math"

	"github.com/go-audio/audio"

	"github.com/cwbudde/algo-effector/dsp/core"
)

// PCMBitDepth is the only bit depth the effector reads and writes.
const PCMBitDepth = 16

// ToIntBuffer fills buf with interleaved int16-unit samples, saturating to
// the 16-bit range. buf is reused when non-nil.
func ToIntBuffer(buf *audio.IntBuffer, interleaved []float64, channels, sampleRate int) *audio.IntBuffer {
	if buf == nil {
		buf = &audio.IntBuffer{}
	}

	if buf.Format == nil {
		buf.Format = &audio.Format{}
	}

	buf.Format.NumChannels = channels
	buf.Format.SampleRate = sampleRate
	buf.SourceBitDepth = PCMBitDepth

	if cap(buf.Data) < len(interleaved) {
		buf.Data = make([]int, len(interleaved))
	}
	buf.Data = buf.Data[:len(interleaved)]

	for i, s := range interleaved {
		buf.Data[i] = int(core.SaturateInt16(s))
	}

	return buf
}

// FromIntBuffer converts the first n samples of buf into int16 units.
// Sources with another bit depth are rescaled to 16 bits.
func FromIntBuffer(dst []float64, buf *audio.IntBuffer, n int) []float64 {
	n = min(n, len(buf.Data))
	dst = core.EnsureLen(dst, n)

	scale := 1.0
	if depth := buf.SourceBitDepth; depth > 0 && depth != PCMBitDepth {
		scale = math.Ldexp(1, PCMBitDepth-depth)
	}

	for i := range n {
		dst[i] = float64(buf.Data[i]) * scale
	}

	return dst
}
