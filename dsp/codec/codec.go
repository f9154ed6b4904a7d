package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cwbudde/algo-effector/dsp/core"
)

// SampleKind identifies the on-wire sample representation.
type SampleKind int

const (
	SampleInt16 SampleKind = iota
	SampleFloat32
)

// Width returns the byte width of one sample.
func (k SampleKind) Width() int {
	if k == SampleFloat32 {
		return 4
	}
	return 2
}

func (k SampleKind) String() string {
	switch k {
	case SampleInt16:
		return "int16"
	case SampleFloat32:
		return "float32"
	default:
		return fmt.Sprintf("sample(%d)", int(k))
	}
}

// ParseSampleKind resolves "int16"/"s16" and "float32"/"f32".
func ParseSampleKind(name string) (SampleKind, error) {
	switch name {
	case "", "int16", "s16", "s16le":
		return SampleInt16, nil
	case "float32", "f32", "f32le":
		return SampleFloat32, nil
	default:
		return SampleInt16, fmt.Errorf("codec: unknown sample kind %q", name)
	}
}

// Channel selects which interleaved channel Downmix extracts.
type Channel int

const (
	ChannelLeft  Channel = 0
	ChannelRight Channel = 1
)

// DecodeInt16 interprets raw as little-endian signed 16-bit samples.
func DecodeInt16(raw []byte) ([]int16, error) {
	if err := checkWidth(raw, 2); err != nil {
		return nil, err
	}

	out := make([]int16, len(raw)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(raw[2*i:]))
	}

	return out, nil
}

// EncodeInt16 is the exact inverse of DecodeInt16.
func EncodeInt16(samples []int16) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}

	return out
}

// DecodeFloat32 interprets raw as little-endian IEEE-754 float32 samples
// normalised to [-1, 1].
func DecodeFloat32(raw []byte) ([]float32, error) {
	if err := checkWidth(raw, 4); err != nil {
		return nil, err
	}

	out := make([]float32, len(raw)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
	}

	return out, nil
}

// EncodeFloat32 is the inverse of DecodeFloat32.
func EncodeFloat32(samples []float32) []byte {
	out := make([]byte, 4*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(s))
	}

	return out
}

// Downmix extracts every channels-th sample starting at sel from the
// interleaved input into dst and returns dst[:len(interleaved)/channels].
// For mono input it copies. dst is grown when too short.
func Downmix(dst, interleaved []float64, channels int, sel Channel) ([]float64, error) {
	if channels <= 0 {
		return nil, errChannelCount
	}

	if int(sel) < 0 || int(sel) >= channels {
		if channels == 1 {
			sel = 0
		} else {
			return nil, fmt.Errorf("%w: %d of %d", errChannelSelect, sel, channels)
		}
	}

	n := len(interleaved) / channels
	dst = core.EnsureLen(dst, n)

	if channels == 1 {
		copy(dst, interleaved[:n])
		return dst, nil
	}

	for i := range n {
		dst[i] = interleaved[i*channels+int(sel)]
	}

	return dst, nil
}

// Upmix duplicates every mono sample across channels, interleaved, into dst
// and returns dst[:len(mono)*channels].
func Upmix(dst, mono []float64, channels int) ([]float64, error) {
	if channels <= 0 {
		return nil, errChannelCount
	}

	dst = core.EnsureLen(dst, len(mono)*channels)
	for i, s := range mono {
		base := i * channels
		for c := range channels {
			dst[base+c] = s
		}
	}

	return dst, nil
}

// Format describes the raw frames carried by a stream.
type Format struct {
	Kind     SampleKind
	Channels int
}

// FrameBytes returns the byte size of one interleaved frame.
func (f Format) FrameBytes() int {
	return f.Kind.Width() * f.Channels
}

// Codec converts raw frames of one Format to and from the float64 working
// scale without allocating once its scratch buffers are warm.
type Codec struct {
	format Format
	raw    []byte
}

// New returns a Codec for the given format.
func New(format Format) (*Codec, error) {
	if format.Channels <= 0 {
		return nil, errChannelCount
	}

	if format.Kind != SampleInt16 && format.Kind != SampleFloat32 {
		return nil, fmt.Errorf("codec: unsupported sample kind %v", format.Kind)
	}

	return &Codec{format: format}, nil
}

// Format returns the codec format.
func (c *Codec) Format() Format {
	return c.format
}

// Decode converts raw interleaved frames into int16-unit float64 samples.
// Float32 input is scaled by core.MaxLevel. A raw length that is not a whole
// number of frames yields a FormatError and leaves dst untouched.
func (c *Codec) Decode(dst []float64, raw []byte) ([]float64, error) {
	if err := checkWidth(raw, c.format.FrameBytes()); err != nil {
		return dst, err
	}

	width := c.format.Kind.Width()
	n := len(raw) / width
	dst = core.EnsureLen(dst, n)

	switch c.format.Kind {
	case SampleFloat32:
		for i := range n {
			v := math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
			dst[i] = float64(v) * core.MaxLevel
		}
	default:
		for i := range n {
			dst[i] = float64(int16(binary.LittleEndian.Uint16(raw[2*i:])))
		}
	}

	return dst, nil
}

// Encode converts int16-unit samples into raw interleaved frames. Int16
// output saturates; float32 output is src/core.MaxLevel. The returned slice is
// owned by the codec and is overwritten by the next call.
func (c *Codec) Encode(src []float64) []byte {
	width := c.format.Kind.Width()
	need := width * len(src)
	if cap(c.raw) < need {
		c.raw = make([]byte, need)
	}
	raw := c.raw[:need]

	switch c.format.Kind {
	case SampleFloat32:
		for i, s := range src {
			binary.LittleEndian.PutUint32(raw[4*i:], math.Float32bits(float32(s/core.MaxLevel)))
		}
	default:
		for i, s := range src {
			binary.LittleEndian.PutUint16(raw[2*i:], uint16(core.SaturateInt16(s)))
		}
	}

	return raw
}
