package codec

import (
	"errors"
	"math"
	"testing"

	"github.com/go-audio/audio"

	"github.com/cwbudde/algo-effector/internal/testutil"
)

func TestInt16RoundTripExact(t *testing.T) {
	noise := testutil.DeterministicNoise(7, 32767, 4096)
	samples := make([]int16, len(noise))
	for i, v := range noise {
		samples[i] = int16(v)
	}
	samples[0] = -32768
	samples[1] = 32767

	raw := EncodeInt16(samples)

	decoded, err := DecodeInt16(raw)
	if err != nil {
		t.Fatalf("DecodeInt16() error = %v", err)
	}

	again := EncodeInt16(decoded)
	if string(again) != string(raw) {
		t.Fatal("encode(decode(x)) != x")
	}
}

func TestFloat32RoundTrip(t *testing.T) {
	in := []float32{0, 0.5, -0.5, 1, -1, 0.123456}
	out, err := DecodeFloat32(EncodeFloat32(in))
	if err != nil {
		t.Fatalf("DecodeFloat32() error = %v", err)
	}

	for i := range in {
		if math.Abs(float64(out[i]-in[i])) > 1e-7 {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], in[i])
		}
	}
}

func TestDecodeRejectsPartialSamples(t *testing.T) {
	_, err := DecodeInt16([]byte{1, 2, 3})

	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("DecodeInt16() error = %v, want *FormatError", err)
	}
	if fe.Length != 3 || fe.Width != 2 {
		t.Fatalf("FormatError = %+v, want length 3 width 2", fe)
	}
	if !errors.Is(err, ErrFormat) {
		t.Fatal("FormatError should match ErrFormat")
	}

	if _, err := DecodeFloat32(make([]byte, 6)); !errors.Is(err, ErrFormat) {
		t.Fatalf("DecodeFloat32() error = %v, want ErrFormat", err)
	}
}

func TestDownmixSelectsChannel(t *testing.T) {
	interleaved := []float64{1, -1, 2, -2, 3, -3}

	left, err := Downmix(nil, interleaved, 2, ChannelLeft)
	if err != nil {
		t.Fatalf("Downmix(left) error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, left, []float64{1, 2, 3}, 0)

	right, err := Downmix(nil, interleaved, 2, ChannelRight)
	if err != nil {
		t.Fatalf("Downmix(right) error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, right, []float64{-1, -2, -3}, 0)
}

func TestDownmixMonoIsIdentity(t *testing.T) {
	in := []float64{4, 5, 6}
	out, err := Downmix(make([]float64, 8), in, 1, ChannelRight)
	if err != nil {
		t.Fatalf("Downmix() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, out, in, 0)
}

func TestDownmixErrors(t *testing.T) {
	if _, err := Downmix(nil, []float64{1}, 0, ChannelLeft); err == nil {
		t.Fatal("expected error for zero channels")
	}
	if _, err := Downmix(nil, []float64{1, 2}, 2, Channel(2)); err == nil {
		t.Fatal("expected error for out-of-range channel")
	}
}

func TestUpmixDuplicates(t *testing.T) {
	out, err := Upmix(nil, []float64{1, 2, 3}, 2)
	if err != nil {
		t.Fatalf("Upmix() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, out, []float64{1, 1, 2, 2, 3, 3}, 0)

	mono, err := Downmix(nil, out, 2, ChannelRight)
	if err != nil {
		t.Fatalf("Downmix() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, mono, []float64{1, 2, 3}, 0)
}

func TestCodecInt16(t *testing.T) {
	c, err := New(Format{Kind: SampleInt16, Channels: 2})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	raw := testutil.PCM16([]int16{1000, -1000, 32767, -32768})

	samples, err := c.Decode(nil, raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, samples, []float64{1000, -1000, 32767, -32768}, 0)

	if got := c.Encode(samples); string(got) != string(raw) {
		t.Fatal("Encode(Decode(raw)) != raw")
	}

	saturated := testutil.SamplesFromPCM16(c.Encode([]float64{40000, -40000, 1.7}))
	want := []int16{32767, -32768, 1}
	for i := range want {
		if saturated[i] != want[i] {
			t.Fatalf("saturated[%d] = %d, want %d", i, saturated[i], want[i])
		}
	}
}

func TestCodecRejectsPartialFrame(t *testing.T) {
	c, err := New(Format{Kind: SampleInt16, Channels: 2})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	prev := []float64{9, 9}
	got, err := c.Decode(prev, make([]byte, 6))
	if !errors.Is(err, ErrFormat) {
		t.Fatalf("Decode() error = %v, want ErrFormat", err)
	}
	if got[0] != 9 {
		t.Fatal("Decode should leave dst untouched on error")
	}
}

func TestCodecFloat32Scale(t *testing.T) {
	c, err := New(Format{Kind: SampleFloat32, Channels: 1})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	raw := EncodeFloat32([]float32{0.5, -0.25})
	samples, err := c.Decode(nil, raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, samples, []float64{16384, -8192}, 0)

	back, err := DecodeFloat32(c.Encode(samples))
	if err != nil {
		t.Fatalf("DecodeFloat32() error = %v", err)
	}
	if back[0] != 0.5 || back[1] != -0.25 {
		t.Fatalf("float round trip = %v", back)
	}
}

func TestNewRejectsBadFormat(t *testing.T) {
	if _, err := New(Format{Kind: SampleInt16}); err == nil {
		t.Fatal("expected error for zero channels")
	}
	if _, err := New(Format{Kind: SampleKind(9), Channels: 1}); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestParseSampleKind(t *testing.T) {
	if k, err := ParseSampleKind("f32"); err != nil || k != SampleFloat32 {
		t.Fatalf("ParseSampleKind(f32) = %v, %v", k, err)
	}
	if k, err := ParseSampleKind(""); err != nil || k != SampleInt16 {
		t.Fatalf("ParseSampleKind(\"\") = %v, %v", k, err)
	}
	if _, err := ParseSampleKind("u8"); err == nil {
		t.Fatal("expected error for u8")
	}
}

func TestIntBufferBridge(t *testing.T) {
	buf := ToIntBuffer(nil, []float64{1, -2, 40000}, 1, 44100)
	if buf.Format.NumChannels != 1 || buf.Format.SampleRate != 44100 || buf.SourceBitDepth != 16 {
		t.Fatalf("unexpected buffer format: %+v depth=%d", buf.Format, buf.SourceBitDepth)
	}
	if buf.Data[2] != 32767 {
		t.Fatalf("Data[2] = %d, want saturation to 32767", buf.Data[2])
	}

	back := FromIntBuffer(nil, buf, 3)
	testutil.RequireSliceNearlyEqual(t, back, []float64{1, -2, 32767}, 0)

	wide := &audio.IntBuffer{Data: []int{1 << 16, -(1 << 16)}, SourceBitDepth: 24}
	scaled := FromIntBuffer(nil, wide, 2)
	testutil.RequireSliceNearlyEqual(t, scaled, []float64{256, -256}, 0)
}
