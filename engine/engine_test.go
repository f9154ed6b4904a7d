package engine

import (
	"context"
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-effector/dsp/codec"
	"github.com/cwbudde/algo-effector/dsp/effectchain"
	"github.com/cwbudde/algo-effector/internal/testutil"
)

const (
	testChunk    = 1024
	testChannels = 2
)

func bypassed() effectchain.State {
	return effectchain.DefaultState().Bypass()
}

func TestSilenceWithEffectsDisabled(t *testing.T) {
	s := &fakeStream{reads: [][]byte{testutil.ConstantPCM16(0, testChunk, testChannels)}}
	e, _ := newTestEngine(t, s, WithInitialState(bypassed()))

	require.NoError(t, e.Cycle(context.Background()))

	writes := s.written()
	require.Len(t, writes, 1)
	assert.Equal(t, testutil.ConstantPCM16(0, testChunk, testChannels), writes[0])

	snap := e.Latest()
	require.NotNil(t, snap)
	assert.Len(t, snap.Power, 8*testChunk)
	for k, p := range snap.Power {
		require.Zero(t, p, "power bin %d", k)
	}
	testutil.RequireFinite(t, snap.Cepstrum)
	assert.Zero(t, snap.Summary.PitchHz)
}

func TestPreBoosterDoublesConstantBlock(t *testing.T) {
	state := bypassed()
	state.PreBooster = effectchain.BoosterState{Enabled: true, Gain: 2}

	s := &fakeStream{reads: [][]byte{testutil.ConstantPCM16(1000, testChunk, testChannels)}}
	e, _ := newTestEngine(t, s, WithInitialState(state))

	require.NoError(t, e.Cycle(context.Background()))

	writes := s.written()
	require.Len(t, writes, 1)
	assert.Equal(t, testutil.ConstantPCM16(2000, testChunk, testChannels), writes[0])

	snap := e.Latest()
	require.NotNil(t, snap)
	testutil.RequireSliceNearlyEqual(t, snap.Block, testutil.DC(2000.0/32768, testChunk), 1e-12)
}

func TestDistortionClipsToThreshold(t *testing.T) {
	state := bypassed()
	state.Distortion = effectchain.DistortionState{Enabled: true, Threshold: 5000}

	s := &fakeStream{reads: [][]byte{
		testutil.ConstantPCM16(8000, testChunk, testChannels),
		testutil.ConstantPCM16(-8000, testChunk, testChannels),
	}}
	e, _ := newTestEngine(t, s, WithInitialState(state))

	require.NoError(t, e.Cycle(context.Background()))
	require.NoError(t, e.Cycle(context.Background()))

	writes := s.written()
	require.Len(t, writes, 2)
	assert.Equal(t, testutil.ConstantPCM16(5000, testChunk, testChannels), writes[0])
	assert.Equal(t, testutil.ConstantPCM16(-5000, testChunk, testChannels), writes[1])
}

func TestCepstrumFiniteAfterFullSilentWindow(t *testing.T) {
	s := &fakeStream{}
	for range 8 {
		s.reads = append(s.reads, testutil.ConstantPCM16(0, testChunk, testChannels))
	}
	e, _ := newTestEngine(t, s)

	for range 8 {
		require.NoError(t, e.Cycle(context.Background()))
	}

	snap := e.Latest()
	require.NotNil(t, snap)
	assert.EqualValues(t, 8, snap.Cycle)
	testutil.RequireFinite(t, snap.Cepstrum)
	testutil.RequireFinite(t, snap.Phase)
}

func TestDefaultStateSelectsRightChannel(t *testing.T) {
	frame := make([]int16, 0, 2*testChunk)
	for range testChunk {
		frame = append(frame, 1000, 3000)
	}

	s := &fakeStream{reads: [][]byte{testutil.PCM16(frame)}}
	e, _ := newTestEngine(t, s, WithInitialState(bypassed()))

	require.NoError(t, e.Cycle(context.Background()))
	assert.Equal(t, testutil.ConstantPCM16(3000, testChunk, testChannels), s.written()[0])
}

func TestDefaultStateBoostsBySix(t *testing.T) {
	s := &fakeStream{reads: [][]byte{testutil.ConstantPCM16(100, testChunk, testChannels)}}
	e, _ := newTestEngine(t, s)

	require.NoError(t, e.Cycle(context.Background()))
	assert.Equal(t, testutil.ConstantPCM16(600, testChunk, testChannels), s.written()[0])
}

func TestMonoFloat32Stream(t *testing.T) {
	state := bypassed()
	state.PreBooster = effectchain.BoosterState{Enabled: true, Gain: 2}

	in := make([]float32, 256)
	for i := range in {
		in[i] = 0.25
	}

	s := &fakeStream{reads: [][]byte{codec.EncodeFloat32(in)}}
	e, _ := newTestEngine(t, s,
		WithChannels(1),
		WithChunk(256),
		WithSampleKind(codec.SampleFloat32),
		WithInitialState(state),
	)
	assert.Equal(t, codec.Format{Kind: codec.SampleFloat32, Channels: 1}, e.Format())

	require.NoError(t, e.Cycle(context.Background()))

	out, err := codec.DecodeFloat32(s.written()[0])
	require.NoError(t, err)
	require.Len(t, out, 256)
	for i, v := range out {
		require.InDelta(t, 0.5, v, 1e-6, "sample %d", i)
	}
}

func TestMalformedBlockIsDroppedAndEngineContinues(t *testing.T) {
	s := &fakeStream{reads: [][]byte{
		make([]byte, 4*testChunk-1),
		testutil.ConstantPCM16(10, testChunk, testChannels),
	}}
	e, hook := newTestEngine(t, s, WithInitialState(bypassed()))

	require.NoError(t, e.Cycle(context.Background()))
	assert.Empty(t, s.written())
	assert.Nil(t, e.Latest())
	assert.Equal(t, StateIdle, e.State())
	assert.EqualValues(t, 1, e.Counters().Dropped)

	var warned bool
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel && entry.Message == "Dropping malformed block" {
			warned = true
		}
	}
	assert.True(t, warned, "expected a warning for the dropped block")

	require.NoError(t, e.Cycle(context.Background()))
	assert.Len(t, s.written(), 1)
	assert.EqualValues(t, 1, e.Counters().Cycles)
	assert.Zero(t, s.closes())
}

func TestOversizedBlockIsDropped(t *testing.T) {
	s := &fakeStream{reads: [][]byte{testutil.ConstantPCM16(1, testChunk+1, testChannels)}}
	e, _ := newTestEngine(t, s)

	require.NoError(t, e.Cycle(context.Background()))
	assert.EqualValues(t, 1, e.Counters().Dropped)
	assert.Empty(t, s.written())
}

func TestShortReadIsPadded(t *testing.T) {
	s := &fakeStream{reads: [][]byte{testutil.ConstantPCM16(7, testChunk/2, testChannels)}}
	e, _ := newTestEngine(t, s, WithInitialState(bypassed()))

	require.NoError(t, e.Cycle(context.Background()))

	out := testutil.SamplesFromPCM16(s.written()[0])
	require.Len(t, out, testChunk*testChannels)
	assert.EqualValues(t, 7, out[0])
	assert.EqualValues(t, 7, out[testChunk-1])
	assert.EqualValues(t, 0, out[testChunk])
	assert.EqualValues(t, 1, e.Counters().ShortReads)
}

func TestReadErrorIsFatal(t *testing.T) {
	s := &fakeStream{readErr: errDevice}
	e, _ := newTestEngine(t, s)

	err := e.Cycle(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStream)
	assert.ErrorIs(t, err, errDevice)
	assert.Equal(t, StateClosed, e.State())
	assert.Equal(t, 1, s.closes())

	assert.ErrorIs(t, e.Cycle(context.Background()), ErrClosed)
}

func TestWriteErrorIsFatal(t *testing.T) {
	s := &fakeStream{
		reads:    [][]byte{testutil.ConstantPCM16(0, testChunk, testChannels)},
		writeErr: errDevice,
	}
	e, _ := newTestEngine(t, s)

	err := e.Cycle(context.Background())
	assert.ErrorIs(t, err, ErrStream)
	assert.ErrorIs(t, err, errDevice)
	assert.Equal(t, 1, s.closes())
	assert.Nil(t, e.Latest())
}

func TestCloseIsIdempotent(t *testing.T) {
	s := &fakeStream{closeErr: errDevice}
	e, _ := newTestEngine(t, s)

	assert.ErrorIs(t, e.Close(), errDevice)
	assert.ErrorIs(t, e.Close(), errDevice)
	assert.Equal(t, 1, s.closes())
	assert.Equal(t, StateClosed, e.State())
}

func TestCycleHonoursCancelledContext(t *testing.T) {
	s := &fakeStream{loop: testutil.ConstantPCM16(0, testChunk, testChannels)}
	e, _ := newTestEngine(t, s)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, e.Cycle(ctx), context.Canceled)
	assert.Empty(t, s.written())
}

func TestSnapshotsAreNotMutatedAfterPublish(t *testing.T) {
	s := &fakeStream{reads: [][]byte{
		testutil.ConstantPCM16(1000, testChunk, testChannels),
		testutil.ConstantPCM16(-2000, testChunk, testChannels),
	}}
	e, _ := newTestEngine(t, s, WithInitialState(bypassed()))

	require.NoError(t, e.Cycle(context.Background()))
	first := e.Latest()
	firstBlock := append([]float64(nil), first.Block...)
	firstPower := append([]float64(nil), first.Power...)

	require.NoError(t, e.Cycle(context.Background()))
	second := e.Latest()

	assert.NotSame(t, first, second)
	assert.EqualValues(t, 2, second.Cycle)
	assert.Equal(t, firstBlock, first.Block)
	assert.Equal(t, firstPower, first.Power)
	assert.InDelta(t, -2000.0/32768, second.Block[0], 1e-12)
}

func TestPhaserCounterAdvancesEveryCycle(t *testing.T) {
	s := &fakeStream{loop: testutil.ConstantPCM16(0, testChunk, testChannels)}
	e, _ := newTestEngine(t, s, WithInitialState(bypassed()))

	for i := 1; i <= 3; i++ {
		require.NoError(t, e.Cycle(context.Background()))
		assert.EqualValues(t, i, e.Latest().Counter)
	}

	e.Controls().SetPhaser(true, 0.5)
	require.NoError(t, e.Cycle(context.Background()))
	assert.EqualValues(t, 4, e.Latest().Counter)
}

func TestControlsApplyOnNextCycle(t *testing.T) {
	s := &fakeStream{loop: testutil.ConstantPCM16(1000, testChunk, testChannels)}
	e, _ := newTestEngine(t, s, WithInitialState(bypassed()))

	require.NoError(t, e.Cycle(context.Background()))
	e.Controls().SetPostBooster(true, 3)
	require.NoError(t, e.Cycle(context.Background()))

	writes := s.written()
	require.Len(t, writes, 2)
	assert.Equal(t, testutil.ConstantPCM16(1000, testChunk, testChannels), writes[0])
	assert.Equal(t, testutil.ConstantPCM16(3000, testChunk, testChannels), writes[1])
}

func TestSharedControls(t *testing.T) {
	ctrl := effectchain.NewControls(bypassed())
	e, _ := newTestEngine(t, &fakeStream{}, WithControls(ctrl))
	assert.Same(t, ctrl, e.Controls())
}

func TestPitchOfPulseTrain(t *testing.T) {
	const period = 100 // 441 Hz at 44.1 kHz

	s := &fakeStream{}
	pos := 0
	for range 8 {
		block := make([]int16, 0, testChunk*testChannels)
		for range testChunk {
			var v int16
			if pos%period == 0 {
				v = 10000
			}
			block = append(block, v, v)
			pos++
		}
		s.reads = append(s.reads, testutil.PCM16(block))
	}

	e, _ := newTestEngine(t, s, WithInitialState(bypassed()))
	for range 8 {
		require.NoError(t, e.Cycle(context.Background()))
	}

	sum := e.Latest().Summary
	assert.InDelta(t, 441, sum.PitchHz, 10)
	assert.Greater(t, sum.Spectral.Energy, 0.0)
	assert.InDelta(t, 10000, sum.Levels.Peak, 1e-9)
}

func TestPreEmphasisRemovesDC(t *testing.T) {
	s := &fakeStream{loop: testutil.ConstantPCM16(1000, testChunk, testChannels)}
	plain, _ := newTestEngine(t, s, WithInitialState(bypassed()))
	emph, _ := newTestEngine(t, &fakeStream{loop: s.loop}, WithInitialState(bypassed()), WithPreEmphasis(0.97))

	for range 8 {
		require.NoError(t, plain.Cycle(context.Background()))
		require.NoError(t, emph.Cycle(context.Background()))
	}

	assert.Less(t, emph.Latest().Amplitude[0], plain.Latest().Amplitude[0]/10)
}

func TestFrequenciesAxis(t *testing.T) {
	e, _ := newTestEngine(t, &fakeStream{loop: testutil.ConstantPCM16(0, 64, 2)}, WithChunk(64), WithAnalysisBlocks(2))
	require.NoError(t, e.Cycle(context.Background()))

	f := e.Latest().Frequencies
	require.Len(t, f, 128)
	assert.InDelta(t, 44100.0/128, f[1], 1e-9)
	assert.Equal(t, 128, e.AnalysisSize())
	assert.Equal(t, 64, e.Chunk())
}

func TestNewValidation(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)

	tests := []struct {
		name string
		opt  Option
	}{
		{name: "sample rate", opt: WithSampleRate(0)},
		{name: "chunk", opt: WithChunk(-1)},
		{name: "odd chunk", opt: WithChunk(1023)},
		{name: "channels", opt: WithChannels(0)},
		{name: "analysis blocks", opt: WithAnalysisBlocks(0)},
		{name: "mono channel", opt: WithMonoChannel(codec.Channel(5))},
		{name: "sample kind", opt: WithSampleKind(codec.SampleKind(9))},
		{name: "backend", opt: WithBackend("fftw")},
		{name: "floor", opt: WithCepstrumFloor(math.NaN())},
		{name: "sweep", opt: WithPhaserSweepCycles(0)},
		{name: "interval", opt: WithInterval(-1)},
		{name: "pre-emphasis", opt: WithPreEmphasis(1)},
		{name: "pitch range", opt: WithPitchRange(500, 100)},
		{name: "clock", opt: WithClock(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(&fakeStream{}, tt.opt)
			assert.Error(t, err)
		})
	}
}

func TestMonoStreamIgnoresChannelSelection(t *testing.T) {
	_, err := New(&fakeStream{}, WithChannels(1), WithMonoChannel(codec.ChannelRight))
	assert.NoError(t, err)
}

func TestDefaultInterval(t *testing.T) {
	e, err := New(&fakeStream{})
	require.NoError(t, err)
	assert.InDelta(t, 1024.0/44100, e.Interval().Seconds(), 1e-6)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "analyzing", StateAnalyzing.String())
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "State(42)", State(42).String())
}
