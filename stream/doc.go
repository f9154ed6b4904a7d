// Package stream provides engine.Stream implementations that do not need an
// audio device: raw PCM over any io.Reader/io.Writer pair, WAV files through
// go-audio/wav, a test-signal source and a discarding sink. Sources and sinks
// are joined into one Stream with NewDuplex.
package stream
