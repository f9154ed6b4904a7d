// Package codec converts between raw PCM stream frames and the float64
// working representation used by the effect chain.
//
// The working scale is always int16 units (full scale ±32768), regardless of
// whether the stream carries signed 16-bit integers or normalised float32
// samples. Multi-channel frames are interleaved; Downmix extracts the single
// analysis channel and Upmix duplicates it back across all channels.
package codec
