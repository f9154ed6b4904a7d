// Package effects provides the block effect stages used by the effect chain.
//
//   - Booster: constant gain.
//   - Distortion: symmetric hard clipping at a threshold.
//   - Phaser: FFT-domain phase modulation mixed 50/50 with the dry block.
//
// Booster and Distortion are stateless value types. Phaser owns its FFT plan
// and scratch buffers and does not allocate per block.
package effects
