// Package effectchain runs the fixed pre-booster, distortion, post-booster,
// phaser sequence over one mono block per cycle and quantises the result to
// int16 sample values.
//
// State is a plain value describing which stages are enabled and their
// parameters. Controls publishes State snapshots through an atomic pointer so
// a control goroutine can adjust parameters while the processing goroutine
// reads a consistent copy once per cycle. Chain itself never validates
// ranges; clamping happens in Controls.
package effectchain
