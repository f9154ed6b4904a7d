// Package buffer provides the fixed-capacity analysis ring used to keep the
// most recent processed samples. Push overwrites the oldest block in place,
// so steady-state processing never reallocates.
package buffer
