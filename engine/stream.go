package engine

// Stream is the audio I/O collaborator. Read blocks until frames interleaved
// frames are available and returns them as raw bytes in the configured
// format; it may return fewer frames at the end of finite input. Write blocks
// until the frames are accepted. Close releases the device and must be
// idempotent.
type Stream interface {
	Read(frames int) ([]byte, error)
	Write(raw []byte) error
	Close() error
}
