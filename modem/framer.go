package modem

import "sync"

// Framer accumulates modem output one byte at a time into a fixed-capacity
// buffer.
//
// The receive goroutine is the only caller of OnByteReceived. Every other
// method belongs to the foreground. The mutex is the region in which
// reception is suspended: Clear zeroes the memory and resets the index as one
// step, so no byte can land in between.
type Framer struct {
	mu    sync.Mutex
	buf   []byte
	index int
}

// NewFramer returns a framer with the given capacity, raised to
// MinBufferSize if smaller.
func NewFramer(capacity int) *Framer {
	if capacity < MinBufferSize {
		capacity = MinBufferSize
	}
	return &Framer{buf: make([]byte, capacity)}
}

// OnByteReceived stores b at the write index and advances it. The last slot
// is kept free for the terminator; when the index would reach it, writing
// wraps to the start and everything before the wrap is dropped.
func (f *Framer) OnByteReceived(b byte) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.buf[f.index] = b
	if f.index < len(f.buf)-2 {
		f.index++
	} else {
		f.index = 0
	}
	f.buf[f.index] = 0
}

// Write feeds p through OnByteReceived.
func (f *Framer) Write(p []byte) (int, error) {
	for _, b := range p {
		f.OnByteReceived(b)
	}
	return len(p), nil
}

// Clear zeroes the buffer and resets the write index.
func (f *Framer) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearLocked()
}

func (f *Framer) clearLocked() {
	clear(f.buf)
	f.index = 0
}

// Snapshot returns a copy of the text received since the last Clear or wrap.
func (f *Framer) Snapshot() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return string(f.buf[:f.index])
}

// Consume returns the buffered text and clears the buffer when done reports
// true for it. Both happen under one lock, so no byte received in between is
// lost.
func (f *Framer) Consume(done func(text string) bool) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	text := string(f.buf[:f.index])
	if !done(text) {
		return "", false
	}
	f.clearLocked()
	return text, true
}

// Len is the current write index.
func (f *Framer) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.index
}

// Cap is the buffer capacity.
func (f *Framer) Cap() int {
	return len(f.buf)
}
