// Package securebuf provides a fixed-size byte container for secret material.
//
// A Buffer copies its contents into memory mapped outside the Go heap where
// the platform allows it (anonymous mmap, mlock, and MADV_DONTDUMP on Linux),
// so the garbage collector never copies or relocates the bytes. On platforms
// without mmap the buffer falls back to a heap slice. Either way the bytes are
// zeroed before the memory is released, including when a Buffer becomes
// unreachable without Close having been called.
package securebuf

import (
	"crypto/subtle"
	"runtime"
	"sync"
)

// Buffer holds a secret of immutable length. Its content changes only through
// Wipe. A Buffer must not be copied after creation.
type Buffer struct {
	mu      sync.Mutex
	reg     region
	length  int
	closed  bool
	tracked bool
	cleanup runtime.Cleanup
}

// New copies src into a newly allocated buffer. A zero-length src yields a
// valid zero-length buffer. The caller's slice is left untouched.
func New(src []byte) *Buffer {
	return newBuffer(allocRegion(len(src)), src)
}

func newBuffer(reg region, src []byte) *Buffer {
	b := &Buffer{reg: reg, length: len(src)}
	copy(b.reg.mem, src)
	if len(reg.mem) > 0 {
		b.cleanup = runtime.AddCleanup(b, releaseAbandoned, reg)
		b.tracked = true
	}
	return b
}

// releaseAbandoned runs for buffers that were garbage collected without Close.
func releaseAbandoned(reg region) {
	clear(reg.mem)
	reg.release()
}

// Len returns the byte length fixed at construction; it may be 0.
func (b *Buffer) Len() int {
	return b.length
}

// Bytes returns a read view into the buffer. The slice aliases the protected
// memory: callers must not modify it or keep it past Close. The view does not
// keep b reachable; once b is unreachable the memory may be wiped and unmapped,
// so callers keep b alive (runtime.KeepAlive) until they are done with the
// view. Panics if the buffer has been closed.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		panic("securebuf: read from closed buffer")
	}
	return b.reg.mem[:b.length:b.length]
}

// Locked reports whether the memory is pinned in RAM (not swappable).
func (b *Buffer) Locked() bool {
	return b.reg.locked
}

// Wipe overwrites every byte with zero. It is idempotent and a no-op on a
// zero-length or closed buffer.
func (b *Buffer) Wipe() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	clear(b.reg.mem)
	runtime.KeepAlive(b)
}

// Close wipes the buffer and releases its memory. Close is idempotent.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	if b.tracked {
		b.cleanup.Stop()
	}

	clear(b.reg.mem)
	b.reg.release()
	b.reg = region{}
	return nil
}

// Equal reports whether both buffers hold the same bytes. The comparison runs
// in constant time for equal lengths.
func (b *Buffer) Equal(other *Buffer) bool {
	if b == other {
		return true
	}
	if b == nil || other == nil {
		return false
	}
	if b.Len() != other.Len() {
		return false
	}
	if b.Len() == 0 {
		return true
	}
	eq := subtle.ConstantTimeCompare(b.Bytes(), other.Bytes()) == 1
	runtime.KeepAlive(b)
	runtime.KeepAlive(other)
	return eq
}
