//go:build linux

package securebuf

import "golang.org/x/sys/unix"

func allocRegion(n int) region {
	if n == 0 {
		return heapRegion(0)
	}
	mem, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return heapRegion(n)
	}
	// Not supported by every kernel; swap protection below still applies.
	_ = unix.Madvise(mem, unix.MADV_DONTDUMP)
	// RLIMIT_MEMLOCK is often small, an unlocked mapping is still off-heap.
	locked := unix.Mlock(mem) == nil
	return region{mem: mem, mapped: true, locked: locked}
}
