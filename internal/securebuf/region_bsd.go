//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package securebuf

import "golang.org/x/sys/unix"

func allocRegion(n int) region {
	if n == 0 {
		return heapRegion(0)
	}
	mem, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return heapRegion(n)
	}
	locked := unix.Mlock(mem) == nil
	return region{mem: mem, mapped: true, locked: locked}
}
