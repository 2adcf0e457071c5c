//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package securebuf

import "golang.org/x/sys/unix"

func (r region) release() {
	if !r.mapped {
		return
	}
	if r.locked {
		_ = unix.Munlock(r.mem)
	}
	_ = unix.Munmap(r.mem)
}
