package securebuf

import (
	"runtime"
	"unsafe"
)

// Zero overwrites data with zeros.
func Zero(data []byte) {
	clear(data)
	runtime.KeepAlive(data)
}

// ZeroString overwrites the bytes backing *s and sets *s to "". Only strings
// allocated at runtime may be passed: literals live in read-only memory and
// writing to them faults. Other strings sharing the same backing array see
// the zeros too.
func ZeroString(s *string) {
	if s == nil || len(*s) == 0 {
		return
	}
	Zero(unsafe.Slice(unsafe.StringData(*s), len(*s)))
	*s = ""
}

// String copies b into a freshly allocated string that ZeroString may later
// overwrite. A plain string(b) conversion can return shared runtime storage
// for short inputs.
func String(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	c := make([]byte, len(b))
	copy(c, b)
	return unsafe.String(&c[0], len(c))
}
