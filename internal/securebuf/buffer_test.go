package securebuf

import (
	"bytes"
	"runtime"
	"testing"
	"time"
)

func TestNew_CopiesSource(t *testing.T) {
	source := []byte("super-secret-password")
	buffer := New(source)
	defer buffer.Close()

	if buffer.Len() != len(source) {
		t.Fatalf("expected length %d, got %d", len(source), buffer.Len())
	}
	if !bytes.Equal(buffer.Bytes(), source) {
		t.Fatalf("expected %q, got %q", source, buffer.Bytes())
	}

	// The caller keeps ownership of its slice.
	source[0] = 'X'
	if buffer.Bytes()[0] != 's' {
		t.Fatal("buffer must not alias the source slice")
	}
}

func TestNew_ZeroLength(t *testing.T) {
	buffer := New(nil)
	defer buffer.Close()

	if buffer.Len() != 0 {
		t.Fatalf("expected length 0, got %d", buffer.Len())
	}
	if got := buffer.Bytes(); len(got) != 0 {
		t.Fatalf("expected empty view, got %v", got)
	}
	// Wipe on an empty buffer is a no-op.
	buffer.Wipe()
	buffer.Wipe()
}

func TestNew_BinaryWithNulBytes(t *testing.T) {
	source := []byte{0x00, 0x70, 0x00, 0xff, 0x00}
	buffer := New(source)
	defer buffer.Close()

	if !bytes.Equal(buffer.Bytes(), source) {
		t.Fatalf("expected %v, got %v", source, buffer.Bytes())
	}
}

func TestBuffer_Wipe_ZerosInPlace(t *testing.T) {
	buffer := New([]byte("this should be zeroed"))
	defer buffer.Close()

	view := buffer.Bytes()
	buffer.Wipe()

	for index, value := range view {
		if value != 0 {
			t.Fatalf("byte %d was not zeroed: got %d", index, value)
		}
	}
	if buffer.Len() != len("this should be zeroed") {
		t.Fatalf("wipe must not change length, got %d", buffer.Len())
	}

	// Idempotent.
	buffer.Wipe()
}

func TestBuffer_Close_ZerosHeapMemory(t *testing.T) {
	reg := heapRegion(8)
	buffer := newBuffer(reg, []byte("password"))

	if err := buffer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	for index, value := range reg.mem {
		if value != 0 {
			t.Fatalf("byte %d was not zeroed on close: got %d", index, value)
		}
	}
}

func TestBuffer_AbandonedBufferIsWiped(t *testing.T) {
	reg := heapRegion(8)
	func() {
		_ = newBuffer(reg, []byte("password"))
	}()

	deadline := time.Now().Add(5 * time.Second)
	for !bytes.Equal(reg.mem, make([]byte, 8)) {
		if time.Now().After(deadline) {
			t.Fatalf("abandoned buffer was not wiped: %q", reg.mem)
		}
		runtime.GC()
		time.Sleep(10 * time.Millisecond)
	}
}

func TestBuffer_Equal_UnderGC(t *testing.T) {
	want := bytes.Repeat([]byte("k"), 64)
	for range 50 {
		if !New(want).Equal(New(want)) {
			t.Fatal("equal buffers compared unequal")
		}
		runtime.GC()
	}
}

func TestBuffer_Close_Idempotent(t *testing.T) {
	buffer := New([]byte("token"))

	if err := buffer.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := buffer.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	// Wipe after close is a no-op.
	buffer.Wipe()
}

func TestBuffer_Bytes_PanicsAfterClose(t *testing.T) {
	buffer := New([]byte("token"))
	buffer.Close()

	defer func() {
		recovered := recover()
		if recovered == nil {
			t.Fatal("expected panic on Bytes() after Close")
		}
	}()

	buffer.Bytes()
}

func TestBuffer_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b []byte
		want bool
	}{
		{name: "same content", a: []byte("pass"), b: []byte("pass"), want: true},
		{name: "different content", a: []byte("pass"), b: []byte("pasS"), want: false},
		{name: "different length", a: []byte("pass"), b: []byte("passw"), want: false},
		{name: "both empty", a: nil, b: []byte{}, want: true},
		{name: "empty vs non-empty", a: nil, b: []byte{0}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(tt.a)
			b := New(tt.b)
			defer a.Close()
			defer b.Close()

			if got := a.Equal(b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuffer_Equal_Nil(t *testing.T) {
	buffer := New([]byte("x"))
	defer buffer.Close()

	if buffer.Equal(nil) {
		t.Error("non-nil buffer must not equal nil")
	}
	var nilBuffer *Buffer
	if !nilBuffer.Equal(nil) {
		t.Error("nil buffers must be equal")
	}
	if !buffer.Equal(buffer) {
		t.Error("buffer must equal itself")
	}
}

func TestZero(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	Zero(data)
	if !bytes.Equal(data, []byte{0, 0, 0, 0}) {
		t.Fatalf("expected zeros, got %v", data)
	}
	Zero(nil)
}

func TestZeroString(t *testing.T) {
	s := string([]byte("hunter2"))
	alias := s
	ZeroString(&s)

	if s != "" {
		t.Fatalf("expected empty string, got %q", s)
	}
	if alias != "\x00\x00\x00\x00\x00\x00\x00" {
		t.Fatalf("expected backing bytes to be zeroed, got %q", alias)
	}

	var empty string
	ZeroString(&empty)
	ZeroString(nil)
}

func TestStringIsWipeable(t *testing.T) {
	for _, in := range []string{"a", "pass", ""} {
		s := String([]byte(in))
		if s != in {
			t.Fatalf("String(%q) = %q", in, s)
		}
		ZeroString(&s)
		if s != "" {
			t.Errorf("ZeroString left %q", s)
		}
	}
	// 单字节转换不能被前面的清零波及
	if got := string([]byte{'a'}); got != "a" {
		t.Errorf("runtime string table corrupted: %q", got)
	}
}
