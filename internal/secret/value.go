package secret

import (
	"fmt"
	"runtime"

	"github.com/zx06/xsecret/internal/errors"
	"github.com/zx06/xsecret/internal/securebuf"
)

// noCopy 让 go vet 的 copylocks 检查标记出 Value 的值拷贝。
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Value 是不可变的 secret 值。
//
// 零值表示“不存在”（IsOk 为 false），与长度为 0 的 secret 不同。
// Value 通过指针传递；需要独立副本时使用 Clone，绝不共享底层内存。
// 使用完毕后调用 Wipe（通常 defer v.Wipe()）。忘记调用时，底层 buffer
// 在被回收前也会被清零。
//
// 同一个 Value 同一时刻只能归一个 goroutine 所有：Wipe 不得与读取并发。
type Value struct {
	_   noCopy
	buf *securebuf.Buffer
}

// Empty 返回一个“不存在”的 Value。
func Empty() *Value {
	return &Value{}
}

// New 从 data 的前 size 个字节构造 Value；size 为 0 时仍为“存在”。
func New(size int, data []byte) *Value {
	if size < 0 || size > len(data) {
		panic(fmt.Sprintf("secret: size %d out of range [0, %d]", size, len(data)))
	}
	return &Value{buf: securebuf.New(data[:size])}
}

// NewBytes 复制 data 构造 Value。data 可以包含 NUL，也可以为空。
func NewBytes(data []byte) *Value {
	return New(len(data), data)
}

// NewString 以 UTF-8 字节构造 Value（Go 字符串本身即 UTF-8 字节序列）。
func NewString(s string) *Value {
	data := []byte(s)
	defer Wipe(data)
	return NewBytes(data)
}

// NewText 通过 codec 把 s 编码为字节后构造 Value，中间副本会被清零。
func NewText(s string, codec Codec) (*Value, error) {
	if codec == nil {
		codec = UTF8
	}
	data, err := codec.Encode(s)
	if err != nil {
		return nil, err
	}
	defer Wipe(data)
	return NewBytes(data), nil
}

// IsOk 报告 Value 是否“存在”。
func (v *Value) IsOk() bool {
	return v != nil && v.buf != nil
}

// Size 返回字节长度；“不存在”的 Value 返回 0。
func (v *Value) Size() int {
	if !v.IsOk() {
		return 0
	}
	return v.buf.Len()
}

// Bytes 返回只读视图，不保证以 NUL 结尾，也不假设任何编码。
// 返回的切片在 Wipe 之后失效，不要持有或修改。
// 视图只在 v 仍被引用时有效：v 不可达后底层内存可能被回收线程清零并释放，
// 因此使用视图的调用之后要 runtime.KeepAlive(v)。
func (v *Value) Bytes() []byte {
	if !v.IsOk() {
		return nil
	}
	return v.buf.Bytes()
}

// Clone 返回独立的深拷贝。
func (v *Value) Clone() *Value {
	if !v.IsOk() {
		return Empty()
	}
	c := NewBytes(v.buf.Bytes())
	runtime.KeepAlive(v)
	return c
}

// Equal 逐字节比较内容；两个“不存在”的值相等，“不存在”与空 secret 不相等。
func (v *Value) Equal(other *Value) bool {
	if !v.IsOk() || !other.IsOk() {
		return v.IsOk() == other.IsOk()
	}
	return v.buf.Equal(other.buf)
}

// AsString 用 codec 把字节解码为字符串；codec 为 nil 时使用 WhateverWorks。
//
// 返回的字符串是一份不受 Value 管理的副本：调用方用完后必须自行调用
// WipeString，且要覆盖它的所有副本。
func (v *Value) AsString(codec Codec) (string, error) {
	if !v.IsOk() {
		return "", errors.New(errors.CodeSecretInvalid, "secret value is not present", nil)
	}
	if codec == nil {
		codec = WhateverWorks
	}
	s, err := codec.Decode(v.buf.Bytes())
	runtime.KeepAlive(v)
	return s, err
}

// Wipe 清零并释放底层内存，之后 Value 变为“不存在”。可重复调用。
func (v *Value) Wipe() {
	if v == nil || v.buf == nil {
		return
	}
	_ = v.buf.Close()
	v.buf = nil
}

// String 不输出内容，防止 secret 经由 fmt/slog 泄露。
func (v *Value) String() string {
	if !v.IsOk() {
		return "secret.Value(<not present>)"
	}
	return fmt.Sprintf("secret.Value(<redacted %d bytes>)", v.Size())
}

func (v *Value) GoString() string {
	return v.String()
}
