package secret

import "github.com/zx06/xsecret/internal/securebuf"

// Wipe 把 data 全部覆盖为 0，用于清理 Value 之外的 secret 副本。
func Wipe(data []byte) {
	securebuf.Zero(data)
}

// WipeString 覆盖 *s 的底层字节并把 *s 置空。
//
// 仅可用于运行时分配的字符串（例如 AsString 的返回值）；字符串字面量
// 位于只读内存，对其调用会导致进程崩溃。与 *s 共享底层内存的其他字符串
// 也会一并被覆盖。
func WipeString(s *string) {
	securebuf.ZeroString(s)
}
