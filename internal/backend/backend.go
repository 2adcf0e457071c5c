// Package backend 定义原生 secret 存储的最小抽象，并提供各平台实现。
//
// 每个实现只对接一种原生设施（Secret Service、Windows 凭据管理器、
// macOS keychain 等），所有原生错误都在这一层被翻译为 XError：
// 未找到用 found=false 表达，其余一律为 XSECRET_BACKEND_FAILED。
package backend

import (
	"fmt"

	"github.com/zx06/xsecret/internal/errors"
)

// Backend 以 (service, user) 为键读写原生 secret 存储。
// 所有方法都是同步阻塞的，每次调用对调用方而言是独立原子的。
type Backend interface {
	// Name 返回注册名，如 "secret-service"。
	Name() string

	// Write 创建或覆盖 (service, user) 的 secret。secret 是借用的视图，
	// 实现不得在返回后继续持有它。
	Write(service, user string, secret []byte) error

	// Read 返回一份调用方拥有的字节副本。不存在时返回 found=false 且 err=nil。
	// 存在多条匹配时返回其中任意一条。
	Read(service, user string) (data []byte, found bool, err error)

	// Erase 删除所有匹配的条目并返回删除数量；不存在时返回 0, nil。
	Erase(service, user string) (int, error)
}

// Options 控制 Open 选择与配置哪个后端。
type Options struct {
	// Name 为注册名；空或 "auto" 表示当前平台的默认后端。
	Name string

	// Collection 是 Secret Service 集合别名（默认 "default"）。
	Collection string

	// RingService 是 ring 后端使用的 keyring 服务名（默认 "xsecret"）。
	RingService string
	// RingBackends 限定 ring 后端可用的实现，如 file、pass、kwallet。
	RingBackends []string
	// FileDir / FilePasswordEnv 用于 ring 的 file 实现。
	FileDir         string
	FilePasswordEnv string
	// KeychainName 用于 ring 的 keychain 实现。
	KeychainName string
}

// Auto 表示按平台选择默认后端。
const Auto = "auto"

// PlatformDefault 返回当前构建平台的默认后端名。
func PlatformDefault() string {
	return platformDefault
}

func failed(backend, op, service, user string, cause error) *errors.XError {
	details := map[string]any{"backend": backend, "op": op, "service": service, "user": user}
	if cause != nil {
		details["reason"] = cause.Error()
	}
	return errors.New(errors.CodeBackendFailed, fmt.Sprintf("%s: %s failed", backend, op), details)
}

func tooLarge(backend, service, user string, size, limit int) *errors.XError {
	return errors.New(errors.CodeBackendFailed, fmt.Sprintf("%s: secret exceeds size limit", backend), map[string]any{
		"backend": backend,
		"op":      "write",
		"service": service,
		"user":    user,
		"size":    size,
		"limit":   limit,
	})
}

func unavailable(backend string, cause error) *errors.XError {
	details := map[string]any{"backend": backend}
	if cause != nil {
		details["reason"] = cause.Error()
	}
	return errors.New(errors.CodeBackendUnavailable, fmt.Sprintf("secret backend %q is not available", backend), details)
}
