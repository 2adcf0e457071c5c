package secret

import (
	"runtime"

	"github.com/zx06/xsecret/internal/backend"
	"github.com/zx06/xsecret/internal/errors"
)

// Reporter 接收 Store 操作的失败诊断。诊断信息中不包含 secret 内容。
type Reporter interface {
	Report(err error)
}

// ReporterFunc 让普通函数实现 Reporter。
type ReporterFunc func(err error)

func (f ReporterFunc) Report(err error) { f(err) }

type discardReporter struct{}

func (discardReporter) Report(error) {}

// Store 是对单个原生后端的门面。
//
// 没有后端的 Store 为“不可用”：IsOk 为 false，所有操作直接失败，
// 不产生任何 I/O。Store 可被多个 goroutine 并发使用，并发写同一个
// (service, user) 的结果取决于后端，为最后写入者胜出。
type Store struct {
	backend  backend.Backend
	reporter Reporter
}

// NewStore 用 b 构造 Store；b 为 nil 时返回不可用的 Store。
// r 为 nil 时丢弃所有诊断。
func NewStore(b backend.Backend, r Reporter) *Store {
	if r == nil {
		r = discardReporter{}
	}
	return &Store{backend: b, reporter: r}
}

// IsOk 报告是否解析到了后端。
func (s *Store) IsOk() bool {
	return s != nil && s.backend != nil
}

// BackendName 返回后端注册名，不可用时返回空字符串。
func (s *Store) BackendName() string {
	if !s.IsOk() {
		return ""
	}
	return s.backend.Name()
}

func (s *Store) report(err error) {
	if s != nil && s.reporter != nil {
		s.reporter.Report(err)
	}
}

// Save 创建或覆盖 (service, user) 的 secret，不修改 v。
// 失败时上报诊断并返回 false。
func (s *Store) Save(service, user string, v *Value) bool {
	if !s.IsOk() {
		return false
	}
	if err := s.Put(service, user, v); err != nil {
		s.report(err)
		return false
	}
	return true
}

// Put 是 Save 的严格版本：返回错误而不上报。
func (s *Store) Put(service, user string, v *Value) error {
	if !s.IsOk() {
		return s.unavailable(service, user)
	}
	if !v.IsOk() {
		return errors.New(errors.CodeSecretInvalid, "cannot save a secret value that is not present",
			map[string]any{"service": service, "user": user})
	}
	err := s.backend.Write(service, user, v.Bytes())
	runtime.KeepAlive(v)
	return err
}

func (s *Store) unavailable(service, user string) error {
	return errors.New(errors.CodeBackendUnavailable, "secret store is unavailable",
		map[string]any{"service": service, "user": user})
}

// Lookup 读取 (service, user) 的 secret，区分“未找到”(found=false, err=nil)
// 与后端失败。失败不会上报，由调用方处理。
func (s *Store) Lookup(service, user string) (*Value, bool, error) {
	if !s.IsOk() {
		return Empty(), false, s.unavailable(service, user)
	}
	data, found, err := s.backend.Read(service, user)
	if err != nil {
		return Empty(), false, err
	}
	if !found {
		return Empty(), false, nil
	}
	defer Wipe(data)
	return NewBytes(data), true, nil
}

// Load 读取 (service, user) 的 secret；未找到时返回“不存在”的 Value 且不上报。
// 后端失败时上报诊断，同样返回“不存在”。存在重复条目时返回其中任意一条。
func (s *Store) Load(service, user string) *Value {
	if !s.IsOk() {
		return Empty()
	}
	v, _, err := s.Lookup(service, user)
	if err != nil {
		s.report(err)
	}
	return v
}

// Delete 删除 (service, user) 的所有条目，至少删除一条时返回 true。
// 没有条目时返回 false 且不上报；后端失败时上报并返回 false。
func (s *Store) Delete(service, user string) bool {
	if !s.IsOk() {
		return false
	}
	n, err := s.Remove(service, user)
	if err != nil {
		s.report(err)
		return false
	}
	return n > 0
}

// Remove 是 Delete 的严格版本：返回删除条数与错误，不上报。
func (s *Store) Remove(service, user string) (int, error) {
	if !s.IsOk() {
		return 0, s.unavailable(service, user)
	}
	return s.backend.Erase(service, user)
}
