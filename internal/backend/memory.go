package backend

import (
	"bytes"
	"math/rand/v2"
	"sync"

	"github.com/zx06/xsecret/internal/securebuf"
)

const memoryName = "memory"

func init() {
	Register(memoryName, func(Options) (Backend, error) { return NewMemory(), nil })
}

type memKey struct {
	service string
	user    string
}

// Memory 是进程内后端，用于测试以及不需要持久化的场景。
// 它可以预置重复条目、限制大小、注入失败，用来模拟原生存储的各种边界情况。
type Memory struct {
	mu       sync.Mutex
	entries  map[memKey][][]byte
	maxSize  int
	failures map[string]error
}

func NewMemory() *Memory {
	return &Memory{entries: map[memKey][][]byte{}, failures: map[string]error{}}
}

func (m *Memory) Name() string { return memoryName }

// SetMaxSize 设置 secret 的最大字节数，0 表示不限制。
func (m *Memory) SetMaxSize(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxSize = n
}

// SetFailure 让 op（"write"、"read"、"erase"）返回 err；err 为 nil 时恢复正常。
func (m *Memory) SetFailure(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

// AddDuplicate 追加一条同键条目，模拟外部工具制造的重复项。
func (m *Memory) AddDuplicate(service, user string, secret []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := memKey{service, user}
	m.entries[k] = append(m.entries[k], bytes.Clone(secret))
}

// Count 返回 (service, user) 的条目数。
func (m *Memory) Count(service, user string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries[memKey{service, user}])
}

func (m *Memory) Write(service, user string, secret []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures["write"]; err != nil {
		return failed(memoryName, "write", service, user, err)
	}
	if m.maxSize > 0 && len(secret) > m.maxSize {
		return tooLarge(memoryName, service, user, len(secret), m.maxSize)
	}
	k := memKey{service, user}
	for _, old := range m.entries[k] {
		securebuf.Zero(old)
	}
	m.entries[k] = [][]byte{bytes.Clone(secret)}
	return nil
}

func (m *Memory) Read(service, user string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures["read"]; err != nil {
		return nil, false, failed(memoryName, "read", service, user, err)
	}
	matches := m.entries[memKey{service, user}]
	if len(matches) == 0 {
		return nil, false, nil
	}
	// 重复条目之间的选择是任意的，调用方不能依赖顺序。
	pick := matches[rand.IntN(len(matches))]
	out := make([]byte, len(pick))
	copy(out, pick)
	return out, true, nil
}

func (m *Memory) Erase(service, user string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures["erase"]; err != nil {
		return 0, failed(memoryName, "erase", service, user, err)
	}
	k := memKey{service, user}
	matches := m.entries[k]
	for _, old := range matches {
		securebuf.Zero(old)
	}
	delete(m.entries, k)
	return len(matches), nil
}
