package backend

import (
	"sort"
	"sync"
)

// Factory 根据 Options 打开一个后端；无法使用时返回 XSECRET_BACKEND_UNAVAILABLE。
type Factory func(opts Options) (Backend, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if name == "" || name == Auto {
		panic("backend.Register: invalid name: " + name)
	}
	if f == nil {
		panic("backend.Register: nil factory")
	}
	if _, exists := factories[name]; exists {
		panic("backend.Register: duplicate backend: " + name)
	}
	factories[name] = f
}

func Lookup(name string) (Factory, bool) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := factories[name]
	return f, ok
}

// Names 返回已注册的后端名（排序后）。
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Open 解析并打开一个后端。
func Open(opts Options) (Backend, error) {
	name := opts.Name
	if name == "" || name == Auto {
		name = platformDefault
	}
	f, ok := Lookup(name)
	if !ok {
		return nil, unavailable(name, nil)
	}
	b, err := f(opts)
	if err != nil {
		return nil, err
	}
	return b, nil
}
