package secret

import (
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/zx06/xsecret/internal/backend"
	"github.com/zx06/xsecret/internal/log"
)

// Options 控制 Open 与 GetDefault 如何解析后端。
type Options struct {
	Backend backend.Options
	// Reporter 为 nil 时写入 slog.Default()。
	Reporter Reporter
}

var (
	defaultMu    sync.Mutex
	defaultOpts  Options
	defaultStore *Store
	defaultGroup singleflight.Group
	// defaultGen 在每次 Configure 时递增，旧选项解析出的 Store 不会被缓存。
	defaultGen uint64
)

// Configure 设置 GetDefault 使用的进程级选项，并丢弃已缓存的 Store。
func Configure(opts Options) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultOpts = opts
	defaultStore = nil
	defaultGen++
}

// GetDefault 返回进程级的默认 Store。
//
// 只缓存成功的解析结果：失败时上报一次并返回不可用的 Store，下次调用会重试。
// 并发的首次调用只会解析一次。
func GetDefault() *Store {
	defaultMu.Lock()
	if s := defaultStore; s != nil {
		defaultMu.Unlock()
		return s
	}
	gen := defaultGen
	defaultMu.Unlock()

	// 按代分组：Configure 之后的调用不会等待或复用旧选项的解析。
	v, _, _ := defaultGroup.Do(strconv.FormatUint(gen, 10), func() (any, error) {
		defaultMu.Lock()
		cached, opts, cur := defaultStore, defaultOpts, defaultGen
		defaultMu.Unlock()
		if cached != nil {
			return cached, nil
		}
		s := Open(opts)
		if s.IsOk() {
			defaultMu.Lock()
			if defaultGen == cur {
				defaultStore = s
			}
			defaultMu.Unlock()
		}
		return s, nil
	})
	return v.(*Store)
}

// Open 按 opts 解析后端并返回 Store，不经过缓存。
// 解析失败时上报诊断并返回不可用的 Store。
func Open(opts Options) *Store {
	r := opts.Reporter
	if r == nil {
		r = log.NewReporter(nil)
	}
	b, err := backend.Open(opts.Backend)
	if err != nil {
		r.Report(err)
		return NewStore(nil, r)
	}
	return NewStore(b, r)
}
