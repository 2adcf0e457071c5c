package app

import (
	"log/slog"

	"github.com/zx06/xsecret/internal/backend"
	"github.com/zx06/xsecret/internal/config"
	"github.com/zx06/xsecret/internal/errors"
	"github.com/zx06/xsecret/internal/log"
	"github.com/zx06/xsecret/internal/secret"
)

// OpenStore 用解析后的配置设置进程级默认 Store 并返回它。
// 后端诊断写入 logger。
func OpenStore(r config.Resolved, logger *slog.Logger) *secret.Store {
	secret.Configure(secret.Options{
		Backend:  r.BackendOptions(),
		Reporter: log.NewReporter(logger),
	})
	return secret.GetDefault()
}

type SaveResult struct {
	Service string `json:"service" yaml:"service"`
	User    string `json:"user" yaml:"user"`
	Backend string `json:"backend" yaml:"backend"`
	Size    int    `json:"size" yaml:"size"`
}

type LoadResult struct {
	Service string `json:"service" yaml:"service"`
	User    string `json:"user" yaml:"user"`
	Found   bool   `json:"found" yaml:"found"`
	Size    int    `json:"size" yaml:"size"`
	Value   string `json:"value,omitempty" yaml:"value,omitempty"`
}

type DeleteResult struct {
	Service string `json:"service" yaml:"service"`
	User    string `json:"user" yaml:"user"`
	Deleted bool   `json:"deleted" yaml:"deleted"`
	Count   int    `json:"count" yaml:"count"`
}

type BackendInfo struct {
	Name       string   `json:"name" yaml:"name"`
	OK         bool     `json:"ok" yaml:"ok"`
	Default    string   `json:"platform_default" yaml:"platform_default"`
	Registered []string `json:"registered" yaml:"registered"`
}

// Save 把 v 写入 st，不修改 v。
func Save(st *secret.Store, service, user string, v *secret.Value) (SaveResult, *errors.XError) {
	if err := st.Put(service, user, v); err != nil {
		return SaveResult{}, errors.AsOrWrap(err)
	}
	return SaveResult{Service: service, User: user, Backend: st.BackendName(), Size: v.Size()}, nil
}

// Load 读取 secret；reveal 为 false 时只返回 found/size。
// 未找到返回 XSECRET_SECRET_NOT_FOUND。
func Load(st *secret.Store, service, user string, reveal bool, codec secret.Codec) (LoadResult, *errors.XError) {
	v, found, err := st.Lookup(service, user)
	if err != nil {
		return LoadResult{}, errors.AsOrWrap(err)
	}
	defer v.Wipe()
	if !found {
		return LoadResult{}, errors.New(errors.CodeSecretNotFound, "secret not found",
			map[string]any{"service": service, "user": user})
	}
	res := LoadResult{Service: service, User: user, Found: true, Size: v.Size()}
	if reveal {
		s, err := v.AsString(codec)
		if err != nil {
			return LoadResult{}, errors.AsOrWrap(err)
		}
		res.Value = s
	}
	return res, nil
}

// Delete 删除所有匹配条目。没有条目不是错误，Deleted 为 false。
func Delete(st *secret.Store, service, user string) (DeleteResult, *errors.XError) {
	n, err := st.Remove(service, user)
	if err != nil {
		return DeleteResult{}, errors.AsOrWrap(err)
	}
	return DeleteResult{Service: service, User: user, Deleted: n > 0, Count: n}, nil
}

// Backend 汇总当前 Store 与注册表的状态。
func Backend(st *secret.Store) BackendInfo {
	return BackendInfo{
		Name:       st.BackendName(),
		OK:         st.IsOk(),
		Default:    backend.PlatformDefault(),
		Registered: backend.Names(),
	}
}
