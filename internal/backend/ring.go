package backend

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"net/url"
	"os"

	"github.com/99designs/keyring"
)

const (
	ringName           = "ring"
	defaultRingService = "xsecret"
)

func init() {
	Register(ringName, func(opts Options) (Backend, error) { return OpenRing(opts) })
}

// Ring 基于 99designs/keyring，可选 file、pass、kwallet、keychain、
// secret-service、wincred 等实现；适合无桌面会话的环境（如 file）。
type Ring struct {
	ring keyring.Keyring
}

// OpenRing 按 Options 打开 99designs keyring。
func OpenRing(opts Options) (*Ring, error) {
	cfg := ringConfig(opts)
	r, err := keyring.Open(cfg)
	if err != nil {
		return nil, unavailable(ringName, err)
	}
	return &Ring{ring: r}, nil
}

// NewRing 包装一个已打开的 keyring，测试中可传入 keyring.NewArrayKeyring。
func NewRing(r keyring.Keyring) *Ring {
	return &Ring{ring: r}
}

func ringConfig(opts Options) keyring.Config {
	service := opts.RingService
	if service == "" {
		service = defaultRingService
	}
	cfg := keyring.Config{
		ServiceName:             service,
		KeychainName:            opts.KeychainName,
		FileDir:                 opts.FileDir,
		LibSecretCollectionName: opts.Collection,
	}
	for _, name := range opts.RingBackends {
		cfg.AllowedBackends = append(cfg.AllowedBackends, keyring.BackendType(name))
	}
	if opts.FilePasswordEnv != "" {
		env := opts.FilePasswordEnv
		cfg.FilePasswordFunc = func(string) (string, error) {
			if v := os.Getenv(env); v != "" {
				return v, nil
			}
			return "", fmt.Errorf("environment variable %s is not set", env)
		}
	}
	return cfg
}

// ringKey 把 (service, user) 编码为单个 key；转义后 "|" 只作为分隔符出现。
func ringKey(service, user string) string {
	return url.PathEscape(service) + "|" + url.PathEscape(user)
}

func (r *Ring) Name() string { return ringName }

func (r *Ring) Write(service, user string, secret []byte) error {
	// 部分实现（如 ArrayKeyring）会持有 Data，这里交出一份独立副本。
	err := r.ring.Set(keyring.Item{
		Key:         ringKey(service, user),
		Data:        bytes.Clone(secret),
		Label:       service,
		Description: user,
	})
	if err != nil {
		return failed(ringName, "write", service, user, err)
	}
	return nil
}

func (r *Ring) Read(service, user string) ([]byte, bool, error) {
	item, err := r.ring.Get(ringKey(service, user))
	if stderrors.Is(err, keyring.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, failed(ringName, "read", service, user, err)
	}
	return bytes.Clone(item.Data), true, nil
}

// Erase 删除 key；99designs keyring 中同一 key 至多一条。
func (r *Ring) Erase(service, user string) (int, error) {
	key := ringKey(service, user)
	if _, err := r.ring.Get(key); err != nil {
		if stderrors.Is(err, keyring.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, failed(ringName, "erase", service, user, err)
	}
	if err := r.ring.Remove(key); err != nil {
		if stderrors.Is(err, keyring.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, failed(ringName, "erase", service, user, err)
	}
	return 1, nil
}
