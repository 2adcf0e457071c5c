package backend

import (
	stderrors "errors"

	"github.com/zalando/go-keyring"
)

const (
	keyringName = "keyring"

	// 一次 Erase 最多删除的条目数，防止原生存储异常时无限循环。
	maxEraseRounds = 64

	probeService = "xsecret"
	probeUser    = "xsecret-availability-probe"
)

func init() {
	Register(keyringName, func(Options) (Backend, error) { return OpenKeyring() })
}

// Keyring 基于 zalando/go-keyring：macOS 走 keychain，Linux 走 Secret Service，
// Windows 走凭据管理器。
type Keyring struct{}

// OpenKeyring 通过一次探测读取确认原生存储可用。
func OpenKeyring() (*Keyring, error) {
	_, err := keyring.Get(probeService, probeUser)
	if err != nil && !stderrors.Is(err, keyring.ErrNotFound) {
		return nil, unavailable(keyringName, err)
	}
	return &Keyring{}, nil
}

func (k *Keyring) Name() string { return keyringName }

func (k *Keyring) Write(service, user string, secret []byte) error {
	// go-keyring 只接受 string；这份副本无法由我们清零。
	// 超出平台大小限制时返回 ErrSetDataTooBig，同样按普通失败处理。
	if err := keyring.Set(service, user, string(secret)); err != nil {
		return failed(keyringName, "write", service, user, err)
	}
	return nil
}

func (k *Keyring) Read(service, user string) ([]byte, bool, error) {
	s, err := keyring.Get(service, user)
	if stderrors.Is(err, keyring.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, failed(keyringName, "read", service, user, err)
	}
	// s 可能与 provider 内部共享，不能原地清零。
	return []byte(s), true, nil
}

// Erase 反复删除直到不再有匹配项；go-keyring 每次只删除一条。
func (k *Keyring) Erase(service, user string) (int, error) {
	deleted := 0
	for deleted < maxEraseRounds {
		err := keyring.Delete(service, user)
		if stderrors.Is(err, keyring.ErrNotFound) {
			return deleted, nil
		}
		if err != nil {
			return deleted, failed(keyringName, "erase", service, user, err)
		}
		deleted++
	}
	return deleted, nil
}
