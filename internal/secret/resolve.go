package secret

import (
	"strings"

	"github.com/zx06/xsecret/internal/errors"
)

const keyringPrefix = "keyring:"

// ResolveOptions 控制 secret 引用的解析行为。
type ResolveOptions struct {
	AllowPlaintext bool   // 是否允许明文（默认 false）
	Store          *Store // 可注入的 Store（nil 则用 GetDefault）
}

// Resolve 解析 secret 值：
//  1. keyring:<service>#<user> → 从 Store 读取
//  2. 否则若允许明文 → 直接作为 UTF-8 secret
//  3. 否则报错
func Resolve(raw string, opts ResolveOptions) (*Value, *errors.XError) {
	if IsKeyringRef(raw) {
		service, user, xe := ParseRef(strings.TrimPrefix(raw, keyringPrefix))
		if xe != nil {
			return Empty(), xe
		}
		st := opts.Store
		if st == nil {
			st = GetDefault()
		}
		v, found, err := st.Lookup(service, user)
		if err != nil {
			return Empty(), errors.AsOrWrap(err)
		}
		if !found {
			return Empty(), errors.New(errors.CodeSecretNotFound, "secret not found",
				map[string]any{"service": service, "user": user})
		}
		return v, nil
	}
	if opts.AllowPlaintext {
		return NewString(raw), nil
	}
	return Empty(), errors.New(errors.CodeCfgInvalid, "plaintext secret not allowed; use keyring: reference or enable allow_plaintext", nil)
}

// ParseRef 把 "<service>#<user>" 拆为两部分；以最后一个 '#' 为分隔，
// 因此 service 中可以包含 '#'。
func ParseRef(ref string) (service, user string, xe *errors.XError) {
	i := strings.LastIndex(ref, "#")
	if i <= 0 || i == len(ref)-1 {
		return "", "", errors.New(errors.CodeCfgInvalid, "invalid keyring reference; want keyring:<service>#<user>",
			map[string]any{"ref": ref})
	}
	return ref[:i], ref[i+1:], nil
}

// IsKeyringRef 判断值是否为 keyring 引用。
func IsKeyringRef(s string) bool {
	return strings.HasPrefix(s, keyringPrefix)
}
