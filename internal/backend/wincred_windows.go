//go:build windows

package backend

import (
	"bytes"
	stderrors "errors"

	"github.com/danieljoos/wincred"

	"github.com/zx06/xsecret/internal/securebuf"
)

const (
	winCredName = "wincred"

	// CRED_MAX_CREDENTIAL_BLOB_SIZE (5 * 512)。
	winCredMaxBlob = 2560
)

func init() {
	Register(winCredName, func(Options) (Backend, error) { return &WinCred{}, nil })
}

// WinCred 使用 Windows 凭据管理器的 generic credential。
// TargetName 为 "service:user"，与 go-keyring 一致。
type WinCred struct{}

func targetName(service, user string) string {
	return service + ":" + user
}

func (w *WinCred) Name() string { return winCredName }

func (w *WinCred) Write(service, user string, secret []byte) error {
	if len(secret) > winCredMaxBlob {
		return tooLarge(winCredName, service, user, len(secret), winCredMaxBlob)
	}
	cred := wincred.NewGenericCredential(targetName(service, user))
	cred.UserName = user
	cred.CredentialBlob = bytes.Clone(secret)
	cred.Persist = wincred.PersistLocalMachine
	err := cred.Write()
	securebuf.Zero(cred.CredentialBlob)
	if err != nil {
		return failed(winCredName, "write", service, user, err)
	}
	return nil
}

func (w *WinCred) Read(service, user string) ([]byte, bool, error) {
	cred, err := wincred.GetGenericCredential(targetName(service, user))
	if stderrors.Is(err, wincred.ErrElementNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, failed(winCredName, "read", service, user, err)
	}
	data := make([]byte, len(cred.CredentialBlob))
	copy(data, cred.CredentialBlob)
	securebuf.Zero(cred.CredentialBlob)
	return data, true, nil
}

// Erase 删除目标凭据；凭据管理器中 TargetName 唯一，至多一条。
func (w *WinCred) Erase(service, user string) (int, error) {
	cred, err := wincred.GetGenericCredential(targetName(service, user))
	if stderrors.Is(err, wincred.ErrElementNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, failed(winCredName, "erase", service, user, err)
	}
	securebuf.Zero(cred.CredentialBlob)
	if err := cred.Delete(); err != nil {
		if stderrors.Is(err, wincred.ErrElementNotFound) {
			return 0, nil
		}
		return 0, failed(winCredName, "erase", service, user, err)
	}
	return 1, nil
}
