//go:build !linux && !windows

package backend

// macOS keychain 以及其他平台走 go-keyring。
const platformDefault = "keyring"
