//go:build linux

package backend

const platformDefault = "secret-service"
