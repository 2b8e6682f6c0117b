//go:build !windows

package codec

const defaultName = "utf-8"
