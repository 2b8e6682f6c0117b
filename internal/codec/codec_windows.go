//go:build windows

package codec

const defaultName = "cp437"
