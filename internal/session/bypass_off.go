//go:build !devbypass

package session

const bypassCompiled = false
