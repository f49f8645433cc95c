//go:build !windows

// Package ansi turns on escape sequence handling where the terminal needs it.
package ansi

import "os"

// EnableANSI is a no-op outside Windows; terminals there interpret escapes already.
func EnableANSI(*os.File) {}
