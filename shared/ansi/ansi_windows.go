//go:build windows

// Package ansi turns on escape sequence handling where the terminal needs it.
package ansi

import (
	"os"

	"golang.org/x/sys/windows"
)

const enableVirtualTerminalProcessing = 0x0004

// EnableANSI switches the console behind f into virtual terminal mode.
func EnableANSI(f *os.File) {
	handle := windows.Handle(f.Fd())

	var mode uint32
	if err := windows.GetConsoleMode(handle, &mode); err != nil {
		return
	}
	_ = windows.SetConsoleMode(handle, mode|enableVirtualTerminalProcessing)
}
