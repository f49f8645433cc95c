//go:build windows

// Package console inspects the terminal the report is drawn on.
package console

import (
	"os"

	"golang.org/x/sys/windows"
)

const backgroundBlue = 0x0010

// IsBlueBackground reads the console attributes behind f.
func IsBlueBackground(f *os.File) bool {
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(windows.Handle(f.Fd()), &info); err != nil {
		return false
	}
	return info.Attributes&backgroundBlue != 0
}
