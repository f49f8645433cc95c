//go:build !windows

// Package console inspects the terminal the report is drawn on.
package console

import (
	"os"
	"strings"
)

// IsBlueBackground guesses from COLORFGBG whether the terminal background is blue.
func IsBlueBackground(*os.File) bool {
	return blueFromColorFGBG(os.Getenv("COLORFGBG"))
}

func blueFromColorFGBG(raw string) bool {
	if raw == "" {
		return false
	}
	parts := strings.Split(raw, ";")
	bg := strings.TrimSpace(parts[len(parts)-1])

	// ANSI 16-colour palette: 4 is blue, 12 bright blue.
	return bg == "4" || bg == "12"
}
