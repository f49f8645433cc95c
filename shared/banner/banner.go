// Package banner prints the iam-audit title.
package banner

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/thirukguru/iam-audit/shared/ansi"
	"github.com/thirukguru/iam-audit/shared/console"
	"golang.org/x/term"
)

// ColorEnv overrides the title colour by name (e.g. "AmberOrange").
const ColorEnv = "IAM_AUDIT_BANNER_COLOR"

type titleColor struct {
	name string
	code string
}

var titleColors = []titleColor{
	{"AmberOrange", "\x1b[38;2;255;153;0m"},
	{"SignalRed", "\x1b[38;2;228;0;43m"},
	{"SteelBlue", "\x1b[38;2;15;98;254m"},
	{"MintGreen", "\x1b[38;2;30;215;96m"},
	{"OrchidPurple", "\x1b[38;2;145;70;255m"},
	{"Snow", "\x1b[38;2;240;240;240m"},
}

const (
	defaultColor        = 0
	blueBackgroundColor = 5
	resetColor          = "\x1b[0m"
	defaultWidth        = 80
)

var titleLines = []string{
	" ██╗  █████╗  ███╗   ███╗        █████╗  ██╗   ██╗ ██████╗  ██╗ ████████╗",
	" ██║ ██╔══██╗ ████╗ ████║       ██╔══██╗ ██║   ██║ ██╔══██╗ ██║ ╚══██╔══╝",
	" ██║ ███████║ ██╔████╔██║ █████╗███████║ ██║   ██║ ██║  ██║ ██║    ██║   ",
	" ██║ ██╔══██║ ██║╚██╔╝██║ ╚════╝██╔══██║ ██║   ██║ ██║  ██║ ██║    ██║   ",
	" ██║ ██║  ██║ ██║ ╚═╝ ██║       ██║  ██║ ╚██████╔╝ ██████╔╝ ██║    ██║   ",
	" ╚═╝ ╚═╝  ╚═╝ ╚═╝     ╚═╝       ╚═╝  ╚═╝  ╚═════╝  ╚═════╝  ╚═╝    ╚═╝   ",
}

// DrawBannerTitle prints the centred title to stdout.
func DrawBannerTitle() {
	ansi.EnableANSI(os.Stdout)

	width := defaultWidth
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}

	idx, ok := colorFromName(os.Getenv(ColorEnv))
	if !ok {
		idx = defaultColor
		if console.IsBlueBackground(os.Stdout) {
			idx = blueBackgroundColor
		}
	}

	fmt.Print(titleColors[idx].code)
	writeCentered(os.Stdout, titleLines, width)
	fmt.Print(resetColor)
}

func colorFromName(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	for i, c := range titleColors {
		if strings.EqualFold(raw, c.name) {
			return i, true
		}
	}
	return 0, false
}

// writeCentered pads each line by rune count so box-drawing glyphs centre correctly.
func writeCentered(w io.Writer, lines []string, width int) {
	for _, line := range lines {
		n := len([]rune(line))
		if width > n {
			fmt.Fprint(w, strings.Repeat(" ", (width-n)/2))
		}
		fmt.Fprintln(w, line)
	}
}
