//go:build darwin || linux
// +build darwin linux

package logger

import (
	"os"

	"golang.org/x/sys/unix"
)

const SupportsColorEscapes = true

// Color is only used when writing to a terminal that isn't "dumb" and the
// user hasn't opted out with "NO_COLOR"
func GetTerminalInfo(file *os.File) (info TerminalInfo) {
	fd := int(file.Fd())

	if _, err := unix.IoctlGetTermios(fd, ioctlReadTermios); err != nil {
		return
	}
	info.IsTTY = true
	info.UseColorEscapes = !hasNoColorEnvironmentVariable() && os.Getenv("TERM") != "dumb"

	if w, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ); err == nil {
		info.Width = int(w.Col)
		info.Height = int(w.Row)
	}
	return
}

func writeStringWithColor(file *os.File, text string) {
	file.WriteString(text)
}
