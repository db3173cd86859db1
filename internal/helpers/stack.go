package helpers

import (
	"runtime/debug"
	"strings"
)

// Returns the current goroutine's stack with one frame per line in the form
// "function (file:line)". The pass driver attaches this to internal errors.
func PrettyPrintedStack() string {
	lines := strings.Split(strings.TrimSpace(string(debug.Stack())), "\n")

	// Strip the first "goroutine" line
	if len(lines) > 0 {
		if first := lines[0]; strings.HasPrefix(first, "goroutine ") && strings.HasSuffix(first, ":") {
			lines = lines[1:]
		}
	}

	var frames []string
	for _, line := range lines {
		// Indented lines are the source location of the previous call
		if strings.HasPrefix(line, "\t") {
			if len(frames) == 0 {
				continue
			}
			line = strings.TrimPrefix(line[1:], "github.com/jsir-dev/jsir/")
			if offset := strings.LastIndex(line, " +0x"); offset != -1 {
				line = line[:offset]
			}
			frames[len(frames)-1] += " (" + line + ")"
			continue
		}

		// Other lines are function calls
		if strings.HasSuffix(line, ")") {
			if paren := strings.LastIndexByte(line, '('); paren != -1 {
				line = line[:paren]
			}
		}
		if slash := strings.LastIndexByte(line, '/'); slash != -1 {
			line = line[slash+1:]
		}
		frames = append(frames, line)
	}

	return strings.Join(frames, "\n")
}
