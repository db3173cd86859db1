package test

import (
	"strings"
)

const (
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorDim   = "\033[37m"
	colorReset = "\033[0m"
)

// Diff renders a line-by-line diff of two tree dumps. Lines only in "old"
// start with "-", lines only in "new" start with "+".
func Diff(old string, new string, color bool) string {
	d := differ{color: color}
	d.diff(strings.Split(old, "\n"), strings.Split(new, "\n"))
	return strings.Join(d.lines, "\n")
}

type differ struct {
	lines []string
	color bool
}

func (d *differ) emit(prefix string, color string, line string) {
	if d.color {
		d.lines = append(d.lines, color+prefix+line+colorReset)
	} else {
		d.lines = append(d.lines, prefix+line)
	}
}

// Recursively splits both sides around their longest common run of lines
func (d *differ) diff(old []string, new []string) {
	o, n, common := longestCommonRun(old, new)

	if common == 0 {
		for _, line := range old {
			d.emit("-", colorRed, line)
		}
		for _, line := range new {
			d.emit("+", colorGreen, line)
		}
		return
	}

	d.diff(old[:o], new[:n])
	for _, line := range old[o : o+common] {
		d.emit(" ", colorDim, line)
	}
	d.diff(old[o+common:], new[n+common:])
}

// See: https://en.wikipedia.org/wiki/Longest_common_substring_problem
func longestCommonRun(a []string, b []string) (int, int, int) {
	prev := make([]int, len(b))
	next := make([]int, len(b))
	best, endA, endB := 0, 0, 0

	for i := range a {
		for j := range b {
			if a[i] != b[j] {
				next[j] = 0
				continue
			}
			if j == 0 {
				next[j] = 1
			} else {
				next[j] = prev[j-1] + 1
			}
			if next[j] > best {
				best, endA, endB = next[j], i+1, j+1
			}
		}
		prev, next = next, prev
	}

	return endA - best, endB - best, best
}
