package intake

import "strings"

const fixLine = 7

// Fix turns the first "6" on line 7 into "6." unless that line already
// carries a "6.". Every other byte, line endings included, is kept as is.
func Fix(content string) (string, bool) {
	lines := strings.Split(content, "\n")
	if len(lines) < fixLine {
		return content, false
	}

	line := lines[fixLine-1]
	if !strings.Contains(line, "6") || strings.Contains(line, "6.") {
		return content, false
	}

	lines[fixLine-1] = strings.Replace(line, "6", "6.", 1)
	return strings.Join(lines, "\n"), true
}
