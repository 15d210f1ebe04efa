package assistant

import (
	"regexp"
	"strconv"
	"strings"
)

var listItem = regexp.MustCompile(`^(\s*)(\d+)([.)\-:]+)(\s+)(.*)$`)

// RenumberLists rewrites every run of consecutive ordered-list lines so it
// counts from 1. Any line that is not a list item, blank lines included, ends
// the current run.
func RenumberLists(text string) string {
	lines := strings.Split(text, "\n")
	n := 0
	for i, line := range lines {
		m := listItem.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			n = 0
			continue
		}
		n++
		lines[i] = m[1] + strconv.Itoa(n) + m[3] + m[4] + m[5]
		if strings.HasSuffix(line, "\r") {
			lines[i] += "\r"
		}
	}
	return strings.Join(lines, "\n")
}
