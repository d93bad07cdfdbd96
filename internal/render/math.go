// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"regexp"
	"strings"
)

// mathSpan matches the first minimal inline math span on a line.
var mathSpan = regexp.MustCompile(`\$[^$]*\$`)

// PrettyMath normalizes the first $...$ span in s: interior whitespace is
// trimmed and the span ends up separated from adjacent non-space,
// non-emphasis characters by exactly one space on each side. Only the
// first span per line is touched.
func PrettyMath(s string) string {
	loc := mathSpan.FindStringIndex(s)
	if loc == nil {
		return s
	}
	start, end := loc[0], loc[1]
	inner := strings.TrimSpace(s[start+1 : end-1])

	var lead, trail string
	if start > 0 {
		if prev := s[start-1]; prev != ' ' && prev != '*' {
			lead = " "
		}
	}
	if end < len(s) {
		if next := s[end]; next != ' ' && next != '*' {
			trail = " "
		}
	}
	return s[:start] + lead + "$" + inner + "$" + trail + s[end:]
}
