package stringtest

import "strings"

// JoinLF joins multiple strings with LF line endings.
// Use this to construct expected test output with explicit line endings.
//
// Example:
//
//	want := stringtest.JoinLF(
//		"line1",
//		"line2",
//		"line3",
//	) // -> "line1\nline2\nline3"
func JoinLF(ss ...string) string {
	var sb strings.Builder
	for i, s := range ss {
		if i > 0 {
			sb.WriteByte('\n')
		}

		sb.WriteString(s)
	}

	return sb.String()
}

// Lines splits s into lines, dropping a single trailing newline first.
// Use this to assert on line-oriented output without fencepost noise from the
// final line terminator.
func Lines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}

	return strings.Split(s, "\n")
}

// Occurrences counts non-overlapping occurrences of substr in s.
// Use this to assert how many times a banner or marker appears in captured
// output.
func Occurrences(s, substr string) int {
	return strings.Count(s, substr)
}
