package helpers

import "strings"

// CollapseWhitespace trims a string and collapses all interior whitespace
// runs (including newlines and tabs) to single spaces.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
