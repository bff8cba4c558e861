// Package strings provides string parsing helpers.
package strings

import (
	"strings"
)

// SplitList parses a comma-separated list. Elements are trimmed, blanks are
// dropped and repeats keep their first position.
//
//	SplitList(" a:9092, b:9092,,a:9092 ") // []string{"a:9092", "b:9092"}
func SplitList(v string) []string {
	var out []string
	seen := make(map[string]struct{})
	for part := range strings.SplitSeq(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, ok := seen[part]; ok {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	return out
}
