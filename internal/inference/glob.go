package inference

// matchGlob implements the narrow path-glob dialect used by
// forceStaticPaths/forceDynamicPaths: '*' matches any run of characters
// (including '.'), '?' matches exactly one character, and '.' is literal.
// This is deliberately not path.Match or filepath.Match, both of which
// treat '/' as a path separator with its own matching rules that don't
// apply to dotted field paths — a hand-rolled matcher keeps the semantics
// exactly "any character sequence", dots included, which is what letting
// "orders.*.total" match "orders.0.total" requires.
func matchGlob(pattern, s string) bool {
	return matchGlobAt(pattern, s, 0, 0)
}

func matchGlobAt(pattern, s string, pi, si int) bool {
	for pi < len(pattern) {
		switch pattern[pi] {
		case '*':
			// Collapse consecutive '*' and try every possible split point.
			for pi < len(pattern) && pattern[pi] == '*' {
				pi++
			}
			if pi == len(pattern) {
				return true
			}
			for k := si; k <= len(s); k++ {
				if matchGlobAt(pattern, s, pi, k) {
					return true
				}
			}
			return false
		case '?':
			if si >= len(s) {
				return false
			}
			pi++
			si++
		default:
			if si >= len(s) || s[si] != pattern[pi] {
				return false
			}
			pi++
			si++
		}
	}
	return si == len(s)
}

// MatchAny reports whether path matches any of the glob patterns.
func MatchAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if matchGlob(p, path) {
			return true
		}
	}
	return false
}
