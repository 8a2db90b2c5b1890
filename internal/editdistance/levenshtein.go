// Package editdistance computes Levenshtein edit distances.
package editdistance

// Distance computes the Levenshtein edit distance between two sequences:
// the minimum number of single-element insertions, deletions and
// substitutions turning a into b. Uses two rows, so memory is
// O(min(len(a), len(b))).
func Distance[T comparable](a, b []T) int {
	// Ensure a is the shorter sequence for space optimization
	if len(a) > len(b) {
		a, b = b, a
	}

	m := len(a)
	n := len(b)

	if m == 0 {
		return n
	}

	prev := make([]int, m+1)
	curr := make([]int, m+1)

	for i := 0; i <= m; i++ {
		prev[i] = i
	}

	for j := 1; j <= n; j++ {
		curr[0] = j
		for i := 1; i <= m; i++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			curr[i] = min(
				prev[i]+1,      // deletion
				curr[i-1]+1,    // insertion
				prev[i-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[m]
}

// Strings computes the edit distance between two strings over Unicode
// code points. Invalid UTF-8 bytes each count as one U+FFFD.
func Strings(a, b string) int {
	if a == b {
		return 0
	}
	return Distance([]rune(a), []rune(b))
}
