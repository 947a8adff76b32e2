package main

import "strings"

// similarity returns a normalized closeness score in [0,1] between a guess
// and a target word: (L - d) / L, where d is the case-insensitive
// Levenshtein distance and L the length of the longer string. Two empty
// strings score 1.
func similarity(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))

	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 1.0
	}

	return float64(longest-editDistance(ra, rb)) / float64(longest)
}

// editDistance computes the Levenshtein distance between two rune slices
// using unit-cost insertion, deletion, and substitution, keeping a single
// DP row.
func editDistance(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	if len(b) == 0 {
		return len(a)
	}

	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(a); i++ {
		prev := row[0]
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur := min(prev+cost, row[j]+1, row[j-1]+1)
			prev = row[j]
			row[j] = cur
		}
	}

	return row[len(b)]
}
