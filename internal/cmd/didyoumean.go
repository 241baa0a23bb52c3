package cmd

import "strings"

// maxSuggestDistance is the largest edit distance still worth suggesting.
const maxSuggestDistance = 3

// levenshtein computes the edit distance between a and b using one row.
func levenshtein(a, b string) int {
	if a == "" {
		return len(b)
	}
	if b == "" {
		return len(a)
	}

	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(a); i++ {
		prev := i - 1
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			val := min(row[j]+1, row[j-1]+1, prev+cost)
			prev = row[j]
			row[j] = val
		}
	}
	return row[len(b)]
}

func closest(input string, candidates []string, key func(string) string) string {
	input = strings.ToLower(key(input))
	if input == "" {
		return ""
	}
	best, bestDist := "", maxSuggestDistance+1
	for _, c := range candidates {
		if d := levenshtein(input, strings.ToLower(key(c))); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// suggestCommand returns the closest command or operation name, or "".
func suggestCommand(unknown string, commands []string) string {
	return closest(unknown, commands, func(s string) string { return s })
}

// suggestFlag compares flags without their dashes but returns the match with
// its original prefix.
func suggestFlag(unknown string, flags []string) string {
	return closest(unknown, flags, func(s string) string { return strings.TrimLeft(s, "-") })
}
