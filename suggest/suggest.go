// Package suggest proposes near-match candidates for a misspelled
// package, path, or environment name using Jaro-Winkler similarity. No
// third-party string-distance library covering this exact metric
// turned up in the reference corpus (see DESIGN.md), so it is
// implemented directly here.
package suggest

import "sort"

// Threshold is the minimum Jaro-Winkler score for a candidate to be
// considered a plausible suggestion.
const Threshold = 0.53

// MaxSuggestions caps how many candidates Nearest returns.
const MaxSuggestions = 3

// Nearest returns up to MaxSuggestions candidates whose Jaro-Winkler
// similarity to target is at least Threshold, ordered by descending
// similarity (ties broken by candidate order).
func Nearest(target string, candidates []string) []string {
	type scored struct {
		name  string
		score float64
	}

	var matches []scored
	for _, candidate := range candidates {
		if candidate == target {
			continue
		}
		score := JaroWinkler(target, candidate)
		if score >= Threshold {
			matches = append(matches, scored{name: candidate, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if len(matches) > MaxSuggestions {
		matches = matches[:MaxSuggestions]
	}

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.name
	}
	return out
}

// JaroWinkler returns the Jaro-Winkler similarity of a and b, in
// [0, 1].
func JaroWinkler(a, b string) float64 {
	j := jaro(a, b)
	if j == 0 {
		return 0
	}

	prefix := commonPrefixLen(a, b, 4)
	const scalingFactor = 0.1

	return j + float64(prefix)*scalingFactor*(1-j)
}

func jaro(a, b string) float64 {
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 || lb == 0 {
		return 0
	}

	matchDistance := la / 2
	if lb/2 > matchDistance {
		matchDistance = lb / 2
	}
	if matchDistance > 0 {
		matchDistance--
	}

	aMatches := make([]bool, la)
	bMatches := make([]bool, lb)

	matches := 0
	for i := 0; i < la; i++ {
		start := i - matchDistance
		if start < 0 {
			start = 0
		}
		end := i + matchDistance + 1
		if end > lb {
			end = lb
		}
		for k := start; k < end; k++ {
			if bMatches[k] || ra[i] != rb[k] {
				continue
			}
			aMatches[i] = true
			bMatches[k] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0
	}

	var transpositions int
	k := 0
	for i := 0; i < la; i++ {
		if !aMatches[i] {
			continue
		}
		for !bMatches[k] {
			k++
		}
		if ra[i] != rb[k] {
			transpositions++
		}
		k++
	}
	transpositions /= 2

	m := float64(matches)
	return (m/float64(la) + m/float64(lb) + (m-float64(transpositions))/m) / 3
}

func commonPrefixLen(a, b string, max int) int {
	ra, rb := []rune(a), []rune(b)
	n := len(ra)
	if len(rb) < n {
		n = len(rb)
	}
	if max < n {
		n = max
	}
	count := 0
	for i := 0; i < n; i++ {
		if ra[i] != rb[i] {
			break
		}
		count++
	}
	return count
}
