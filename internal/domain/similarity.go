package domain

import (
	"math"
	"strings"
	"unicode"

	m "testtree.dev/pkg/testtree/internal/model"
)

// WordFrequencies counts the lower-cased words of text.
func WordFrequencies(text string) map[string]int {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})

	freq := make(map[string]int, len(words))
	for _, w := range words {
		freq[w]++
	}

	return freq
}

// CosineSimilarity compares two word frequency vectors; 0 when either is empty.
func CosineSimilarity(a, b map[string]int) float64 {
	var dot, normA, normB float64

	for w, x := range a {
		normA += float64(x * x)

		if y, ok := b[w]; ok {
			dot += float64(x * y)
		}
	}

	for _, y := range b {
		normB += float64(y * y)
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// BestMatch returns the candidate most similar to target. Candidates with
// zero similarity never match; ties keep the first candidate in order.
func BestMatch(target string, order []m.Path, candidates map[m.Path]string) (m.Path, float64, bool) {
	want := WordFrequencies(target)

	var (
		best      m.Path
		bestScore float64
	)

	for _, path := range order {
		content, ok := candidates[path]
		if !ok {
			continue
		}

		score := CosineSimilarity(want, WordFrequencies(content))
		if score > bestScore {
			best = path
			bestScore = score
		}
	}

	return best, bestScore, bestScore > 0
}
