// internal/service/network/tfidf.go

package network

import (
	"math"
	"regexp"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// tokenPattern matches runs of two or more word characters
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// sparseVector maps vocabulary indexes to weights
type sparseVector map[int]float64

// tokenize lowercases text and splits it into word tokens
func tokenize(caser cases.Caser, text string) []string {
	return tokenPattern.FindAllString(caser.String(text), -1)
}

// vectorize builds L2-normalized TF-IDF vectors for a corpus, one per
// document. Term weights are raw counts scaled by the smoothed inverse
// document frequency ln((1+n)/(1+df)) + 1. A corpus without any token
// yields empty vectors.
func vectorize(docs []string) []sparseVector {
	caser := cases.Lower(language.Und)

	vocab := make(map[string]int)
	counts := make([]map[int]int, len(docs))
	df := make(map[int]int)

	for i, doc := range docs {
		counts[i] = make(map[int]int)
		for _, tok := range tokenize(caser, doc) {
			idx, ok := vocab[tok]
			if !ok {
				idx = len(vocab)
				vocab[tok] = idx
			}
			if counts[i][idx] == 0 {
				df[idx]++
			}
			counts[i][idx]++
		}
	}

	n := float64(len(docs))
	vectors := make([]sparseVector, len(docs))
	for i, tf := range counts {
		vec := make(sparseVector, len(tf))
		var norm float64
		for idx, c := range tf {
			idf := math.Log((1+n)/(1+float64(df[idx]))) + 1
			w := float64(c) * idf
			vec[idx] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for idx := range vec {
				vec[idx] /= norm
			}
		}
		vectors[i] = vec
	}

	return vectors
}

// cosine returns the cosine similarity of two L2-normalized vectors
func cosine(a, b sparseVector) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}

	var dot float64
	for idx, w := range a {
		dot += w * b[idx]
	}
	return dot
}

// similarityMatrix returns the pairwise cosine similarities of a corpus
func similarityMatrix(docs []string) [][]float64 {
	vectors := vectorize(docs)

	sim := make([][]float64, len(docs))
	for i := range sim {
		sim[i] = make([]float64, len(docs))
	}
	for i := range vectors {
		for j := i; j < len(vectors); j++ {
			s := cosine(vectors[i], vectors[j])
			sim[i][j] = s
			sim[j][i] = s
		}
	}

	return sim
}
