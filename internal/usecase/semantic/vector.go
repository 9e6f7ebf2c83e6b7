package semantic

import "math"

// CosineSimilarity returns dot(a,b) / (|a||b|). It clamps to 0 instead of
// erroring when the vectors have different dimensions or either magnitude is
// zero, so a malformed provider response degrades a single comparison rather
// than failing the classification.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}

	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
