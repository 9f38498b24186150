package memory

import "math"

// Cosine returns the cosine similarity between two vectors: their dot
// product divided by the product of their Euclidean norms. It returns
// 0 when the vectors differ in length or either has zero norm, so a
// mixed-dimension store degrades to "no match" instead of NaN.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
