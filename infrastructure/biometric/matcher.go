package biometric

import (
	"errors"
	"math"

	"campuspass.io/infrastructure/biometric/types"
)

var (
	// ErrEmbeddingLengthMismatch is a programming error - the embedding
	// length is constant system-wide.
	ErrEmbeddingLengthMismatch = errors.New("biometric: embedding length mismatch")
	ErrDegenerateEmbedding     = errors.New("biometric: zero-norm embedding")
)

// Matcher scores two embeddings with cosine similarity. Embeddings are NOT
// assumed L2-normalized at extraction time, so confidence is the remapped
// cosine: clamp((cos+1)/2, 0, 1) * 100. That convention is fixed here -
// mixing normalized and unnormalized embeddings elsewhere is an invariant
// violation.
type Matcher struct{}

func NewMatcher() *Matcher {
	return &Matcher{}
}

func (m *Matcher) Compare(a, b []float64) (*types.MatchResult, error) {
	similarity, err := CosineSimilarity(a, b)
	if err != nil {
		return nil, err
	}
	confidence := (similarity + 1) / 2
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return &types.MatchResult{
		Similarity: similarity,
		Confidence: confidence * 100,
	}, nil
}

// CosineSimilarity returns the cosine of the angle between two same-length
// embeddings, clamped to [-1, 1]. A zero-norm input is reported as
// ErrDegenerateEmbedding rather than a silent zero.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrEmbeddingLengthMismatch
	}

	dotProduct := 0.0
	normA := 0.0
	normB := 0.0
	for i := 0; i < len(a); i++ {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, ErrDegenerateEmbedding
	}

	similarity := dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
	if similarity > 1.0 {
		similarity = 1.0
	}
	if similarity < -1.0 {
		similarity = -1.0
	}
	return similarity, nil
}
