package biometric

import (
	"errors"
	"image"
)

// EmbeddingLength is fixed for the whole system. Comparing embeddings of a
// different length is a programming error, never a low-confidence match.
const EmbeddingLength = 128

var (
	ErrNoSubjectDetected        = errors.New("biometric: no subject detected in capture")
	ErrMultipleSubjectsDetected = errors.New("biometric: multiple subjects detected in capture")
)

// Extractor turns an accepted capture into a fixed-length embedding. It must
// be a pure function of the image for a given model version so golden-vector
// tests stay reproducible. Real models (ArcFace, FaceNet and friends) plug in
// behind this interface without the decision engine noticing.
type Extractor interface {
	ExtractEmbedding(img image.Image) ([]float64, error)
	ModelVersion() string
}

// BlockLumaExtractor is the capability-agnostic reference extractor: it
// derives the embedding from mean luma over a fixed grid of image blocks,
// centered to zero. Identical captures produce identical embeddings and
// near-identical captures land close in cosine space, which is all the
// surrounding machinery needs. It refuses captures whose central region
// shows no subject.
type BlockLumaExtractor struct {
	analyzer *QualityAnalyzer
	version  string
}

func NewBlockLumaExtractor(analyzer *QualityAnalyzer) *BlockLumaExtractor {
	return &BlockLumaExtractor{
		analyzer: analyzer,
		version:  "blockluma-v1",
	}
}

func (be *BlockLumaExtractor) ModelVersion() string {
	return be.version
}

func (be *BlockLumaExtractor) ExtractEmbedding(img image.Image) ([]float64, error) {
	if img == nil || img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		return nil, ErrInvalidInput
	}

	gray := lumaGrid(img)
	if detected, _ := be.analyzer.detectSubject(gray); !detected {
		return nil, ErrNoSubjectDetected
	}

	// 16x8 block grid = 128 components
	const gridRows = 8
	const gridCols = 16
	rows := len(gray)
	cols := len(gray[0])

	embedding := make([]float64, 0, EmbeddingLength)
	for by := 0; by < gridRows; by++ {
		for bx := 0; bx < gridCols; bx++ {
			rowStart := by * rows / gridRows
			rowEnd := (by + 1) * rows / gridRows
			colStart := bx * cols / gridCols
			colEnd := (bx + 1) * cols / gridCols

			sum, count := 0.0, 0.0
			for y := rowStart; y < rowEnd; y++ {
				for x := colStart; x < colEnd; x++ {
					sum += gray[y][x]
					count++
				}
			}
			mean := 0.0
			if count > 0 {
				mean = sum / count
			}
			// recenter around mid-gray so the vector carries contrast, not exposure
			embedding = append(embedding, (mean-128)/128)
		}
	}
	return embedding, nil
}
