package biometric

import (
	"image"

	"campuspass.io/infrastructure/biometric/types"
)

// LivenessChecker tests whether the capture came from a live subject rather
// than a photo or replay. With a single still frame this is inherently weak:
// no blink detection, no depth, no challenge-response. The interface exists
// so a multi-frame or hardware-backed checker can replace the heuristic one
// without touching the decision engine, and so the limitation is a visible
// design fact instead of a silent always-live stub.
type LivenessChecker interface {
	CheckLiveness(img image.Image) (*types.LivenessResult, error)
}

// TextureLivenessChecker is a conservative single-frame heuristic: flat
// prints and screen replays lose high-frequency texture and tend toward
// clipped exposure, so it scores laplacian texture against an exposure
// penalty. A failed check is an authoritative reject downstream.
type TextureLivenessChecker struct {
	MinTextureScore float64
}

func NewTextureLivenessChecker() *TextureLivenessChecker {
	return &TextureLivenessChecker{MinTextureScore: 0.35}
}

func (tc *TextureLivenessChecker) CheckLiveness(img image.Image) (*types.LivenessResult, error) {
	if img == nil || img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		return nil, ErrInvalidInput
	}

	gray := lumaGrid(img)
	texture := laplacianVariance(gray)
	brightness := meanLuma(gray)

	textureScore := texture / 250
	if textureScore > 1 {
		textureScore = 1
	}

	exposurePenalty := 0.0
	if brightness < 40 || brightness > 230 {
		exposurePenalty = 0.4
	}

	score := textureScore - exposurePenalty
	if score < 0 {
		score = 0
	}

	return &types.LivenessResult{
		Live:  score >= tc.MinTextureScore,
		Score: score,
	}, nil
}
