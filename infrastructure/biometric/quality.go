package biometric

import (
	"errors"
	"fmt"
	"image"
	"math"

	"campuspass.io/infrastructure/biometric/types"
)

// ErrInvalidInput marks a caller contract violation (nil or zero-size image),
// as opposed to a quality rejection which is an expected outcome.
var ErrInvalidInput = errors.New("biometric: invalid image input")

// QualityPolicy holds the tunable capture-quality floors. Enrollment is
// deliberately stricter than ad-hoc verification.
type QualityPolicy struct {
	MinWidth         int
	MinHeight        int
	BrightnessLow    float64 // acceptable mean-luma band on a 0-255 scale
	BrightnessHigh   float64
	MinSharpness     float64
	MinCaptureScore  float64
	MinEnrollScore   float64
	BrightnessWeight float64
	SharpnessWeight  float64
	SubjectWeight    float64
}

func DefaultQualityPolicy() QualityPolicy {
	return QualityPolicy{
		MinWidth:         640,
		MinHeight:        480,
		BrightnessLow:    100,
		BrightnessHigh:   180,
		MinSharpness:     12,
		MinCaptureScore:  50,
		MinEnrollScore:   70,
		BrightnessWeight: 0.3,
		SharpnessWeight:  0.4,
		SubjectWeight:    0.3,
	}
}

// QualityAnalyzer scores a decoded still capture for brightness, sharpness
// and subject presence before the pipeline accepts it. The subject check is
// a coarse central-region heuristic, not a face detector - real detection
// belongs to the Extractor behind its own interface.
type QualityAnalyzer struct {
	policy QualityPolicy
}

func NewQualityAnalyzer(policy QualityPolicy) *QualityAnalyzer {
	return &QualityAnalyzer{policy: policy}
}

func (qa *QualityAnalyzer) Policy() QualityPolicy {
	return qa.policy
}

// Analyze never fails for a well-formed image; threshold violations land in
// the report's issue list so the capture UI can guide a retake.
func (qa *QualityAnalyzer) Analyze(img image.Image) (*types.QualityReport, error) {
	if img == nil {
		return nil, ErrInvalidInput
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil, ErrInvalidInput
	}

	gray := lumaGrid(img)

	brightness := meanLuma(gray)
	sharpness := laplacianVariance(gray)
	subjectDetected, subjectCentered := qa.detectSubject(gray)

	report := &types.QualityReport{
		Brightness:      brightness,
		Sharpness:       sharpness,
		SubjectDetected: subjectDetected,
		SubjectCentered: subjectCentered,
		Width:           width,
		Height:          height,
	}
	report.Score = qa.compositeScore(report)

	if width < qa.policy.MinWidth || height < qa.policy.MinHeight {
		report.Issues = append(report.Issues, fmt.Sprintf("resolution %dx%d is below the required %dx%d", width, height, qa.policy.MinWidth, qa.policy.MinHeight))
	}
	if brightness < qa.policy.BrightnessLow {
		report.Issues = append(report.Issues, "image is too dark, move to better lighting")
	} else if brightness > qa.policy.BrightnessHigh {
		report.Issues = append(report.Issues, "image is overexposed, avoid direct light sources")
	}
	if sharpness < qa.policy.MinSharpness {
		report.Issues = append(report.Issues, "image is blurry, hold the camera steady")
	}
	if !subjectDetected {
		report.Issues = append(report.Issues, "no subject detected, face the camera directly")
	} else if !subjectCentered {
		report.Issues = append(report.Issues, "subject is off-center, align your face with the frame")
	}
	if report.Score < qa.policy.MinCaptureScore {
		report.Issues = append(report.Issues, fmt.Sprintf("overall capture quality %.0f is below the minimum %.0f", report.Score, qa.policy.MinCaptureScore))
	}

	return report, nil
}

// compositeScore combines the three component scores into 0-100 under the
// policy weights. Brightness scores with a symmetric falloff outside the
// acceptable band.
func (qa *QualityAnalyzer) compositeScore(report *types.QualityReport) float64 {
	brightnessScore := bandScore(report.Brightness, qa.policy.BrightnessLow, qa.policy.BrightnessHigh)

	sharpnessScore := report.Sharpness / (qa.policy.MinSharpness * 4)
	if sharpnessScore > 1 {
		sharpnessScore = 1
	}

	subjectScore := 0.0
	if report.SubjectDetected {
		subjectScore = 0.6
		if report.SubjectCentered {
			subjectScore = 1.0
		}
	}

	score := (brightnessScore*qa.policy.BrightnessWeight +
		sharpnessScore*qa.policy.SharpnessWeight +
		subjectScore*qa.policy.SubjectWeight) * 100
	return math.Round(score*10) / 10
}

// detectSubject runs a dominant-tone heuristic over the central third of the
// frame: a present subject raises the mid-tone ratio and the local variance
// of the center relative to the border.
func (qa *QualityAnalyzer) detectSubject(gray [][]float64) (detected bool, centered bool) {
	rows := len(gray)
	cols := len(gray[0])

	centerMid, centerCount := regionMidToneRatio(gray, rows/3, 2*rows/3, cols/3, 2*cols/3)
	if centerCount == 0 {
		return false, false
	}

	centerVar := regionVariance(gray, rows/3, 2*rows/3, cols/3, 2*cols/3)
	borderVar := (regionVariance(gray, 0, rows/6, 0, cols) + regionVariance(gray, 5*rows/6, rows, 0, cols)) / 2

	detected = centerMid > 0.35 && centerVar > 40
	centered = detected && centerVar > borderVar
	return detected, centered
}

func bandScore(value, low, high float64) float64 {
	if value >= low && value <= high {
		return 1
	}
	var distance float64
	if value < low {
		distance = low - value
	} else {
		distance = value - high
	}
	score := 1 - distance/128
	if score < 0 {
		return 0
	}
	return score
}

// lumaGrid downsamples the image to a bounded grayscale grid so analysis
// cost stays flat regardless of capture resolution.
func lumaGrid(img image.Image) [][]float64 {
	const maxDim = 256
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	stepX, stepY := 1, 1
	if width > maxDim {
		stepX = width / maxDim
	}
	if height > maxDim {
		stepY = height / maxDim
	}

	rows := height / stepY
	cols := width / stepX
	grid := make([][]float64, rows)
	for y := 0; y < rows; y++ {
		grid[y] = make([]float64, cols)
		for x := 0; x < cols; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x*stepX, bounds.Min.Y+y*stepY).RGBA()
			grid[y][x] = 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
		}
	}
	return grid
}

func meanLuma(gray [][]float64) float64 {
	sum, count := 0.0, 0.0
	for _, row := range gray {
		for _, v := range row {
			sum += v
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / count
}

// laplacianVariance is the usual focus proxy: variance of the 4-neighbour
// laplacian response over the grid.
func laplacianVariance(gray [][]float64) float64 {
	rows := len(gray)
	cols := len(gray[0])
	if rows < 3 || cols < 3 {
		return 0
	}

	responses := make([]float64, 0, (rows-2)*(cols-2))
	sum := 0.0
	for y := 1; y < rows-1; y++ {
		for x := 1; x < cols-1; x++ {
			lap := 4*gray[y][x] - gray[y-1][x] - gray[y+1][x] - gray[y][x-1] - gray[y][x+1]
			responses = append(responses, lap)
			sum += lap
		}
	}
	mean := sum / float64(len(responses))

	variance := 0.0
	for _, lap := range responses {
		variance += (lap - mean) * (lap - mean)
	}
	return variance / float64(len(responses))
}

func regionMidToneRatio(gray [][]float64, rowStart, rowEnd, colStart, colEnd int) (ratio float64, count int) {
	mid := 0
	for y := rowStart; y < rowEnd && y < len(gray); y++ {
		for x := colStart; x < colEnd && x < len(gray[y]); x++ {
			count++
			if gray[y][x] > 50 && gray[y][x] < 220 {
				mid++
			}
		}
	}
	if count == 0 {
		return 0, 0
	}
	return float64(mid) / float64(count), count
}

func regionVariance(gray [][]float64, rowStart, rowEnd, colStart, colEnd int) float64 {
	sum, count := 0.0, 0.0
	for y := rowStart; y < rowEnd && y < len(gray); y++ {
		for x := colStart; x < colEnd && x < len(gray[y]); x++ {
			sum += gray[y][x]
			count++
		}
	}
	if count == 0 {
		return 0
	}
	mean := sum / count

	variance := 0.0
	for y := rowStart; y < rowEnd && y < len(gray); y++ {
		for x := colStart; x < colEnd && x < len(gray[y]); x++ {
			variance += (gray[y][x] - mean) * (gray[y][x] - mean)
		}
	}
	return variance / count
}
