package biometric

import (
	"image"
	"image/color"
)

// uniformCapture is a flat gray frame: no texture, no subject.
func uniformCapture(width, height int, luma uint8) image.Image {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray(x, y, color.Gray{Y: luma})
		}
	}
	return img
}

// subjectCapture is a mid-gray frame with deterministic high-contrast texture
// in the central third, which is what the subject heuristic and the texture
// liveness check look for. The pattern is a pure function of the pixel
// coordinates so repeated renders are identical.
func subjectCapture(width, height int) image.Image {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			luma := uint8(140)
			inCenterX := x > width/3 && x < 2*width/3
			inCenterY := y > height/3 && y < 2*height/3
			if inCenterX && inCenterY {
				switch (x*7 + y*13) % 3 {
				case 0:
					luma = 80
				case 1:
					luma = 140
				case 2:
					luma = 200
				}
			}
			img.SetGray(x, y, color.Gray{Y: luma})
		}
	}
	return img
}
