package overlay

import "math"

// Font scale constants, chosen so the rendered text visually fills the
// overlay band.
const (
	fontHeightRatio = 0.38
	marginRatio     = 0.10
	minFontSize     = 24
)

// Layout is the computed pixel geometry for compositing an overlay band
// onto a video frame.
type Layout struct {
	Width    int
	Height   int
	X        int
	Y        int
	FontSize int
	Margin   int
}

// Compute derives the overlay canvas size, font scale, and composite
// position for a video of the given dimensions. The band is centered
// horizontally and anchored to the bottom edge before the user offsets are
// applied. An overlay larger than the video collapses the centering or
// anchoring term to zero instead of going negative.
func Compute(videoWidth, videoHeight int, s Settings) Layout {
	width := s.Width
	if width == 0 {
		width = videoWidth
	}
	height := s.Height

	xCentered := 0
	if videoWidth > width {
		xCentered = (videoWidth - width) / 2
	}
	x := xCentered + s.XOffset
	if x < 0 {
		x = 0
	}

	yBottom := 0
	if videoHeight > height {
		yBottom = videoHeight - height
	}
	y := yBottom + s.YOffset
	if y < 0 {
		y = 0
	}

	fontSize := int(math.Round(float64(height) * fontHeightRatio))
	if fontSize < minFontSize {
		fontSize = minFontSize
	}

	return Layout{
		Width:    width,
		Height:   height,
		X:        x,
		Y:        y,
		FontSize: fontSize,
		Margin:   int(math.Round(float64(height) * marginRatio)),
	}
}
