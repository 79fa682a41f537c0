package overlay

const (
	// DefaultHeight is the initial overlay band height in pixels.
	DefaultHeight = 200

	// fallbackWidth seeds the width the first time it is adjusted away
	// from "match video width".
	fallbackWidth = 1920

	adjustStep = 10
)

// Settings holds the user-adjustable overlay placement parameters. A zero
// Width means "match the video width".
type Settings struct {
	Height  int
	Width   int
	XOffset int
	YOffset int
}

// DefaultSettings returns the session-start settings.
func DefaultSettings() Settings {
	return Settings{Height: DefaultHeight}
}

// Reset restores the defaults.
func (s *Settings) Reset() {
	*s = DefaultSettings()
}

// GrowHeight increases the overlay height by one step.
func (s *Settings) GrowHeight() {
	s.Height += adjustStep
}

// ShrinkHeight decreases the overlay height by one step, saturating at zero.
func (s *Settings) ShrinkHeight() {
	s.Height -= adjustStep
	if s.Height < 0 {
		s.Height = 0
	}
}

// GrowWidth increases the overlay width by one step. When the width is
// still "match video", it is first pinned to the fallback.
func (s *Settings) GrowWidth() {
	if s.Width == 0 {
		s.Width = fallbackWidth
		return
	}
	s.Width += adjustStep
}

// ShrinkWidth decreases the overlay width by one step, saturating at zero.
func (s *Settings) ShrinkWidth() {
	if s.Width == 0 {
		s.Width = fallbackWidth
	}
	s.Width -= adjustStep
	if s.Width < 0 {
		s.Width = 0
	}
}

// NudgeX shifts the horizontal offset by one signed step.
func (s *Settings) NudgeX(direction int) {
	s.XOffset += direction * adjustStep
}

// NudgeY shifts the vertical offset by one signed step.
func (s *Settings) NudgeY(direction int) {
	s.YOffset += direction * adjustStep
}
