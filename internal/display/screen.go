// Package display works out the size of the generated marquee images.
package display

import (
	"github.com/genricoloni/marqueed/internal/config"
	"github.com/genricoloni/marqueed/internal/domain"
	"github.com/kbinani/screenshot"
	"go.uber.org/zap"
)

const (
	fallbackWidth  = 1920
	fallbackHeight = 360
)

// Display queries, swapped out in tests
var (
	numDisplays   = screenshot.NumActiveDisplays
	displayBounds = screenshot.GetDisplayBounds
)

// NewMarqueeResolution returns the configured marquee size. Unset dimensions
// are taken from the bounds of the marquee screen.
func NewMarqueeResolution(logger *zap.Logger, cfg *config.Config) *domain.ScreenResolution {
	res := &domain.ScreenResolution{
		Width:  cfg.Settings.MarqueeWidth,
		Height: cfg.Settings.MarqueeHeight,
	}
	if res.Width > 0 && res.Height > 0 {
		return res
	}

	detected := detect(logger, cfg.Settings.ScreenNumber)
	if res.Width <= 0 {
		res.Width = detected.Width
	}
	if res.Height <= 0 {
		res.Height = detected.Height
	}

	logger.Info("Marquee resolution",
		zap.Int("width", res.Width),
		zap.Int("height", res.Height))

	return res
}

func detect(logger *zap.Logger, screen int) domain.ScreenResolution {
	n := numDisplays()
	if n <= 0 {
		logger.Warn("No active displays detected, falling back to 1920x360")
		return domain.ScreenResolution{Width: fallbackWidth, Height: fallbackHeight}
	}

	if screen < 0 || screen >= n {
		logger.Warn("Marquee screen not found, using primary display",
			zap.Int("screen", screen),
			zap.Int("displays", n))
		screen = 0
	}

	bounds := displayBounds(screen)
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return domain.ScreenResolution{Width: fallbackWidth, Height: fallbackHeight}
	}

	logger.Debug("Screen resolution detected",
		zap.Int("screen", screen),
		zap.Int("width", bounds.Dx()),
		zap.Int("height", bounds.Dy()))

	return domain.ScreenResolution{Width: bounds.Dx(), Height: bounds.Dy()}
}
