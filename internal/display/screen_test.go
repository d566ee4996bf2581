package display

import (
	"image"
	"testing"

	"github.com/genricoloni/marqueed/internal/config"
	"github.com/genricoloni/marqueed/internal/domain"
	"go.uber.org/zap"
)

func stubDisplays(t *testing.T, screens ...image.Rectangle) {
	t.Helper()
	origNum, origBounds := numDisplays, displayBounds
	t.Cleanup(func() {
		numDisplays, displayBounds = origNum, origBounds
	})

	numDisplays = func() int { return len(screens) }
	displayBounds = func(i int) image.Rectangle { return screens[i] }
}

func TestNewMarqueeResolution(t *testing.T) {
	primary := image.Rect(0, 0, 2560, 1440)
	marquee := image.Rect(2560, 0, 2560+1280, 390)

	tests := []struct {
		name     string
		width    int
		height   int
		screen   int
		screens  []image.Rectangle
		expected domain.ScreenResolution
	}{
		{
			name:     "Configured Size Wins",
			width:    1920,
			height:   480,
			screens:  []image.Rectangle{primary},
			expected: domain.ScreenResolution{Width: 1920, Height: 480},
		},
		{
			name:     "Marquee Screen Bounds",
			screen:   1,
			screens:  []image.Rectangle{primary, marquee},
			expected: domain.ScreenResolution{Width: 1280, Height: 390},
		},
		{
			name:     "Only Height Configured",
			height:   300,
			screen:   1,
			screens:  []image.Rectangle{primary, marquee},
			expected: domain.ScreenResolution{Width: 1280, Height: 300},
		},
		{
			name:     "Unknown Screen Uses Primary",
			screen:   4,
			screens:  []image.Rectangle{primary},
			expected: domain.ScreenResolution{Width: 2560, Height: 1440},
		},
		{
			name:     "No Displays",
			expected: domain.ScreenResolution{Width: 1920, Height: 360},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubDisplays(t, tt.screens...)

			cfg := &config.Config{Settings: config.Settings{
				MarqueeWidth:  tt.width,
				MarqueeHeight: tt.height,
				ScreenNumber:  tt.screen,
			}}

			got := NewMarqueeResolution(zap.NewNop(), cfg)
			if *got != tt.expected {
				t.Errorf("expected %+v, got %+v", tt.expected, *got)
			}
		})
	}
}
