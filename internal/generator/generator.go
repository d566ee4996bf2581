// Package generator builds game marquees from the fanart and logo scraped
// into the ROM folders.
package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // GIF format support
	_ "image/jpeg" // JPEG format support
	_ "image/png"  // PNG format support
	"path/filepath"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/genricoloni/marqueed/internal/config"
	"github.com/genricoloni/marqueed/internal/domain"
	"github.com/genricoloni/marqueed/internal/marquee"
	"github.com/genricoloni/marqueed/internal/pathutil"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp" // WebP format support
)

// Placeholders understood by IMConvertCommand
const (
	IMPathToken        = "IMPath"
	FanartPathToken    = "FanartPath"
	LogoPathToken      = "LogoPath"
	ImgTargetPathToken = "ImgTargetPath"
	WidthToken         = "MarqueeWidth"
	HeightToken        = "MarqueeHeight"
	BorderToken        = "MarqueeBorder"
)

const (
	imagesDir       = "images"
	fanartSuffix    = "-fanart"
	logoSuffix      = "-marquee"
	generatedSuffix = "-generated.png"
)

var (
	// ErrMissingArtwork is returned when the fanart or the logo of a game cannot be found
	ErrMissingArtwork = errors.New("missing source artwork")
	// ErrNoOutput is returned when the external compositor did not write the target
	ErrNoOutput = errors.New("compositor produced no image")
)

// Compositor writes <system>-<game>-generated.png into the marquee directory,
// either through the configured ImageMagick command or natively
type Compositor struct {
	logger   *zap.Logger
	fs       afero.Fs
	runner   domain.Runner
	settings *config.Settings
	systems  marquee.FolderLookup
	res      *domain.ScreenResolution
}

// NewCompositor creates a marquee generator. res is the output size.
func NewCompositor(
	logger *zap.Logger,
	fs afero.Fs,
	cfg *config.Config,
	runner domain.Runner,
	systems marquee.FolderLookup,
	res *domain.ScreenResolution,
) *Compositor {
	return &Compositor{
		logger:   logger,
		fs:       fs,
		runner:   runner,
		settings: &cfg.Settings,
		systems:  systems,
		res:      res,
	}
}

// Generate builds the marquee for game and returns the path of the new image.
// Both the fanart and the logo must exist, otherwise nothing is written.
func (c *Compositor) Generate(ctx context.Context, system, game string) (string, error) {
	if system == "" || game == "" {
		return "", fmt.Errorf("%w: no game selected", ErrMissingArtwork)
	}

	sourceDir := filepath.Join(c.settings.RomsPath, c.systems.Folder(system), imagesDir)

	fanart, ok := pathutil.ProbeExtensions(c.fs, filepath.Join(sourceDir, game+fanartSuffix), c.settings.AcceptedFormats)
	if !ok {
		return "", fmt.Errorf("%w: no fanart for %s/%s in %s", ErrMissingArtwork, system, game, sourceDir)
	}

	logo, ok := pathutil.ProbeExtensions(c.fs, filepath.Join(sourceDir, game+logoSuffix), c.settings.AcceptedFormats)
	if !ok {
		return "", fmt.Errorf("%w: no logo for %s/%s in %s", ErrMissingArtwork, system, game, sourceDir)
	}

	if err := c.fs.MkdirAll(c.settings.MarqueeImagePath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create marquee directory: %w", err)
	}
	target := filepath.Join(c.settings.MarqueeImagePath, system+"-"+game+generatedSuffix)

	c.logger.Debug("Generating marquee",
		zap.String("fanart", fanart),
		zap.String("logo", logo),
		zap.String("target", target))

	var err error
	if c.settings.IMConvertCommand != "" {
		err = c.runCommand(ctx, fanart, logo, target)
	} else {
		err = c.compose(fanart, logo, target)
	}
	if err != nil {
		return "", err
	}

	info, err := c.fs.Stat(target)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNoOutput, target)
	}

	c.logger.Info("Marquee generated",
		zap.String("path", target),
		zap.String("size", humanize.Bytes(uint64(info.Size()))))

	return target, nil
}

func (c *Compositor) runCommand(ctx context.Context, fanart, logo, target string) error {
	command := pathutil.Substitute(c.settings.IMConvertCommand, pathutil.Bindings{
		IMPathToken:        c.settings.IMPath,
		FanartPathToken:    fanart,
		LogoPathToken:      logo,
		ImgTargetPathToken: target,
		WidthToken:         strconv.Itoa(c.res.Width),
		HeightToken:        strconv.Itoa(c.res.Height),
		BorderToken:        strconv.Itoa(c.settings.MarqueeBorder),
	})

	if err := c.runner.Run(ctx, command); err != nil {
		return fmt.Errorf("compositor command failed: %w", err)
	}
	return nil
}

// compose fills the marquee with the fanart and centers the logo inside the border
func (c *Compositor) compose(fanartPath, logoPath, target string) error {
	fanart, err := c.decode(fanartPath)
	if err != nil {
		return err
	}
	logo, err := c.decode(logoPath)
	if err != nil {
		return err
	}

	width, height := c.res.Width, c.res.Height
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid marquee size: %dx%d", width, height)
	}

	background := imaging.Fill(fanart, width, height, imaging.Center, imaging.Lanczos)

	border := c.settings.MarqueeBorder
	innerW, innerH := width-2*border, height-2*border
	if border < 0 || innerW <= 0 || innerH <= 0 {
		innerW, innerH = width, height
	}

	fitted := imaging.Fit(logo, innerW, innerH, imaging.Lanczos)
	b := fitted.Bounds()
	pos := image.Pt((width-b.Dx())/2, (height-b.Dy())/2)
	result := imaging.Overlay(background, fitted, pos, 1.0)

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, result, imaging.PNG); err != nil {
		return fmt.Errorf("failed to encode marquee: %w", err)
	}

	if err := afero.WriteFile(c.fs, target, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write marquee: %w", err)
	}
	return nil
}

func (c *Compositor) decode(path string) (image.Image, error) {
	f, err := c.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, fmt.Errorf("invalid image dimensions in %s: %dx%d", path, bounds.Dx(), bounds.Dy())
	}
	return img, nil
}
