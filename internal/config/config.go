package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/genricoloni/marqueed/internal/pathutil"
	"go.uber.org/zap"
	"gopkg.in/ini.v1"
)

const (
	// DefaultPath is where the configuration is looked up when no path is given
	DefaultPath = "config.ini"

	defaultSignalFile      = "ESEvent.arg"
	defaultSystemsPath     = "."
	defaultAcceptedFormats = "png,jpg,jpeg,gif"

	settingsSection = "Settings"
	commandsSection = "Commands"

	envSignalFile   = "MARQUEED_SIGNAL_FILE"
	envRetroBatPath = "MARQUEED_RETROBAT_PATH"

	retroBatToken = "RetroBatPath"
)

// ErrNoDefaultImage is returned when the terminal fallback image is not usable
var ErrNoDefaultImage = errors.New("default image path is missing")

// Settings is the immutable [Settings] section
type Settings struct {
	DefaultImagePath string

	MarqueeImagePath        string
	MarqueeFilePath         string
	MarqueeImagePathDefault string
	MarqueeFilePathDefault  string
	SystemMarqueePath       string
	SystemFilePath          string
	CollectionMarqueePath   string
	CollectionFilePath      string

	// AcceptedFormats is the ordered list of extensions probed for each candidate
	AcceptedFormats []string

	RetroBatPath      string
	RomsPath          string
	SystemsConfigPath string
	SignalFile        string

	IPCChannel       string
	ScreenNumber     int
	MPVPath          string
	MPVLaunchCommand string
	MPVKillCommand   string
	MPVTestCommand   string

	IMPath           string
	IMConvertCommand string
	MarqueeWidth     int
	MarqueeHeight    int
	MarqueeBorder    int

	DesktopNotifications bool
}

// Commands maps frontend event names to external command templates
type Commands map[string]string

// Lookup returns the template registered for event
func (c Commands) Lookup(event string) (string, bool) {
	tmpl, ok := c[event]
	if !ok || strings.TrimSpace(tmpl) == "" {
		return "", false
	}
	return tmpl, true
}

// Config holds the application configuration. It is loaded once and never mutated.
type Config struct {
	Settings Settings
	Commands Commands
}

// rawSettings mirrors the INI keys before normalization
type rawSettings struct {
	DefaultImagePath        string `ini:"DefaultImagePath"`
	MarqueeImagePath        string `ini:"MarqueeImagePath"`
	MarqueeFilePath         string `ini:"MarqueeFilePath"`
	MarqueeImagePathDefault string `ini:"MarqueeImagePathDefault"`
	MarqueeFilePathDefault  string `ini:"MarqueeFilePathDefault"`
	SystemMarqueePath       string `ini:"SystemMarqueePath"`
	SystemFilePath          string `ini:"SystemFilePath"`
	CollectionMarqueePath   string `ini:"CollectionMarqueePath"`
	CollectionFilePath      string `ini:"CollectionFilePath"`
	AcceptedFormats         string `ini:"AcceptedFormats"`
	RetroBatPath            string `ini:"RetroBatPath"`
	RomsPath                string `ini:"RomsPath"`
	SystemsConfigPath       string `ini:"SystemsConfigPath"`
	SignalFile              string `ini:"SignalFile"`
	IPCChannel              string `ini:"IPCChannel"`
	ScreenNumber            int    `ini:"ScreenNumber"`
	MPVPath                 string `ini:"MPVPath"`
	MPVLaunchCommand        string `ini:"MPVLaunchCommand"`
	MPVKillCommand          string `ini:"MPVKillCommand"`
	MPVTestCommand          string `ini:"MPVTestCommand"`
	IMPath                  string `ini:"IMPath"`
	IMConvertCommand        string `ini:"IMConvertCommand"`
	MarqueeWidth            int    `ini:"MarqueeWidth"`
	MarqueeHeight           int    `ini:"MarqueeHeight"`
	MarqueeBorder           int    `ini:"MarqueeBorder"`
	DesktopNotifications    bool   `ini:"DesktopNotifications"`
}

// NewConfig loads the configuration from path and logs a summary
func NewConfig(logger *zap.Logger, path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	logger.Info("Configuration loaded",
		zap.String("path", path),
		zap.String("defaultImage", cfg.Settings.DefaultImagePath),
		zap.String("signalFile", cfg.Settings.SignalFile),
		zap.Strings("formats", cfg.Settings.AcceptedFormats),
		zap.Int("commands", len(cfg.Commands)))

	return cfg, nil
}

// Load reads an INI file with [Settings] and [Commands] sections
func Load(path string) (*Config, error) {
	file, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:     true,
		IgnoreContinuation:      true,
		PreserveSurroundedQuote: true,
	}, path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	raw := rawSettings{
		AcceptedFormats:   defaultAcceptedFormats,
		SystemsConfigPath: defaultSystemsPath,
		SignalFile:        defaultSignalFile,
	}
	if err := file.Section(settingsSection).StrictMapTo(&raw); err != nil {
		return nil, fmt.Errorf("parse [%s]: %w", settingsSection, err)
	}

	applyEnvOverrides(&raw)

	if raw.RetroBatPath == "" {
		if found, err := lookupRetroBatPath(); err == nil {
			raw.RetroBatPath = found
		}
	}

	commands := make(Commands)
	for key, value := range file.Section(commandsSection).KeysHash() {
		commands[key] = value
	}

	cfg := &Config{
		Settings: normalize(raw),
		Commands: commands,
	}

	if err := validate(&cfg.Settings); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnvOverrides(raw *rawSettings) {
	if v := os.Getenv(envSignalFile); v != "" {
		raw.SignalFile = v
	}
	if v := os.Getenv(envRetroBatPath); v != "" {
		raw.RetroBatPath = v
	}
}

func normalize(raw rawSettings) Settings {
	retroBat := expandPath(raw.RetroBatPath, "")
	dir := func(p string) string {
		return expandPath(p, retroBat)
	}

	return Settings{
		DefaultImagePath:        dir(raw.DefaultImagePath),
		MarqueeImagePath:        dir(raw.MarqueeImagePath),
		MarqueeFilePath:         raw.MarqueeFilePath,
		MarqueeImagePathDefault: dir(raw.MarqueeImagePathDefault),
		MarqueeFilePathDefault:  raw.MarqueeFilePathDefault,
		SystemMarqueePath:       dir(raw.SystemMarqueePath),
		SystemFilePath:          raw.SystemFilePath,
		CollectionMarqueePath:   dir(raw.CollectionMarqueePath),
		CollectionFilePath:      raw.CollectionFilePath,
		AcceptedFormats:         pathutil.ParseExtensions(raw.AcceptedFormats),
		RetroBatPath:            retroBat,
		RomsPath:                dir(raw.RomsPath),
		SystemsConfigPath:       dir(raw.SystemsConfigPath),
		SignalFile:              dir(raw.SignalFile),
		IPCChannel:              raw.IPCChannel,
		ScreenNumber:            raw.ScreenNumber,
		MPVPath:                 dir(raw.MPVPath),
		MPVLaunchCommand:        raw.MPVLaunchCommand,
		MPVKillCommand:          raw.MPVKillCommand,
		MPVTestCommand:          raw.MPVTestCommand,
		IMPath:                  dir(raw.IMPath),
		IMConvertCommand:        raw.IMConvertCommand,
		MarqueeWidth:            raw.MarqueeWidth,
		MarqueeHeight:           raw.MarqueeHeight,
		MarqueeBorder:           raw.MarqueeBorder,
		DesktopNotifications:    raw.DesktopNotifications,
	}
}

// expandPath fills {RetroBatPath}, environment variables and a leading ~
func expandPath(p, retroBat string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}

	if retroBat != "" {
		p = pathutil.Substitute(p, pathutil.Bindings{retroBatToken: retroBat})
	}
	p = os.ExpandEnv(p)

	if strings.HasPrefix(p, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	return p
}

func validate(s *Settings) error {
	if s.DefaultImagePath == "" {
		return ErrNoDefaultImage
	}

	info, err := os.Stat(s.DefaultImagePath)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNoDefaultImage, s.DefaultImagePath, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrNoDefaultImage, s.DefaultImagePath)
	}

	if len(s.AcceptedFormats) == 0 {
		return errors.New("AcceptedFormats lists no extensions")
	}
	return nil
}
