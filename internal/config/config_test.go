package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
)

// writeConfig creates a config.ini in a temp dir, with {dir} replaced by that dir
func writeConfig(t *testing.T, body string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.ini")
	body = strings.ReplaceAll(body, "{dir}", dir)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path, dir
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	path, dir := writeConfig(t, `
[Settings]
DefaultImagePath = {dir}/default.png
MarqueeImagePath = {RetroBatPath}/marquees
MarqueeFilePath = {system_name}/{game_name}
SystemMarqueePath = {dir}/systems
SystemFilePath = {system_name}
AcceptedFormats = png, jpg
RetroBatPath = {dir}/retrobat
IPCChannel = mpv-pipe
ScreenNumber = 2
MPVLaunchCommand = "{MPVPath}" --input-ipc-server={IPCChannel} # keep this
MarqueeWidth = 1920
MarqueeHeight = 360
DesktopNotifications = true

[Commands]
game-selected = echo loadfile "{marquee_file}" ; echo done
`)
	touch(t, filepath.Join(dir, "default.png"))

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := cfg.Settings
	if s.DefaultImagePath != filepath.Join(dir, "default.png") {
		t.Errorf("DefaultImagePath: got %q", s.DefaultImagePath)
	}
	if want := filepath.Join(dir, "retrobat") + "/marquees"; s.MarqueeImagePath != want {
		t.Errorf("MarqueeImagePath: expected %q, got %q", want, s.MarqueeImagePath)
	}
	if s.MarqueeFilePath != "{system_name}/{game_name}" {
		t.Errorf("templates must not be expanded, got %q", s.MarqueeFilePath)
	}
	if !reflect.DeepEqual(s.AcceptedFormats, []string{"png", "jpg"}) {
		t.Errorf("AcceptedFormats: got %v", s.AcceptedFormats)
	}
	if s.ScreenNumber != 2 || s.MarqueeWidth != 1920 || s.MarqueeHeight != 360 {
		t.Errorf("numeric settings not mapped: %+v", s)
	}
	if !s.DesktopNotifications {
		t.Error("DesktopNotifications should be true")
	}
	if !strings.HasSuffix(s.MPVLaunchCommand, "# keep this") {
		t.Errorf("inline comment must be kept in commands, got %q", s.MPVLaunchCommand)
	}
	if s.SignalFile != defaultSignalFile {
		t.Errorf("SignalFile default: got %q", s.SignalFile)
	}

	tmpl, ok := cfg.Commands.Lookup("game-selected")
	if !ok {
		t.Fatal("game-selected command missing")
	}
	if tmpl != `echo loadfile "{marquee_file}" ; echo done` {
		t.Errorf("command template mangled: %q", tmpl)
	}
	if _, ok := cfg.Commands.Lookup("system-selected"); ok {
		t.Error("system-selected should not be registered")
	}
}

func TestLoad_Defaults(t *testing.T) {
	path, dir := writeConfig(t, `
[Settings]
DefaultImagePath = {dir}/default.png
`)
	touch(t, filepath.Join(dir, "default.png"))

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(cfg.Settings.AcceptedFormats, []string{"png", "jpg", "jpeg", "gif"}) {
		t.Errorf("unexpected default formats %v", cfg.Settings.AcceptedFormats)
	}
	if cfg.Settings.SystemsConfigPath != defaultSystemsPath {
		t.Errorf("unexpected systems path %q", cfg.Settings.SystemsConfigPath)
	}
	if len(cfg.Commands) != 0 {
		t.Errorf("expected empty command table, got %v", cfg.Commands)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		createDefault bool
		expectNoImage bool
		expectedError string
	}{
		{
			name:          "Missing DefaultImagePath",
			body:          "[Settings]\nIPCChannel = x\n",
			expectNoImage: true,
		},
		{
			name:          "DefaultImagePath Does Not Exist",
			body:          "[Settings]\nDefaultImagePath = {dir}/nope.png\n",
			expectNoImage: true,
		},
		{
			name:          "DefaultImagePath Is A Directory",
			body:          "[Settings]\nDefaultImagePath = {dir}\n",
			expectNoImage: true,
		},
		{
			name:          "Empty Format List",
			body:          "[Settings]\nDefaultImagePath = {dir}/default.png\nAcceptedFormats = , ,\n",
			createDefault: true,
			expectedError: "AcceptedFormats",
		},
		{
			name:          "Invalid Integer",
			body:          "[Settings]\nDefaultImagePath = {dir}/default.png\nMarqueeWidth = wide\n",
			createDefault: true,
			expectedError: "parse [Settings]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, dir := writeConfig(t, tt.body)
			if tt.createDefault {
				touch(t, filepath.Join(dir, "default.png"))
			}

			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.expectNoImage && !errors.Is(err, ErrNoDefaultImage) {
				t.Errorf("expected ErrNoDefaultImage, got %v", err)
			}
			if tt.expectedError != "" && !strings.Contains(err.Error(), tt.expectedError) {
				t.Errorf("expected error containing %q, got %v", tt.expectedError, err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.ini")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path, dir := writeConfig(t, `
[Settings]
DefaultImagePath = {dir}/default.png
SignalFile = {dir}/from-file.arg
`)
	touch(t, filepath.Join(dir, "default.png"))
	override := filepath.Join(dir, "from-env.arg")
	t.Setenv(envSignalFile, override)

	cfg, err := NewConfig(zap.NewNop(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Settings.SignalFile != override {
		t.Errorf("expected env override %q, got %q", override, cfg.Settings.SignalFile)
	}
}
