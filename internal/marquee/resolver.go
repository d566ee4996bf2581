// Package marquee resolves system, game and collection selections to image files.
package marquee

import (
	"github.com/genricoloni/marqueed/internal/config"
	"github.com/genricoloni/marqueed/internal/domain"
	"github.com/genricoloni/marqueed/internal/pathutil"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Template placeholders understood by the marquee file templates
const (
	SystemNameToken     = "system_name"
	GameNameToken       = "game_name"
	CollectionNameToken = "collection_name"
)

// FolderLookup maps a system name to its folder name
type FolderLookup interface {
	Folder(system string) string
}

// Resolver applies the fallback search for a marquee request:
// game, game default, system, then the global default image.
type Resolver struct {
	logger   *zap.Logger
	fs       afero.Fs
	settings *config.Settings
	systems  FolderLookup
}

// NewResolver creates a resolver over fs using the configured templates
func NewResolver(logger *zap.Logger, fs afero.Fs, cfg *config.Config, systems FolderLookup) *Resolver {
	return &Resolver{
		logger:   logger,
		fs:       fs,
		settings: &cfg.Settings,
		systems:  systems,
	}
}

// Resolve returns the first existing candidate for req, or the default image
func (r *Resolver) Resolve(req domain.MarqueeRequest) string {
	var (
		path  string
		found bool
	)

	switch req.Kind {
	case domain.KindSystem:
		path, found = r.findSystem(req.System)
	case domain.KindGame:
		path, found = r.findGame(req.System, req.Game)
	case domain.KindCollection:
		path, found = r.findCollection(req.Collection)
	}

	if !found {
		r.logger.Debug("No marquee found, using default",
			zap.Stringer("kind", req.Kind),
			zap.String("system", req.System),
			zap.String("game", req.Game),
			zap.String("collection", req.Collection))
		return r.settings.DefaultImagePath
	}

	r.logger.Debug("Marquee resolved",
		zap.Stringer("kind", req.Kind),
		zap.String("path", path))
	return path
}

func (r *Resolver) findSystem(system string) (string, bool) {
	bindings := pathutil.Bindings{SystemNameToken: r.systems.Folder(system)}
	return r.probe(r.settings.SystemMarqueePath, r.settings.SystemFilePath, bindings)
}

func (r *Resolver) findGame(system, game string) (string, bool) {
	bindings := pathutil.Bindings{
		SystemNameToken: r.systems.Folder(system),
		GameNameToken:   game,
	}

	if path, ok := r.probe(r.settings.MarqueeImagePath, r.settings.MarqueeFilePath, bindings); ok {
		return path, true
	}
	if path, ok := r.probe(r.settings.MarqueeImagePathDefault, r.settings.MarqueeFilePathDefault, bindings); ok {
		return path, true
	}
	return r.findSystem(system)
}

func (r *Resolver) findCollection(collection string) (string, bool) {
	bindings := pathutil.Bindings{CollectionNameToken: collection}
	return r.probe(r.settings.CollectionMarqueePath, r.settings.CollectionFilePath, bindings)
}

// probe fills template, joins it under dir and tries each accepted extension.
// An unset template never matches.
func (r *Resolver) probe(dir, template string, bindings pathutil.Bindings) (string, bool) {
	if template == "" {
		return "", false
	}

	base := pathutil.Join(dir, pathutil.Substitute(template, bindings))
	return pathutil.ProbeExtensions(r.fs, base, r.settings.AcceptedFormats)
}
