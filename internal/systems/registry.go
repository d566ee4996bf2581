// Package systems maps EmulationStation system names to their ROM folder names.
package systems

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
)

const (
	filePattern = "es_systems*.cfg"

	systemListElement = "systemList"
	systemElement     = "system"
	nameElement       = "name"
	pathElement       = "path"
)

// Registry is a read-only lookup from system name to folder name
type Registry struct {
	folders map[string]string
}

// NewRegistry builds a registry from an explicit mapping
func NewRegistry(folders map[string]string) *Registry {
	copied := make(map[string]string, len(folders))
	for name, folder := range folders {
		copied[name] = folder
	}
	return &Registry{folders: copied}
}

// Load reads every es_systems*.cfg file in dir. Files are applied in name
// order so a later file overrides an earlier one for the same system.
// A missing directory yields an empty registry; a malformed file is an error.
func Load(logger *zap.Logger, dir string) (*Registry, error) {
	files, err := filepath.Glob(filepath.Join(dir, filePattern))
	if err != nil {
		return nil, fmt.Errorf("invalid systems pattern in %s: %w", dir, err)
	}
	sort.Strings(files)

	folders := make(map[string]string)
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}

		count, err := parseInto(folders, data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}

		logger.Debug("Systems file loaded",
			zap.String("file", file),
			zap.Int("systems", count))
	}

	logger.Info("System registry ready",
		zap.String("dir", dir),
		zap.Int("files", len(files)),
		zap.Int("systems", len(folders)))

	return &Registry{folders: folders}, nil
}

// Parse builds a registry from a single es_systems document
func Parse(data []byte) (*Registry, error) {
	folders := make(map[string]string)
	if _, err := parseInto(folders, data); err != nil {
		return nil, err
	}
	return &Registry{folders: folders}, nil
}

func parseInto(folders map[string]string, data []byte) (int, error) {
	document := etree.NewDocument()
	if err := document.ReadFromBytes(data); err != nil {
		return 0, err
	}

	root := document.SelectElement(systemListElement)
	if root == nil {
		return 0, fmt.Errorf("missing <%s> root element", systemListElement)
	}

	count := 0
	for _, system := range root.SelectElements(systemElement) {
		nameEl := system.SelectElement(nameElement)
		pathEl := system.SelectElement(pathElement)
		if nameEl == nil || pathEl == nil {
			continue
		}

		name := strings.TrimSpace(nameEl.Text())
		folder := folderName(pathEl.Text())
		if name == "" || folder == "" {
			continue
		}

		folders[name] = folder
		count++
	}
	return count, nil
}

// folderName returns the last element of a system path such as
// "~/../roms/snes" or `~\..\roms\snes`
func folderName(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), `\`, "/")
	p = strings.TrimPrefix(p, "~/")
	p = strings.TrimRight(p, "/")
	if p == "" || p == "~" {
		return ""
	}

	base := path.Base(p)
	if base == "." || base == ".." || base == "/" {
		return ""
	}
	return base
}

// Folder returns the folder name for system, or system itself when unknown
func (r *Registry) Folder(system string) string {
	if r != nil {
		if folder, ok := r.folders[system]; ok {
			return folder
		}
	}
	return system
}

// Len returns the number of known systems
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.folders)
}
