// Package pathutil fills brace-delimited placeholders in path and command
// templates and probes the filesystem for files with accepted extensions.
package pathutil

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// Bindings maps placeholder names (without braces) to their values
type Bindings map[string]string

// Substitute replaces every {name} token in template with its bound value.
// Tokens without a binding are left untouched. Replacement is single-pass,
// so a value containing a token is never expanded again.
func Substitute(template string, bindings Bindings) string {
	if len(bindings) == 0 || !strings.Contains(template, "{") {
		return template
	}

	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names)*2)
	for _, name := range names {
		pairs = append(pairs, "{"+name+"}", bindings[name])
	}

	return strings.NewReplacer(pairs...).Replace(template)
}

// ParseExtensions splits a comma-separated extension list such as
// "png, jpg,.gif" into clean extensions ("png", "jpg", "gif"), keeping order.
func ParseExtensions(list string) []string {
	var exts []string
	for _, raw := range strings.Split(list, ",") {
		ext := strings.TrimPrefix(strings.TrimSpace(raw), ".")
		if ext == "" {
			continue
		}
		exts = append(exts, ext)
	}
	return exts
}

// ProbeExtensions appends each extension to base, in order, and returns the
// first resulting path that exists as a regular file. Later extensions are
// not checked once a match is found.
func ProbeExtensions(fs afero.Fs, base string, exts []string) (string, bool) {
	for _, ext := range exts {
		ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
		if ext == "" {
			continue
		}

		candidate := base + "." + ext
		info, err := fs.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		return candidate, true
	}
	return "", false
}

// Join builds dir/relative where relative comes from a filled template.
// Both separators are accepted in relative so Windows-style templates work everywhere.
func Join(dir, relative string) string {
	return filepath.Join(dir, filepath.FromSlash(strings.ReplaceAll(relative, `\`, "/")))
}
