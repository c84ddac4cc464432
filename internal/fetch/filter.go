package fetch

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Directories never descended into: VCS metadata, dependency trees and
// build output.
var excludedDirs = map[string]struct{}{
	".git":         {},
	"node_modules": {},
	"__pycache__":  {},
	".venv":        {},
	"venv":         {},
	"env":          {},
	"vendor":       {},
	"dist":         {},
	"build":        {},
	"target":       {},
	".idea":        {},
	".vscode":      {},
}

// Extensions that mark binary or media content.
var excludedExtensions = map[string]struct{}{
	".pyc": {}, ".pyo": {}, ".pyd": {}, ".so": {}, ".dll": {}, ".exe": {}, ".bin": {},
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".svg": {}, ".ico": {},
	".pdf": {}, ".zip": {}, ".tar": {}, ".gz": {}, ".mp4": {}, ".mp3": {},
	".woff": {}, ".woff2": {}, ".ttf": {}, ".eot": {},
}

// Extensions considered documentable source.
var codeExtensions = map[string]struct{}{
	".py": {}, ".js": {}, ".ts": {}, ".jsx": {}, ".tsx": {}, ".go": {}, ".rs": {},
	".java": {}, ".cpp": {}, ".c": {}, ".h": {}, ".hpp": {}, ".cs": {}, ".rb": {},
	".php": {}, ".swift": {}, ".kt": {}, ".scala": {}, ".md": {}, ".json": {},
	".yaml": {}, ".yml": {}, ".toml": {}, ".xml": {}, ".html": {}, ".css": {},
	".sh": {}, ".sql": {},
}

// Extension-less files still worth documenting.
var allowedNames = map[string]struct{}{
	"Dockerfile": {},
	"Makefile":   {},
	"LICENSE":    {},
}

// eligible reports whether a file name passes the extension filter.
func eligible(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if _, bad := excludedExtensions[ext]; bad {
		return false
	}
	if _, ok := codeExtensions[ext]; ok {
		return true
	}
	_, ok := allowedNames[name]
	return ok
}

// collectPaths walks root and returns relative paths of eligible files
// in lexicographic order. Oversized files are skipped entirely to bound
// per-file token cost.
func collectPaths(root string, maxBytes int64) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if _, skip := excludedDirs[d.Name()]; skip {
				return filepath.SkipDir
			}
			return nil
		}
		if !eligible(d.Name()) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.Size() > maxBytes {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	return paths, err
}

// readCandidate loads one file, rejecting empty and non-text content.
func readCandidate(root, rel string) (Candidate, bool, error) {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return Candidate{}, false, err
	}
	content := string(data)
	if strings.TrimSpace(content) == "" {
		return Candidate{}, false, nil
	}
	if !utf8.ValidString(content) || strings.ContainsRune(content, 0) {
		return Candidate{}, false, nil
	}
	return Candidate{Path: rel, Content: content, Size: int64(len(data))}, true, nil
}

// Priority buckets, most important first.
var (
	docPatterns = []string{"readme", "changelog", "contributing"}
	mainNames   = map[string]struct{}{
		"main.py": {}, "app.py": {}, "server.py": {},
		"index.js": {}, "index.ts": {}, "index.tsx": {},
		"main.js": {}, "main.ts": {}, "app.js": {}, "app.ts": {},
		"main.go": {},
	}
	configPatterns = []string{
		"package.json", "requirements.txt", "dockerfile", "docker-compose",
		"setup.py", "pyproject.toml", "cargo.toml", "go.mod", "pom.xml",
		"tsconfig.json", "makefile",
	}
	coreDirs = []string{"/src/", "/app/", "/lib/", "/components/", "/core/", "/internal/", "/cmd/"}
)

// Prioritize reorders paths so README and docs come first, then entry
// points, then configuration, then core source directories, then the
// rest. Ordering within each bucket is preserved, so the overall result
// stays deterministic for a given input order.
func Prioritize(paths []string) []string {
	var docs, mains, configs, core, other []string

	for _, p := range paths {
		lower := strings.ToLower(p)
		base := strings.ToLower(filepath.Base(p))

		switch {
		case containsAny(lower, docPatterns):
			docs = append(docs, p)
		case hasName(base, mainNames):
			mains = append(mains, p)
		case containsAny(lower, configPatterns):
			configs = append(configs, p)
		case containsAny("/"+lower, coreDirs):
			core = append(core, p)
		default:
			other = append(other, p)
		}
	}

	out := make([]string, 0, len(paths))
	out = append(out, docs...)
	out = append(out, mains...)
	out = append(out, configs...)
	out = append(out, core...)
	out = append(out, other...)
	return out
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func hasName(base string, names map[string]struct{}) bool {
	_, ok := names[base]
	return ok
}
