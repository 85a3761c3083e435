package server

import (
	"os"
	"path/filepath"
	"strings"
)

const indexFile = "index.html"

// target is a path under the root that exists on disk.
type target struct {
	path  string
	isDir bool
}

// resolve maps a request resource onto the root. It returns false when the
// path does not exist or when it, or a symlink along it, leads outside the
// root. Those two cases are indistinguishable to the client.
func (s *Server) resolve(resource string) (target, bool) {
	rel := strings.TrimPrefix(resource, "/")

	path := s.root
	if rel != "" {
		if !filepath.IsLocal(rel) {
			return target{}, false
		}
		path = filepath.Join(s.root, rel)
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return target{}, false
	}
	if !within(s.root, resolved) {
		return target{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return target{}, false
	}
	// Join drops the trailing slash, but "file.txt/" names no file.
	if !info.IsDir() && strings.HasSuffix(rel, "/") {
		return target{}, false
	}
	return target{path: path, isDir: info.IsDir()}, true
}

// indexFor returns the index file of dir. It returns false only when the
// index exists and resolves outside the root; a missing index is left for
// the open to report.
func (s *Server) indexFor(dir string) (string, bool) {
	path := filepath.Join(dir, indexFile)
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return path, true
	}
	return path, within(s.root, resolved)
}

// needsRedirect reports whether a directory was requested without the
// trailing slash.
func needsRedirect(t target, resource string) bool {
	return t.isDir && !strings.HasSuffix(resource, "/")
}

// redirectLocation is the slash-terminated URL of a directory under the root.
func (s *Server) redirectLocation(dir string) string {
	rel, err := filepath.Rel(s.root, dir)
	if err != nil || rel == "." {
		return "/"
	}
	return "/" + filepath.ToSlash(rel) + "/"
}

// within reports whether path is root or one of its descendants.
// Both arguments must be clean absolute paths.
func within(root, path string) bool {
	if path == root {
		return true
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return filepath.IsLocal(rel)
}
