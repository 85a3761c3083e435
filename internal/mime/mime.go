// Package mime maps file names to the content types sent in responses.
package mime

import (
	"path/filepath"
	"strings"
)

// Default is returned for unknown or missing extensions.
const Default = "application/octet-stream"

// types is keyed by lower-case extension without the leading dot.
var types = map[string]string{
	"css":  "text/css",
	"html": "text/html",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"js":   "text/javascript",
	"md":   "text/markdown",
	"png":  "image/png",
	"svg":  "image/svg+xml",
	"txt":  "text/plain",
}

// ContentType returns the content type for path based on its extension alone.
// The file is never opened. Matching ignores ASCII case only.
func ContentType(path string) string {
	ext, ok := extension(path)
	if !ok {
		return Default
	}
	if t, ok := types[asciiLower(ext)]; ok {
		return t
	}
	return Default
}

// extension returns the text after the last dot of the final path element.
// A name whose only dot is the leading one (".profile") has no extension.
func extension(path string) (string, bool) {
	name := filepath.Base(path)
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return "", false
	}
	return name[i+1:], true
}

// asciiLower lowers A-Z and leaves every other byte alone, so characters
// such as U+017F (long s) never match an ASCII extension.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}
