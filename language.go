package main

import (
	"path/filepath"
	"strings"
)

// LanguageInfo describes one counted file type.
type LanguageInfo struct {
	Name string
	Type string // programming, markup, data or style
}

// allowedExtensions is the fixed set of extensions that are counted. Matching is
// case-sensitive: "RS" and "Json" are not counted.
var allowedExtensions = map[string]LanguageInfo{
	"ts":   {Name: "TypeScript", Type: "programming"},
	"tsx":  {Name: "TSX", Type: "programming"},
	"md":   {Name: "Markdown", Type: "markup"},
	"rs":   {Name: "Rust", Type: "programming"},
	"py":   {Name: "Python", Type: "programming"},
	"js":   {Name: "JavaScript", Type: "programming"},
	"jsx":  {Name: "JSX", Type: "programming"},
	"html": {Name: "HTML", Type: "markup"},
	"css":  {Name: "CSS", Type: "style"},
	"scss": {Name: "SCSS", Type: "style"},
	"json": {Name: "JSON", Type: "data"},
	"yaml": {Name: "YAML", Type: "data"},
	"yml":  {Name: "YAML", Type: "data"},
	"toml": {Name: "TOML", Type: "data"},
}

// fileExtension returns the text after the final '.' of the base name.
// A name whose only dot is the leading one (".gitignore") has no extension.
func fileExtension(path string) (string, bool) {
	base := filepath.Base(path)
	idx := strings.LastIndexByte(base, '.')
	if idx <= 0 {
		return "", false
	}
	return base[idx+1:], true
}

// classifyFile reports whether path is a counted file and returns its extension.
// path must not be a directory.
func classifyFile(path string) (string, bool) {
	ext, ok := fileExtension(path)
	if !ok {
		return "", false
	}
	if _, known := allowedExtensions[ext]; !known {
		return "", false
	}
	return ext, true
}

// languageName returns the display name for an allowed extension.
func languageName(ext string) string {
	if info, ok := allowedExtensions[ext]; ok {
		return info.Name
	}
	return ""
}
