package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyFile(t *testing.T) {
	tests := []struct {
		path    string
		wantExt string
		wantOK  bool
	}{
		{path: "src/lib.rs", wantExt: "rs", wantOK: true},
		{path: "app/index.tsx", wantExt: "tsx", wantOK: true},
		{path: "README.md", wantExt: "md", wantOK: true},
		{path: "config/app.yml", wantExt: "yml", wantOK: true},
		{path: "Cargo.toml", wantExt: "toml", wantOK: true},
		{path: "web/.eslintrc.json", wantExt: "json", wantOK: true},
		{path: "archive.tar.json", wantExt: "json", wantOK: true},
		{path: "image.png", wantOK: false},
		{path: "main.go", wantOK: false},
		{path: "Makefile", wantOK: false},
		{path: ".gitignore", wantOK: false},
		{path: ".json", wantOK: false},
		{path: "notes.", wantOK: false},
		{path: "LIB.RS", wantOK: false},
		{path: "data.Json", wantOK: false},
		{path: "dir.rs/file", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			ext, ok := classifyFile(tt.path)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantExt, ext)
		})
	}
}

func TestAllowedExtensionsAreFixed(t *testing.T) {
	want := []string{"ts", "tsx", "md", "rs", "py", "js", "jsx", "html", "css", "scss", "json", "yaml", "yml", "toml"}
	assert.Len(t, allowedExtensions, len(want))
	for _, ext := range want {
		assert.NotEmpty(t, languageName(ext), "missing language for %s", ext)
	}
	assert.Empty(t, languageName("go"))
}
