package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"./icon.svg?raw", "./icon.svg"},
		{"./worker?worker&inline", "./worker"},
		{"./plain", "./plain"},
		{"?", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, StripQuery(tt.in))
		})
	}
}

func TestQuerySuffix(t *testing.T) {
	assert.Equal(t, "?raw", QuerySuffix("./icon.svg?raw"))
	assert.Equal(t, "", QuerySuffix("./icon.svg"))
}

func TestStripExtension(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Widget.vue", "Widget"},
		{"foo.d.ts", "foo.d"},
		{"index.tsx", "index"},
		{"noext", "noext"},
		{"trailing.", "trailing."},
		{".hidden", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, StripExtension(tt.in))
		})
	}
}

func TestHasExtension(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"./foo.ts", true},
		{"./foo.d.ts", true},
		{"../data/config.json", true},
		{"./x", false},
		{"./", false},
		{"..", false},
		{"./dir.name/file", false},
		{`.\win\file.js`, true},
		{"./user.service", false},
		{"./app.component", false},
		{"./Button.styles", false},
		{"./Button.styles.css", true},
		{"./logo.SVG", true},
		{"./foo.", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, HasExtension(tt.in))
		})
	}
}

func TestEnsureRelativePrefix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"foo.ts", "./foo.ts"},
		{"q/foo", "./q/foo"},
		{"./q/foo", "./q/foo"},
		{"../q/foo.ts", "../q/foo.ts"},
		{"..", ".."},
		{".hidden.ts", "./.hidden.ts"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, EnsureRelativePrefix(tt.in))
		})
	}
}

func TestStripTypeScriptExtension(t *testing.T) {
	assert.Equal(t, "./q/foo", StripTypeScriptExtension("./q/foo.tsx"))
	assert.Equal(t, "./q/foo", StripTypeScriptExtension("./q/foo.ts"))
	assert.Equal(t, "./types/api", StripTypeScriptExtension("./types/api.d.ts"))
	assert.Equal(t, "./data.json", StripTypeScriptExtension("./data.json"))
	assert.Equal(t, ".ts", StripTypeScriptExtension(".ts"))
}

func TestToSlashAndCount(t *testing.T) {
	assert.Equal(t, "../q/foo.ts", ToSlash(`..\q\foo.ts`))
	assert.Equal(t, 2, CountSeparators("../q/foo.ts"))
	assert.Equal(t, 0, CountSeparators("foo.ts"))
	assert.True(t, IsRelative("./x"))
	assert.True(t, IsRelative("../x"))
	assert.False(t, IsRelative("react"))
	assert.False(t, IsRelative("/abs/path"))
}
