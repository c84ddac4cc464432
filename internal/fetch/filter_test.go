package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEligible(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"main.go", true},
		{"app.py", true},
		{"README.md", true},
		{"config.yaml", true},
		{"Dockerfile", true},
		{"Makefile", true},
		{"LICENSE", true},
		{"photo.JPG", false},
		{"archive.tar", false},
		{"lib.so", false},
		{"no-extension", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, eligible(tt.name), "file %q", tt.name)
	}
}

func TestPrioritize(t *testing.T) {
	in := []string{
		"zz/helper.py",
		"src/core.py",
		"package.json",
		"main.py",
		"docs/README.md",
	}
	want := []string{
		"docs/README.md", // documentation first
		"main.py",        // then entry points
		"package.json",   // then configuration
		"src/core.py",    // then core source
		"zz/helper.py",   // everything else last
	}
	assert.Equal(t, want, Prioritize(in))
}

func TestPrioritizeStableWithinBuckets(t *testing.T) {
	in := []string{"b/README.md", "a/README.md", "other.txt", "another.txt"}
	out := Prioritize(in)
	assert.Equal(t, []string{"b/README.md", "a/README.md", "other.txt", "another.txt"}, out)
}

func TestPrioritizeEmpty(t *testing.T) {
	assert.Empty(t, Prioritize(nil))
}
