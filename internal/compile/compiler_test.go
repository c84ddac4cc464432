package compile

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelgruber/autoreadme/internal/models"
)

var testMeta = Metadata{
	RepoURL:     "https://github.com/user/repo",
	RepoName:    "repo",
	GeneratedAt: "2026-01-02 15:04 UTC",
}

func TestCompileRendersEveryEntryOnce(t *testing.T) {
	entries := []models.DocumentEntry{
		{File: "README.md", Summary: "Project overview and setup instructions."},
		{File: "main.go", Summary: "HTTP server entry point."},
		{File: "internal/util.go", Summary: "Small string helpers."},
	}

	out, err := Compile(testMeta, entries)
	require.NoError(t, err)
	html := string(out)

	for _, e := range entries {
		assert.Equal(t, 2, strings.Count(html, e.File), "file %q appears in TOC and body exactly once each", e.File)
		assert.Contains(t, html, e.Summary)
	}
	for i := range entries {
		assert.Contains(t, html, fmt.Sprintf(`id="doc-%d"`, i+1))
	}
	assert.Contains(t, html, testMeta.RepoName)
	assert.Contains(t, html, testMeta.RepoURL)
	assert.Contains(t, html, testMeta.GeneratedAt)
}

func TestCompileMarksFailedEntries(t *testing.T) {
	entries := []models.DocumentEntry{
		{File: "ok.go", Summary: "Fine."},
		{File: "bad.go", Failed: "summarization failed after retries"},
	}

	out, err := Compile(testMeta, entries)
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "doc-failed")
	assert.Contains(t, html, "Documentation could not be generated: summarization failed after retries")
	assert.NotContains(t, html, "Documentation could not be generated: Fine.")
}

func TestCompilePreservesInputOrder(t *testing.T) {
	entries := []models.DocumentEntry{
		{File: "zzz.go", Summary: "Last alphabetically, first by priority."},
		{File: "aaa.go", Summary: "First alphabetically."},
	}

	out, err := Compile(testMeta, entries)
	require.NoError(t, err)
	html := string(out)

	assert.Less(t, strings.Index(html, "zzz.go"), strings.Index(html, "aaa.go"))
}

func TestCompileIsDeterministic(t *testing.T) {
	entries := []models.DocumentEntry{
		{File: "a.go", Summary: "One."},
		{File: "b.go", Failed: "provider unavailable"},
	}

	first, err := Compile(testMeta, entries)
	require.NoError(t, err)
	second, err := Compile(testMeta, entries)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical inputs must yield byte-identical documents")
}

func TestCompileEscapesContent(t *testing.T) {
	entries := []models.DocumentEntry{
		{File: "x.go", Summary: `Uses <script>alert("xss")</script> tags.`},
	}

	out, err := Compile(testMeta, entries)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<script>alert")
}

func TestCompileEmptyEntries(t *testing.T) {
	out, err := Compile(testMeta, nil)
	require.NoError(t, err)
	assert.Contains(t, string(out), testMeta.RepoName)
}
