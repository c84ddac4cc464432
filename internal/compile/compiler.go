// Package compile assembles per-file summaries into a single renderable
// HTML document.
package compile

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/raphaelgruber/autoreadme/internal/models"
)

// Metadata describes the repository the document was generated from.
// GeneratedAt is passed in (not read from the clock) so compilation is a
// pure function of its inputs.
type Metadata struct {
	RepoURL     string
	RepoName    string
	GeneratedAt string
}

type section struct {
	Anchor  string
	File    string
	Summary string
	Failed  string
}

type pageData struct {
	Meta     Metadata
	Sections []section
}

// Compile renders every entry exactly once, in input order. Failed
// entries get a visibly distinct section so readers see coverage gaps
// instead of silent omissions. Identical inputs yield byte-identical
// output.
func Compile(meta Metadata, entries []models.DocumentEntry) ([]byte, error) {
	data := pageData{Meta: meta, Sections: make([]section, 0, len(entries))}
	for i, e := range entries {
		data.Sections = append(data.Sections, section{
			Anchor:  fmt.Sprintf("doc-%d", i+1),
			File:    e.File,
			Summary: e.Summary,
			Failed:  e.Failed,
		})
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}
	return buf.Bytes(), nil
}

var pageTemplate = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Meta.RepoName}} - Documentation</title>
<style>
* { margin: 0; padding: 0; box-sizing: border-box; }
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; background-color: #F5E7C6; color: #222222; }
.sidebar { position: fixed; left: 0; top: 0; width: 280px; height: 100vh; overflow-y: auto; background-color: #FFFFFF; border-right: 1px solid #222222; padding: 2rem 1rem; }
.sidebar h1 { font-size: 1.5rem; margin-bottom: 1rem; color: #FF6D1F; }
.sidebar ul { list-style: none; }
.sidebar a { color: #222222; text-decoration: none; padding: 0.5rem; display: block; word-wrap: break-word; }
.sidebar a:hover { color: #FF6D1F; }
.sidebar .failed-link { opacity: 0.6; }
.main-content { margin-left: 280px; padding: 2rem 4rem; max-width: 1200px; }
.header { border-bottom: 2px solid #222222; padding-bottom: 1rem; margin-bottom: 2rem; }
.header a { color: #FF6D1F; text-decoration: none; }
.doc-section { margin-bottom: 3rem; padding-bottom: 2rem; border-bottom: 1px solid #222222; }
.doc-section h2 { font-size: 1.5rem; margin-bottom: 1rem; }
.doc-failed { border-left: 4px solid #FF005F; padding-left: 1rem; opacity: 0.8; }
.doc-failed .reason { color: #FF005F; font-style: italic; }
</style>
</head>
<body>
<div class="sidebar">
<h1>Table of Contents</h1>
<ul>
{{- range .Sections}}
<li><a href="#{{.Anchor}}"{{if .Failed}} class="failed-link"{{end}}>{{.File}}</a></li>
{{- end}}
</ul>
</div>
<div class="main-content">
<div class="header">
<h1>{{.Meta.RepoName}}</h1>
<p>Generated Documentation &bull; {{.Meta.GeneratedAt}}</p>
<p><a href="{{.Meta.RepoURL}}" target="_blank">View Repository</a></p>
</div>
{{- range .Sections}}
<section id="{{.Anchor}}" class="doc-section{{if .Failed}} doc-failed{{end}}">
<h2>{{.File}}</h2>
{{- if .Failed}}
<p class="reason">Documentation could not be generated: {{.Failed}}</p>
{{- else}}
<p>{{.Summary}}</p>
{{- end}}
</section>
{{- end}}
</div>
</body>
</html>
`))
