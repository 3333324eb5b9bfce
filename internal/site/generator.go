// Package site turns rendered markdown pages into a static HTML site with
// goldmark. Like the markdown renderer it works in memory.
package site

import (
	"bytes"
	"fmt"
	"html/template"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/ziadkadry99/archdoc/internal/docs"
)

// StylesheetPath is the site-wide stylesheet emitted next to the pages.
const StylesheetPath = "style.css"

// pageData holds the data passed to the HTML template for each page.
type pageData struct {
	Title       string
	ProjectName string
	Content     template.HTML
	TreeHTML    template.HTML
	BasePath    string
}

var pageTmpl = template.Must(template.New("page").Parse(pageTemplate))

// newMarkdown returns the goldmark converter used for every page.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
}

// Render converts markdown pages to HTML pages at the same paths with an
// .html extension, plus the shared stylesheet.
func Render(pages []docs.Page, projectName string) ([]docs.Page, error) {
	paths := make([]string, len(pages))
	for i, p := range pages {
		paths[i] = p.Path
	}
	tree := BuildTree(paths)
	md := newMarkdown()

	out := make([]docs.Page, 0, len(pages)+1)
	for _, p := range pages {
		page, err := renderPage(md, tree, p, projectName)
		if err != nil {
			return nil, fmt.Errorf("site: rendering %s: %w", p.Path, err)
		}
		out = append(out, page)
	}
	out = append(out, docs.Page{Path: StylesheetPath, Content: []byte(cssContent)})
	return out, nil
}

func renderPage(md goldmark.Markdown, tree *FileTree, p docs.Page, projectName string) (docs.Page, error) {
	var htmlBuf bytes.Buffer
	if err := md.Convert(p.Content, &htmlBuf); err != nil {
		return docs.Page{}, fmt.Errorf("converting markdown: %w", err)
	}
	content := postProcessMermaid(htmlBuf.String())
	content = rewriteMDLinks(content)

	basePath := strings.Repeat("../", strings.Count(p.Path, "/"))
	data := pageData{
		Title:       extractTitle(p.Content, p.Path),
		ProjectName: projectName,
		Content:     template.HTML(content),
		TreeHTML:    template.HTML(tree.ToHTML(p.Path, basePath)),
		BasePath:    basePath,
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return docs.Page{}, err
	}
	return docs.Page{Path: mdPathToHTML(p.Path), Content: buf.Bytes()}, nil
}

// extractTitle pulls the first # heading from markdown content, or falls back
// to the file name.
func extractTitle(content []byte, relPath string) string {
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimPrefix(line, "# ")
		}
	}
	return strings.TrimSuffix(path.Base(relPath), ".md")
}

// postProcessMermaid converts <pre><code class="language-mermaid"> blocks
// into <pre class="mermaid"> for client-side mermaid rendering.
func postProcessMermaid(html string) string {
	const openTag = `<pre><code class="language-mermaid">`
	const closeTag = `</code></pre>`

	var b strings.Builder
	for {
		idx := strings.Index(html, openTag)
		if idx == -1 {
			break
		}
		end := strings.Index(html[idx:], closeTag)
		if end == -1 {
			break
		}
		end += idx
		b.WriteString(html[:idx])
		b.WriteString(`<pre class="mermaid">`)
		b.WriteString(html[idx+len(openTag) : end])
		b.WriteString(`</pre>`)
		html = html[end+len(closeTag):]
	}
	b.WriteString(html)
	return b.String()
}

// rewriteMDLinks changes relative .md links to .html links.
func rewriteMDLinks(content string) string {
	content = strings.ReplaceAll(content, `.md"`, `.html"`)
	return strings.ReplaceAll(content, `.md#`, `.html#`)
}
