package site

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/ziadkadry99/archdoc/internal/docs"
)

// FileTree is a node of the sidebar navigation.
type FileTree struct {
	Name     string
	Path     string // page path for files; module path for directories
	IsDir    bool
	Children []*FileTree
}

// BuildTree constructs the sidebar from page paths. Children keep the order
// in which paths are given, which for rendered pages is module pre-order.
func BuildTree(paths []string) *FileTree {
	root := &FileTree{Name: "", IsDir: true}

	for _, p := range paths {
		parts := strings.Split(p, "/")
		current := root
		for i, part := range parts {
			isLast := i == len(parts)-1
			var next *FileTree
			for _, child := range current.Children {
				if child.Name == part && child.IsDir == !isLast {
					next = child
					break
				}
			}
			if next == nil {
				next = &FileTree{Name: part, IsDir: !isLast}
				if isLast {
					next.Path = p
				} else {
					next.Path = strings.Join(parts[:i+1], "/")
				}
				current.Children = append(current.Children, next)
			}
			current = next
		}
	}
	return root
}

// ToHTML renders the tree as nested lists. basePath is the relative prefix
// back to the site root, e.g. "../" for a page one level deep.
func (t *FileTree) ToHTML(activePath, basePath string) string {
	var b strings.Builder
	active := ""
	if activePath == docs.IndexPage {
		active = ` class="active"`
	}
	fmt.Fprintf(&b, `<ul><li class="file home"><a href="%s%s"%s>Overview</a></li></ul>`+"\n",
		basePath, mdPathToHTML(docs.IndexPage), active)
	renderChildren(&b, t, activePath, basePath)
	return b.String()
}

func renderChildren(b *strings.Builder, node *FileTree, activePath, basePath string) {
	if len(node.Children) == 0 {
		return
	}
	b.WriteString("<ul>\n")
	for _, child := range node.Children {
		if child.IsDir {
			fmt.Fprintf(b, `<li class="dir"><a href="%s">%s</a>`+"\n",
				template.HTMLEscapeString(basePath+mdPathToHTML(docs.Join(child.Path, docs.ModulePage))), template.HTMLEscapeString(child.Name))
			renderChildren(b, child, activePath, basePath)
			b.WriteString("</li>\n")
			continue
		}
		if child.Name == docs.IndexPage || child.Name == docs.ModulePage {
			continue
		}
		active := ""
		if child.Path == activePath {
			active = ` class="active"`
		}
		fmt.Fprintf(b, `<li class="file"><a href="%s"%s>%s</a></li>`+"\n",
			template.HTMLEscapeString(basePath+mdPathToHTML(child.Path)), active, template.HTMLEscapeString(displayName(child.Name)))
	}
	b.WriteString("</ul>\n")
}

// mdPathToHTML converts a markdown path to its HTML equivalent.
func mdPathToHTML(p string) string {
	if strings.HasSuffix(p, ".md") {
		return strings.TrimSuffix(p, ".md") + ".html"
	}
	return p
}

// displayName shows an items page by the source file it documents.
func displayName(name string) string {
	return strings.TrimSuffix(name, docs.ItemsSuffix)
}
