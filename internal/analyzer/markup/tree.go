package markup

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ziadkadry99/archdoc/internal/model"
)

// node is one element of the repaired document tree.
type node struct {
	tag       string
	atom      atom.Atom
	attrs     []html.Attribute
	startLine int
	endLine   int
	text      bool // has non-whitespace text content
	children  []*node
}

func (n *node) attr(key string) (string, bool) {
	for _, a := range n.attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// voidElements never have content and are never pushed on the open stack.
var voidElements = map[atom.Atom]bool{
	atom.Area: true, atom.Base: true, atom.Br: true, atom.Col: true, atom.Embed: true,
	atom.Hr: true, atom.Img: true, atom.Input: true, atom.Link: true, atom.Meta: true,
	atom.Param: true, atom.Source: true, atom.Track: true, atom.Wbr: true,
}

// optionalEnd lists elements whose end tag may be omitted, so closing them
// implicitly is not worth a warning.
var optionalEnd = map[string]bool{
	"html": true, "head": true, "body": true, "p": true, "li": true, "dt": true,
	"dd": true, "option": true, "optgroup": true, "tr": true, "td": true, "th": true,
	"thead": true, "tbody": true, "tfoot": true, "colgroup": true, "rt": true, "rp": true,
}

// builder turns the token stream into an element tree, repairing what it can.
type builder struct {
	roots []*node
	stack []*node
	line  int
	warn  func(line int, format string, args ...any)
}

func build(src []byte, warn func(line int, format string, args ...any)) []*node {
	b := &builder{line: 1, warn: warn}
	z := html.NewTokenizer(bytes.NewReader(src))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); err != nil && err != io.EOF {
				b.warn(b.line, "tokenizer stopped: %v", err)
			}
			break
		}
		raw := z.Raw()
		start := b.line
		// Raw is only valid until the next call to Next, so count now.
		b.line += bytes.Count(raw, []byte{'\n'})
		tok := z.Token()

		switch tt {
		case html.StartTagToken:
			b.open(tok, start, false)
		case html.SelfClosingTagToken:
			b.open(tok, start, true)
		case html.EndTagToken:
			b.close(strings.ToLower(tok.Data), tok.DataAtom, start)
		case html.TextToken:
			if len(b.stack) > 0 && strings.TrimSpace(tok.Data) != "" {
				b.stack[len(b.stack)-1].text = true
			}
		}
	}
	for len(b.stack) > 0 {
		n := b.pop(b.line)
		if !optionalEnd[n.tag] {
			b.warn(n.startLine, "<%s> is never closed", n.tag)
		}
	}
	return b.roots
}

func (b *builder) open(tok html.Token, line int, selfClosing bool) {
	n := &node{
		tag:       strings.ToLower(tok.Data),
		atom:      tok.DataAtom,
		attrs:     tok.Attr,
		startLine: line,
		endLine:   line,
	}
	// Implicitly close a <p> or <li> when a sibling of the same kind opens.
	if top := b.top(); top != nil && top.tag == n.tag && (n.tag == "p" || n.tag == "li" || n.tag == "option") {
		b.pop(line)
	}
	if top := b.top(); top != nil {
		top.children = append(top.children, n)
	} else {
		b.roots = append(b.roots, n)
	}
	if selfClosing || voidElements[n.atom] {
		return
	}
	b.stack = append(b.stack, n)
}

func (b *builder) close(tag string, a atom.Atom, line int) {
	if voidElements[a] {
		return
	}
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i].tag != tag {
			continue
		}
		for len(b.stack) > i+1 {
			n := b.pop(line)
			if !optionalEnd[n.tag] {
				b.warn(n.startLine, "<%s> closed implicitly by </%s> on line %d", n.tag, tag, line)
			}
		}
		b.pop(line)
		return
	}
	b.warn(line, "dropped stray </%s> with no open element", tag)
}

func (b *builder) top() *node {
	if len(b.stack) == 0 {
		return nil
	}
	return b.stack[len(b.stack)-1]
}

func (b *builder) pop(line int) *node {
	n := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	n.endLine = line
	return n
}

// Depth returns the longest element chain from a root to a leaf: a lone
// root has depth 1 and a chain of N nested elements has depth N.
func depth(roots []*node) int {
	best := 0
	for _, r := range roots {
		if d := 1 + depth(r.children); d > best {
			best = d
		}
	}
	return best
}

func (n *node) location() model.Location {
	return model.Span(n.startLine, n.endLine)
}
