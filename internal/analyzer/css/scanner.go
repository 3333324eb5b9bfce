package css

import (
	"strings"
	"unicode/utf8"

	"github.com/ziadkadry99/archdoc/internal/analyzer"
	"github.com/ziadkadry99/archdoc/internal/model"
)

type scanner struct {
	src   []byte
	lines analyzer.LineIndex
	pos   int
	res   *model.AnalysisResult
}

func (s *scanner) line(offset int) int { return s.lines.Line(offset) }

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

func (s *scanner) skipSpace() {
	for !s.eof() && isSpace(s.src[s.pos]) {
		s.pos++
	}
}

// readSegment advances to the next top-level '{', ';' or '}' and returns the
// text before it together with the stop byte (0 at EOF). Parentheses,
// brackets and quotes are respected so url(a;b) and [x="{"] stay intact.
func (s *scanner) readSegment() (string, byte) {
	start := s.pos
	depth := 0
	var quote byte
	for ; s.pos < len(s.src); s.pos++ {
		c := s.src[s.pos]
		if quote != 0 {
			if c == '\\' {
				s.pos++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case '{', ';', '}':
			if depth == 0 {
				return string(s.src[start:s.pos]), c
			}
		}
	}
	return string(s.src[start:]), 0
}

// parseItems parses a list of rules and at-rules until EOF or, when nested,
// until the closing brace of the enclosing block. It reports whether that
// closing brace was found.
func (s *scanner) parseItems(nested bool) ([]model.Entity, bool) {
	var items []model.Entity
	for {
		s.skipSpace()
		if s.eof() {
			return items, !nested
		}
		if s.src[s.pos] == '}' {
			if nested {
				s.pos++
				return items, true
			}
			s.res.Warn(s.line(s.pos), "unexpected '}' without matching '{'")
			s.pos++
			continue
		}

		start := s.pos
		prelude, stop := s.readSegment()
		prelude = strings.TrimSpace(prelude)

		switch stop {
		case ';', 0:
			if stop == ';' {
				s.pos++
			}
			items = append(items, s.statement(prelude, start)...)
		case '}':
			if prelude != "" {
				s.res.Warn(s.line(start), "dangling text %q before '}'", truncate(prelude))
			}
		case '{':
			s.pos++
			items = append(items, s.block(prelude, start)...)
		}
	}
}

// statement handles a ';'-terminated prelude outside any declaration block.
func (s *scanner) statement(prelude string, start int) []model.Entity {
	if prelude == "" {
		return nil
	}
	keyword, rest := atKeyword(prelude)
	switch keyword {
	case "import", "use", "forward":
		target := importTarget(rest)
		if target == "" {
			s.res.Warn(s.line(start), "@%s without a target", keyword)
			return nil
		}
		s.res.Imports = append(s.res.Imports, target)
		return []model.Entity{{
			Kind:       model.KindImport,
			Name:       target,
			Location:   model.Span(s.line(start), s.line(start+len(prelude))),
			Attributes: importAttrs(keyword, rest, target),
		}}
	case "":
		s.res.Warn(s.line(start), "statement %q outside of a rule", truncate(prelude))
	}
	// Other bodiless at-rules (@charset, @namespace, @layer a, b;) carry no
	// structure worth recording.
	return nil
}

// block handles a prelude followed by '{'. The opening brace is consumed.
func (s *scanner) block(prelude string, start int) []model.Entity {
	keyword, rest := atKeyword(prelude)
	switch keyword {
	case "media", "supports":
		children, closed := s.parseItems(true)
		end := s.pos - 1
		if !closed {
			s.res.Warn(s.line(start), "unclosed @%s block", keyword)
			end = len(s.src) - 1
		}
		category := ClassifyMedia(rest)
		if keyword == "supports" {
			category = FeatureQuery
		}
		sortByLine(children)
		return []model.Entity{{
			Kind:       model.KindMediaQuery,
			Name:       collapseSpace(rest),
			Location:   model.Span(s.line(start), s.line(end)),
			Category:   category,
			Attributes: []model.Attr{{Key: "at-rule", Value: "@" + keyword}},
			Children:   children,
		}}
	case "":
		return s.rule(prelude, start, true)
	default:
		return s.rule(prelude, start, false)
	}
}

// rule parses a declaration block into a rule entity followed by the custom
// properties it declares. Selectors are only computed for style rules;
// at-rules such as @font-face keep an empty selector list.
func (s *scanner) rule(prelude string, start int, styleRule bool) []model.Entity {
	body := s.parseBody()
	end := s.pos - 1
	if !body.closed {
		s.res.Warn(s.line(start), "unclosed block for %q", truncate(prelude))
		end = len(s.src) - 1
	}

	startLine := s.line(start)
	rule := model.Entity{
		Kind:       model.KindRule,
		Name:       collapseSpace(prelude),
		Location:   model.Span(startLine, s.line(end)),
		Properties: body.props,
	}

	if styleRule {
		var max model.Specificity
		for _, sel := range SplitSelectors(prelude) {
			spec := Specificity(sel)
			if spec.Compare(max) > 0 {
				max = spec
			}
			rule.Children = append(rule.Children, model.Entity{
				Kind:        model.KindSelector,
				Name:        sel,
				Location:    model.Span(startLine, startLine),
				Category:    ClassifySelector(sel),
				Specificity: &spec,
			})
		}
		rule.Specificity = &max
		rule.Attributes = append(rule.Attributes, model.Attr{Key: "selectors", Value: itoa(len(rule.Children))})
	} else {
		rule.Category = "at-rule"
	}
	if summary := categorySummary(body.props); summary != "" {
		rule.Attributes = append(rule.Attributes, model.Attr{Key: "categories", Value: summary})
	}
	rule.Children = append(rule.Children, body.nested...)

	// Variables from nested blocks already carry their innermost scope.
	for i := range body.vars {
		if !hasAttr(body.vars[i].Attributes, "scope") {
			body.vars[i].Attributes = append(body.vars[i].Attributes, model.Attr{Key: "scope", Value: rule.Name})
		}
	}
	return append([]model.Entity{rule}, body.vars...)
}

type ruleBody struct {
	props  []model.Property
	vars   []model.Entity
	nested []model.Entity
	closed bool
}

// parseBody reads declarations up to and including the closing brace.
// Nested blocks (SCSS nesting, @keyframes steps) become nested rules.
func (s *scanner) parseBody() ruleBody {
	var body ruleBody
	for {
		s.skipSpace()
		if s.eof() {
			return body
		}
		if s.src[s.pos] == '}' {
			s.pos++
			body.closed = true
			return body
		}
		if s.src[s.pos] == ';' {
			s.pos++
			continue
		}

		start := s.pos
		seg, stop := s.readSegment()
		seg = strings.TrimSpace(seg)

		if stop == '{' {
			s.pos++
			nested := s.block(seg, start)
			for _, e := range nested {
				if e.Kind == model.KindVariable {
					body.vars = append(body.vars, e)
				} else {
					body.nested = append(body.nested, e)
				}
			}
			continue
		}
		if stop == ';' {
			s.pos++
		}
		if seg == "" {
			continue
		}
		s.declaration(&body, seg, start)
	}
}

func (s *scanner) declaration(body *ruleBody, seg string, start int) {
	if strings.HasPrefix(seg, "@") {
		// @include, @extend and friends inside a block.
		return
	}
	colon := strings.IndexByte(seg, ':')
	if colon <= 0 {
		s.res.Warn(s.line(start), "malformed declaration %q", truncate(seg))
		return
	}
	name := strings.TrimSpace(seg[:colon])
	value := collapseSpace(seg[colon+1:])

	if strings.HasPrefix(name, "--") {
		body.vars = append(body.vars, model.Entity{
			Kind:       model.KindVariable,
			Name:       name,
			Location:   model.Span(s.line(start), s.line(start+len(seg))),
			Category:   ClassifyValue(value),
			Attributes: []model.Attr{{Key: "value", Value: value}},
		})
		return
	}
	body.props = append(body.props, model.Property{
		Name:     strings.ToLower(name),
		Value:    value,
		Category: PropertyCategory(name),
	})
}

// atKeyword splits "@media screen" into ("media", "screen"). Non at-rules
// return an empty keyword.
func atKeyword(prelude string) (string, string) {
	if !strings.HasPrefix(prelude, "@") {
		return "", prelude
	}
	end := 1
	for end < len(prelude) && !isSpace(prelude[end]) && prelude[end] != '(' && prelude[end] != '"' && prelude[end] != '\'' {
		end++
	}
	return strings.ToLower(prelude[1:end]), strings.TrimSpace(prelude[end:])
}

// importTarget extracts the referenced sheet from an @import prelude such as
// url("a.css") screen or 'b.css'.
func importTarget(rest string) string {
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(strings.ToLower(rest), "url(") {
		if end := strings.IndexByte(rest, ')'); end > 0 {
			return strings.Trim(strings.TrimSpace(rest[4:end]), `"'`)
		}
	}
	if rest != "" && (rest[0] == '"' || rest[0] == '\'') {
		if end := strings.IndexByte(rest[1:], rest[0]); end >= 0 {
			return rest[1 : end+1]
		}
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[0], `"'`)
}

func importAttrs(keyword, rest, target string) []model.Attr {
	attrs := []model.Attr{{Key: "at-rule", Value: "@" + keyword}}
	idx := strings.Index(rest, target)
	if idx < 0 {
		return attrs
	}
	tail := strings.TrimLeft(rest[idx+len(target):], `"')`)
	if media := strings.TrimSpace(tail); media != "" {
		attrs = append(attrs, model.Attr{Key: "media", Value: media})
	}
	return attrs
}

func sortByLine(items []model.Entity) {
	r := model.AnalysisResult{Entities: items}
	r.SortEntities()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func hasAttr(attrs []model.Attr, key string) bool {
	for _, a := range attrs {
		if a.Key == key {
			return true
		}
	}
	return false
}

// truncate shortens s to at most 40 runes for warning text.
func truncate(s string) string {
	s = collapseSpace(s)
	if utf8.RuneCountInString(s) <= 40 {
		return s
	}
	r := []rune(s)
	return string(r[:40]) + "..."
}
