package code

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ziadkadry99/archdoc/internal/model"
)

// extractScript handles the JavaScript, TypeScript and TSX grammars, which
// share node names for everything recorded here.
func extractScript(x *extractor, root *sitter.Node) {
	for _, n := range namedChildren(root) {
		scriptStatement(x, n)
	}
}

func scriptStatement(x *extractor, n *sitter.Node) {
	switch n.Type() {
	case "import_statement":
		x.addImport(n, x.text(n.ChildByFieldName("source")))
	case "export_statement":
		if d := n.ChildByFieldName("declaration"); d != nil {
			scriptStatement(x, d)
			return
		}
		for _, c := range namedChildren(n) {
			if c.Type() == "class" || c.Type() == "class_declaration" || c.Type() == "function_declaration" {
				scriptStatement(x, c)
			}
		}
	case "class_declaration", "abstract_class_declaration", "class":
		scriptClass(x, n)
	case "interface_declaration":
		scriptInterface(x, n)
	case "function_declaration", "generator_function_declaration":
		name := x.text(n.ChildByFieldName("name"))
		if name == "" {
			return
		}
		x.addFunction(n, name, name+collapse(x.text(n.ChildByFieldName("parameters"))), leadingVisibility(name))
	case "lexical_declaration", "variable_declaration":
		for _, d := range namedChildren(n) {
			if d.Type() != "variable_declarator" {
				continue
			}
			value := d.ChildByFieldName("value")
			if value == nil {
				continue
			}
			switch value.Type() {
			case "arrow_function", "function", "function_expression":
				name := x.text(d.ChildByFieldName("name"))
				params := value.ChildByFieldName("parameters")
				sig := name + collapse(x.text(params))
				if params == nil {
					// Single bare parameter: x => x * 2.
					sig = name + "(" + x.text(value.ChildByFieldName("parameter")) + ")"
				}
				x.addFunction(d, name, sig, leadingVisibility(name))
			case "class":
				scriptClassNamed(x, value, x.text(d.ChildByFieldName("name")))
			}
		}
	}
}

func scriptClass(x *extractor, n *sitter.Node) {
	scriptClassNamed(x, n, x.text(n.ChildByFieldName("name")))
}

func scriptClassNamed(x *extractor, n *sitter.Node, name string) {
	if name == "" {
		name = "default"
	}
	class := model.Entity{Kind: model.KindClass, Name: name, Location: span(n), Category: "class"}
	for _, c := range namedChildren(n) {
		if c.Type() != "class_heritage" {
			continue
		}
		for _, base := range heritage(x.text(c)) {
			class.Relations = append(class.Relations, model.Relation{Kind: model.Inheritance, From: name, To: base})
		}
	}
	x.addClass(class)

	for _, m := range namedChildren(n.ChildByFieldName("body")) {
		switch m.Type() {
		case "method_definition", "method_signature", "abstract_method_signature":
			mname := x.text(m.ChildByFieldName("name"))
			if mname == "" {
				continue
			}
			x.addMethod(name, m, mname, mname+collapse(x.text(m.ChildByFieldName("parameters"))), scriptVisibility(x, m, mname))
		}
	}
}

func scriptInterface(x *extractor, n *sitter.Node) {
	name := x.text(n.ChildByFieldName("name"))
	if name == "" {
		return
	}
	iface := model.Entity{Kind: model.KindClass, Name: name, Location: span(n), Category: "interface"}
	for _, c := range namedChildren(n) {
		if c.Type() != "extends_type_clause" && c.Type() != "extends_clause" {
			continue
		}
		for _, base := range heritage(x.text(c)) {
			iface.Relations = append(iface.Relations, model.Relation{Kind: model.Inheritance, From: name, To: base})
		}
	}
	x.addClass(iface)

	for _, m := range namedChildren(n.ChildByFieldName("body")) {
		if m.Type() != "method_signature" {
			continue
		}
		mname := x.text(m.ChildByFieldName("name"))
		x.addMethod(name, m, mname, mname+collapse(x.text(m.ChildByFieldName("parameters"))), model.Public)
	}
}

// scriptVisibility marks #private names, _underscored names and TypeScript
// private or protected members as private.
func scriptVisibility(x *extractor, m *sitter.Node, name string) model.Visibility {
	for _, c := range namedChildren(m) {
		if c.Type() == "accessibility_modifier" {
			switch x.text(c) {
			case "private", "protected":
				return model.Private
			}
		}
	}
	return leadingVisibility(name)
}

// heritage extracts base names from an extends/implements clause, dropping
// type arguments and call expressions.
func heritage(clause string) []string {
	var out []string
	depth := 0
	var cur strings.Builder
	flush := func() {
		word := strings.TrimSpace(cur.String())
		cur.Reset()
		switch word {
		case "", "extends", "implements":
			return
		}
		out = append(out, word)
	}
	for _, r := range clause {
		switch {
		case r == '<' || r == '(':
			if depth == 0 {
				flush()
			}
			depth++
		case r == '>' || r == ')':
			if depth > 0 {
				depth--
			}
		case depth > 0:
		case r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '{':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}
