package code

import (
	"strings"
	"unicode"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ziadkadry99/archdoc/internal/model"
)

// extractGo records struct and interface types as classes. Methods are
// attached in a second pass because receivers may precede the type.
func extractGo(x *extractor, root *sitter.Node) {
	var methods []*sitter.Node
	for _, n := range namedChildren(root) {
		switch n.Type() {
		case "import_declaration":
			for _, spec := range goImportSpecs(n) {
				x.addImport(spec, x.text(spec.ChildByFieldName("path")))
			}
		case "type_declaration":
			for _, spec := range namedChildren(n) {
				if spec.Type() == "type_spec" {
					goType(x, spec)
				}
			}
		case "function_declaration":
			name := x.text(n.ChildByFieldName("name"))
			x.addFunction(n, name, goSignature(x, n, name), goVisibility(name))
		case "method_declaration":
			methods = append(methods, n)
		}
	}
	for _, m := range methods {
		name := x.text(m.ChildByFieldName("name"))
		x.addMethod(goReceiver(x, m), m, name, goSignature(x, m, name), goVisibility(name))
	}
}

func goImportSpecs(n *sitter.Node) []*sitter.Node {
	var specs []*sitter.Node
	for _, c := range namedChildren(n) {
		switch c.Type() {
		case "import_spec":
			specs = append(specs, c)
		case "import_spec_list":
			for _, s := range namedChildren(c) {
				if s.Type() == "import_spec" {
					specs = append(specs, s)
				}
			}
		}
	}
	return specs
}

func goType(x *extractor, spec *sitter.Node) {
	name := x.text(spec.ChildByFieldName("name"))
	body := spec.ChildByFieldName("type")
	if name == "" || body == nil {
		return
	}
	class := model.Entity{Kind: model.KindClass, Name: name, Location: span(spec)}

	switch body.Type() {
	case "struct_type":
		class.Category = "struct"
		for _, list := range namedChildren(body) {
			if list.Type() != "field_declaration_list" {
				continue
			}
			for _, f := range namedChildren(list) {
				if f.Type() != "field_declaration" || f.ChildByFieldName("name") != nil {
					continue
				}
				if embedded := goTypeName(x.text(f.ChildByFieldName("type"))); embedded != "" {
					class.Relations = append(class.Relations, model.Relation{Kind: model.Composition, From: name, To: embedded})
				}
			}
		}
	case "interface_type":
		class.Category = "interface"
		x.addClass(class)
		for _, el := range namedChildren(body) {
			switch el.Type() {
			case "method_spec", "method_elem":
				mname := x.text(el.ChildByFieldName("name"))
				sig := mname + collapse(x.text(el.ChildByFieldName("parameters")))
				if r := el.ChildByFieldName("result"); r != nil {
					sig += " " + collapse(x.text(r))
				}
				x.addMethod(name, el, mname, sig, goVisibility(mname))
			case "type_elem", "constraint_elem", "interface_type_name", "type_identifier", "qualified_type":
				if base := goTypeName(x.text(el)); base != "" {
					c := &x.classes[x.byName[name]]
					c.Relations = append(c.Relations, model.Relation{Kind: model.Inheritance, From: name, To: base})
				}
			}
		}
		return
	default:
		return
	}
	x.addClass(class)
}

// goReceiver returns the receiver type name of a method declaration, without
// pointer or type parameters.
func goReceiver(x *extractor, m *sitter.Node) string {
	for _, p := range namedChildren(m.ChildByFieldName("receiver")) {
		if p.Type() == "parameter_declaration" {
			return goTypeName(x.text(p.ChildByFieldName("type")))
		}
	}
	return ""
}

// goTypeName strips pointers, type arguments and the package qualifier.
func goTypeName(t string) string {
	t = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(t), "*"))
	if i := strings.IndexByte(t, '['); i >= 0 {
		t = t[:i]
	}
	if i := strings.LastIndexByte(t, '.'); i >= 0 {
		t = t[i+1:]
	}
	return t
}

func goSignature(x *extractor, n *sitter.Node, name string) string {
	sig := name + collapse(x.text(n.ChildByFieldName("parameters")))
	if r := n.ChildByFieldName("result"); r != nil {
		sig += " " + collapse(x.text(r))
	}
	return sig
}

func goVisibility(name string) model.Visibility {
	r, _ := utf8.DecodeRuneInString(name)
	if unicode.IsUpper(r) {
		return model.Public
	}
	return model.Private
}
