package code

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ziadkadry99/archdoc/internal/model"
)

func extractPython(x *extractor, root *sitter.Node) {
	for _, n := range namedChildren(root) {
		pythonStatement(x, n)
	}
}

func pythonStatement(x *extractor, n *sitter.Node) {
	switch n.Type() {
	case "import_statement":
		for _, c := range namedChildren(n) {
			switch c.Type() {
			case "dotted_name":
				x.addImport(n, x.text(c))
			case "aliased_import":
				x.addImport(n, x.text(c.ChildByFieldName("name")))
			}
		}
	case "import_from_statement":
		x.addImport(n, x.text(n.ChildByFieldName("module_name")))
	case "decorated_definition":
		if d := n.ChildByFieldName("definition"); d != nil {
			pythonStatement(x, d)
		}
	case "class_definition":
		pythonClass(x, n)
	case "function_definition":
		name := x.text(n.ChildByFieldName("name"))
		x.addFunction(n, name, pythonSignature(x, n, name), leadingVisibility(name))
	}
}

func pythonClass(x *extractor, n *sitter.Node) {
	name := x.text(n.ChildByFieldName("name"))
	if name == "" {
		return
	}
	class := model.Entity{Kind: model.KindClass, Name: name, Location: span(n), Category: "class"}
	for _, base := range namedChildren(n.ChildByFieldName("superclasses")) {
		// keyword_argument covers metaclass=...; only plain bases are edges.
		switch base.Type() {
		case "identifier", "attribute":
			class.Relations = append(class.Relations, model.Relation{Kind: model.Inheritance, From: name, To: x.text(base)})
		}
	}
	x.addClass(class)

	for _, m := range namedChildren(n.ChildByFieldName("body")) {
		if m.Type() == "decorated_definition" {
			m = m.ChildByFieldName("definition")
		}
		if m == nil || m.Type() != "function_definition" {
			continue
		}
		mname := x.text(m.ChildByFieldName("name"))
		x.addMethod(name, m, mname, pythonSignature(x, m, mname), leadingVisibility(mname))
	}
}

func pythonSignature(x *extractor, n *sitter.Node, name string) string {
	sig := name + collapse(x.text(n.ChildByFieldName("parameters")))
	if rt := n.ChildByFieldName("return_type"); rt != nil {
		sig += " " + x.text(rt)
	}
	return sig
}
