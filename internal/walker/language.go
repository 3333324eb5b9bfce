package walker

import (
	"path/filepath"
	"strings"
)

// Language families drive module classification and diagram icons.
const (
	FamilyPython = "python"
	FamilyWeb    = "web"
	FamilyGo     = "go"
	FamilyOther  = "other"
)

// Language is a detected file language and the family it belongs to.
type Language struct {
	Name   string
	Family string
}

var (
	langGo         = Language{"Go", FamilyGo}
	langPython     = Language{"Python", FamilyPython}
	langTypeScript = Language{"TypeScript", FamilyWeb}
	langJavaScript = Language{"JavaScript", FamilyWeb}
	langHTML       = Language{"HTML", FamilyWeb}
	langCSS        = Language{"CSS", FamilyWeb}
	unknown        = Language{"unknown", FamilyOther}
)

func other(name string) Language { return Language{name, FamilyOther} }

// extensionToLanguage maps lower-case file extensions to languages.
var extensionToLanguage = map[string]Language{
	".go":  langGo,
	".py":  langPython,
	".pyi": langPython,
	".pyw": langPython,

	".ts":  langTypeScript,
	".tsx": langTypeScript,
	".mts": langTypeScript,
	".js":  langJavaScript,
	".jsx": langJavaScript,
	".mjs": langJavaScript,
	".cjs": langJavaScript,

	".html":  langHTML,
	".htm":   langHTML,
	".xhtml": langHTML,
	".css":   langCSS,
	".scss":  langCSS,
	".sass":  langCSS,
	".less":  langCSS,

	".vue":    {"Vue", FamilyWeb},
	".svelte": {"Svelte", FamilyWeb},

	".java":  other("Java"),
	".rs":    other("Rust"),
	".c":     other("C"),
	".h":     other("C"),
	".cpp":   other("C++"),
	".cc":    other("C++"),
	".hpp":   other("C++"),
	".cs":    other("C#"),
	".rb":    other("Ruby"),
	".php":   other("PHP"),
	".kt":    other("Kotlin"),
	".swift": other("Swift"),
	".sh":    other("Shell"),
	".sql":   other("SQL"),
	".yaml":  other("YAML"),
	".yml":   other("YAML"),
	".json":  other("JSON"),
	".toml":  other("TOML"),
	".md":    other("Markdown"),
	".proto": other("Protobuf"),
}

// filenameToLanguage maps specific filenames to languages.
var filenameToLanguage = map[string]Language{
	"Dockerfile":  other("Dockerfile"),
	"Makefile":    other("Makefile"),
	"Jenkinsfile": other("Groovy"),
	"Gemfile":     other("Ruby"),
}

// DetectLanguage returns the language for a filename based on its exact name
// or extension. Unrecognized files report "unknown" in the other family.
func DetectLanguage(filename string) Language {
	base := filepath.Base(filename)
	if lang, ok := filenameToLanguage[base]; ok {
		return lang
	}
	if lang, ok := extensionToLanguage[strings.ToLower(filepath.Ext(base))]; ok {
		return lang
	}
	return unknown
}
