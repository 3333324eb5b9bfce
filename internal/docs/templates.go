package docs

const fence = "```"

const indexTemplate = `# {{ .Project }} design

{{ .Totals.Modules }} modules · {{ .Totals.Files }} files · {{ .Totals.Lines }} lines · {{ .Totals.Classes }} classes · {{ .Totals.Functions }} functions

## Architecture

` + fence + `mermaid
{{ .Diagram }}` + fence + `

## Modules
{{ range .Modules }}
### {{ .Title }}

{{ .Icon }} {{ .Kind }} · {{ .Metrics.Files }} files · {{ .Metrics.Lines }} lines · {{ .Metrics.Classes }} classes · {{ .Metrics.Functions }} functions · [details]({{ .Link }})
{{ end }}`

const moduleTemplate = `# Module {{ .Title }}

| Metric | Value |
|--------|-------|
| Kind | {{ .Icon }} {{ .Kind }} |
| Files | {{ .Metrics.Files }} |
| Lines | {{ .Metrics.Lines }} |
| Classes | {{ .Metrics.Classes }} |
| Functions | {{ .Metrics.Functions }} |
{{ if .Children }}
## Submodules
{{ range .Children }}
- [{{ .Name }}]({{ .Link }}): {{ .Icon }} {{ .Metrics.Files }} files, {{ .Metrics.Lines }} lines
{{- end }}
{{ end }}{{ if .Files }}
## Files
{{ range .Files }}
- [{{ .Name }}]({{ .Link }}): {{ .FileType }}, {{ .Lines }} lines, {{ .Entities }} entities{{ if .Warnings }}, {{ .Warnings }} warnings{{ end }}
{{- end }}
{{ end }}`

const itemsTemplate = `# {{ .Path }}

Analyzer: {{ code .Analyzer }} · Type: {{ .FileType }} · Lines: {{ .Lines }}
{{ if .Facts }}
## Facts

| Fact | Value |
|------|-------|
{{ range .Facts }}| {{ cell .Key }} | {{ cell .Value }} |
{{ end }}{{ end }}{{ if .Imports }}
## Imports
{{ range .Imports }}
- {{ code . }}
{{- end }}

` + fence + `mermaid
{{ .ImportDiagram }}` + fence + `
{{ end }}{{ if .Warnings }}
## Warnings
{{ range .Warnings }}
- {{ oneline .String }}
{{- end }}
{{ end }}{{ if .ClassDiagram }}
## Class diagram

` + fence + `mermaid
{{ .ClassDiagram }}` + fence + `
{{ end }}
## Entities
{{ if not .Entities }}
No entities extracted.
{{ end }}{{ range .Entities }}
### {{ .Kind }} {{ oneline .Name }}

| Attribute | Value |
|-----------|-------|
{{ range .Rows }}| {{ cell .Key }} | {{ cell .Value }} |
{{ end }}{{ if .Diagram }}
` + fence + `mermaid
{{ .Diagram }}` + fence + `
{{ end }}{{ end }}`
