package gen

import "text/template"

// fileData holds everything the file template needs.
type fileData struct {
	PackageName string
	Cgo         bool
	Imports     []importSpec
	Methods     []string
}

var fileTemplate = template.Must(template.New("file").Parse(`// Code generated by crepr-generator. DO NOT EDIT.

package {{.PackageName}}
{{- if .Cgo}}

import "C"
{{- end}}
{{- if .Imports}}

import (
{{- range .Imports}}
{{- if .Break}}
{{end}}
	{{.Spec}}
{{- end}}
)
{{- end}}
{{- range .Methods}}

{{.}}
{{- end}}
`))
