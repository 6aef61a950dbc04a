package page

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

//go:embed static/*.js
var embeddedStatic embed.FS

const (
	// IndexTemplate is the page carrying the form and the result element.
	IndexTemplate = "index"

	// ScriptCompact and ScriptPretty are the two browser handler variants.
	ScriptCompact = "script.js"
	ScriptPretty  = "script-pretty.js"
)

// TemplatesFS exposes the embedded template bundle.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// StaticFS exposes the embedded browser scripts so they can be served with
// http.FileServerFS.
func StaticFS() fs.FS {
	sub, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		return embeddedStatic
	}
	return sub
}
