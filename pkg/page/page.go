// Package page renders the HTML page that hosts the JSON form and exposes
// the browser scripts that submit it.
package page

import (
	"io"
	"strings"

	"github.com/goliatone/go-parsejson/pkg/submit"
)

// IndexData feeds the index template.
type IndexData struct {
	Title        string `json:"title"`
	FormID       string `json:"form_id"`
	ResultID     string `json:"result_id"`
	DataField    string `json:"data_field"`
	FileField    string `json:"file_field"`
	Endpoint     string `json:"endpoint"`
	StaticPrefix string `json:"static_prefix"`
	Script       string `json:"script"`
}

// DefaultIndexData returns the values the parse service renders with.
func DefaultIndexData() IndexData {
	return IndexData{
		Title:        "JSON Parser",
		FormID:       submit.DefaultFormID,
		ResultID:     submit.DefaultResultID,
		DataField:    submit.FieldJSONData,
		FileField:    submit.FieldJSONFile,
		Endpoint:     submit.DefaultEndpoint,
		StaticPrefix: "/static/",
		Script:       ScriptCompact,
	}
}

// ScriptFor picks the browser script matching a rendering mode.
func ScriptFor(mode submit.Mode) string {
	if mode == submit.ModePretty {
		return ScriptPretty
	}
	return ScriptCompact
}

// Index renders the form page. Empty fields fall back to DefaultIndexData.
func (e *Engine) Index(data IndexData, out ...io.Writer) (string, error) {
	return e.Render(IndexTemplate, withDefaults(data), out...)
}

func withDefaults(data IndexData) IndexData {
	def := DefaultIndexData()
	pick := func(value, fallback string) string {
		if strings.TrimSpace(value) == "" {
			return fallback
		}
		return value
	}
	return IndexData{
		Title:        pick(data.Title, def.Title),
		FormID:       pick(data.FormID, def.FormID),
		ResultID:     pick(data.ResultID, def.ResultID),
		DataField:    pick(data.DataField, def.DataField),
		FileField:    pick(data.FileField, def.FileField),
		Endpoint:     pick(data.Endpoint, def.Endpoint),
		StaticPrefix: pick(data.StaticPrefix, def.StaticPrefix),
		Script:       pick(data.Script, def.Script),
	}
}
