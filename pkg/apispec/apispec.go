// Package apispec carries the OpenAPI description of the parse service and
// resolves operations from it.
package apispec

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// ParseOperationID names the /parse-json operation.
const ParseOperationID = "parseJson"

//go:embed openapi.yaml
var embeddedDocument []byte

// Raw returns a copy of the embedded OpenAPI YAML.
func Raw() []byte {
	return append([]byte(nil), embeddedDocument...)
}

// Operation is the method and path an operation id resolves to.
type Operation struct {
	ID     string
	Method string
	Path   string
}

// Load parses and validates the embedded document.
func Load(ctx context.Context) (*openapi3.T, error) {
	return LoadData(ctx, embeddedDocument)
}

// LoadData parses and validates an OpenAPI document, for example one fetched
// from a running service.
func LoadData(ctx context.Context, data []byte) (*openapi3.T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("apispec: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("apispec: load document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("apispec: validate document: %w", err)
	}
	return doc, nil
}

// ResolveOperation finds the operation with the given id.
func ResolveOperation(doc *openapi3.T, operationID string) (Operation, error) {
	if doc == nil || doc.Paths == nil {
		return Operation{}, errors.New("apispec: document has no paths")
	}
	id := strings.TrimSpace(operationID)
	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op != nil && op.OperationID == id {
				return Operation{ID: id, Method: strings.ToUpper(method), Path: path}, nil
			}
		}
	}
	return Operation{}, fmt.Errorf("apispec: operation %q not found", id)
}

// ParseEndpoint resolves the parse operation from the embedded document.
func ParseEndpoint(ctx context.Context) (Operation, error) {
	doc, err := Load(ctx)
	if err != nil {
		return Operation{}, err
	}
	op, err := ResolveOperation(doc, ParseOperationID)
	if err != nil {
		return Operation{}, err
	}
	if op.Method != http.MethodPost {
		return Operation{}, fmt.Errorf("apispec: %s must be POST, got %s", ParseOperationID, op.Method)
	}
	return op, nil
}
