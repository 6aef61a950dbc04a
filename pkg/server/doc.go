// Package server exposes the parse service over net/http.
//
// Routes (relative to the mount path):
//
//	GET  /              form page with the jsonForm form and the result element
//	POST /parse-json    multipart or urlencoded jsonData / jsonFile input
//	GET  /static/       browser submission scripts
//	GET  /openapi.yaml  OpenAPI description of /parse-json
//
// A successful parse answers 200 {"result": ...}; any input or syntax
// problem answers 400 {"error": "..."} (413 when the body is too large).
package server
