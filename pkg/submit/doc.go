// Package submit implements the browser-side form submission flow in Go: a
// submit event on the form is intercepted, the form is snapshotted into a
// multipart payload, POSTed to the parse endpoint, and the JSON response is
// rendered into the result element.
//
// Three outcomes are distinguished and each produces exactly one write to the
// result element:
//
//   - OK: the server returned {"result": ...}; rendered per Mode.
//   - AppError: the server returned {"error": "..."}; shown as "Error: ...".
//   - TransportError: the request failed or the body was not JSON; logged
//     and shown as FallbackMessage.
//
// Handle blocks until the response is applied. Dispatch runs the same flow in
// a goroutine so callers stay responsive; overlapping submissions are not
// queued and the last response to arrive wins the display.
package submit
