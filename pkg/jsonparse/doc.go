// Package jsonparse implements the small, dependency-free JSON lexer and
// recursive-descent parser that backs the /parse-json endpoint.
//
// Parsed objects keep their key order so a value can be written back out in
// the same shape it was submitted in:
//
//	value, err := jsonparse.Parse(`{"b": 1, "a": [true, null]}`)
//	if err != nil {
//		var syntaxErr *jsonparse.SyntaxError
//		errors.As(err, &syntaxErr) // syntaxErr.Offset points at the failure
//	}
//	out, _ := jsonparse.Marshal(value, "") // {"b":1,"a":[true,null]}
package jsonparse
