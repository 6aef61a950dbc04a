package submit

import (
	"bytes"
	"fmt"
	"mime/multipart"
)

// Payload is the multipart encoding of a form snapshot. A new payload is
// built for every submission.
type Payload struct {
	Body        []byte
	ContentType string
}

// EncodePayload writes fields as multipart/form-data in order.
func EncodePayload(fields []Field) (Payload, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, field := range fields {
		if field.Name == "" {
			continue
		}
		if field.IsFile {
			part, err := writer.CreateFormFile(field.Name, field.Filename)
			if err != nil {
				return Payload{}, fmt.Errorf("submit: create file part %q: %w", field.Name, err)
			}
			if _, err := part.Write(field.Content); err != nil {
				return Payload{}, fmt.Errorf("submit: write file part %q: %w", field.Name, err)
			}
			continue
		}
		if err := writer.WriteField(field.Name, field.Value); err != nil {
			return Payload{}, fmt.Errorf("submit: write field %q: %w", field.Name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return Payload{}, fmt.Errorf("submit: close multipart writer: %w", err)
	}

	return Payload{
		Body:        buf.Bytes(),
		ContentType: writer.FormDataContentType(),
	}, nil
}
