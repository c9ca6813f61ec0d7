package gateway

import (
	"bytes"
	"io"
	"mime/multipart"

	"github.com/pkg/errors"
)

// ImageFile is binary file content attached to a product or category write.
// Its presence switches the request encoding from JSON to multipart.
type ImageFile struct {
	Name    string // filename sent in the form part
	Content io.Reader
}

// formBody encodes string fields plus an optional file part as
// multipart/form-data.
type formBody struct {
	fields map[string]string
	file   *ImageFile
}

func (b formBody) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for key, value := range b.fields {
		if err := w.WriteField(key, value); err != nil {
			return nil, "", errors.Wrapf(err, "write field %q", key)
		}
	}

	if b.file != nil {
		part, err := w.CreateFormFile("image", b.file.Name)
		if err != nil {
			return nil, "", errors.Wrap(err, "create image part")
		}
		if _, err := io.Copy(part, b.file.Content); err != nil {
			return nil, "", errors.Wrap(err, "copy image content")
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", errors.Wrap(err, "close multipart writer")
	}
	return &buf, w.FormDataContentType(), nil
}
