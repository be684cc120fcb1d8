package llm

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultImageType = "image/jpeg"

var ErrEmptyImage = errors.New("image is empty")

// Image is a photo encoded for inline transport in a model request.
type Image struct {
	ContentType string
	Base64      string
}

// EncodeImage reads the photo and base64-encodes it. When contentType is
// empty or not an image type it is sniffed from the bytes.
func EncodeImage(r io.Reader, contentType string) (Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Image{}, fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return Image{}, ErrEmptyImage
	}
	return Image{
		ContentType: imageType(contentType, data),
		Base64:      base64.StdEncoding.EncodeToString(data),
	}, nil
}

func (i Image) DataURI() string {
	return "data:" + i.ContentType + ";base64," + i.Base64
}

func imageType(contentType string, data []byte) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if strings.HasPrefix(ct, "image/") {
		return ct
	}
	if sniffed := http.DetectContentType(data); strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}
	return defaultImageType
}
