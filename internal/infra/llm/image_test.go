package llm

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestEncodeImage_Deterministic(t *testing.T) {
	data := []byte("\xff\xd8\xff\xe0 some jpeg bytes")

	a, err := EncodeImage(bytes.NewReader(data), "image/jpeg")
	require.NoError(t, err)
	b, err := EncodeImage(bytes.NewReader(data), "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	decoded, err := base64.StdEncoding.DecodeString(a.Base64)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
	assert.Equal(t, "data:image/jpeg;base64,"+a.Base64, a.DataURI())
}

func TestEncodeImage_SniffsMissingType(t *testing.T) {
	img, err := EncodeImage(bytes.NewReader(pngHeader), "application/octet-stream")
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
}

func TestEncodeImage_StripsParameters(t *testing.T) {
	img, err := EncodeImage(bytes.NewReader(pngHeader), "Image/PNG; charset=binary")
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
}

func TestEncodeImage_UnknownFallsBackToJPEG(t *testing.T) {
	img, err := EncodeImage(bytes.NewReader([]byte("plain text")), "")
	require.NoError(t, err)
	assert.Equal(t, defaultImageType, img.ContentType)
}

func TestEncodeImage_Empty(t *testing.T) {
	_, err := EncodeImage(bytes.NewReader(nil), "image/png")
	assert.ErrorIs(t, err, ErrEmptyImage)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestEncodeImage_UnreadableInput(t *testing.T) {
	_, err := EncodeImage(failingReader{}, "image/png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
}
