package splendir

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestIdentifyReaderByContent(t *testing.T) {
	// the misleading extension must not win over the magic bytes
	format, mimeType, err := IdentifyReader(bytes.NewReader(pngHeader), "picture.txt")
	require.NoError(t, err)
	assert.Equal(t, "image/png", mimeType)
	assert.Equal(t, "PNG Image", format)
}

func TestIdentifyReaderPlainText(t *testing.T) {
	format, mimeType, err := IdentifyReader(strings.NewReader("hello world\n"), "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", baseMIME(mimeType))
	assert.Equal(t, "Plain Text", format)
}

func TestIdentifyReaderFallsBackToExtension(t *testing.T) {
	format, mimeType, err := IdentifyReader(bytes.NewReader(nil), "empty.json")
	require.NoError(t, err)
	assert.Equal(t, "application/json", baseMIME(mimeType))
	assert.Equal(t, "JSON", format)
}

func TestIdentifyReaderUnknownBinary(t *testing.T) {
	format, mimeType, err := IdentifyReader(bytes.NewReader([]byte{0x00, 0x01, 0x02, 0x03, 0xfe}), "blob.zzz")
	require.NoError(t, err)
	assert.Equal(t, genericBinaryMIME, mimeType)
	assert.Equal(t, "ZZZ", format)

	format, _, err = IdentifyReader(bytes.NewReader([]byte{0x00, 0x01, 0x02}), "noext")
	require.NoError(t, err)
	assert.Equal(t, "Unknown", format)
}

func TestIdentifyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "image.png")
	require.NoError(t, os.WriteFile(path, pngHeader, 0644))

	format, mimeType, err := IdentifyFile(path)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mimeType)
	assert.Equal(t, "PNG Image", format)

	format, mimeType, err = IdentifyFile(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
	assert.Equal(t, NotCalculated, format)
	assert.Equal(t, NotCalculated, mimeType)
}
