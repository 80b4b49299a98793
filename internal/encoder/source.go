package encoder

import (
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/smelt-client/internal/protocol"
)

// Source is one raw input: a file on disk or a pasted text.
type Source struct {
	Name string
	Path string
	Text string
	Kind protocol.ItemKind
}

// FileSource names a file by its base name.
func FileSource(path string) Source {
	return Source{Name: filepath.Base(path), Path: path, Kind: protocol.KindFile}
}

// TextSource wraps pasted text under the fixed text identifier.
func TextSource(text string) Source {
	return Source{Name: protocol.TextIdentifier, Text: text, Kind: protocol.KindText}
}

var mimeTypes = map[string]string{
	".mp3": "audio/mpeg",
	".wav": "audio/wav",
	".m4a": "audio/mp4",
	".ogg": "audio/ogg",
	".txt": "text/plain",
	".md":  "text/markdown",
}

// MimeType maps a file name to the media type the remote expects
func MimeType(name string) string {
	if mt, ok := mimeTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return mt
	}
	return "application/octet-stream"
}

// IsSupported reports whether the remote accepts files with this name
func IsSupported(name string) bool {
	_, ok := mimeTypes[strings.ToLower(filepath.Ext(name))]
	return ok
}
