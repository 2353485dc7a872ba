// Package sitepub provides content type handling for published objects.
package sitepub

import (
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/input-output-hk/catalyst-forge-libs/fs"
)

// DefaultContentType is returned by DetectContentType when nothing better is
// known about a file.
const DefaultContentType = "application/octet-stream"

// publishedContentTypes maps the file extensions that appear in published
// releases to the Content-Type stored on their objects. CopyKeys rewrites each
// destination Content-Type from this table because the tooling that made the
// original uploads did not set one.
var publishedContentTypes = map[string]string{
	".eot":  "application/vnd.ms-fontobject",
	".gif":  "image/gif",
	".html": "text/html",
	".jpg":  "image/jpeg",
	".js":   "application/javascript",
	".css":  "text/css",
	".png":  "image/png",
	".sh":   "text/plain",
	".svg":  "image/svg+xml",
	".ttf":  "application/x-font-ttf",
	".txt":  "text/plain",
	".woff": "application/font-woff",
	".yml":  "text/plain",
}

// ContentTypeForKey returns the Content-Type for an object key based on its
// extension, or "" when the extension has no entry in the published table.
func ContentTypeForKey(key string) string {
	return publishedContentTypes[path.Ext(key)]
}

// DetectContentType determines the Content-Type of a local file for callers
// filling UploadKey.ContentType. The published table wins when the extension
// has an entry; otherwise the file's leading bytes are sniffed with mimetype,
// falling back to extension-based lookup.
//
// Executors never call this: UploadKey stores exactly the Content-Type it was
// given, and "" stays unset.
func DetectContentType(fsys fs.Filesystem, name string) string {
	if ct := publishedContentTypes[strings.ToLower(filepath.Ext(name))]; ct != "" {
		return ct
	}

	// If the path points to an existing local file, prefer sniffing its content.
	info, err := fsys.Stat(name)
	if err != nil || info.IsDir() {
		return detectContentTypeFromExtension(name)
	}

	file, err := fsys.Open(name)
	if err != nil {
		return detectContentTypeFromExtension(name)
	}
	defer file.Close()

	// Read first 512 bytes for content detection
	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	if n > 0 {
		if mt := mimetype.Detect(buf[:n]); mt != nil {
			return mt.String()
		}
	}

	return detectContentTypeFromExtension(name)
}

// detectContentTypeFromExtension is the fallback for paths that cannot be read.
func detectContentTypeFromExtension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext != "" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			return byExt
		}
	}

	return DefaultContentType
}
