// Package downloads lists and serves the public download area, either from
// a local directory or from an S3-compatible bucket.
package downloads

import (
	"context"
	"path"
	"strings"
	"time"
)

// File is one downloadable entry.
type File struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// Target tells the web layer how to deliver a file: serve Path from disk or
// redirect the browser to URL.
type Target struct {
	Path string
	URL  string
}

// Source is a download area. Resolve returns common.ErrorNotFound for names
// it will not serve.
type Source interface {
	List(ctx context.Context) ([]File, error)
	Resolve(ctx context.Context, name string) (Target, error)
}

// cleanName rejects absolute names, parent references and hidden entries.
func cleanName(name string) (string, bool) {
	name = strings.TrimPrefix(name, "/")
	if name == "" || strings.Contains(name, "\\") {
		return "", false
	}
	if path.Clean(name) != name {
		return "", false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." || strings.HasPrefix(part, ".") {
			return "", false
		}
	}
	return name, true
}
