// Package mediahost uploads media files to the external hosting service
// and returns durable URLs. Deleting a project does not remove its blobs;
// orphaned media on the host is an accepted externality.
package mediahost

import (
	"context"
	"io"
	"mime"
	"path"

	"github.com/mfolden/portfolio-backend/models"
)

// Kind is the host-side resource kind, derived from the project type.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// KindForProject maps a project type to its upload resource kind.
func KindForProject(t models.ProjectType) Kind {
	if t.MediaKind() == models.MediaTypeVideo {
		return KindVideo
	}
	return KindImage
}

// Uploader sends one file to the media host and returns its secure URL.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, filename string, kind Kind) (string, error)
}

func contentTypeFor(filename string, kind Kind) string {
	if ct := mime.TypeByExtension(path.Ext(filename)); ct != "" {
		return ct
	}
	if kind == KindVideo {
		return "video/mp4"
	}
	return "application/octet-stream"
}
