package summarize

import (
	"context"

	"github.com/karanamabhishek1402/VDSM/internal/media"
)

// Media is the slice of the ffmpeg executor the pipeline needs. Kept narrow
// so tests can run the whole pipeline against a fake without a real ffmpeg
// install.
type Media interface {
	Probe(ctx context.Context, filePath string) (*media.VideoInfo, error)
	ExtractFrame(ctx context.Context, filePath string, ts float64) ([]byte, error)
	ExtractClip(ctx context.Context, input string, opts media.ClipOptions) error
	Concat(ctx context.Context, inputs []string, output string, reencode bool) error
}

// ArtifactStore persists the finished summary artifact. Implemented by
// storage.FileStore.
type ArtifactStore interface {
	// ImportFile moves srcPath into the store under key and returns the
	// canonical key and the stored size in bytes.
	ImportFile(ctx context.Context, key, srcPath string) (string, int64, error)
	Remove(ctx context.Context, key string) error
}

// SourceResolver maps a video id to a local path of decodable media. Upload
// transport and object storage are the caller's concern; the pipeline only
// ever reads the resolved file.
type SourceResolver interface {
	Resolve(ctx context.Context, videoID string) (string, error)
}

// SourceResolverFunc adapts a function to the SourceResolver interface.
type SourceResolverFunc func(ctx context.Context, videoID string) (string, error)

func (f SourceResolverFunc) Resolve(ctx context.Context, videoID string) (string, error) {
	return f(ctx, videoID)
}
