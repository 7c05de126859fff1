// Package file implements the local filesystem data source for the corpus
// tables. All seven inputs are static local files; there is no remote or
// streaming source kind.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Open opens path for reading. A context that is already canceled or past
// its deadline short-circuits without touching the filesystem. Filesystem
// errors are wrapped with the path while remaining errors.Is-compatible
// (e.g. os.ErrNotExist), so an unreadable source is reported as a fatal
// loader error with no partial result.
func Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
