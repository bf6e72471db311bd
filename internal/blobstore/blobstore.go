package blobstore

import (
	"context"
	"io"
)

// ProgressFunc receives upload progress as a percentage. Implementations
// guarantee a non-decreasing sequence that ends at 100 on success.
type ProgressFunc func(percent int)

// Store is the blob half of the remote-store boundary: upload with
// optional progress, public URL resolution, and delete-by-path.
// Delete treats an already-missing blob as success.
type Store interface {
	Upload(ctx context.Context, path string, r io.Reader, size int64, contentType string, progress ProgressFunc) (string, error)
	PublicURL(path string) string
	Delete(ctx context.Context, path string) error

	// PathFromRef maps a reference previously returned by PublicURL
	// back to a storage path. The second return is false for empty
	// refs and refs outside this store's namespace.
	PathFromRef(ref string) (string, bool)
}

// progressReader reports read progress against a known total. Percent
// values never decrease, and 99 is the cap until the caller confirms
// the upload completed.
type progressReader struct {
	r        io.Reader
	total    int64
	read     int64
	lastPct  int
	progress ProgressFunc
}

func newProgressReader(r io.Reader, total int64, progress ProgressFunc) io.Reader {
	if progress == nil {
		return r
	}
	return &progressReader{r: r, total: total, progress: progress}
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 {
		pr.read += int64(n)
		pct := 99
		if pr.total > 0 {
			pct = int(pr.read * 100 / pr.total)
			if pct > 99 {
				pct = 99
			}
		}
		if pct > pr.lastPct {
			pr.lastPct = pct
			pr.progress(pct)
		}
	}
	return n, err
}

// finish reports the terminal 100 once the backend confirmed the write.
func finish(progress ProgressFunc) {
	if progress != nil {
		progress(100)
	}
}
