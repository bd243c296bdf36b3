package logging

import (
	"errors"
	"io/fs"
	"os"
	"sync"
)

// OldSuffix is appended to a rotated log's name. Exactly one rotated
// generation is kept per log file.
const OldSuffix = ".old"

// reopenableFile is an append-mode log file whose descriptor can be swapped
// under a mutex, so rotation never leaves the logger writing into the
// renamed backup.
type reopenableFile struct {
	path string

	mu sync.Mutex
	f  *os.File
}

func openReopenable(path string) (*reopenableFile, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &reopenableFile{path: path, f: f}, nil
}

func (r *reopenableFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.f == nil {
		return 0, fs.ErrClosed
	}
	return r.f.Write(p)
}

// rotateIfLarge renames the file to "<path>.old" once it has grown to
// maxSize or beyond, then reopens a fresh file at the original path.
func (r *reopenableFile) rotateIfLarge(maxSize int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.f == nil {
		return false, fs.ErrClosed
	}

	info, err := r.f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() < maxSize {
		return false, nil
	}

	if err := r.f.Close(); err != nil {
		r.f = nil
		return false, err
	}
	if err := os.Rename(r.path, r.path+OldSuffix); err != nil {
		// Reopen the original so logging keeps working even though
		// rotation failed.
		r.f, _ = os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		return false, err
	}

	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		r.f = nil
		return false, err
	}
	r.f = f
	return true, nil
}

func (r *reopenableFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.f == nil {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	if errors.Is(err, fs.ErrClosed) {
		return nil
	}
	return err
}
