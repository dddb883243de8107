package fsutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileMode is the mode for files created without an explicit mode.
const DefaultFileMode os.FileMode = 0o644

// WriteOptions controls WriteFile.
type WriteOptions struct {
	// Mode for the written file. Zero keeps the mode of an existing file,
	// or uses DefaultFileMode for a new one.
	Mode os.FileMode

	// Overwrite allows replacing an existing file. Without it WriteFile
	// returns ErrExists.
	Overwrite bool
}

// WriteFile writes content to path atomically. It reports false without
// touching the file when the existing content is identical.
func WriteFile(ctx context.Context, path string, content []byte, opts WriteOptions) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("write file: %w", err)
	}

	mode := opts.Mode
	existing, info, err := ReadFile(ctx, path)
	switch {
	case err == nil:
		if bytes.Equal(existing, content) {
			return false, nil
		}
		if !opts.Overwrite {
			return false, fmt.Errorf("%w: %s", ErrExists, path)
		}
		if mode == 0 {
			mode = info.Mode.Perm()
		}
	case !isNotFound(err):
		return false, err
	}

	if err := WriteAtomic(ctx, path, content, mode); err != nil {
		return false, err
	}
	return true, nil
}

// WriteAtomic writes content to path through a temp file in the same
// directory and a rename, so readers never see a partial file. On error the
// temp file is removed and any existing file is untouched. A zero mode uses
// DefaultFileMode.
func WriteAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write atomic: %w", err)
	}
	if mode == 0 {
		mode = DefaultFileMode
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	success = true
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
