package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// TempFilePrefix marks in-flight writes. Listings skip files carrying it.
const TempFilePrefix = "folio-tmp-"

// atomicWrite replaces filename with the bytes produced by fill. The content
// goes to a temp file in the same directory first and is renamed over
// filename only after fill, fsync and close succeed. On failure the target
// is untouched and the temp file is removed.
func atomicWrite(filename string, perm os.FileMode, fill func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(filename), TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err = fill(tmp); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(filename), err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err = os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err = os.Rename(tmpName, filename); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", filename, err)
	}
	return nil
}

// writeFileAtomic is atomicWrite for a byte slice.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	return atomicWrite(filename, perm, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// copyFileAtomic streams r into filename and returns the number of bytes.
func copyFileAtomic(filename string, r io.Reader, perm os.FileMode) (int64, error) {
	var n int64
	err := atomicWrite(filename, perm, func(w io.Writer) error {
		var err error
		n, err = io.Copy(w, r)
		return err
	})
	return n, err
}
