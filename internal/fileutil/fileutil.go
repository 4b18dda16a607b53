package fileutil

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// WriteFileAtomic writes data to path on fs through a temp file in the same
// directory, so readers never see a partial file.
func WriteFileAtomic(fs afero.Fs, path string, data []byte, mode os.FileMode) error {
	return WriteAtomic(fs, path, mode, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// WriteAtomic streams write's output to a temp file next to path, then renames
// it into place. The temp file is removed on any failure.
func WriteAtomic(fs afero.Fs, path string, mode os.FileMode, write func(io.Writer) error) error {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = fs.Remove(tmpName)
		}
	}()

	buf := bufio.NewWriter(tmp)
	if err := write(buf); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("flush temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := fs.Chmod(tmpName, mode); err != nil {
		_ = fs.Remove(tmpName)
		committed = true
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := fs.Rename(tmpName, path); err != nil {
		_ = fs.Remove(tmpName)
		committed = true
		return fmt.Errorf("rename into place: %w", err)
	}
	committed = true
	return nil
}
