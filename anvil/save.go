package anvil

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Save rewrites the region file at path and returns the number of chunks written. The file
// is written to a temporary file in the same directory and renamed over path. An empty
// region leaves path untouched and returns 0.
func Save(region *Region, path string, opts SaveOptions) (written int, err error) {
	if region.Empty() {
		return 0, nil
	}

	mode := os.FileMode(0644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}

	tmpPath := filepath.Join(filepath.Dir(path), fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))
	file, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return 0, fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		if file != nil {
			file.Close()
		}
		if err != nil || written == 0 {
			os.Remove(tmpPath)
		}
	}()

	out := bufio.NewWriter(file)
	if written, err = region.Encode(out, opts); err != nil {
		return written, err
	}
	if err = out.Flush(); err != nil {
		return written, fmt.Errorf("failed to write region file: %w", err)
	}
	if err = file.Sync(); err != nil {
		return written, fmt.Errorf("failed to sync region file: %w", err)
	}
	err = file.Close()
	file = nil
	if err != nil {
		return written, fmt.Errorf("failed to close region file: %w", err)
	}
	if written == 0 {
		return 0, nil
	}

	if err = os.Rename(tmpPath, path); err != nil {
		return written, fmt.Errorf("failed to rename region file: %w", err)
	}
	return written, nil
}
