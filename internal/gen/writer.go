package gen

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

const filePerm = 0o644

// WriteFiles writes all generated files into their package directories.
func WriteFiles(files []GeneratedFile) error {
	for i := range files {
		err := os.WriteFile(files[i].Path(), files[i].Content, filePerm)
		if err != nil {
			return fmt.Errorf("writing file %s: %w", files[i].Path(), err)
		}
	}

	return nil
}

// Check compares files with what is on disk and returns the paths that are
// missing or differ.
func Check(files []GeneratedFile) ([]string, error) {
	var stale []string

	for i := range files {
		have, err := os.ReadFile(files[i].Path())
		if errors.Is(err, fs.ErrNotExist) {
			stale = append(stale, files[i].Path())
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", files[i].Path(), err)
		}

		if !bytes.Equal(have, files[i].Content) {
			stale = append(stale, files[i].Path())
		}
	}

	return stale, nil
}
