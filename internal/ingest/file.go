package ingest

import (
	"fmt"
	"os"

	"salesfeed/internal/domain"
)

// ExtractFile reads a downloaded source file from disk and extracts its rows.
func ExtractFile(fileType domain.FileType, path string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading source file: %w", err)
	}
	return Extract(fileType, data)
}
