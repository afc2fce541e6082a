package syncer

import (
	"os"

	"blobsync/internal/models"
	"blobsync/pkg/utils"
)

// LoadLocalIndex enumerates the destination directory, non-recursive, files
// only. A missing directory or read failure means there is nothing to compare
// against, so it yields an empty inventory rather than an error.
func LoadLocalIndex(dir string) []models.LocalFile {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var files []models.LocalFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, models.LocalFile{
			Name:   entry.Name(),
			SizeKB: utils.SizeKB(info.Size()),
		})
	}
	return files
}
