package loader

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// extractZip unpacks an archetype archive into a fresh temp directory and
// returns its path. The caller owns cleanup of the directory.
func extractZip(archivePath string) (string, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to open archetype archive %s: %w", archivePath, err)
	}
	defer reader.Close()

	tmpDir, err := os.MkdirTemp("", "archetype-*")
	if err != nil {
		return "", fmt.Errorf("failed to create extraction directory: %w", err)
	}

	for _, file := range reader.File {
		if err := extractZipEntry(tmpDir, file); err != nil {
			os.RemoveAll(tmpDir)
			return "", fmt.Errorf("failed to extract %s from %s: %w", file.Name, archivePath, err)
		}
	}
	return tmpDir, nil
}

func extractZipEntry(destRoot string, file *zip.File) error {
	// Reject entries that would land outside the extraction root.
	cleaned := filepath.Clean(filepath.FromSlash(file.Name))
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(os.PathSeparator)) || filepath.IsAbs(cleaned) {
		return fmt.Errorf("archive entry %q escapes the extraction root", file.Name)
	}
	destPath := filepath.Join(destRoot, cleaned)

	if file.FileInfo().IsDir() {
		return os.MkdirAll(destPath, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
