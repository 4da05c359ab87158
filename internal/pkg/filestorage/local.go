package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ajayk/studisdb/internal/pkg/logger"
)

// LocalStorage saves uploads on the local filesystem under a base
// directory and serves them back under baseURL.
type LocalStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates a LocalStorage rooted at basePath. baseURL is
// optional; when set it is prepended to returned file paths.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{basePath: basePath, baseURL: baseURL}, nil
}

// SaveFileWithPath saves a file into the given subdirectory. The stored
// filename is a fresh UUID so concurrent uploads never collide.
func (ls *LocalStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	dir := ls.basePath
	if subPath != "" {
		dir = filepath.Join(ls.basePath, subPath)
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return "", fmt.Errorf("failed to create subdirectory: %w", err)
		}
	}

	name := uuid.New().String() + filepath.Ext(fileHeader.Filename)
	dstPath := filepath.Join(dir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	accessible := ls.accessiblePath(subPath, name)
	logger.Info().
		Str("filename", fileHeader.Filename).
		Str("saved_as", name).
		Str("path", accessible).
		Msg("File saved")
	return accessible, nil
}

// SaveFile saves an uploaded file into the storage root.
func (ls *LocalStorage) SaveFile(fileHeader *multipart.FileHeader) (string, error) {
	return ls.SaveFileWithPath(fileHeader, "")
}

// DeleteFile removes a stored file given its accessible path. Deleting a
// file that is already gone is not an error.
func (ls *LocalStorage) DeleteFile(filePath string) error {
	if filePath == "" {
		return nil
	}

	physical := ls.GetFullPath(filePath)
	if physical == "" {
		return fmt.Errorf("invalid file path: %s", filePath)
	}

	if _, err := os.Stat(physical); os.IsNotExist(err) {
		logger.Warn().Str("path", physical).Msg("File to delete does not exist")
		return nil
	}
	if err := os.Remove(physical); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// GetFullPath maps an accessible path or URL back to a filesystem path
// under the storage root.
func (ls *LocalStorage) GetFullPath(fileURL string) string {
	trimmed := fileURL
	if ls.baseURL != "" {
		trimmed = strings.TrimPrefix(trimmed, strings.TrimRight(ls.baseURL, "/")+"/")
	}
	trimmed = strings.TrimPrefix(trimmed, "uploads/")
	trimmed = filepath.Clean("/" + trimmed)[1:]
	if trimmed == "" || trimmed == "." {
		return ""
	}
	return filepath.Join(ls.basePath, trimmed)
}

func (ls *LocalStorage) accessiblePath(subPath, name string) string {
	parts := []string{}
	if subPath != "" {
		parts = append(parts, subPath)
	}
	parts = append(parts, name)

	if ls.baseURL != "" {
		return strings.TrimRight(ls.baseURL, "/") + "/" + strings.Join(parts, "/")
	}
	return filepath.Join(append([]string{"uploads"}, parts...)...)
}
