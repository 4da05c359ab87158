package filestorage

import "mime/multipart"

// FileStorage defines the interface for stored uploads such as student
// profile images.
type FileStorage interface {
	// SaveFile saves a file into the storage root and returns its accessible path
	SaveFile(fileHeader *multipart.FileHeader) (string, error)

	// SaveFileWithPath lets you specify a subdirectory for storing the file
	SaveFileWithPath(fileHeader *multipart.FileHeader, path string) (string, error)

	// DeleteFile removes a previously stored file
	DeleteFile(filePath string) error

	// GetFullPath returns the full filesystem path for a given file URL
	GetFullPath(fileURL string) string
}
