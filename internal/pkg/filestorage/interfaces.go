package filestorage

import "mime/multipart"

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// SaveFile saves an uploaded file and returns the public URL it is served at
	SaveFile(fileHeader *multipart.FileHeader) (string, error)

	// DeleteFile removes a file from storage by its public URL
	DeleteFile(fileURL string) error
}
