package dto

// UploadResponse is returned after a successful file upload
type UploadResponse struct {
	FileURL  string `json:"file_url"`
	MimeType string `json:"mime_type"`
	FileSize int64  `json:"file_size"`
}
