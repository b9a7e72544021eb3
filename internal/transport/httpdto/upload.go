package httpdto

import (
	"time"

	"unimarket/internal/domain/upload"
)

// PresignUploadRequest is used for POST /uploads/presign
type PresignUploadRequest struct {
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	SizeBytes   int64  `json:"size_bytes" binding:"required"`
}

// PresignUploadResponse is returned with the presigned PUT URL
type PresignUploadResponse struct {
	SessionID string `json:"session_id"`
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
	ObjectKey string `json:"object_key"`
}

// UploadSessionDTO represents an upload session in API responses
type UploadSessionDTO struct {
	ID          string `json:"id"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	PublicURL   string `json:"public_url"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// FromUploadSession converts a domain upload session to UploadSessionDTO
func FromUploadSession(s upload.Session) UploadSessionDTO {
	return UploadSessionDTO{
		ID:          s.ID.String(),
		FileName:    s.FileName,
		ContentType: s.ContentType,
		SizeBytes:   s.SizeBytes,
		PublicURL:   s.PublicURL,
		Status:      s.Status,
		CreatedAt:   s.CreatedAt.Format(time.RFC3339),
	}
}

// FromUploadSessionSlice converts a slice of upload sessions
func FromUploadSessionSlice(sessions []upload.Session) []UploadSessionDTO {
	dtos := make([]UploadSessionDTO, len(sessions))
	for i, s := range sessions {
		dtos[i] = FromUploadSession(s)
	}
	return dtos
}
