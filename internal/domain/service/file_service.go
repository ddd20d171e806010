package service

import (
	"context"
	"io"
)

// FileUploadService stores message attachments. Implemented by the Cloud
// Storage client.
type FileUploadService interface {
	UploadFile(ctx context.Context, file io.Reader, fileType, folder string) (string, error)
	DeleteFile(ctx context.Context, fileURL string) error
	GenerateSignedUploadURL(ctx context.Context, fileType, folder string) (uploadURL, fileURL string, err error)
}
