package usecase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"swapskill/internal/domain/entity"
	"swapskill/internal/domain/service"
	"swapskill/internal/infrastructure/ratelimit"
	"swapskill/pkg/errors"
	"swapskill/pkg/logger"
)

const MaxAttachmentSize = 10 << 20

var attachmentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
	"text/plain":      true,
}

type UploadUseCase struct {
	storage     service.FileUploadService
	rateLimiter RateLimiter
}

// NewUploadUseCase accepts a nil storage; every call then fails with
// SERVICE_UNAVAILABLE.
func NewUploadUseCase(storage service.FileUploadService, rateLimiter RateLimiter) *UploadUseCase {
	return &UploadUseCase{
		storage:     storage,
		rateLimiter: limiterOrDefault(rateLimiter),
	}
}

type UploadInput struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

func attachmentFolder(userID string) string {
	return "attachments/" + userID
}

func (uc *UploadUseCase) check(userID, contentType string, size int64) error {
	if uc.storage == nil {
		return errors.New("SERVICE_UNAVAILABLE", "Attachment uploads are not configured", http.StatusServiceUnavailable, nil)
	}
	if !attachmentTypes[contentType] {
		return errors.BadRequest("Unsupported attachment type: "+contentType, nil)
	}
	if size <= 0 || size > MaxAttachmentSize {
		return errors.BadRequest(fmt.Sprintf("Attachments must be between 1 byte and %d MB", MaxAttachmentSize>>20), nil)
	}
	return checkRate(uc.rateLimiter, "UploadAttachment", userID, ratelimit.ActionUploadAttachment)
}

// UploadAttachment stores the file under the uploader's folder and returns
// the attachment to put on a message.
func (uc *UploadUseCase) UploadAttachment(ctx context.Context, userID string, input UploadInput) (*entity.Attachment, error) {
	if err := uc.check(userID, input.ContentType, input.Size); err != nil {
		return nil, err
	}

	body := io.LimitReader(input.Body, MaxAttachmentSize)
	url, err := uc.storage.UploadFile(ctx, body, input.ContentType, attachmentFolder(userID))
	if err != nil {
		logger.Error("UploadAttachment Error: %v", err)
		return nil, errors.Internal("Failed to upload attachment", err)
	}

	return &entity.Attachment{
		URL:         url,
		Name:        input.Name,
		ContentType: input.ContentType,
		Size:        input.Size,
	}, nil
}

type SignedUpload struct {
	UploadURL string `json:"upload_url"`
	FileURL   string `json:"file_url"`
}

// SignedUploadURL lets the client PUT large files straight to the bucket.
func (uc *UploadUseCase) SignedUploadURL(ctx context.Context, userID, contentType string, size int64) (*SignedUpload, error) {
	if err := uc.check(userID, contentType, size); err != nil {
		return nil, err
	}

	uploadURL, fileURL, err := uc.storage.GenerateSignedUploadURL(ctx, contentType, attachmentFolder(userID))
	if err != nil {
		logger.Error("SignedUploadURL Error: %v", err)
		return nil, errors.Internal("Failed to create upload URL", err)
	}
	return &SignedUpload{UploadURL: uploadURL, FileURL: fileURL}, nil
}

// DeleteAttachment removes a file the caller uploaded.
func (uc *UploadUseCase) DeleteAttachment(ctx context.Context, userID, fileURL string) error {
	if uc.storage == nil {
		return errors.New("SERVICE_UNAVAILABLE", "Attachment uploads are not configured", http.StatusServiceUnavailable, nil)
	}
	if !strings.Contains(fileURL, "/"+attachmentFolder(userID)+"/") {
		return errors.Forbidden("You can only delete your own attachments", nil)
	}

	if err := uc.storage.DeleteFile(ctx, fileURL); err != nil {
		logger.Error("DeleteAttachment Error: %v", err)
		return errors.Internal("Failed to delete attachment", err)
	}
	return nil
}
