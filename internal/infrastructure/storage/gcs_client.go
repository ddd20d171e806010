package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"swapskill/pkg/logger"
)

const publicHost = "https://storage.googleapis.com/"

type CloudStorageClient struct {
	client     *storage.Client
	bucketName string
	projectID  string
}

func NewCloudStorageClient(ctx context.Context, bucketName, projectID string, opts ...option.ClientOption) (*CloudStorageClient, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %v", err)
	}

	storageClient := &CloudStorageClient{
		client:     client,
		bucketName: bucketName,
		projectID:  projectID,
	}

	if err := storageClient.setBucketCORS(ctx); err != nil {
		logger.Warn("Failed to set CORS configuration on %s: %v", bucketName, err)
	}

	return storageClient, nil
}

// setBucketCORS lets browsers PUT to signed upload URLs. An existing CORS
// configuration is left alone.
func (c *CloudStorageClient) setBucketCORS(ctx context.Context) error {
	bucket := c.client.Bucket(c.bucketName)

	corsConfig := storage.CORS{
		MaxAge:          time.Hour,
		Methods:         []string{"GET", "PUT", "OPTIONS"},
		Origins:         []string{"*"},
		ResponseHeaders: []string{"Content-Type", "x-goog-resumable"},
	}

	bucketAttrs, err := bucket.Attrs(ctx)
	if err != nil {
		return fmt.Errorf("failed to get bucket attributes: %v", err)
	}

	if len(bucketAttrs.CORS) == 0 {
		if _, err := bucket.Update(ctx, storage.BucketAttrsToUpdate{CORS: []storage.CORS{corsConfig}}); err != nil {
			return fmt.Errorf("failed to update bucket CORS: %v", err)
		}
	}

	return nil
}

func (c *CloudStorageClient) UploadFile(ctx context.Context, file io.Reader, fileType, folder string) (string, error) {
	filename := objectName(folder, fileType, time.Now())

	obj := c.client.Bucket(c.bucketName).Object(filename)
	wc := obj.NewWriter(ctx)
	wc.ContentType = fileType
	wc.CacheControl = "public, max-age=86400"

	if _, err := io.Copy(wc, file); err != nil {
		wc.Close()
		return "", fmt.Errorf("failed to copy file to GCS: %v", err)
	}

	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %v", err)
	}

	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		return "", fmt.Errorf("failed to set ACL: %v", err)
	}

	return objectURL(c.bucketName, filename), nil
}

func (c *CloudStorageClient) DeleteFile(ctx context.Context, fileURL string) error {
	objectName, err := parseObjectURL(c.bucketName, fileURL)
	if err != nil {
		return err
	}

	if err := c.client.Bucket(c.bucketName).Object(objectName).Delete(ctx); err != nil {
		if err == storage.ErrObjectNotExist {
			return nil
		}
		return fmt.Errorf("failed to delete file: %v", err)
	}

	return nil
}

// GenerateSignedUploadURL returns a URL the browser can PUT the file to for
// the next 15 minutes, and the URL the file will be served from.
func (c *CloudStorageClient) GenerateSignedUploadURL(ctx context.Context, fileType, folder string) (string, string, error) {
	filename := objectName(folder, fileType, time.Now())

	opts := &storage.SignedURLOptions{
		Scheme:      storage.SigningSchemeV4,
		Method:      http.MethodPut,
		ContentType: fileType,
		Expires:     time.Now().Add(15 * time.Minute),
	}

	url, err := c.client.Bucket(c.bucketName).SignedURL(filename, opts)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate signed URL: %v", err)
	}

	return url, objectURL(c.bucketName, filename), nil
}

func (c *CloudStorageClient) Close() error {
	return c.client.Close()
}

func objectName(folder, fileType string, at time.Time) string {
	filename := fmt.Sprintf("%s/%s-%s", strings.Trim(folder, "/"), uuid.New().String(), at.Format("20060102150405"))

	switch fileType {
	case "image/jpeg", "image/jpg":
		filename += ".jpg"
	case "image/png":
		filename += ".png"
	case "image/gif":
		filename += ".gif"
	case "image/webp":
		filename += ".webp"
	case "application/pdf":
		filename += ".pdf"
	case "text/plain":
		filename += ".txt"
	default:
		filename += ".bin"
	}
	return filename
}

func objectURL(bucket, name string) string {
	return publicHost + bucket + "/" + name
}

// parseObjectURL extracts the object name from a public URL in bucket.
func parseObjectURL(bucket, fileURL string) (string, error) {
	if !strings.HasPrefix(fileURL, publicHost) {
		return "", fmt.Errorf("invalid GCS URL format")
	}

	parts := strings.SplitN(strings.TrimPrefix(fileURL, publicHost), "/", 2)
	if len(parts) != 2 || parts[0] != bucket || parts[1] == "" {
		return "", fmt.Errorf("invalid GCS URL format or bucket mismatch")
	}
	return parts[1], nil
}
