package usecase

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"swapskill/pkg/errors"
)

type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) UploadFile(ctx context.Context, file io.Reader, fileType, folder string) (string, error) {
	data, _ := io.ReadAll(file)
	args := m.Called(ctx, string(data), fileType, folder)
	return args.String(0), args.Error(1)
}

func (m *MockFileStorage) DeleteFile(ctx context.Context, fileURL string) error {
	args := m.Called(ctx, fileURL)
	return args.Error(0)
}

func (m *MockFileStorage) GenerateSignedUploadURL(ctx context.Context, fileType, folder string) (string, string, error) {
	args := m.Called(ctx, fileType, folder)
	return args.String(0), args.String(1), args.Error(2)
}

func TestUploadAttachment(t *testing.T) {
	storage := new(MockFileStorage)
	storage.On("UploadFile", mock.Anything, "hello", "text/plain", "attachments/u1").
		Return("https://storage.googleapis.com/b/attachments/u1/x.txt", nil)

	uc := NewUploadUseCase(storage, nil)
	att, err := uc.UploadAttachment(context.Background(), "u1", UploadInput{
		Name: "notes.txt", ContentType: "text/plain", Size: 5, Body: strings.NewReader("hello"),
	})
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", att.Name)
	assert.Equal(t, int64(5), att.Size)
	assert.Equal(t, "https://storage.googleapis.com/b/attachments/u1/x.txt", att.URL)
	storage.AssertExpectations(t)
}

func TestUploadAttachmentRejectsBeforeStoring(t *testing.T) {
	storage := new(MockFileStorage)
	uc := NewUploadUseCase(storage, nil)
	ctx := context.Background()

	_, err := uc.UploadAttachment(ctx, "u1", UploadInput{ContentType: "application/x-msdownload", Size: 10, Body: strings.NewReader("x")})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = uc.UploadAttachment(ctx, "u1", UploadInput{ContentType: "image/png", Size: MaxAttachmentSize + 1, Body: strings.NewReader("x")})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	storage.AssertNotCalled(t, "UploadFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	_, err = NewUploadUseCase(nil, nil).UploadAttachment(ctx, "u1", UploadInput{ContentType: "image/png", Size: 1})
	assert.True(t, errors.Is(err, "SERVICE_UNAVAILABLE"))
}

func TestDeleteAttachmentOwnership(t *testing.T) {
	storage := new(MockFileStorage)
	own := "https://storage.googleapis.com/b/attachments/u1/x.png"
	storage.On("DeleteFile", mock.Anything, own).Return(nil)

	uc := NewUploadUseCase(storage, nil)
	require.NoError(t, uc.DeleteAttachment(context.Background(), "u1", own))

	err := uc.DeleteAttachment(context.Background(), "u2", own)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
	storage.AssertNumberOfCalls(t, "DeleteFile", 1)
}

func TestSignedUploadURL(t *testing.T) {
	storage := new(MockFileStorage)
	storage.On("GenerateSignedUploadURL", mock.Anything, "image/png", "attachments/u1").
		Return("https://signed", "https://storage.googleapis.com/b/attachments/u1/y.png", nil)

	signed, err := NewUploadUseCase(storage, nil).SignedUploadURL(context.Background(), "u1", "image/png", 2048)
	require.NoError(t, err)
	assert.Equal(t, "https://signed", signed.UploadURL)
	assert.Contains(t, signed.FileURL, "attachments/u1/")
}
