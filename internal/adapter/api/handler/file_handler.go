package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"swapskill/internal/usecase"
	"swapskill/pkg/errors"
	"swapskill/pkg/logger"
	"swapskill/pkg/response"
)

type FileHandler struct {
	uploadUseCase *usecase.UploadUseCase
}

func NewFileHandler(uploadUseCase *usecase.UploadUseCase) *FileHandler {
	return &FileHandler{
		uploadUseCase: uploadUseCase,
	}
}

type signedUploadRequest struct {
	ContentType string `json:"content_type" validate:"required"`
	Size        int64  `json:"size" validate:"required,gt=0"`
}

type deleteAttachmentRequest struct {
	URL string `json:"url" validate:"required,url"`
}

func (h *FileHandler) UploadAttachment(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing or invalid file", err))
	}

	src, err := file.Open()
	if err != nil {
		logger.Error("UploadAttachment Error: open %s: %v", file.Filename, err)
		return response.Error(c, errors.Internal("Unable to read file", err))
	}
	defer src.Close()

	attachment, err := h.uploadUseCase.UploadAttachment(c.Request().Context(), uid(c), usecase.UploadInput{
		Name:        file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Size:        file.Size,
		Body:        src,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, attachment)
}

func (h *FileHandler) SignedUploadURL(c echo.Context) error {
	var req signedUploadRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	signed, err := h.uploadUseCase.SignedUploadURL(c.Request().Context(), uid(c), req.ContentType, req.Size)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, signed)
}

func (h *FileHandler) DeleteAttachment(c echo.Context) error {
	var req deleteAttachmentRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.uploadUseCase.DeleteAttachment(c.Request().Context(), uid(c), req.URL); err != nil {
		return response.Error(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
