package uploadphoto

import (
	"bufio"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	apperrors "station-dashboard/internal/common/errors"
	"station-dashboard/internal/verification"
)

const sniffLen = 512

// photoFromPart checks size and type and returns the upload ready to stream.
// A missing or generic part content type is replaced by one sniffed from the bytes.
func photoFromPart(cfg *Config, file multipart.File, header *multipart.FileHeader) (verification.Photo, error) {
	if header.Size <= 0 {
		return verification.Photo{}, apperrors.NewValidationError("Photo is empty")
	}
	if header.Size > cfg.MaxPhotoBytes {
		return verification.Photo{}, apperrors.NewValidationError(
			fmt.Sprintf("Photo must be at most %d bytes", cfg.MaxPhotoBytes))
	}

	br := bufio.NewReaderSize(file, sniffLen)
	contentType := strings.TrimSpace(header.Header.Get("Content-Type"))
	if contentType == "" || contentType == "application/octet-stream" {
		head, _ := br.Peek(sniffLen)
		contentType = http.DetectContentType(head)
	}
	if !strings.HasPrefix(contentType, cfg.AllowedPrefix) {
		return verification.Photo{}, apperrors.NewValidationError("Photo must be an image")
	}

	return verification.Photo{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        br,
	}, nil
}
