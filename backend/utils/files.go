package utils

import (
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// SaveUploadedFile stores an upload under destDir with a generated name and
// returns the path on disk.
func SaveUploadedFile(file *multipart.FileHeader, destDir string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	ext := filepath.Ext(file.Filename)
	filePath := filepath.Join(destDir, uuid.NewString()+ext)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return filePath, nil
}

// DetectContentType maps a filename to the coarse content categories units
// store (document, pdf, video, audio, image) plus the underlying mime type.
func DetectContentType(filename string) (contentType, mimeType string) {
	mimeType = mime.TypeByExtension(filepath.Ext(filename))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	switch {
	case strings.HasPrefix(mimeType, "image/"):
		contentType = "image"
	case strings.HasPrefix(mimeType, "video/"):
		contentType = "video"
	case strings.HasPrefix(mimeType, "audio/"):
		contentType = "audio"
	case strings.HasPrefix(mimeType, "application/pdf"):
		contentType = "pdf"
	case mimeType == "application/msword",
		strings.HasPrefix(mimeType, "application/vnd.openxmlformats-officedocument.wordprocessingml"):
		contentType = "document"
	default:
		contentType = "unknown"
	}
	return contentType, mimeType
}
