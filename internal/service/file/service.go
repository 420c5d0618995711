package file

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Basel-Alghamdi/HRMS/internal/pkg/storage"
)

type FileService interface {
	// UploadLeaveAttachment stores a supporting document for a leave request
	// and returns the reference to carry on the request.
	UploadLeaveAttachment(ctx context.Context, employeeID string, file io.Reader, filename string) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// UploadLeaveAttachment uploads leave request attachment
func (s *fileServiceImpl) UploadLeaveAttachment(ctx context.Context, employeeID string, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	allowedExts := []string{".jpg", ".jpeg", ".png", ".pdf"}

	isValid := false
	for _, allowed := range allowedExts {
		if ext == allowed {
			isValid = true
			break
		}
	}
	if !isValid {
		return "", fmt.Errorf("invalid file type: only jpg, jpeg, png, pdf allowed")
	}

	// Generate unique filename with timestamp
	uniqueID := uuid.New().String()
	timestamp := time.Now().Unix()
	newFilename := fmt.Sprintf("%s-%d%s", uniqueID, timestamp, ext)
	path := filepath.Join("leave", employeeID, newFilename)

	uploadedPath, err := s.storage.Upload(ctx, file, path, "application/octet-stream")
	if err != nil {
		return "", fmt.Errorf("failed to upload leave attachment: %w", err)
	}

	return uploadedPath, nil
}
