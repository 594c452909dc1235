package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/storage"
)

const (
	// MaxPhotoWidth bounds the stored selfie width in pixels.
	MaxPhotoWidth = 1024
	// maxPhotoBytes is the size the re-encoded JPEG aims to stay under.
	maxPhotoBytes = 150 * 1024
	minQuality    = 50
	startQuality  = 85
)

var ErrInvalidImageType = errors.New("invalid file type: only jpg, jpeg, png allowed")

type FileService interface {
	// UploadAttendancePhoto normalises a clock selfie to JPEG and stores it
	UploadAttendancePhoto(ctx context.Context, userID string, date string, recordType string, file io.Reader, filename string) (string, error)

	// UploadPayrollExport stores a generated payroll file under payroll/
	UploadPayrollExport(ctx context.Context, filename string, data []byte, contentType string) (string, error)

	// Generic operations
	DeleteFile(ctx context.Context, path string) error
	GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
	now     func() time.Time
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
		now:     time.Now,
	}
}

// UploadAttendancePhoto stores the photo at
// attendance/{date}/{userID}-{type}-{unix}-{uuid}.jpg. PNG input is
// re-encoded as JPEG.
func (s *fileServiceImpl) UploadAttendancePhoto(ctx context.Context, userID string, date string, recordType string, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return "", ErrInvalidImageType
	}

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	compressed, err := compressImage(img, MaxPhotoWidth, maxPhotoBytes)
	if err != nil {
		return "", fmt.Errorf("failed to compress image: %w", err)
	}

	newFilename := fmt.Sprintf("%s-%s-%d-%s.jpg", userID, recordType, s.now().Unix(), uuid.NewString()[:8])
	objectPath := path.Join("attendance", date, newFilename)

	uploadedPath, err := s.storage.Upload(ctx, bytes.NewReader(compressed), objectPath, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload attendance photo: %w", err)
	}

	return uploadedPath, nil
}

func (s *fileServiceImpl) UploadPayrollExport(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	objectPath := path.Join("payroll", path.Base(filename))

	uploadedPath, err := s.storage.Upload(ctx, bytes.NewReader(data), objectPath, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload payroll export: %w", err)
	}

	return uploadedPath, nil
}

// DeleteFile deletes a file
func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

// GetFileURL generates URL to access file
func (s *fileServiceImpl) GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return s.storage.GetURL(ctx, path, expiry)
}

// ==================== HELPER FUNCTIONS ====================

// compressImage downsizes img to maxWidth and lowers JPEG quality in steps
// until the output fits maxBytes or the quality floor is reached.
func compressImage(img image.Image, maxWidth int, maxBytes int) ([]byte, error) {
	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	var out []byte
	for quality := startQuality; quality >= minQuality; quality -= 10 {
		buf := new(bytes.Buffer)
		if err := imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
		out = buf.Bytes()
		if len(out) <= maxBytes {
			break
		}
	}
	return out, nil
}
