package file

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStorage struct {
	files map[string][]byte
	types map[string]string
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{files: map[string][]byte{}, types: map[string]string{}}
}

func (m *memoryStorage) Upload(_ context.Context, file io.Reader, path string, contentType string) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	m.files[path] = data
	m.types[path] = contentType
	return path, nil
}

func (m *memoryStorage) Download(_ context.Context, path string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(m.files[path])), nil
}

func (m *memoryStorage) Delete(_ context.Context, path string) error {
	delete(m.files, path)
	return nil
}

func (m *memoryStorage) GetURL(_ context.Context, path string, _ time.Duration) (string, error) {
	return "http://files.test/" + path, nil
}

func (m *memoryStorage) Exists(_ context.Context, path string) (bool, error) {
	_, ok := m.files[path]
	return ok, nil
}

func pngImage(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestUploadAttendancePhoto(t *testing.T) {
	store := newMemoryStorage()
	svc := &fileServiceImpl{storage: store, now: func() time.Time { return time.Unix(1773151200, 0) }}

	path, err := svc.UploadAttendancePhoto(context.Background(), "user-1", "2026-03-10", "in", bytes.NewReader(pngImage(t, 2000, 1000)), "selfie.PNG")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(path, "attendance/2026-03-10/user-1-in-1773151200-"), path)
	assert.True(t, strings.HasSuffix(path, ".jpg"), path)
	assert.Equal(t, "image/jpeg", store.types[path])

	stored, err := imaging.Decode(bytes.NewReader(store.files[path]))
	require.NoError(t, err)
	assert.Equal(t, MaxPhotoWidth, stored.Bounds().Dx())
	assert.Equal(t, 512, stored.Bounds().Dy())
}

func TestUploadAttendancePhoto_KeepsSmallImages(t *testing.T) {
	store := newMemoryStorage()
	svc := NewFileService(store)

	path, err := svc.UploadAttendancePhoto(context.Background(), "user-1", "2026-03-10", "out", bytes.NewReader(pngImage(t, 320, 240)), "selfie.jpg")
	require.NoError(t, err)

	stored, err := imaging.Decode(bytes.NewReader(store.files[path]))
	require.NoError(t, err)
	assert.Equal(t, 320, stored.Bounds().Dx())
}

func TestUploadAttendancePhoto_RejectsType(t *testing.T) {
	svc := NewFileService(newMemoryStorage())

	_, err := svc.UploadAttendancePhoto(context.Background(), "user-1", "2026-03-10", "in", strings.NewReader("gif"), "selfie.gif")
	assert.ErrorIs(t, err, ErrInvalidImageType)
}

func TestUploadAttendancePhoto_RejectsCorruptImage(t *testing.T) {
	svc := NewFileService(newMemoryStorage())

	_, err := svc.UploadAttendancePhoto(context.Background(), "user-1", "2026-03-10", "in", strings.NewReader("not an image"), "selfie.png")
	assert.Error(t, err)
}

func TestUploadPayrollExport(t *testing.T) {
	store := newMemoryStorage()
	svc := NewFileService(store)

	path, err := svc.UploadPayrollExport(context.Background(), "../nomina-2026-03-09.xlsx", []byte("xlsx"), "application/octet-stream")
	require.NoError(t, err)
	assert.Equal(t, "payroll/nomina-2026-03-09.xlsx", path)
	assert.Equal(t, []byte("xlsx"), store.files[path])
}
