package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func newTestS3Storage(prefix string) (*S3Storage, *fakeS3) {
	fake := &fakeS3{objects: map[string][]byte{}}
	client := s3.New(s3.Options{
		Region:      "us-east-1",
		Credentials: credentials.NewStaticCredentialsProvider("test", "test", ""),
	})
	return newS3Storage(fake, s3.NewPresignClient(client), "asistencia", prefix), fake
}

func TestS3Storage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, fake := newTestS3Storage("/uploads/")

	key, err := s.Upload(ctx, strings.NewReader("photo"), "attendance/u1.jpg", "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "attendance/u1.jpg", key)
	assert.Contains(t, fake.objects, "uploads/attendance/u1.jpg")

	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := s.Download(ctx, key)
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "photo", string(data))

	url, err := s.GetURL(ctx, key, time.Hour)
	require.NoError(t, err)
	assert.Contains(t, url, "asistencia")
	assert.Contains(t, url, "uploads/attendance/u1.jpg")
	assert.Contains(t, url, "X-Amz-Expires=3600")

	require.NoError(t, s.Delete(ctx, key))
	ok, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestS3Storage_MissingObject(t *testing.T) {
	s, _ := newTestS3Storage("")

	_, err := s.Download(context.Background(), "nope.jpg")
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = s.Upload(context.Background(), strings.NewReader(""), "/", "text/plain")
	assert.ErrorIs(t, err, ErrInvalidPath)
}
