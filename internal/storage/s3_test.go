package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStorage(t *testing.T, cdn string) *S3Storage {
	t.Helper()
	s, err := NewS3Storage(Config{
		Endpoint:        "http://localhost:9000",
		Region:          "us-east-1",
		Bucket:          "mysea",
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		CDNURL:          cdn,
	})
	require.NoError(t, err)
	return s
}

func TestNewS3Storage_RequiresBucket(t *testing.T) {
	_, err := NewS3Storage(Config{Endpoint: "http://localhost:9000"})
	assert.Error(t, err)
}

func TestObjectKey(t *testing.T) {
	userID := uuid.New()
	key := objectKey(FolderDiary, userID, "IMG_0001.JPG")

	assert.True(t, strings.HasPrefix(key, "diary/"+userID.String()+"/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.NotEqual(t, key, objectKey(FolderDiary, userID, "IMG_0001.JPG"))
}

func TestKeyFromURL(t *testing.T) {
	s := testStorage(t, "")
	key, ok := s.keyFromURL("http://localhost:9000/mysea/diary/u/p.jpg")
	assert.True(t, ok)
	assert.Equal(t, "diary/u/p.jpg", key)

	cdn := testStorage(t, "https://cdn.example.com/mysea/")
	key, ok = cdn.keyFromURL("https://cdn.example.com/mysea/sightings/u/p.png")
	assert.True(t, ok)
	assert.Equal(t, "sightings/u/p.png", key)

	_, ok = cdn.keyFromURL("https://elsewhere.example.com/p.png")
	assert.False(t, ok)
}

func TestOwnedBy(t *testing.T) {
	userID := uuid.New()
	assert.True(t, ownedBy(objectKey(FolderChat, userID, "a.png"), userID))
	assert.False(t, ownedBy(objectKey(FolderChat, uuid.New(), "a.png"), userID))
	assert.False(t, ownedBy("avatars/"+userID.String()+"/a.png", userID))
	assert.False(t, ownedBy(userID.String(), userID))
}

func TestDeletePhoto_RejectsForeignURL(t *testing.T) {
	s := testStorage(t, "")
	userID := uuid.New()
	ctx := context.Background()

	err := s.DeletePhoto(ctx, userID, "https://elsewhere.example.com/diary/"+userID.String()+"/a.png")
	assert.ErrorIs(t, err, ErrForeignObject)

	err = s.DeletePhoto(ctx, userID, "http://localhost:9000/mysea/diary/"+uuid.NewString()+"/a.png")
	assert.ErrorIs(t, err, ErrForeignObject)
}

func TestUploadPhoto_RejectsBeforeNetwork(t *testing.T) {
	s := testStorage(t, "")
	ctx := context.Background()

	_, err := s.UploadPhoto(ctx, uuid.New(), FolderDiary, "notes.pdf", "application/pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidImageType)

	_, err = s.UploadPhoto(ctx, uuid.New(), Folder("avatars"), "a.png", "image/png", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestPresignPhotoUpload(t *testing.T) {
	s := testStorage(t, "")
	userID := uuid.New()

	up, err := s.PresignPhotoUpload(context.Background(), userID, FolderSightings, "turtle.webp", "image/webp", 10*time.Minute)
	require.NoError(t, err)
	assert.Contains(t, up.UploadURL, "X-Amz-Signature")
	assert.True(t, strings.HasPrefix(up.PublicURL, "http://localhost:9000/mysea/sightings/"+userID.String()+"/"))

	_, err = s.PresignPhotoUpload(context.Background(), userID, FolderSightings, "a.txt", "text/plain", time.Minute)
	assert.ErrorIs(t, err, ErrInvalidImageType)
}

func TestIsValidImageType(t *testing.T) {
	assert.True(t, IsValidImageType("image/jpeg"))
	assert.True(t, IsValidImageType("image/heic"))
	assert.False(t, IsValidImageType("video/webm"))
}
