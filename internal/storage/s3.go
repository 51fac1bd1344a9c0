package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

var (
	ErrInvalidImageType = errors.New("invalid image type")
	ErrForeignObject    = errors.New("object does not belong to user")
)

// Folder groups uploaded photos by what they illustrate.
type Folder string

const (
	FolderDiary     Folder = "diary"
	FolderSightings Folder = "sightings"
	FolderChat      Folder = "chat"
)

func (f Folder) Valid() bool {
	switch f {
	case FolderDiary, FolderSightings, FolderChat:
		return true
	}
	return false
}

type S3Storage struct {
	client   *s3.Client
	bucket   string
	cdnURL   string // Public URL prefix for serving files
	endpoint string
}

type Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	CDNURL          string // Optional CDN URL, defaults to endpoint/bucket
}

func NewS3Storage(cfg Config) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}

	client := s3.New(s3.Options{
		Region:       cfg.Region,
		BaseEndpoint: aws.String(cfg.Endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		UsePathStyle: true, // MinIO and other S3-compatible stores
	})

	cdnURL := cfg.CDNURL
	if cdnURL == "" {
		cdnURL = fmt.Sprintf("%s/%s", strings.TrimSuffix(cfg.Endpoint, "/"), cfg.Bucket)
	}

	return &S3Storage{
		client:   client,
		bucket:   cfg.Bucket,
		cdnURL:   strings.TrimSuffix(cdnURL, "/"),
		endpoint: cfg.Endpoint,
	}, nil
}

// objectKey builds folder/userID/<random>.ext; the random part keeps uploads from colliding.
func objectKey(folder Folder, userID uuid.UUID, filename string) string {
	return fmt.Sprintf("%s/%s/%s%s", folder, userID, uuid.New(), strings.ToLower(path.Ext(filename)))
}

func (s *S3Storage) publicURL(key string) string {
	return s.cdnURL + "/" + key
}

func (s *S3Storage) put(ctx context.Context, key, contentType string, reader io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        reader,
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	return s.publicURL(key), nil
}

// UploadPhoto stores an image for the user and returns its public URL
func (s *S3Storage) UploadPhoto(ctx context.Context, userID uuid.UUID, folder Folder, filename, contentType string, reader io.Reader) (string, error) {
	if !IsValidImageType(contentType) {
		return "", fmt.Errorf("%w: %s", ErrInvalidImageType, contentType)
	}
	if !folder.Valid() {
		return "", fmt.Errorf("unknown upload folder %q", folder)
	}
	return s.put(ctx, objectKey(folder, userID, filename), contentType, reader)
}

// DeletePhoto removes one of the user's uploads by its public URL.
func (s *S3Storage) DeletePhoto(ctx context.Context, userID uuid.UUID, fileURL string) error {
	key, ok := s.keyFromURL(fileURL)
	if !ok || !ownedBy(key, userID) {
		return ErrForeignObject
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func ownedBy(key string, userID uuid.UUID) bool {
	folder, rest, ok := strings.Cut(key, "/")
	return ok && Folder(folder).Valid() && strings.HasPrefix(rest, userID.String()+"/")
}

func (s *S3Storage) keyFromURL(fileURL string) (string, bool) {
	if key, ok := strings.CutPrefix(fileURL, s.cdnURL+"/"); ok {
		return key, true
	}
	return strings.CutPrefix(fileURL, fmt.Sprintf("%s/%s/", strings.TrimSuffix(s.endpoint, "/"), s.bucket))
}

type PresignedUpload struct {
	UploadURL string    `json:"upload_url"`
	PublicURL string    `json:"public_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PresignPhotoUpload lets the client PUT the image directly to the bucket.
func (s *S3Storage) PresignPhotoUpload(ctx context.Context, userID uuid.UUID, folder Folder, filename, contentType string, expiresIn time.Duration) (*PresignedUpload, error) {
	if !IsValidImageType(contentType) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidImageType, contentType)
	}
	if !folder.Valid() {
		return nil, fmt.Errorf("unknown upload folder %q", folder)
	}

	key := objectKey(folder, userID, filename)
	presignClient := s3.NewPresignClient(s.client)

	request, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(expiresIn))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return &PresignedUpload{
		UploadURL: request.URL,
		PublicURL: s.publicURL(key),
		ExpiresAt: time.Now().Add(expiresIn),
	}, nil
}

func IsValidImageType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp", "image/heic":
		return true
	}
	return false
}
