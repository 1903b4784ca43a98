// File: services/storage_service.go
package services

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"gorm.io/gorm"

	"github.com/hugsy/ctfhub/logger"
	"github.com/hugsy/ctfhub/models"
)

// Storage is where challenge attachment blobs live. The database only
// keeps their metadata and location.
type Storage interface {
	Save(key string, data io.Reader) (location string, err error)
}

// ------------------- local disk backend -------------------

// LocalStorage writes blobs under a root directory.
type LocalStorage struct {
	Root string
}

func (s *LocalStorage) Save(key string, data io.Reader) (string, error) {
	path := filepath.Join(s.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o640)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, data); err != nil {
		return "", err
	}
	return path, nil
}

// ------------------- s3 backend -------------------

// S3Storage uploads blobs to an S3 bucket.
type S3Storage struct {
	Bucket   string
	uploader *s3manager.Uploader
}

func NewS3Storage(bucket, region string) (*S3Storage, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, err
	}
	return &S3Storage{
		Bucket:   bucket,
		uploader: s3manager.NewUploader(sess),
	}, nil
}

func (s *S3Storage) Save(key string, data io.Reader) (string, error) {
	out, err := s.uploader.Upload(&s3manager.UploadInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
		Body:   data,
	})
	if err != nil {
		return "", err
	}
	return out.Location, nil
}

// NewStorage selects the configured backend.
func NewStorage(backend, localDir, s3Bucket, s3Region string) (Storage, error) {
	switch backend {
	case "s3":
		return NewS3Storage(s3Bucket, s3Region)
	case "local", "":
		return &LocalStorage{Root: localDir}, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// ------------------- attachment service -------------------

// AttachmentService persists challenge attachments: the blob into the
// storage backend, the metadata (hash, mime, size) into the database.
type AttachmentService struct {
	db      *gorm.DB
	storage Storage
}

func NewAttachmentService(db *gorm.DB, storage Storage) *AttachmentService {
	return &AttachmentService{db: db, storage: storage}
}

// SaveChallengeFile stores one uploaded attachment for a challenge.
func (s *AttachmentService) SaveChallengeFile(ch *models.Challenge, filename string, data io.Reader) (*models.ChallengeFile, error) {
	blob, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	digest := sha256.Sum256(blob)
	mime := http.DetectContentType(blob)

	key := fmt.Sprintf("files/%s/%s", ch.ID, filepath.Base(filename))
	location, err := s.storage.Save(key, bytes.NewReader(blob))
	if err != nil {
		return nil, err
	}

	file := models.ChallengeFile{
		ChallengeID: ch.ID,
		Name:        filepath.Base(filename),
		Location:    location,
		Mime:        mime,
		SHA256:      hex.EncodeToString(digest[:]),
		Size:        int64(len(blob)),
	}
	if err := s.db.Create(&file).Error; err != nil {
		return nil, err
	}

	logger.Info.Printf("SaveChallengeFile: stored %s (%d bytes) for challenge %s", file.Name, file.Size, ch.Name)
	return &file, nil
}
