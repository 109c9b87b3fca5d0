package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/assistant/internal/server/config"
	"github.com/dmitrijs2005/assistant/internal/server/models"
	"github.com/google/uuid"
)

// ErrEmptyFileName is returned when an upload carries no usable file name.
var ErrEmptyFileName = errors.New("empty file name")

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	nowFunc = time.Now
)

// UploadService writes user files to an S3-compatible bucket.
type UploadService struct {
	config *sc.Config
}

func NewUploadService(config *sc.Config) *UploadService {
	return &UploadService{config: config}
}

// StorageKey builds users/<id>/<yyyy>/<mm>/<dd>/<uuid>-<basename>.
func StorageKey(userID int64, fileName string, t time.Time) string {
	return fmt.Sprintf("users/%d/%04d/%02d/%02d/%v-%s",
		userID, t.Year(), int(t.Month()), t.Day(), uuid.New(), fileName)
}

// baseName strips any directory part a client may have sent.
func baseName(fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}

func (s *UploadService) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// Upload stores body under a fresh key in the configured bucket.
func (s *UploadService) Upload(ctx context.Context, userID int64, fileName string, body io.Reader, size int64, contentType string) (*models.Upload, error) {
	name := baseName(fileName)
	if name == "" {
		return nil, ErrEmptyFileName
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("error creating storage client: %w", err)
	}

	bucket := s.config.S3Bucket
	key := StorageKey(userID, name, nowFunc().UTC())

	in := &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
		Body:   body,
	}
	if size >= 0 {
		in.ContentLength = aws.Int64(size)
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	if _, err := putObject(client, ctx, in); err != nil {
		return nil, fmt.Errorf("error uploading file: %w", err)
	}

	return &models.Upload{
		UserID:      userID,
		FileName:    name,
		ContentType: contentType,
		Size:        size,
		StorageKey:  key,
	}, nil
}
