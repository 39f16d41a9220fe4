package assets

import (
	"Backend-VentSurvey/src/models"
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Store คือ cloud asset store สำหรับรูปหน้างานและ PDF ใบเสนอราคา
type Store interface {
	Upload(ctx context.Context, data []byte, contentType string) (*models.Asset, error)
	Delete(ctx context.Context, assetID string) error
}

// S3Store implements Store บน S3 (หรือ endpoint ที่ compatible)
type S3Store struct {
	client     *s3.Client
	uploader   *manager.Uploader
	bucket     string
	prefix     string
	publicBase string
	region     string
}

// NewS3Store อ่าน config จาก env: ASSET_BUCKET, ASSET_REGION, ASSET_PREFIX,
// ASSET_PUBLIC_BASE และ ASSET_ACCESS_KEY/ASSET_SECRET_KEY (ถ้าไม่ใช้ IAM role)
func NewS3Store(ctx context.Context) (*S3Store, error) {
	bucket := os.Getenv("ASSET_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("ASSET_BUCKET environment variable not set")
	}
	region := os.Getenv("ASSET_REGION")
	if region == "" {
		region = "eu-west-2"
	}

	optFns := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if accessKey := os.Getenv("ASSET_ACCESS_KEY"); accessKey != "" {
		optFns = append(optFns, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, os.Getenv("ASSET_SECRET_KEY"), ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg)
	return &S3Store{
		client:     client,
		uploader:   manager.NewUploader(client),
		bucket:     bucket,
		prefix:     os.Getenv("ASSET_PREFIX"),
		publicBase: os.Getenv("ASSET_PUBLIC_BASE"),
		region:     region,
	}, nil
}

var extByContentType = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
}

// Upload เก็บไฟล์ขึ้น S3 ด้วย key สุ่ม แล้วคืน {assetId, url}
func (s *S3Store) Upload(ctx context.Context, data []byte, contentType string) (*models.Asset, error) {
	key := path.Join(s.prefix, uuid.NewString()+extByContentType[contentType])

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, err
	}

	return &models.Asset{AssetID: key, URL: s.publicURL(key)}, nil
}

// Delete ลบไฟล์ออกจาก S3
func (s *S3Store) Delete(ctx context.Context, assetID string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(assetID),
	})
	return err
}

func (s *S3Store) publicURL(key string) string {
	if s.publicBase != "" {
		return s.publicBase + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

var (
	defaultStore Store
	defaultOnce  sync.Once
)

// Default คืน asset store ที่ config จาก env; ถ้าไม่ได้ตั้งค่า จะเป็น nil
// และฝั่ง quote จะ render แบบไม่อัปโหลด
func Default() Store {
	defaultOnce.Do(func() {
		store, err := NewS3Store(context.Background())
		if err != nil {
			log.Println("⚠️ Asset store not configured:", err)
			return
		}
		defaultStore = store
	})
	return defaultStore
}
