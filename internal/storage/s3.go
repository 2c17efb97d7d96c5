package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/priya/course-platform/internal/config"
)

const presignExpire = 15 * time.Minute

// AssetStore issues presigned upload URLs for user avatars and course
// thumbnails. Clients PUT the object directly to the bucket and submit the
// key back; the API never proxies image bytes.
type AssetStore struct {
	bucket    string
	publicURL string
	presign   *s3.PresignClient
}

func NewAssetStore(ctx context.Context, cfg *config.Config) (*AssetStore, error) {
	awsCfg, err := awsConfig.LoadDefaultConfig(ctx,
		awsConfig.WithRegion(cfg.S3Region),
		awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
	})

	return &AssetStore{
		bucket:    cfg.S3Bucket,
		publicURL: strings.TrimRight(cfg.S3PublicURL, "/"),
		presign:   s3.NewPresignClient(client),
	}, nil
}

// PresignUpload returns a new object key under the given folder and a
// presigned PUT URL for it.
func (a *AssetStore) PresignUpload(ctx context.Context, folder string) (string, string, error) {
	key := objectKey(folder)

	req, err := a.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: &a.bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpire))
	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

// PresignDownload returns a presigned GET URL for an existing object.
func (a *AssetStore) PresignDownload(ctx context.Context, key string) (string, error) {
	req, err := a.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &a.bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpire))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// PublicURL maps an object key to its publicly served address.
func (a *AssetStore) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s", a.publicURL, key)
}

func objectKey(folder string) string {
	d := time.Now()
	return fmt.Sprintf("%s/%d/%02d/%v", folder, d.Year(), d.Month(), uuid.New())
}
