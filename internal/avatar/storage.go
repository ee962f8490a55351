// Package avatar はプロフィール写真のS3互換ストレージへの保存を提供する。
package avatar

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Uploader はプロフィール写真の保存インターフェース。
type Uploader interface {
	// Upload は画像を保存し、公開URLを返す。
	Upload(ctx context.Context, userID string, body io.Reader) (string, error)
}

// Config はS3互換ストレージの接続設定。
type Config struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Endpoint  string // MinIO等のS3互換サービス用。空の場合はAWS S3
}

// S3Uploader はS3互換ストレージへのアップロード実装。
// AWS S3のほか、MinIOやDigitalOcean Spacesなどでも動作する。
type S3Uploader struct {
	client    *s3.Client
	bucket    string
	publicURL string
	now       func() time.Time
}

var _ Uploader = (*S3Uploader)(nil)

// NewS3Uploader はS3Uploaderを生成する。
func NewS3Uploader(ctx context.Context, cfg Config) (*S3Uploader, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("AWS設定の読み込みに失敗しました: %w", err)
	}

	var client *s3.Client
	if cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// MinIO等のS3互換サービスはパス形式のURLを要求する
			o.UsePathStyle = true
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	publicURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	if cfg.Endpoint != "" {
		publicURL = strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}

	return &S3Uploader{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: publicURL,
		now:       time.Now,
	}, nil
}

// Upload はPNG画像をアップロードし、公開URLを返す。
// キーは「ユーザーID/ミリ秒タイムスタンプ.png」。同一ユーザーの
// 再アップロードは新しいキーになり、古い画像は上書きされない。
func (u *S3Uploader) Upload(ctx context.Context, userID string, body io.Reader) (string, error) {
	key := u.objectKey(userID)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		return "", fmt.Errorf("画像のアップロードに失敗しました: %w", err)
	}

	return u.publicURL + "/" + key, nil
}

// objectKey はアップロード先のオブジェクトキーを生成する。
func (u *S3Uploader) objectKey(userID string) string {
	return fmt.Sprintf("%s/%d.png", userID, u.now().UnixMilli())
}
