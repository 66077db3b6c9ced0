// Package media uploads portrait and card images to S3-compatible object
// storage and returns the URL stored as the image reference.
package media

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/herocards/internal/netx"
	"github.com/google/uuid"
)

const presignTTL = 15 * time.Minute

type Config struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
	// Prefix is prepended to every object key, e.g. "portraits".
	Prefix string
}

type Uploader struct {
	cfg     Config
	presign *s3.PresignClient
	http    *http.Client
	now     func() time.Time
}

// NewUploader builds the presign client. It does not contact the storage.
func NewUploader(ctx context.Context, cfg Config, httpClient *http.Client) (*Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("media: bucket is required")
	}
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("media: aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &Uploader{cfg: cfg, presign: s3.NewPresignClient(client), http: httpClient, now: time.Now}, nil
}

// objectKey is <prefix>/<yyyy>/<mm>/<dd>/<uuid>.
func (u *Uploader) objectKey() string {
	return path.Join(u.cfg.Prefix, u.now().UTC().Format("2006/01/02"), uuid.NewString())
}

// Upload stores body and returns its object URL.
func (u *Uploader) Upload(ctx context.Context, contentType string, body []byte) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := u.objectKey()

	req, err := u.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return "", fmt.Errorf("media: presign: %w", err)
	}

	if err := netx.UploadToPresignedURL(ctx, u.http, req.URL, contentType, body); err != nil {
		return "", fmt.Errorf("media: %w", err)
	}
	return objectURL(req.URL)
}

// objectURL drops the signature from a presigned URL.
func objectURL(presigned string) (string, error) {
	parsed, err := url.Parse(presigned)
	if err != nil {
		return "", fmt.Errorf("media: object url: %w", err)
	}
	parsed.RawQuery = ""
	parsed.Fragment = ""
	return strings.TrimSuffix(parsed.String(), "?"), nil
}
