package storage

import (
	"bytes"
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/courieros/courierstack/config"
	"github.com/courieros/courierstack/interfaces"
	"github.com/courieros/courierstack/internal/tracing"
)

// ArchiveStorageService keeps a raw copy of every fetched source payload in an
// S3 bucket, as an audit trail for the register. When no bucket is configured
// the service is a no-op.
type ArchiveStorageService struct {
	uploader   *s3manager.Uploader
	bucketName string
}

func NewArchiveStorageService(cfg *config.ArchiveStorageConfig) interfaces.ArchiveStorage {
	svc := &ArchiveStorageService{
		bucketName: cfg.Bucket,
	}

	if cfg.Bucket == "" {
		return svc
	}

	awsConfig := &aws.Config{
		Region:      aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.AccessKeySecret, ""),
	}
	s := session.Must(session.NewSession(awsConfig))
	svc.uploader = s3manager.NewUploader(s)

	return svc
}

func (s *ArchiveStorageService) Enabled() bool {
	return s.bucketName != "" && s.uploader != nil
}

func (s *ArchiveStorageService) StoreRawPayload(ctx context.Context, key string, payload []byte) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "ArchiveStorageService.StoreRawPayload")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.LogKV("key", key)
	span.LogKV("payloadSize", len(payload))

	if !s.Enabled() {
		return errors.New("archive storage is not configured")
	}

	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "failed to archive raw payload")
	}

	return nil
}
