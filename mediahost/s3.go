package mediahost

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mfolden/portfolio-backend/errs"
)

// S3Host stores media in an S3 bucket with public-read objects.
type S3Host struct {
	client *s3.Client
	bucket string
	region string
	logger zerolog.Logger
}

func NewS3(ctx context.Context, bucket, region string) (*S3Host, error) {
	if bucket == "" || region == "" {
		return nil, errs.NewUploadConfigError("S3_BUCKET, AWS_REGION")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &S3Host{
		client: s3.NewFromConfig(awsCfg),
		bucket: bucket,
		region: region,
		logger: log.With().Str("handlerName", "s3MediaHost").Logger(),
	}, nil
}

func (h *S3Host) Upload(ctx context.Context, file io.Reader, filename string, kind Kind) (string, error) {
	key := path.Join(string(kind), uuid.NewString()+path.Ext(filename))

	_, err := h.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(h.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentTypeFor(filename, kind)),
	})
	if err != nil {
		h.logger.Error().Err(err).Str("key", key).Msg("put object failed")
		return "", errs.NewUploadError(filename, err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", h.bucket, h.region, key), nil
}
