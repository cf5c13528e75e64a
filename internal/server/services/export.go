package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/secretkeeper/internal/common"
	"github.com/dmitrijs2005/secretkeeper/internal/logging"
	sc "github.com/dmitrijs2005/secretkeeper/internal/server/config"
	"github.com/dmitrijs2005/secretkeeper/internal/server/models"
	"github.com/google/uuid"
)

// Export points at an uploaded snapshot of a user's secrets.
type Export struct {
	Key       string
	URL       string
	ExpiresAt time.Time
}

type exportDocument struct {
	UserID     string           `json:"user_id"`
	ExportedAt time.Time        `json:"exported_at"`
	Secrets    []*models.Secret `json:"secrets"`
}

// ExportService uploads JSON snapshots to object storage and hands out
// presigned download links.
type ExportService struct {
	secrets  *SecretService
	client   *s3.Client
	presign  *s3.PresignClient
	bucket   string
	validity time.Duration
	upstream time.Duration
	logger   logging.Logger
	now      func() time.Time
	enabled  bool
}

// NewExportService returns a disabled service when no bucket is configured.
func NewExportService(ctx context.Context, cfg *sc.Config, secrets *SecretService, logger logging.Logger) (*ExportService, error) {
	s := &ExportService{
		secrets:  secrets,
		bucket:   cfg.S3Bucket,
		validity: cfg.ExportURLValidity,
		upstream: cfg.UpstreamTimeout,
		logger:   logger.With("module", "export"),
		now:      time.Now,
		enabled:  cfg.ExportEnabled(),
	}
	if !s.enabled {
		return s, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser, cfg.S3RootPassword, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	s.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
			o.UsePathStyle = true
		}
		// S3-compatible stores do not all accept the optional CRC headers.
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})
	s.presign = s3.NewPresignClient(s.client)

	return s, nil
}

func (s *ExportService) Enabled() bool {
	return s.enabled
}

func (s *ExportService) objectKey(userID string) string {
	d := s.now().UTC()
	return fmt.Sprintf("users/%s/exports/%04d/%02d/%02d/%s.json", userID, d.Year(), d.Month(), d.Day(), uuid.New())
}

// Export snapshots userID's secrets, newest first.
func (s *ExportService) Export(ctx context.Context, userID string) (*Export, error) {
	if !s.enabled {
		return nil, common.ErrorFeatureDisabled
	}

	list, err := s.secrets.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(exportDocument{UserID: userID, ExportedAt: s.now().UTC(), Secrets: list})
	if err != nil {
		return nil, fmt.Errorf("%w: encode export: %v", common.ErrorInternal, err)
	}

	key := s.objectKey(userID)

	uctx, cancel := context.WithTimeout(ctx, s.upstream)
	defer cancel()

	_, err = s.client.PutObject(uctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: upload export: %v", common.ErrorUpstream, err)
	}

	req, err := s.presign.PresignGetObject(uctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.validity))
	if err != nil {
		return nil, fmt.Errorf("%w: presign export: %v", common.ErrorInternal, err)
	}

	s.logger.Info(ctx, "secrets exported", "user_id", userID, "key", key, "count", len(list))

	return &Export{Key: key, URL: req.URL, ExpiresAt: s.now().Add(s.validity)}, nil
}
