package source

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/JonMunkholm/UniSearch/internal/config"
	"github.com/JonMunkholm/UniSearch/internal/core"
)

// loadS3 fetches the dataset object from an S3-compatible bucket and decodes
// it by the key's extension. sqlite files are not supported over S3.
func loadS3(ctx context.Context, cfg config.S3Config, sheet string) ([]core.Record, error) {
	kind := config.KindForPath(cfg.Key)
	if kind == "" || kind == config.SourceSQLite {
		return nil, fmt.Errorf("unsupported data source %q for s3 key %q", kind, cfg.Key)
	}

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	obj, err := mc.GetObject(ctx, cfg.Bucket, cfg.Key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", cfg.Bucket, cfg.Key, err)
	}
	defer obj.Close()

	// GetObject is lazy; Stat surfaces a missing bucket or key.
	if _, err := obj.Stat(); err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", cfg.Bucket, cfg.Key, err)
	}

	return Decode(kind, obj, sheet)
}
