package storage

import (
	"context"

	"jejakliqo_backend/internals/configs"
)

// NewFromEnv:
//
//	STORAGE_DRIVER=fs|s3|memory (default fs)
//	STORAGE_ROOT=./storage
//	S3_BUCKET, S3_REGION, S3_ENDPOINT, S3_PUBLIC_URL, S3_PATH_STYLE
//	AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY (opsional)
func NewFromEnv(ctx context.Context) (Store, error) {
	return New(ctx, Config{
		Driver:    configs.StorageDriver,
		Root:      configs.StorageRoot,
		PublicURL: configs.AppURL + "/storage",
		S3: S3Config{
			Bucket:          configs.GetEnv("S3_BUCKET"),
			Region:          configs.GetEnv("S3_REGION", "us-east-1"),
			Endpoint:        configs.GetEnv("S3_ENDPOINT"),
			PublicURL:       configs.GetEnv("S3_PUBLIC_URL"),
			AccessKeyID:     configs.GetEnv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: configs.GetEnv("AWS_SECRET_ACCESS_KEY"),
			PathStyle:       configs.GetEnvBool("S3_PATH_STYLE", false),
		},
	})
}
