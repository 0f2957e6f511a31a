// Package media stores uploaded files (avatars, covers, videos, thumbnails)
// behind the portable gocloud.dev blob API.
package media

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"vidhub/config"
	"vidhub/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	// Drivers registered for blob.OpenBucket URL schemes.
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
)

// blobStorage implements MediaStorage over any bucket gocloud.dev can open.
type blobStorage struct {
	bucket        *blob.Bucket
	publicBaseURL string
	logger        *slog.Logger
}

// StorageParams holds dependencies for MediaStorage, injected by Fx
type StorageParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewBlobStorage opens the configured bucket and returns it as a MediaStorage.
func NewBlobStorage(params StorageParams) (service.MediaStorage, error) {
	cfg := params.Config.Media
	if cfg == nil || cfg.BucketURL == "" {
		return nil, errors.New("media bucket URL must be configured")
	}

	bucket, err := blob.OpenBucket(params.Ctx, cfg.BucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "open media bucket %s", cfg.BucketURL)
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			params.Logger.Info("Closing media bucket")

			return errors.WithStack(bucket.Close())
		},
	})

	params.Logger.Info("Media storage initialized",
		slog.String("bucket_url", cfg.BucketURL),
	)

	return NewBlobStorageWithBucket(bucket, cfg.PublicBaseURL, params.Logger), nil
}

// NewBlobStorageWithBucket wraps an already opened bucket. Used by tests with memblob.
func NewBlobStorageWithBucket(bucket *blob.Bucket, publicBaseURL string, logger *slog.Logger) service.MediaStorage {
	return &blobStorage{
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}
}

// Upload stores the content under the given key and returns its public URL.
func (s *blobStorage) Upload(ctx context.Context, key, contentType string, content io.Reader) (string, error) {
	key = strings.TrimLeft(key, "/")

	writer, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", errors.Wrapf(err, "open writer for %s", key)
	}

	if _, err := io.Copy(writer, content); err != nil {
		// Closing after a failed copy discards the partial object.
		_ = writer.Close()

		return "", errors.Wrapf(err, "write media object %s", key)
	}

	if err := writer.Close(); err != nil {
		return "", errors.Wrapf(err, "commit media object %s", key)
	}

	s.logger.Debug("Media object stored", slog.String("key", key))

	return s.publicBaseURL + "/" + key, nil
}

// Delete removes a previously stored object. Deleting an absent key is not an error.
func (s *blobStorage) Delete(ctx context.Context, key string) error {
	key = strings.TrimLeft(key, "/")

	if err := s.bucket.Delete(ctx, key); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil
		}

		return errors.Wrapf(err, "delete media object %s", key)
	}

	return nil
}

// Module provides the media storage FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewBlobStorage),
)
