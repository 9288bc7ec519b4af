// Package archive optionally uploads a finished case's artifacts to a GCS
// bucket. Archival failures are reported, never fatal to the case.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/googleapi"
)

const (
	maxRetries    = 4
	uploadTimeout = 50 * time.Second
	uploadSlots   = 4
)

// Archiver uploads case artifacts into one bucket, keyed by case number.
type Archiver struct {
	client *storage.Client
	bucket string
	logger *zap.Logger
}

// NewArchiver creates an archiver for the given bucket.
func NewArchiver(ctx context.Context, bucket string, logger *zap.Logger) (*Archiver, error) {
	if bucket == "" {
		return nil, errors.New("archive bucket must be provided")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &Archiver{client: client, bucket: bucket, logger: logger}, nil
}

// Close releases the underlying client.
func (a *Archiver) Close() error {
	return a.client.Close()
}

// ArchiveCase uploads the given local artifacts under {case}/{filename},
// a few at a time. Already-archived objects are skipped, not rewritten.
func (a *Archiver) ArchiveCase(ctx context.Context, caseNumber string, paths []string) error {
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(uploadSlots)

	for _, localPath := range paths {
		objectName := path.Join(caseNumber, filepath.Base(localPath))
		eg.Go(func() error {
			if err := a.upload(gctx, localPath, objectName); err != nil {
				return fmt.Errorf("%s: %w", objectName, err)
			}
			return nil
		})
	}
	return eg.Wait()
}

// upload writes one object with bounded retry and an if-not-exists
// condition; a precondition failure means the object is already archived.
func (a *Archiver) upload(ctx context.Context, localPath, objectName string) error {
	backoff := 1 * time.Second
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := a.uploadOnce(ctx, localPath, objectName)
		if err == nil {
			return nil
		}
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == 412 {
			a.logger.Info("object already archived, skipping", zap.String("object", objectName))
			return nil
		}

		lastErr = err
		if attempt == maxRetries-1 {
			break
		}
		a.logger.Warn("archive upload failed, will retry",
			zap.String("object", objectName),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)
		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("upload failed after all retries: %w", lastErr)
}

func (a *Archiver) uploadOnce(ctx context.Context, localPath, objectName string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("could not open %s: %w", localPath, err)
	}
	defer f.Close()

	writeCtx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := a.client.Bucket(a.bucket).Object(objectName).
		If(storage.Conditions{DoesNotExist: true}).
		NewWriter(writeCtx)

	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return fmt.Errorf("copy to bucket failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize upload: %w", err)
	}
	return nil
}
