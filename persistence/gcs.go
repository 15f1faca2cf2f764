// SPDX-License-Identifier: GPL-3.0-or-later
package persistence

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/CrawX/go-mail-triage/log"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/storage/v1"
)

// GcsBlobStore keeps blobs as objects of a single Cloud Storage bucket.
type GcsBlobStore struct {
	service *storage.Service
	bucket  string
	l       *logrus.Logger
}

// NewGcsBlobStore uses application default credentials unless opts say otherwise.
func NewGcsBlobStore(ctx context.Context, bucket string, opts ...option.ClientOption) (*GcsBlobStore, error) {
	if len(strings.TrimSpace(bucket)) == 0 {
		return nil, fmt.Errorf("bucket must not be empty")
	}

	opts = append([]option.ClientOption{option.WithScopes(storage.DevstorageReadWriteScope)}, opts...)
	service, err := storage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not create storage service: %w", err)
	}

	l := log.Logger(log.LOG_PERSISTENCE)
	l.WithField("bucket", bucket).Info("Connected")

	return &GcsBlobStore{
		service: service,
		bucket:  bucket,
		l:       l,
	}, nil
}

func (g *GcsBlobStore) Exists(ctx context.Context, name string) (bool, error) {
	_, err := g.service.Objects.Get(g.bucket, name).Context(ctx).Do()
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("could not stat object: %w", err)
	}

	return true, nil
}

func (g *GcsBlobStore) Read(ctx context.Context, name string) (string, error) {
	resp, err := g.service.Objects.Get(g.bucket, name).Context(ctx).Download()
	if err != nil {
		return "", fmt.Errorf("could not download object: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("could not read object: %w", err)
	}

	return string(data), nil
}

func (g *GcsBlobStore) Write(ctx context.Context, name string, data string) error {
	object := &storage.Object{
		Name:        name,
		ContentType: "application/json",
	}
	_, err := g.service.Objects.Insert(g.bucket, object).
		Name(name).
		Media(strings.NewReader(data), googleapi.ContentType("application/json")).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("could not upload object: %w", err)
	}

	g.l.WithFields(logrus.Fields{"bucket": g.bucket, "name": name, "bytes": len(data)}).Debug("Uploaded object")
	return nil
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}
