// SPDX-License-Identifier: GPL-3.0-or-later
package persistence

import (
	"context"
	"encoding/json"

	"github.com/CrawX/go-mail-triage/domain"
	"github.com/CrawX/go-mail-triage/log"

	"github.com/sirupsen/logrus"
)

const DefaultStateObject = "processed_email_ids.json"

// StateStore persists the processed-id set as a JSON array of strings in a single blob.
type StateStore struct {
	blobs  domain.BlobStore
	object string
	l      *logrus.Logger
}

func NewStateStore(blobs domain.BlobStore, object string) *StateStore {
	if object == "" {
		object = DefaultStateObject
	}

	return &StateStore{
		blobs:  blobs,
		object: object,
		l:      log.Logger(log.LOG_PERSISTENCE),
	}
}

func (s *StateStore) Load(ctx context.Context) (domain.IdSet, error) {
	exists, err := s.blobs.Exists(ctx, s.object)
	if err != nil {
		return nil, s.storageError("stat", err)
	}

	if !exists {
		s.l.WithField("object", s.object).Info("No previous state found, starting empty")
		return domain.IdSet{}, nil
	}

	data, err := s.blobs.Read(ctx, s.object)
	if err != nil {
		return nil, s.storageError("read", err)
	}

	ids := []string{}
	err = json.Unmarshal([]byte(data), &ids)
	if err != nil {
		return nil, s.storageError("decode", err)
	}

	s.l.WithFields(logrus.Fields{"object": s.object, "ids": len(ids)}).Debug("Loaded state")
	return domain.NewIdSet(ids...), nil
}

func (s *StateStore) Save(ctx context.Context, ids domain.IdSet) error {
	data, err := json.Marshal(ids.Sorted())
	if err != nil {
		return s.storageError("encode", err)
	}

	err = s.blobs.Write(ctx, s.object, string(data))
	if err != nil {
		return s.storageError("write", err)
	}

	s.l.WithFields(logrus.Fields{"object": s.object, "ids": len(ids)}).Info("Saved state")
	return nil
}

func (s *StateStore) storageError(op string, err error) error {
	return &domain.StorageError{
		Op:     op,
		Object: s.object,
		Err:    err,
	}
}
