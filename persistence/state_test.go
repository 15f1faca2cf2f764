// SPDX-License-Identifier: GPL-3.0-or-later
package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/CrawX/go-mail-triage/domain"
	"github.com/CrawX/go-mail-triage/domain/mocks"
	"github.com/CrawX/go-mail-triage/log"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

const TEST_OBJECT = "state.json"

func setupStateStore(t *testing.T) (*gomock.Controller, *StateStore, *mocks.MockBlobStore) {
	log.InitLogging("error")
	ctrl := gomock.NewController(t)
	blobs := mocks.NewMockBlobStore(ctrl)
	return ctrl, NewStateStore(blobs, TEST_OBJECT), blobs
}

func TestNewStateStore_DefaultObject(t *testing.T) {
	log.InitLogging("error")
	store := NewStateStore(nil, "")
	assert.Equal(t, DefaultStateObject, store.object)
}

func TestStateStore_LoadMissing(t *testing.T) {
	ctrl, store, blobs := setupStateStore(t)
	defer ctrl.Finish()

	blobs.EXPECT().Exists(gomock.Any(), TEST_OBJECT).Return(false, nil)

	ids, err := store.Load(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, ids)
	assert.NotNil(t, ids)
}

func TestStateStore_Load(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		expected []string
	}{
		{"array", `["b","a"]`, []string{"a", "b"}},
		{"empty", `[]`, []string{}},
		{"null", `null`, []string{}},
		{"duplicates", `["a","a"]`, []string{"a"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl, store, blobs := setupStateStore(t)
			defer ctrl.Finish()

			blobs.EXPECT().Exists(gomock.Any(), TEST_OBJECT).Return(true, nil)
			blobs.EXPECT().Read(gomock.Any(), TEST_OBJECT).Return(tc.data, nil)

			ids, err := store.Load(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, ids.Sorted())
		})
	}
}

func TestStateStore_LoadErrors(t *testing.T) {
	cause := errors.New("io")
	tests := []struct {
		name  string
		setup func(blobs *mocks.MockBlobStore)
		op    string
	}{
		{"stat", func(blobs *mocks.MockBlobStore) {
			blobs.EXPECT().Exists(gomock.Any(), TEST_OBJECT).Return(false, cause)
		}, "stat"},
		{"read", func(blobs *mocks.MockBlobStore) {
			blobs.EXPECT().Exists(gomock.Any(), TEST_OBJECT).Return(true, nil)
			blobs.EXPECT().Read(gomock.Any(), TEST_OBJECT).Return("", cause)
		}, "read"},
		{"corrupt", func(blobs *mocks.MockBlobStore) {
			blobs.EXPECT().Exists(gomock.Any(), TEST_OBJECT).Return(true, nil)
			blobs.EXPECT().Read(gomock.Any(), TEST_OBJECT).Return(`{"not":"an array"}`, nil)
		}, "decode"},
		{"truncated", func(blobs *mocks.MockBlobStore) {
			blobs.EXPECT().Exists(gomock.Any(), TEST_OBJECT).Return(true, nil)
			blobs.EXPECT().Read(gomock.Any(), TEST_OBJECT).Return(`["a",`, nil)
		}, "decode"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl, store, blobs := setupStateStore(t)
			defer ctrl.Finish()
			tc.setup(blobs)

			ids, err := store.Load(context.Background())
			assert.Nil(t, ids)

			var storageErr *domain.StorageError
			if assert.True(t, errors.As(err, &storageErr)) {
				assert.Equal(t, tc.op, storageErr.Op)
				assert.Equal(t, TEST_OBJECT, storageErr.Object)
			}
		})
	}
}

func TestStateStore_Save(t *testing.T) {
	ctrl, store, blobs := setupStateStore(t)
	defer ctrl.Finish()

	blobs.EXPECT().Write(gomock.Any(), TEST_OBJECT, `["id1","id2","id3"]`).Return(nil)

	err := store.Save(context.Background(), domain.NewIdSet("id3", "id1", "id2"))
	assert.NoError(t, err)
}

func TestStateStore_SaveEmpty(t *testing.T) {
	ctrl, store, blobs := setupStateStore(t)
	defer ctrl.Finish()

	blobs.EXPECT().Write(gomock.Any(), TEST_OBJECT, `[]`).Return(nil)

	err := store.Save(context.Background(), domain.IdSet{})
	assert.NoError(t, err)
}

func TestStateStore_SaveError(t *testing.T) {
	ctrl, store, blobs := setupStateStore(t)
	defer ctrl.Finish()

	cause := errors.New("denied")
	blobs.EXPECT().Write(gomock.Any(), TEST_OBJECT, gomock.Any()).Return(cause)

	err := store.Save(context.Background(), domain.NewIdSet("a"))
	assert.True(t, errors.Is(err, cause))
	assert.EqualError(t, err, "could not write state object state.json: denied")
}
