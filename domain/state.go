// SPDX-License-Identifier: GPL-3.0-or-later
package domain

//go:generate mockgen -destination=mocks/state.go -package=mocks . BlobStore,StateStore
import (
	"context"
	"fmt"
	"sort"
)

// IdSet is the set of message identifiers that were already handled by a run.
type IdSet map[string]struct{}

func NewIdSet(ids ...string) IdSet {
	s := make(IdSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s IdSet) Add(id string) {
	s[id] = struct{}{}
}

func (s IdSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

func (s IdSet) Merge(other IdSet) {
	for id := range other {
		s.Add(id)
	}
}

// Sorted returns the identifiers in lexical order.
func (s IdSet) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

type StorageError struct {
	Op     string
	Object string
	Err    error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("could not %s state object %s: %v", e.Op, e.Object, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// BlobStore holds named text objects.
type BlobStore interface {
	Exists(ctx context.Context, name string) (bool, error)
	Read(ctx context.Context, name string) (string, error)
	Write(ctx context.Context, name string, data string) error
}

type StateStore interface {
	Load(ctx context.Context) (IdSet, error)
	Save(ctx context.Context, ids IdSet) error
}
