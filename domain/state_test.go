// SPDX-License-Identifier: GPL-3.0-or-later
package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdSet(t *testing.T) {
	s := NewIdSet("b", "a")
	assert.True(t, s.Contains("a"))
	assert.False(t, s.Contains("c"))

	s.Merge(NewIdSet("c", "a"))
	assert.Equal(t, []string{"a", "b", "c"}, s.Sorted())
}

func TestIdSet_SortedEmpty(t *testing.T) {
	assert.Equal(t, []string{}, IdSet{}.Sorted())
}

func TestStorageError(t *testing.T) {
	cause := errors.New("boom")
	err := error(&StorageError{Op: "read", Object: "state.json", Err: cause})

	assert.EqualError(t, err, "could not read state object state.json: boom")
	assert.True(t, errors.Is(err, cause))

	var storageErr *StorageError
	assert.True(t, errors.As(err, &storageErr))
	assert.Equal(t, "read", storageErr.Op)
}

func TestCategory_String(t *testing.T) {
	tests := []struct {
		category Category
		expected string
	}{
		{CategoryInterview, "interview"},
		{CategoryRejection, "rejection"},
		{CategoryJobOpening, "job-opening"},
		{CategoryAcceptance, "acceptance"},
		{CategoryNoMatch, "no-match"},
		{CategoryFailed, "failed"},
		{CategoryUnknown, "unknown"},
		{Category(999), "unknown"},
	}
	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.category.String())
		})
	}
}
