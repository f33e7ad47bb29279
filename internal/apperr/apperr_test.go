package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"merittrack/internal/apperr"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind apperr.Kind
		want string
	}{
		{apperr.KindStore, "store_error"},
		{apperr.KindNotFound, "not_found"},
		{apperr.KindConflict, "conflict"},
		{apperr.KindHierarchyViolation, "hierarchy_violation"},
		{apperr.KindInvalidReference, "invalid_reference"},
		{apperr.KindForbidden, "forbidden"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}

func TestKindOfAndReasonOf(t *testing.T) {
	err := apperr.New(apperr.KindNotFound, "troop not found")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "troop not found", apperr.ReasonOf(err))

	// unknown errors default to a retryable store error
	plain := errors.New("connection reset")
	assert.Equal(t, apperr.KindStore, apperr.KindOf(plain))
	assert.Equal(t, "internal error", apperr.ReasonOf(plain))

	// wrapping preserves the kind through fmt.Errorf chains
	wrapped := fmt.Errorf("loading progress: %w", err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(wrapped))
	assert.True(t, apperr.IsKind(wrapped, apperr.KindNotFound))
	assert.False(t, apperr.IsKind(wrapped, apperr.KindConflict))
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, apperr.Wrap(apperr.KindStore, "should vanish", nil))
	assert.NoError(t, apperr.FromStore(nil, "should vanish"))
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("driver: bad connection")
	err := apperr.Wrap(apperr.KindStore, "creating scout", cause)
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "creating scout")
	assert.Contains(t, err.Error(), "driver: bad connection")
}

func TestFromStore(t *testing.T) {
	tests := []struct {
		name string
		code pq.ErrorCode
		want apperr.Kind
	}{
		{"unique violation becomes conflict", "23505", apperr.KindConflict},
		{"foreign key violation becomes invalid reference", "23503", apperr.KindInvalidReference},
		{"check violation becomes invalid reference", "23514", apperr.KindInvalidReference},
		{"anything else stays a store error", "57P01", apperr.KindStore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pqErr := &pq.Error{Code: tt.code}
			err := apperr.FromStore(pqErr, "inserting row")
			assert.Equal(t, tt.want, apperr.KindOf(err))
			assert.True(t, errors.Is(err, pqErr))
		})
	}
}
