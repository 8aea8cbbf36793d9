package store_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/bookreview/bookreview-server/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	err := &store.Error{Code: http.StatusNotFound, Message: "not found"}

	assert.Equal(t, "not found", err.Error())
}

func TestError_ErrorWithCause(t *testing.T) {
	cause := errors.New("underlying error")
	err := store.ErrNotFound.WithCause(cause)

	assert.Contains(t, err.Error(), "resource not found")
	assert.Contains(t, err.Error(), "underlying error")
	assert.ErrorIs(t, err, cause)
}

func TestError_IsMatchesByCode(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"same sentinel", store.ErrNotFound, store.ErrNotFound, true},
		{"with cause", store.ErrNotFound.WithCause(errors.New("no rows")), store.ErrNotFound, true},
		{"wrapped", fmt.Errorf("get book: %w", store.ErrAlreadyExists), store.ErrAlreadyExists, true},
		{"different code", store.ErrNotFound, store.ErrAlreadyExists, false},
		{"plain error", errors.New("boom"), store.ErrNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.target))
		})
	}
}
