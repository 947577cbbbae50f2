package apperr

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindMatching(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		kind     Kind
	}{
		{"conflict", Conflict("session already claimed"), ErrConflict, KindConflict},
		{"forbidden", Forbidden("not your session"), ErrForbidden, KindForbidden},
		{"invalid state", InvalidState("no interval"), ErrInvalidState, KindInvalidState},
		{"not found", NotFound("no such session"), ErrNotFound, KindNotFound},
		{"bad request", BadRequest("tenant unresolved"), ErrBadRequest, KindBadRequest},
		{"gateway", Gateway("groups.invite", io.EOF), ErrGateway, KindGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.sentinel))
			assert.Equal(t, tt.kind, KindOf(tt.err))
		})
	}
}

func TestKindsDoNotCrossMatch(t *testing.T) {
	assert.False(t, errors.Is(Conflict("x"), ErrForbidden))
	assert.False(t, errors.Is(errors.New("plain"), ErrConflict))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(KindGateway, "chat backend unreachable", cause)

	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, ErrGateway))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("claiming enquiry: %w", Conflict("already claimed"))

	require.True(t, errors.Is(err, ErrConflict))
	assert.Equal(t, KindConflict, KindOf(err))
}
